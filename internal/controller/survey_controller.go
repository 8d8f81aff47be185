package controller

import (
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/service"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/util"

	"github.com/gin-gonic/gin"
)

type SurveyController struct {
	Service *service.SurveyService
}

func NewSurveyController(svc *service.SurveyService) *SurveyController {
	return &SurveyController{Service: svc}
}

// @Summary 公开调查列表，新的在前
// @Tags 调查
// @Produce json
// @Success 200 {array} model.Survey
// @Router /api/surveys [get]
func (c *SurveyController) ListPublic(ctx *gin.Context) {
	surveys, err := c.Service.ListPublicSurveys()
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, surveys)
}

// @Summary 推荐调查：最新 5 份公开调查
// @Tags 调查
// @Produce json
// @Success 200 {array} model.Survey
// @Router /api/surveys/recommended [get]
func (c *SurveyController) Recommended(ctx *gin.Context) {
	surveys, err := c.Service.RecommendedSurveys()
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, surveys)
}

// @Summary 单份调查，嵌套问题与选项
// @Tags 调查
// @Produce json
// @Param id path string true "调查ID"
// @Success 200 {object} service.SurveyTree
// @Failure 404 {object} util.ErrorResponse
// @Router /api/surveys/{id} [get]
func (c *SurveyController) GetSurvey(ctx *gin.Context) {
	tree, err := c.Service.GetSurvey(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, tree)
}

// @Summary 教师自己的调查列表
// @Tags 调查
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} service.SurveyTree
// @Router /api/teacher/surveys [get]
func (c *SurveyController) ListOwned(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	surveys, err := c.Service.ListOwnedSurveys(claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, surveys)
}

// @Summary 创建调查（含问题和选项）
// @Tags 调查
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SurveyRequest true "调查内容"
// @Success 201 {object} service.SurveyTree
// @Failure 400 {object} util.ErrorResponse
// @Router /api/surveys [post]
func (c *SurveyController) Create(ctx *gin.Context) {
	var req service.SurveyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	tree, err := c.Service.CreateSurvey(claims.UserID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, tree)
}

// @Summary 整体替换调查（标题、描述、可见性、全部问题）
// @Tags 调查
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "调查ID"
// @Param body body service.SurveyRequest true "调查内容"
// @Success 200 {object} service.SurveyTree
// @Failure 404 {object} util.ErrorResponse
// @Router /api/surveys/{id} [put]
func (c *SurveyController) Update(ctx *gin.Context) {
	var req service.SurveyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	tree, err := c.Service.UpdateSurvey(ctx.Param("id"), claims.UserID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, tree)
}

// @Summary 级联删除调查及其全部问题、选项、回答
// @Tags 调查
// @Security ApiKeyAuth
// @Param id path string true "调查ID"
// @Success 204
// @Failure 404 {object} util.ErrorResponse
// @Router /api/surveys/{id} [delete]
func (c *SurveyController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.Service.DeleteSurvey(ctx.Param("id"), claims.UserID); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
