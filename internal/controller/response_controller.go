package controller

import (
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/service"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/util"

	"github.com/gin-gonic/gin"
)

type ResponseController struct {
	Service *service.ResponseService
}

func NewResponseController(svc *service.ResponseService) *ResponseController {
	return &ResponseController{Service: svc}
}

// @Summary 提交一份回答（按调查的 accessType 门禁）
// @Tags 回答
// @Accept json
// @Produce json
// @Param id path string true "调查ID"
// @Param body body service.ResponseRequest true "答案列表"
// @Success 201 {object} model.Response
// @Failure 403 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/surveys/{id}/responses [post]
func (c *ResponseController) Submit(ctx *gin.Context) {
	var req service.ResponseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	response, err := c.Service.Submit(ctx.Param("id"), claims, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, response)
}
