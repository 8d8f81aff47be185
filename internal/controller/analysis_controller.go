package controller

import (
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/service"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalysisController struct {
	Service *service.AnalysisService
}

func NewAnalysisController(svc *service.AnalysisService) *AnalysisController {
	return &AnalysisController{Service: svc}
}

// @Summary 调查结果聚合：逐题回答列表与选项分布
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "调查ID"
// @Success 200 {object} service.SurveyAnalysis
// @Failure 404 {object} util.ErrorResponse
// @Router /api/surveys/{id}/analysis [get]
func (c *AnalysisController) GetAnalysis(ctx *gin.Context) {
	analysis, err := c.Service.Aggregate(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, analysis)
}
