package controller

import (
	"strconv"

	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/service"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/util"

	"github.com/gin-gonic/gin"
)

type TeacherController struct {
	Service *service.TeacherService
}

func NewTeacherController(svc *service.TeacherService) *TeacherController {
	return &TeacherController{Service: svc}
}

// @Summary 学生名册
// @Tags 教师
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} repository.RosterEntry
// @Router /api/teacher/students [get]
func (c *TeacherController) ListStudents(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	roster, err := c.Service.Roster(claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, roster)
}

// @Summary 按邮箱批量添加学生，已在册的静默跳过
// @Tags 教师
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.AddStudentsRequest true "学生邮箱列表"
// @Success 201 {object} service.AddStudentsResult
// @Failure 404 {object} util.ErrorResponse
// @Router /api/teacher/students [post]
func (c *TeacherController) AddStudents(ctx *gin.Context) {
	var req service.AddStudentsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	result, err := c.Service.AddStudents(claims.UserID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

// @Summary 从名册移除学生
// @Tags 教师
// @Security ApiKeyAuth
// @Param studentId path int true "学生ID"
// @Success 204
// @Failure 404 {object} util.ErrorResponse
// @Router /api/teacher/students/{studentId} [delete]
func (c *TeacherController) RemoveStudent(ctx *gin.Context) {
	studentID, err := strconv.Atoi(ctx.Param("studentId"))
	if err != nil {
		util.BadRequest(ctx, "invalid student id")
		return
	}

	claims := util.GetUserFromContext(ctx)
	if err := c.Service.RemoveStudent(claims.UserID, uint(studentID)); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
