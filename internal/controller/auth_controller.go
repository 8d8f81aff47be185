package controller

import (
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/service"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Service *service.AuthService
}

func NewAuthController(svc *service.AuthService) *AuthController {
	return &AuthController{Service: svc}
}

// @Summary 注册用户（教师或学生）
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body service.RegisterRequest true "用户信息"
// @Success 201 {object} model.User
// @Failure 400 {object} util.ErrorResponse
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.Service.Register(req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, user)
}

// @Summary 登录，签发 Bearer 令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body service.LoginRequest true "登录凭证"
// @Success 200 {object} service.LoginResult
// @Failure 401 {object} util.ErrorResponse
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.Login(req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 当前用户信息
// @Tags 认证
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} model.User
// @Router /api/profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "MISSING_TOKEN", "authorization token required")
		return
	}

	user, err := c.Service.Profile(claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, user)
}
