package app

import (
	"strings"

	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/docs"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/config"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/middleware"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/model"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/util"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// API 前缀下的未知路径统一 404 ENDPOINT_NOT_FOUND
	router.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api") {
			util.EndpointNotFound(ctx)
			return
		}
		ctx.Status(404)
	})

	// 1. 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		public.GET("/surveys", c.survey.ListPublic)
		public.GET("/surveys/recommended", c.survey.Recommended)
		public.GET("/surveys/:id", middleware.TryAuthMiddleware(cfg), c.survey.GetSurvey)

		// 提交回答：是否放行由调查的 accessType 决定，身份可选
		public.POST("/surveys/:id/responses", middleware.TryAuthMiddleware(cfg), c.response.Submit)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.GET("/surveys/:id/analysis", c.analysis.GetAnalysis)

		// 教师专属
		teacherOnly := authGroup.Group("")
		teacherOnly.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacherOnly.POST("/surveys", c.survey.Create)
			teacherOnly.PUT("/surveys/:id", c.survey.Update)
			teacherOnly.DELETE("/surveys/:id", c.survey.Delete)

			teacherOnly.GET("/teacher/surveys", c.survey.ListOwned)
			teacherOnly.GET("/teacher/students", c.teacher.ListStudents)
			teacherOnly.POST("/teacher/students", c.teacher.AddStudents)
			teacherOnly.DELETE("/teacher/students/:studentId", c.teacher.RemoveStudent)
		}
	}
}
