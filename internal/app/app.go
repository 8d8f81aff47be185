package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/config"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/controller"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/repository"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/service"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/pkg/database"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/pkg/logger"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/pkg/monitoring"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/pkg/security"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user           *repository.UserRepository
	survey         *repository.SurveyRepository
	response       *repository.ResponseRepository
	teacherStudent *repository.TeacherStudentRepository
}

type services struct {
	auth     *service.AuthService
	survey   *service.SurveyService
	analysis *service.AnalysisService
	response *service.ResponseService
	teacher  *service.TeacherService
}

type controllers struct {
	auth     *controller.AuthController
	survey   *controller.SurveyController
	analysis *controller.AnalysisController
	response *controller.ResponseController
	teacher  *controller.TeacherController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置热更新入口（configwatcher 调用）
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("config reloaded")
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:           repository.NewUserRepository(db),
		survey:         repository.NewSurveyRepository(db, rdb),
		response:       repository.NewResponseRepository(db),
		teacherStudent: repository.NewTeacherStudentRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	return &services{
		auth:     service.NewAuthService(repos.user, cfg),
		survey:   service.NewSurveyService(repos.survey),
		analysis: service.NewAnalysisService(repos.survey, repos.response),
		response: service.NewResponseService(repos.survey, repos.response, repos.teacherStudent),
		teacher:  service.NewTeacherService(repos.teacherStudent, repos.user),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		survey:   controller.NewSurveyController(s.survey),
		analysis: controller.NewAnalysisController(s.analysis),
		response: controller.NewResponseController(s.response),
		teacher:  controller.NewTeacherController(s.teacher),
		health:   controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.Init(cfg.Server.Mode)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Redis 不可用时降级运行，仅丢失推荐列表缓存
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, running without cache", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("umfrage-plattform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅关闭（5 秒超时）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
