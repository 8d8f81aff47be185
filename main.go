package main

import (
	"flag"
	"log"

	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/app"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/internal/config"
	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/pkg/configwatcher"
)

// @title 互动调查平台 API
// @version 1.0
// @description 面向教师与学生的在线调查系统，支持调查管理、回答收集与结果统计
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	migrateOnly := flag.Bool("migrate-only", false, "仅执行数据库迁移后退出")
	forceMigrate := flag.Bool("migrate", false, "release 模式下也强制执行迁移")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.MigrateOnly = *migrateOnly
	cfg.ForceMigrate = *forceMigrate

	application := app.NewApp(cfg)

	if cfg.MigrateOnly {
		log.Println("Migration completed, exiting")
		return
	}

	go configwatcher.WatchConfig("configs/config.yaml", application.ReloadConfig)

	application.Run()
}
