package main

import (
	"fmt"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"online-voting-backend/internal/core/auth"
	"online-voting-backend/internal/core/config"
	"online-voting-backend/internal/core/database"
	"online-voting-backend/internal/core/logger"
	"online-voting-backend/internal/core/server"
	"online-voting-backend/internal/repo"
	"online-voting-backend/internal/service"
	"online-voting-backend/internal/transport/http/handler"
	"online-voting-backend/internal/transport/http/router"
)

// 管理端单独监听内网端口，只挂 /admin 与 /health
func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
	}

	store := repo.NewStore(db)
	reg := router.NewRegistry(handler.NewCandidateHandler(service.NewCandidateService(store, log)))
	r := router.NewAdminEngine(log, reg, router.Options{
		MaxBodyBytes: cfg.Limits.MaxBodyBytes,
		MaxInFlight:  cfg.Limits.MaxInFlight,
		AdminGuard:   auth.NewAdminGuard(cfg.Admin.APIKey),
		AdminHeader:  cfg.Admin.Header,
	})

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)
	if err := server.Run(srv, log, "admin api", 10*time.Second); err != nil {
		log.Fatal("admin api FAILED", zap.Error(err))
	}
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	w, err := logger.ToStdLogger(l.Named("gorm"), zapcore.WarnLevel)
	if err != nil {
		l.Fatal("gorm logger", zap.Error(err))
	}
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		PrepareStmt:        cfg.DB.PrepareStmt,
		Writer:             w,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
