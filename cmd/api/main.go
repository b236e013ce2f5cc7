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
	"online-voting-backend/pkg/utils"
)

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

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	hasher, err := utils.NewPasswordHasher(cfg.Security.PasswordHasher, cfg.Security.BcryptCost)
	if err != nil {
		log.Fatal("password hasher", zap.Error(err))
	}
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	store := repo.NewStore(db)
	reg := router.NewRegistry(
		handler.NewHealthHandler(cfg.App.Name),
		handler.NewAccountHandler(service.NewAccountService(store, hasher, jwter, log), jwter),
		handler.NewBallotHandler(service.NewBallotService(store, log), jwter),
		handler.NewCandidateHandler(service.NewCandidateService(store, log)),
	)
	r := router.NewAPIEngine(log, reg, router.Options{
		MaxBodyBytes: cfg.Limits.MaxBodyBytes,
		MaxInFlight:  cfg.Limits.MaxInFlight,
		AdminGuard:   auth.NewAdminGuard(cfg.Admin.APIKey),
		AdminHeader:  cfg.Admin.Header,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("voting api",
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("metrics", baseURL+"/metrics"),
	)

	if err := server.Run(srv, log, "voting api", 10*time.Second); err != nil {
		log.Fatal("voting api FAILED", zap.Error(err))
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
