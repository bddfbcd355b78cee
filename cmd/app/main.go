package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oluseyi-dev/chapterpress/internal/blogservice"
	"github.com/oluseyi-dev/chapterpress/internal/common"
	"github.com/oluseyi-dev/chapterpress/internal/mailservice"
	"github.com/oluseyi-dev/chapterpress/internal/userservice"
)

type application struct {
	config      *Config
	logger      *slog.Logger
	userService *userservice.UserService
	blogService *blogservice.BlogService
	mailService *mailservice.MailService
	metrics     *common.Metrics
	gatherer    prometheus.Gatherer
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("could not load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, 25, 25, 15*time.Minute)
	if err != nil {
		logger.Error("could not connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	mb, err := common.NewMessageBroker(fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.MQUser, cfg.MQPassword, cfg.MQHost, cfg.MQPort))
	if err != nil {
		logger.Error("could not connect to message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer mb.Close()

	if err := common.SetupUserExchange(mb); err != nil {
		logger.Error("could not set up user exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	metrics := common.NewMetrics(registry)

	cache := common.NewCache(common.DefaultCacheExpiration, common.DefaultCacheCleanup)
	tokens := userservice.NewTokenManager(cfg.JWTSecret)

	app := &application{
		config:      cfg,
		logger:      logger,
		userService: userservice.NewUserService(db, mb, tokens),
		blogService: blogservice.NewBlogService(db, cache, metrics),
		mailService: mailservice.NewMailService(mb, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.MailPort, logger),
		metrics:     metrics,
		gatherer:    registry,
	}

	app.mailService.SendWelcomeEmail()

	if err := app.serve(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
