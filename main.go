package main

import (
	"context"
	"os"
	"time"

	"github.com/fairwayhq/teesheet/auth"
	"github.com/fairwayhq/teesheet/config"
	"github.com/fairwayhq/teesheet/controller"
	"github.com/fairwayhq/teesheet/mailer"
	"github.com/fairwayhq/teesheet/repository"
	"github.com/fairwayhq/teesheet/service"
	"github.com/flowchartsman/retry"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	mongoClient, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()

	retrier := retry.NewRetrier(5, 100*time.Millisecond, time.Second)
	err = retrier.Run(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return mongoClient.Ping(ctx, readpref.Primary())
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo ping")
	}

	eventRepository := repository.NewEventRepository(mongoClient, cfg.MongoDatabase)
	playerRepository := repository.NewPlayerRepository(mongoClient, cfg.MongoDatabase)
	organizationRepository := repository.NewOrganizationRepository(mongoClient, cfg.MongoDatabase)

	if err := playerRepository.EnsureIndexes(context.Background()); err != nil {
		log.Warn().Err(err).Msg("ensure player indexes")
	}

	var resetMailer service.Mailer = mailer.NopMailer{}
	if cfg.SMTPHost != "" {
		resetMailer = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
			BaseURL:  cfg.BaseURL,
		})
	}

	eventService := service.NewEventService(eventRepository, organizationRepository)
	playerService := service.NewPlayerService(playerRepository, mailer.TokenGenerator{}, resetMailer)
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpireHours)

	eventController := &controller.EventController{EventService: eventService}
	playerController := &controller.PlayerController{PlayerService: playerService}
	authController := &controller.AuthController{PlayerService: playerService, JWTService: jwtService}

	r := gin.Default()

	r.POST("/signup", authController.Signup)
	r.POST("/login", authController.Login)
	r.POST("/password-reset", authController.StartPasswordReset)
	r.POST("/password-reset/confirm", authController.ResetPassword)

	api := r.Group("/api", controller.RequireUser(jwtService, playerService))
	api.GET("/events", eventController.GetUpcomingEvents)
	api.PUT("/events/player", eventController.AddPlayer)
	api.DELETE("/events/player", eventController.RemovePlayer)
	api.PATCH("/events/player/move", eventController.MovePlayer)
	api.GET("/players", playerController.List)
	api.POST("/players", playerController.CreateUnregistered)
	api.DELETE("/players/:id", playerController.Delete)
	api.GET("/me", playerController.CurrentUser)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
