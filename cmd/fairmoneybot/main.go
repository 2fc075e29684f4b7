package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	log "github.com/sirupsen/logrus"

	"fairmoney-bot/internal/bot"
	"fairmoney-bot/internal/config"
	"fairmoney-bot/internal/repository"
	"fairmoney-bot/internal/server"
	"fairmoney-bot/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	rewardsSvc := service.NewRewardsService(userRepo, withdrawalRepo, &cfg)
	reviewSvc := service.NewReviewService(userRepo, withdrawalRepo)
	statsSvc := service.NewStatsService(userRepo, withdrawalRepo, &cfg)
	authSvc := service.NewAuthService(adminRepo, sessionRepo, cfg.SessionTTL)

	if err := authSvc.SeedAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	telegramBot, err := bot.New(cfg.TelegramToken, userRepo, rewardsSvc, &cfg)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleInterval(cfg.SessionPurgeInterval, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		purged, err := authSvc.PurgeExpired(jobCtx, time.Now())
		if err != nil {
			log.WithError(err).Error("purge sessions")
			return
		}
		if purged > 0 {
			log.WithField("count", purged).Info("expired sessions purged")
		}
	}); err != nil {
		log.Fatalf("schedule session purge: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	api := server.New(cfg.HTTPAddr, authSvc, statsSvc, reviewSvc, rewardsSvc, userRepo, withdrawalRepo)
	api.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := api.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("shutdown admin API")
		}
	}()

	log.Info("Fairmoney bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Info("Shutdown complete.")
}
