package main

import (
	"log"
	"strconv"
	"time"

	"github.com/Vamsee295/telegram-bot/internal/config"
	"github.com/Vamsee295/telegram-bot/internal/database"
	"github.com/Vamsee295/telegram-bot/internal/handlers"
	"github.com/Vamsee295/telegram-bot/internal/scheduler"
	"github.com/Vamsee295/telegram-bot/internal/services"
	"github.com/Vamsee295/telegram-bot/internal/telegram"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	if cfg.BotToken == "" {
		log.Println("BOT_TOKEN environment variable is not set")
		log.Println("Set your bot token: export BOT_TOKEN='your_token_here'")
		log.Fatal("Get a token from https://t.me/Botfather")
	}

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	rosterService := services.NewRosterService(db, services.DefaultSeed)
	deadlineService := services.NewDeadlineService(db)
	scheduleService := services.NewScheduleService(db)

	client := telegram.NewClient(cfg.BotToken)
	sched := scheduler.New(client, scheduleService, rosterService)
	state := telegram.NewStateManager()
	handler := telegram.NewUpdateHandler(client, state, rosterService, deadlineService, scheduleService, sched)

	// Polling and webhooks are mutually exclusive; clear any stale webhook
	// and drop updates that queued up while the bot was down.
	if err := client.DeleteWebhook(true); err != nil {
		log.Printf("could not clear webhook: %v", err)
	} else {
		log.Println("webhook cleared, using polling mode")
	}

	sched.RestorePending()
	defer sched.Stop()

	if cfg.ServerPort != "" {
		statsHandler := handlers.NewStatsHandler(rosterService, deadlineService, scheduleService)

		r := gin.Default()
		r.Use(cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
		}))

		r.GET("/healthz", statsHandler.Health)
		api := r.Group("/api/v1")
		{
			api.GET("/roster", statsHandler.Roster)
			api.GET("/deadlines", statsHandler.Deadlines)
			api.GET("/schedules", statsHandler.Schedules)
		}

		go func() {
			if err := r.Run(":" + cfg.ServerPort); err != nil {
				log.Printf("stats API stopped: %v", err)
			}
		}()
	}

	pollSec, _ := strconv.Atoi(cfg.PollInterval)
	if pollSec <= 0 {
		pollSec = 2
	}

	log.Printf("bot is running, registered members: %d", rosterService.Count())
	log.Printf("database: %s", cfg.DBPath)

	poller := telegram.NewPoller(client, handler, time.Duration(pollSec)*time.Second)
	if err := poller.Run(); err != nil {
		log.Println("=================================================")
		log.Println("CONFLICT: another bot instance is running!")
		log.Println("Stop old deployments or the local bot, then wait")
		log.Println("1-2 minutes before starting this instance again.")
		log.Println("=================================================")
		log.Fatalf("polling stopped: %v", err)
	}
}
