package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	adapterhttp "github.com/suchimauz/working-days-api/internal/adapters/in/http"
	"github.com/suchimauz/working-days-api/internal/adapters/in/rabbitmq"
	"github.com/suchimauz/working-days-api/internal/adapters/out/cache"
	"github.com/suchimauz/working-days-api/internal/adapters/out/capta"
	"github.com/suchimauz/working-days-api/internal/adapters/out/logger"
	"github.com/suchimauz/working-days-api/internal/config"
	"github.com/suchimauz/working-days-api/internal/core/ports/out"
	"github.com/suchimauz/working-days-api/internal/core/services"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	mainLogger, err := logger.NewConsoleLogger(cfg.App.Timezone)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := mainLogger.WithModule("Main")

	log.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"holidaysUrl":     cfg.Holidays.URL,
		"rabbitmqEnabled": cfg.RabbitMQ.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
	})

	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	feedAdapter := capta.NewFeedAdapter(cfg, mainLogger.WithModule("CaptaAdapter"))

	var cacheAdapter out.CachePort
	if cfg.Cache.Enabled {
		adapter, err := cache.NewCacheAdapter(cfg, mainLogger.WithModule("CacheAdapter"))
		if err != nil {
			log.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		cacheAdapter = adapter
	}

	workingDateService, err := services.NewWorkingDateService(
		feedAdapter,
		cacheAdapter,
		cfg,
		mainLogger,
	)
	if err != nil {
		log.Error("app.service.init_failed", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(adapterhttp.RequestLogger(mainLogger))

	controller := adapterhttp.NewWorkingDateController(workingDateService, cfg)
	controller.RegisterRoutes(router)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.RabbitMQ.Enabled {
		listener, err := rabbitmq.NewHolidayCacheListener(
			workingDateService,
			cfg,
			mainLogger.WithModule("RabbitMQListener"),
		)
		if err != nil {
			log.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		if err := listener.Start(ctx); err != nil {
			log.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				log.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	if cfg.Holidays.RefreshCron != "" {
		refresher := cron.New()
		_, err := refresher.AddFunc(cfg.Holidays.RefreshCron, func() {
			if err := workingDateService.RefreshHolidays(ctx); err != nil {
				log.Error("app.holidays.refresh_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		})
		if err != nil {
			log.Error("app.holidays.refresh_cron_invalid", out.LogFields{
				"error": err.Error(),
				"cron":  cfg.Holidays.RefreshCron,
			})
			os.Exit(1)
		}

		refresher.Start()
		defer refresher.Stop()

		log.Info("app.holidays.refresh_scheduled", out.LogFields{
			"cron": cfg.Holidays.RefreshCron,
		})
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			log.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	log.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})
}
