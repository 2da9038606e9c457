package main

import (
	"context"
	"crypto/tls"
	mw "cuentas_claras/internal/api/middlewares"
	"cuentas_claras/internal/api/routers"
	"cuentas_claras/internal/cache"
	"cuentas_claras/internal/config"
	"cuentas_claras/internal/events"
	"cuentas_claras/internal/repositories/sqlconnect"
	"cuentas_claras/internal/repositories/store"
	"cuentas_claras/internal/services"
	"cuentas_claras/pkg/cron"
	"cuentas_claras/pkg/utils"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		utils.Logger.Info("No .env file found, using the process environment")
	}

	cfg := config.Load()
	utils.InitLogger(cfg.AppEnv, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		utils.Logger.Fatal(err)
	}

	db, err := sqlconnect.ConnectDb(cfg)
	if err != nil {
		utils.Logger.Fatal("DB connection failed: ", err)
	}
	st := store.New(db, cfg.DBDriver)
	defer st.Close()

	var (
		reportCache cache.ReportCache
		memCache    *cache.MemoryCache
	)
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			utils.Logger.Fatal("Redis connection failed: ", err)
		}
		defer client.Close()
		reportCache = cache.NewRedisCache(client, cfg.CacheTTL)
	} else {
		memCache = cache.NewMemoryCache(cfg.CacheMaxEntries, cfg.CacheTTL)
		reportCache = memCache
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			utils.Logger.Fatal("AMQP connection failed: ", err)
		}
		publisher = p
	}
	defer publisher.Close()

	reports := services.NewReportService(st, reportCache)
	ledger := services.NewLedger(st, reports, publisher)

	jobs := cron.Jobs{ReminderSchedule: cfg.ReminderSchedule, Source: st, MemCache: memCache}
	if cfg.RemindersEnabled() {
		jobs.Sender = utils.NewMailer(utils.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			From:     cfg.SMTPEmail,
			Password: cfg.SMTPPassword,
		})
	}
	scheduler, err := cron.StartCronJob(jobs)
	if err != nil {
		utils.Logger.Fatal(err)
	}

	router := routers.MainRouter(routers.Deps{
		Ledger:  ledger,
		Reports: reports,
		DB:      st,
		Timeout: cfg.RequestTimeout,
	})
	secureMux := mw.ApplyMiddlewares(router, mw.RequestLogger, mw.SecurityHeaders, mw.Cors(cfg.AllowedOrigin))

	server := &http.Server{
		Addr:    cfg.ServerPort,
		Handler: secureMux,
		TLSConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	go func() {
		utils.Logger.Info("Server is running on port ", cfg.ServerPort)
		var err error
		if cfg.CertFile != "" {
			err = server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Logger.Fatal("Error starting the server: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.Logger.Info("Shutting down server...")

	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		utils.Logger.Error("Server forced to shutdown: ", err)
	}
	utils.Logger.Info("Server stopped")
}
