package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"StockPulse/internal/notifier"
	"StockPulse/internal/scheduler"
	"StockPulse/internal/server"
)

func serveCmd() *cobra.Command {
	var runOnStart bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the watchlist scheduler and the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log.Info("StockPulse starting...")

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			svc := newService(cfg, reg)
			defer svc.Recorder.Close()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			var sn scheduler.Notifier
			var tn *notifier.TelegramNotifier
			if cfg.TelegramEnabled() {
				tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
				sn = tn
			} else {
				log.Warn("telegram not configured, notifications disabled")
			}

			holidays, err := cfg.HolidayDates()
			if err != nil {
				return err
			}
			sched := scheduler.NewScheduler(ctx, svc, sn, cfg.Watchlist, cfg.DataSource.Period, cfg.Schedule.SkipHolidays)
			sched.Holidays = holidays
			if err := sched.Register(cfg.Schedule.AnalysisCron); err != nil {
				return err
			}
			sched.Start()
			// runs before the recorder is closed
			defer sched.Stop()

			polling := make(chan struct{})
			if tn != nil {
				go func() {
					defer close(polling)
					tn.StartPolling(ctx, sched.HandleCommand)
				}()
				log.Info("telegram polling started")
			} else {
				close(polling)
			}

			if runOnStart {
				log.Info("run-on-start enabled, analysing watchlist now")
				sched.RunNow()
			}

			srv := server.New(svc, reg, cfg.LogLevel == "debug")
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start(cfg.Server.Addr) }()

			log.Info("StockPulse is running. Press Ctrl+C to stop.")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-sigCh:
				log.Info("shutdown signal received, stopping...")
			case err := <-errCh:
				if err != nil {
					log.Errorf("http server: %v", err)
				}
			}
			cancel()
			<-polling

			shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
			defer done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Errorf("http shutdown: %v", err)
			}
			log.Info("StockPulse stopped")
			return nil
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", os.Getenv("RUN_ON_START") == "true", "Analyse the watchlist once at startup")
	return cmd
}
