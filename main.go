package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"telegram-coach-bot/internal/config"
	"telegram-coach-bot/internal/handlers"
	"telegram-coach-bot/internal/logging"
	"telegram-coach-bot/internal/scheduler"
	"telegram-coach-bot/internal/storage"
	"telegram-coach-bot/internal/wizard"
)

var (
	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "coachbot",
	Short:         "Telegram coaching assistant: daily reports, plans and reminders",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		logger, err = logging.New(cfg.LogLevel, cfg.LogDev)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Poll telegram updates and run the broadcast scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := storage.New(cfg.DBPath, logger)
		if err != nil {
			return err
		}
		logger.Info("schema up to date", zap.String("db", cfg.DBPath))
		return db.Close()
	},
}

func serve(ctx context.Context) error {
	if cfg.TelegramToken == "" {
		return config.ErrNoToken
	}
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("telegram login: %w", err)
	}

	db, err := storage.New(cfg.DBPath, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	clock := clockwork.NewRealClock()
	loc := cfg.Location()
	engine := wizard.New(db, clock, loc, logger)
	h := handlers.NewHandler(bot, db, engine, handlers.Options{
		Clock:       clock,
		Location:    loc,
		SuperAdmins: cfg.SuperAdmins,
		Log:         logger,
	})
	dispatcher := scheduler.NewDispatcher(db, h, clock, loc, cfg.MorningAt, logger)

	s, err := scheduler.Start(ctx, dispatcher, scheduler.Options{
		Interval: cfg.TickInterval,
		Clock:    clock,
		Location: loc,
		Pruner:   db,
	})
	if err != nil {
		return err
	}
	defer func() { _ = s.Shutdown() }()

	logger.Info("bot started", zap.String("account", bot.Self.UserName), zap.String("tz", cfg.TimeZone))

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := bot.GetUpdatesChan(updateConfig)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		bot.StopReceivingUpdates()
		return nil
	})
	g.Go(func() error {
		// апдейты по одному: сообщения пользователя идут по порядку
		for {
			select {
			case <-gctx.Done():
				return nil
			case upd, ok := <-updates:
				if !ok {
					return nil
				}
				h.HandleUpdate(gctx, upd)
			}
		}
	})
	return g.Wait()
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
