package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/oklog/run"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/adapters/ai/gemini"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/adapters/repository/postgres"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/company"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/event"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/interview"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/matching"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/profile"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/research"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/selection"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/task"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/user"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/config"
	pg "github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/db/postgres"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/logger"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/server"
)

const defaultConfigPath = "assets/local.yaml"

var rootCmd = &cobra.Command{
	Use:           "server",
	Short:         "Run the recruit tracker gRPC server",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServer(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", defaultConfigPath, "path to the YAML config file (env CONFIG_PATH)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindEnv("config", "CONFIG_PATH")
	_ = viper.BindEnv("debug", "LOG_DEBUG")
	_ = viper.BindEnv("json", "LOG_JSON")
}

func main() {
	// .env は任意。存在しない場合は環境変数だけで動作します。
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func runServer(ctx context.Context) error {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(viper.GetBool("json") || cfg.Log.JSON, viper.GetBool("debug") || cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	dbPool, err := pg.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("initialize database pool: %w", err)
	}
	defer dbPool.Close()

	services, err := buildServices(ctx, cfg, dbPool, log)
	if err != nil {
		return err
	}
	grpcServer := server.New(cfg.Server, services, log)

	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer signalCancel()

		g.Add(
			func() error {
				<-signalCtx.Done()
				log.Info("termination signal received")
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// gRPC server.
	{
		serveCtx, serveCancel := context.WithCancel(ctx)
		defer serveCancel()

		g.Add(
			func() error {
				return grpcServer.Run(serveCtx)
			},
			func(_ error) {
				serveCancel()
			},
		)
	}

	if err := g.Run(); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func buildServices(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, log *zap.Logger) (server.Services, error) {
	tx := pg.NewTransactionManager(pool)
	owners := postgres.NewOwnershipRepository(pool)

	companySvc := company.NewService(postgres.NewCompanyRepository(pool), nil, tx)
	researchSvc := research.NewService(postgres.NewResearchRepository(pool), owners, nil, tx)
	profileSvc := profile.NewService(postgres.NewProfileRepository(pool), nil)

	var generator matching.Generator
	if cfg.AI.Enabled {
		apiKey, err := cfg.AI.Gemini.ResolveAPIKey()
		if err != nil {
			return server.Services{}, err
		}
		g, err := gemini.NewGenerator(ctx, apiKey, cfg.AI.Gemini.Model, log.Named("gemini"))
		if err != nil {
			return server.Services{}, fmt.Errorf("initialize gemini: %w", err)
		}
		generator = g
	} else {
		log.Info("ai matching is disabled")
	}

	return server.Services{
		Users:     user.NewService(postgres.NewUserRepository(pool), nil),
		Companies: companySvc,
		Selection: selection.NewService(
			postgres.NewSelectionStepRepository(pool),
			postgres.NewSelectionCompanyStore(pool),
			selection.WithTransactionManager(tx),
			selection.WithLogger(log.Named("selection")),
		),
		Tasks:      task.NewService(postgres.NewTaskRepository(pool), owners, nil, tx),
		Events:     event.NewService(postgres.NewEventRepository(pool), owners, nil, tx),
		Interviews: interview.NewService(postgres.NewInterviewNoteRepository(pool), owners, nil, tx),
		Research:   researchSvc,
		Profiles:   profileSvc,
		Matching: matching.NewService(profileSvc, companySvc, researchSvc, generator,
			matching.WithMinimumScore(cfg.AI.MinimumFitScore),
			matching.WithMaxLogLength(cfg.AI.Gemini.MaxLogLength),
			matching.WithLogger(log.Named("matching")),
		),
	}, nil
}
