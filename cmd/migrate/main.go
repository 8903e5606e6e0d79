package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/config"
)

const (
	promptYes = "Yes"
	promptNo  = "No"
)

var errAborted = errors.New("aborted by user")

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Apply or inspect database schema migrations",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "assets/local.yaml", "path to config file (env CONFIG_PATH)")
	rootCmd.PersistentFlags().String("dir", "assets/migrations", "directory containing migration files")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("dir", rootCmd.PersistentFlags().Lookup("dir"))
	_ = viper.BindEnv("config", "CONFIG_PATH")

	dropCmd := newActionCommand("drop", "Drop every table in the database", dropAll)
	dropCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	_ = viper.BindPFlag("yes", dropCmd.Flags().Lookup("yes"))

	rootCmd.AddCommand(
		newActionCommand("up", "Apply all pending migrations", func(m *migrate.Migrate) error {
			return ignoreNoChange(m.Up())
		}),
		newActionCommand("down", "Roll back all migrations", func(m *migrate.Migrate) error {
			return ignoreNoChange(m.Down())
		}),
		dropCmd,
		newActionCommand("version", "Print the current migration version", printVersion),
	)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func newActionCommand(name, short string, action func(*migrate.Migrate) error) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(viper.GetString("config"))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			m, err := newMigrate(viper.GetString("dir"), cfg.Database.DSN())
			if err != nil {
				return err
			}
			defer m.Close()

			if err := action(m); err != nil {
				return fmt.Errorf("migration %s failed: %w", name, err)
			}
			log.Printf("migration %s completed", name)
			return nil
		},
	}
}

func newMigrate(dir, dsn string) (*migrate.Migrate, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve path for %s: %w", dir, err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(absDir), dsn)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func dropAll(m *migrate.Migrate) error {
	if !viper.GetBool("yes") {
		prompt := promptui.Select{
			Label: "Drop every table, including all recorded companies and steps?",
			Items: []string{promptNo, promptYes},
		}
		_, answer, err := prompt.Run()
		if err != nil {
			return err
		}
		if answer != promptYes {
			return errAborted
		}
	}
	return m.Drop()
}

func printVersion(m *migrate.Migrate) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Printf("no migration applied")
		return nil
	}
	if err != nil {
		return err
	}
	log.Printf("version=%d dirty=%t", version, dirty)
	return nil
}
