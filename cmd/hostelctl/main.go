// Command hostelctl runs operational tasks against the hostel database.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	appRepos "github.com/yigit/hostelhub/internal/app/repositories"
	appServices "github.com/yigit/hostelhub/internal/app/services"
	"github.com/yigit/hostelhub/internal/bootstrap"
	"github.com/yigit/hostelhub/internal/config"
	"github.com/yigit/hostelhub/internal/db"
	"github.com/yigit/hostelhub/internal/seed"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// session is the config, logger and store shared by every subcommand
type session struct {
	cfg      *config.Config
	logger   zerolog.Logger
	repos    *appRepos.Repositories
	database *db.PostgresDB
}

func (s *session) close() {
	if s.database != nil {
		s.database.Close()
	}
}

func openSession(ctx context.Context, configPath string, migrate bool) (*session, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return nil, fmt.Errorf("hostelctl needs the postgres driver, config has %q", cfg.Database.Driver)
	}
	// Commands decide for themselves whether to migrate
	cfg.Database.AutoMigrate = migrate

	repos, database, err := bootstrap.SetupStore(ctx, cfg, lgr)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logger: lgr, repos: repos, database: database}, nil
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "hostelctl",
		Short:         "Operational tasks for the hostel backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", bootstrap.DefaultConfigPath, "path to the YAML config file")

	root.AddCommand(
		newMigrateCmd(&configPath),
		newCreateAdminCmd(&configPath),
		newSeedCmd(&configPath),
	)
	return root
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), *configPath, true)
			if err != nil {
				return err
			}
			defer s.close()
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newCreateAdminCmd(configPath *string) *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), *configPath, false)
			if err != nil {
				return err
			}
			defer s.close()

			admin, err := appServices.NewAdminService(s.repos, s.logger).CreateAdmin(cmd.Context(), username, email, password)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (id %d)\n", admin.Username, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "admin username")
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (at least 6 characters)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the configured default admin and the sample rooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), *configPath, true)
			if err != nil {
				return err
			}
			defer s.close()

			account := seed.AdminAccount{
				Username: s.cfg.Admin.Username,
				Email:    s.cfg.Admin.Email,
				Password: s.cfg.Admin.Password,
			}
			created, err := seed.EnsureDefaultAdmin(cmd.Context(), s.repos, appServices.NewAdminService(s.repos, s.logger), account, s.logger)
			if err != nil {
				return err
			}
			rooms, err := seed.CreateSampleRooms(cmd.Context(), s.repos, s.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "default admin created: %v, sample rooms created: %d\n", created, rooms)
			return nil
		},
	}
}
