package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yigit/memberdir/internal/app/repositories"
	appServices "github.com/yigit/memberdir/internal/app/services"
	"github.com/yigit/memberdir/internal/bootstrap"
	"github.com/yigit/memberdir/internal/config"
	"github.com/yigit/memberdir/internal/pkg/logger"
	"github.com/yigit/memberdir/internal/seed"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "memberctl",
		Short:         "memberctl - operator tasks for the member directory",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "path to the YAML configuration file")

	rootCmd.AddCommand(migrateCmd(&configPath))
	rootCmd.AddCommand(sweepCmd(&configPath))
	rootCmd.AddCommand(seedCmd(&configPath))

	return rootCmd
}

// withDatabase loads configuration, connects, migrates and hands fn a store.
func withDatabase(ctx context.Context, configPath string, fn func(ctx context.Context, cfg *config.Config, store repositories.Store, lgr zerolog.Logger) error) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}

	database, err := bootstrap.ConnectDatabase(ctx, cfg, lgr)
	if err != nil {
		return err
	}
	defer database.Close()

	return fn(ctx, cfg, repositories.NewRepositories(database), lgr)
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), *configPath,
				func(context.Context, *config.Config, repositories.Store, zerolog.Logger) error {
					fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
					return nil
				})
		},
	}
}

func sweepCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-memberships",
		Short: "Reset every paid membership whose validity has ended",
		Long: `Runs the membership expiry sweep once, outside the API server.

Members whose membership_valid_until lies in the past are set back to Unpaid
and lose their validity date. The API server runs the same sweep on a timer.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), *configPath,
				func(ctx context.Context, _ *config.Config, store repositories.Store, _ zerolog.Logger) error {
					membership := appServices.NewMembershipService(store, nil, logger.Component("membership"))
					n, err := membership.SweepExpired(ctx)
					if err != nil {
						return fmt.Errorf("sweep failed: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Expired memberships reset: %d\n", n)
					return nil
				})
		},
	}
}

func seedCmd(configPath *string) *cobra.Command {
	var admin seed.Admin

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create default categories and, optionally, an admin member",
		Example: `  memberctl seed
  memberctl seed --admin-email ops@example.com --admin-password 'changeme'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (admin.Email == "") != (admin.Password == "") {
				return fmt.Errorf("--admin-email and --admin-password must be given together")
			}
			return withDatabase(cmd.Context(), *configPath,
				func(ctx context.Context, _ *config.Config, store repositories.Store, lgr zerolog.Logger) error {
					if err := seed.CreateDefaultData(ctx, store, lgr); err != nil {
						return err
					}
					if admin.Email == "" {
						return nil
					}
					created, err := seed.CreateAdmin(ctx, store, admin, lgr)
					if err != nil {
						return err
					}
					if created {
						fmt.Fprintf(cmd.OutOrStdout(), "Admin member %s created\n", admin.Email)
					} else {
						fmt.Fprintf(cmd.OutOrStdout(), "Admin member %s already exists\n", admin.Email)
					}
					return nil
				})
		},
	}

	cmd.Flags().StringVar(&admin.Email, "admin-email", "", "email of the admin member to create")
	cmd.Flags().StringVar(&admin.Password, "admin-password", "", "password of the admin member to create")
	cmd.Flags().StringVar(&admin.FirstName, "admin-name", "", "first name of the admin member")

	return cmd
}
