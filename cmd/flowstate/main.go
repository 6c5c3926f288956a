package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flowstate-app/flowstate/internal/profile"
	"github.com/flowstate-app/flowstate/server"
	"github.com/flowstate-app/flowstate/server/auth"
	"github.com/flowstate-app/flowstate/store"
	"github.com/flowstate-app/flowstate/store/cache"
	"github.com/flowstate-app/flowstate/store/db"
)

var version = "dev"

var (
	rootCmd = &cobra.Command{
		Use:     "flowstate",
		Short:   `FlowState task and time-block scheduling server.`,
		Version: version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context())
		},
	}

	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token signed with the configured JWT secret",
		Long: `Mint a bearer token for local development.

Examples:
  # Token for a personal workspace
  flowstate token --sub user-1

  # Token for a shared workspace, valid for a week
  flowstate token --sub user-1 --workspace team-7 --ttl 168h`,
		RunE: runToken,
	}
)

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("port", 8081)

	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver (sqlite or postgres)")
	rootCmd.PersistentFlags().String("dsn", "", "database source name(aka. DSN)")
	rootCmd.PersistentFlags().String("jwt-secret", "", "HS256 secret used to verify bearer tokens")
	rootCmd.PersistentFlags().String("redis-url", "", "Redis URL for the shared preferences cache")

	for _, name := range []string{"mode", "addr", "port", "data", "driver", "dsn", "jwt-secret", "redis-url"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	tokenCmd.Flags().String("sub", "", "subject (user id) of the token")
	tokenCmd.Flags().String("workspace", "", "workspace id, defaults to the subject")
	tokenCmd.Flags().String("email", "", "email claim")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("sub")

	viper.SetEnvPrefix("flowstate")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(serveCmd, migrateCmd, tokenCmd)
}

func loadProfile() (*profile.Profile, error) {
	instanceProfile := &profile.Profile{
		Mode:      viper.GetString("mode"),
		Addr:      viper.GetString("addr"),
		Port:      viper.GetInt("port"),
		Data:      viper.GetString("data"),
		Driver:    viper.GetString("driver"),
		DSN:       viper.GetString("dsn"),
		JWTSecret: viper.GetString("jwt-secret"),
		RedisURL:  viper.GetString("redis-url"),
		Version:   version,
	}
	instanceProfile.FromEnv()
	if err := instanceProfile.Validate(); err != nil {
		return nil, err
	}
	return instanceProfile, nil
}

// openStore connects the driver and, when configured, the Redis cache tier.
func openStore(ctx context.Context, instanceProfile *profile.Profile) (*store.Store, error) {
	dbDriver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return nil, fmt.Errorf("failed to create db driver: %w", err)
	}

	var l2 cache.RedisCacheInterface
	if instanceProfile.RedisURL != "" {
		config := cache.DefaultRedisConfig()
		config.URL = instanceProfile.RedisURL
		redisCache, err := cache.NewRedisCache(config)
		if err != nil {
			slog.Warn("redis unavailable, preferences cache is process-local", "error", err)
		} else {
			l2 = redisCache
		}
	}

	storeInstance := store.New(dbDriver, instanceProfile, l2)
	if err := storeInstance.Migrate(ctx); err != nil {
		_ = storeInstance.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return storeInstance, nil
}

func runServe(ctx context.Context) error {
	instanceProfile, err := loadProfile()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	storeInstance, err := openStore(ctx, instanceProfile)
	if err != nil {
		return err
	}

	s, err := server.NewServer(ctx, instanceProfile, storeInstance)
	if err != nil {
		_ = storeInstance.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start(ctx)
	}()

	select {
	case err := <-errCh:
		s.Shutdown(context.Background())
		return err
	case <-ctx.Done():
		s.Shutdown(context.Background())
		return nil
	}
}

func runMigrate(ctx context.Context) error {
	instanceProfile, err := loadProfile()
	if err != nil {
		return err
	}
	storeInstance, err := openStore(ctx, instanceProfile)
	if err != nil {
		return err
	}
	slog.Info("schema is up to date", "driver", instanceProfile.Driver)
	return storeInstance.Close()
}

func runToken(cmd *cobra.Command, _ []string) error {
	secret := viper.GetString("jwt-secret")
	if secret == "" {
		return fmt.Errorf("a JWT secret is required (--jwt-secret or FLOWSTATE_JWT_SECRET)")
	}
	subject, _ := cmd.Flags().GetString("sub")
	workspace, _ := cmd.Flags().GetString("workspace")
	email, _ := cmd.Flags().GetString("email")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	token, err := auth.Issue([]byte(secret), subject, auth.Claims{WorkspaceID: workspace, Email: email}, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
