// Command api runs the healthcare records API.
//
// @title                       Healthcare Records API
// @version                     1.0
// @description                 Accounts, patient and doctor profiles, consultations and medical records behind JWT auth.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carehub/healthcare-api/internal/api"
	"github.com/carehub/healthcare-api/internal/core/domain"
	"github.com/carehub/healthcare-api/internal/core/ports"
	"github.com/carehub/healthcare-api/internal/core/service"
	mongostore "github.com/carehub/healthcare-api/internal/infrastructure/db/mongo"
	redisstore "github.com/carehub/healthcare-api/internal/infrastructure/db/redis"
	"github.com/carehub/healthcare-api/internal/pkg/config"
	"github.com/carehub/healthcare-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:           "healthcare-api",
		Short:         "Healthcare records API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(ensureIndexesCmd())
	rootCmd.AddCommand(createAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func ensureIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create the MongoDB indexes the service relies on",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			client, db, err := connectMongo(ctx, cfg)
			if err != nil {
				return err
			}
			defer disconnectMongo(client, log)

			if err := mongostore.EnsureIndexes(ctx, db); err != nil {
				return err
			}
			log.Info().Str("database", cfg.Mongo.Database).Msg("indexes ensured")
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			// bcrypt rejects input over 72 bytes.
			if len(password) < 6 || len(password) > 72 {
				return errors.New("password must be 6 to 72 bytes")
			}

			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			client, db, err := connectMongo(ctx, cfg)
			if err != nil {
				return err
			}
			defer disconnectMongo(client, log)

			auth := service.NewAuthService(service.AuthDependencies{
				Accounts: mongostore.NewAccountRepository(db),
				Patients: mongostore.NewPatientRepository(db),
				Doctors:  mongostore.NewDoctorRepository(db),
				Hasher:   service.NewBcryptHasher(cfg.Auth.PasswordHashCost),
				Logger:   log,
			})

			account, err := auth.Register(ctx, ports.RegisterInput{
				Email:    email,
				Password: password,
				FullName: name,
				Role:     domain.RoleAdmin,
			})
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (id %s)\n", account.Email, account.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Admin email")
	cmd.Flags().StringVar(&password, "password", "", "Admin password")
	cmd.Flags().StringVar(&name, "name", "Administrator", "Admin full name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func runServer() error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	ctx := context.Background()

	// Database
	client, db, err := connectMongo(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	defer disconnectMongo(client, log)
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	// Token denylist
	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer closeRedis(rdb, log)
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	e, err := api.NewRouter(cfg, db, rdb, log)
	if err != nil {
		return err
	}

	// Graceful shutdown
	serveErr := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("server: %w", err)
	case <-quit:
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

// bootstrap loads configuration and initialises the process logger.
func bootstrap() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "healthcare-api",
		Env:     cfg.Env,
	})
	return cfg, log, nil
}

func connectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	return mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
}

func disconnectMongo(client *mongo.Client, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("mongodb disconnect failed")
	}
}

func closeRedis(rdb *redis.Client, log zerolog.Logger) {
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close failed")
	}
}
