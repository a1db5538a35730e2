package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/memberhub/memberhub/internal/config"
	"github.com/memberhub/memberhub/internal/handlers"
	"github.com/memberhub/memberhub/internal/metrics"
	"github.com/memberhub/memberhub/internal/middleware"
	"github.com/memberhub/memberhub/internal/repository"
	"github.com/memberhub/memberhub/internal/service"
	"github.com/memberhub/memberhub/internal/upstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.WithError(err).Warn("Failed to load .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithField("log_level", cfg.LogLevel).Warn("Unknown log level, keeping info")
	}

	redisClient := initRedis(cfg, logger)
	defer redisClient.Close()

	vault := repository.NewSecretVault()
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go vault.Run(sweepCtx, time.Minute)

	sessions, err := initSessionRepository(cfg, redisClient, vault, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize session storage")
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	credentials := upstream.RequestToken{Fallback: upstream.StaticToken(cfg.Upstream.Token)}
	memberAPI := upstream.NewClient(&cfg.Upstream, credentials, logger)

	// Initialize services
	jwtService, err := service.NewJWTService(&cfg.JWT, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize JWT service")
	}

	otpService := service.NewOTPService(memberAPI, m, logger)
	controller := service.NewSignupController(otpService, memberAPI, &cfg.Signup, m, logger)
	signupService := service.NewSignupService(sessions, controller, cfg.Session.TTL, logger)

	var plansCache *redis.Client
	if cfg.Plans.CacheTTL > 0 {
		plansCache = redisClient
	}
	plansService := service.NewClubPlansService(memberAPI, credentials, plansCache, cfg.Plans.CacheTTL, m, logger)

	router := handlers.NewRouter(handlers.RouterConfig{
		Signup:            handlers.NewSignupHandlers(signupService, logger),
		Plans:             handlers.NewPlansHandlers(plansService, logger),
		Auth:              middleware.NewAuthMiddleware(jwtService, logger),
		Metrics:           promhttp.Handler(),
		CORSAllowedOrigin: cfg.Server.CORSAllowedOrigin,
		Logger:            logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":            cfg.Server.Port,
			"session_backend": cfg.Session.Backend,
			"upstream":        cfg.Upstream.BaseURL,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func initRedis(cfg *config.Config, logger *logrus.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Endpoint,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Redis is not reachable")
	} else {
		logger.Info("Redis client initialized")
	}
	return client
}

// Shared backends only receive redacted sessions; form secrets stay in the vault.
func initSessionRepository(
	cfg *config.Config,
	redisClient *redis.Client,
	vault *repository.SecretVault,
	logger *logrus.Logger,
) (service.SessionRepository, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendDynamoDB:
		dynamoClient, err := initDynamoDB(cfg, logger)
		if err != nil {
			return nil, err
		}
		store := repository.NewDynamoDBSessionRepository(dynamoClient, cfg.DynamoDB.TableName, logger)
		return repository.NewVaultedSessionRepository(store, vault), nil
	case config.SessionBackendMemory:
		logger.Warn("Signup sessions are kept in memory and are lost on restart")
		return repository.NewMemorySessionRepository(), nil
	default:
		store := repository.NewRedisSessionRepository(redisClient, logger)
		return repository.NewVaultedSessionRepository(store, vault), nil
	}
}

func initDynamoDB(cfg *config.Config, logger *logrus.Logger) (*dynamodb.Client, error) {
	var awsCfg aws.Config
	var err error

	if cfg.DynamoDB.Endpoint != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(cfg.DynamoDB.Region),
			awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
				func(service, region string, options ...interface{}) (aws.Endpoint, error) {
					return aws.Endpoint{
						URL:           cfg.DynamoDB.Endpoint,
						SigningRegion: cfg.DynamoDB.Region,
					}, nil
				})),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(cfg.DynamoDB.Region))
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg)
	logger.Info("DynamoDB client initialized")
	return client, nil
}
