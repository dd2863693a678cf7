package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/agri-advisor/internal/domain/advisory"
	"github.com/yanqian/agri-advisor/internal/domain/farmer"
	"github.com/yanqian/agri-advisor/internal/domain/fieldscan"
	"github.com/yanqian/agri-advisor/internal/infra/config"
	"github.com/yanqian/agri-advisor/internal/infra/farmerrepo"
	"github.com/yanqian/agri-advisor/internal/infra/llm/chatgpt"
	"github.com/yanqian/agri-advisor/internal/infra/ratelimit"
	"github.com/yanqian/agri-advisor/internal/infra/storage"
	"github.com/yanqian/agri-advisor/pkg/metrics"
)

func provideAdvisoryConfig(cfg *config.Config) advisory.Config {
	return advisory.Config{
		Model:           cfg.LLM.Model,
		MaxTokens:       cfg.LLM.MaxTokens,
		Temperature:     cfg.LLM.Temperature,
		RequestTimeout:  cfg.LLM.RequestTimeout,
		FallbackEnabled: cfg.Advisory.FallbackEnabled,
	}
}

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.RequestTimeout)
}

const tokenizerWarmTimeout = 10 * time.Second

// provideTokenCounter starts loading the tokenizer in the background; estimates are skipped until it is ready.
func provideTokenCounter(cfg *config.Config, logger *slog.Logger) *metrics.TokenCounter {
	counter := metrics.NewTokenCounter(cfg.LLM.Model)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), tokenizerWarmTimeout)
		defer cancel()
		if err := counter.Warm(ctx); err != nil {
			logger.Warn("tokenizer unavailable, token estimates disabled", "model", cfg.LLM.Model, "error", err)
		}
	}()
	return counter
}

func provideFarmerConfig(cfg *config.Config) farmer.Config {
	return farmer.Config{
		Secret:   cfg.Auth.Secret,
		TokenTTL: cfg.Auth.TokenTTL,
	}
}

func provideFieldScanConfig(cfg *config.Config) fieldscan.Config {
	return fieldscan.Config{MaxPhotoBytes: cfg.Storage.MaxPhotoBytes}
}

func provideFarmerRepository(cfg *config.Config, logger *slog.Logger) farmer.Repository {
	fallback := farmerrepo.NewMemoryRepository()
	dsn := strings.TrimSpace(cfg.Farmer.Postgres.DSN)
	if dsn == "" {
		logger.Info("farmer postgres dsn not set, using memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback
	}
	if cfg.Farmer.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Farmer.Postgres.MaxConns
	}
	if cfg.Farmer.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Farmer.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("farmer postgres repository enabled")
	return farmerrepo.NewPostgresRepository(pool)
}

func providePhotoStorage(cfg *config.Config, logger *slog.Logger) fieldscan.ObjectStorage {
	sc := cfg.Storage
	if strings.TrimSpace(sc.Endpoint) == "" {
		logger.Info("storage endpoint not set, keeping field photos in memory")
		return storage.NewMemoryStorage()
	}
	s3, err := storage.NewS3Storage(sc.Endpoint, sc.AccessKey, sc.SecretKey, sc.Bucket, sc.Region, logger)
	if err != nil {
		logger.Error("failed to initialize s3 storage, keeping field photos in memory", "error", err)
		return storage.NewMemoryStorage()
	}
	logger.Info("s3 photo storage enabled", "endpoint", sc.Endpoint, "bucket", sc.Bucket)
	return s3
}

func provideRateLimiter(cfg *config.Config, logger *slog.Logger) ratelimit.Limiter {
	rl := cfg.HTTP.RateLimit
	memory := ratelimit.NewMemoryLimiter(rl.Requests, rl.Window)
	if !rl.Enabled || strings.TrimSpace(rl.ValkeyAddr) == "" {
		return memory
	}
	opt, err := buildValkeyOptions(rl.ValkeyAddr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory limiter", "error", err)
		return memory
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory limiter", "error", err)
		return memory
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory limiter", "error", err)
		client.Close()
		return memory
	}
	logger.Info("valkey rate limiter enabled", "addr", rl.ValkeyAddr)
	return ratelimit.NewValkeyLimiter(client, "agri:ratelimit", rl.Requests, rl.Window)
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
