package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server    ServerConfig
	Dialogue  DialogueConfig
	Store     StoreConfig
	Database  DatabaseConfig
	RateLimit RateLimitConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	dialogue, err := loadDialogueConfig()
	if err != nil {
		return nil, err
	}

	store, err := loadStoreConfig()
	if err != nil {
		return nil, err
	}

	rate, err := loadRateLimitConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		Dialogue:  dialogue,
		Store:     store,
		Database:  loadDatabaseConfig(),
		RateLimit: rate,
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// DialogueConfig 控制接待员的回复节奏与诊所资料。
type DialogueConfig struct {
	ReplyDelay    time.Duration
	VoiceTimeout  time.Duration
	ClinicProfile string
}

func loadDialogueConfig() (DialogueConfig, error) {
	delay, err := parseDurationEnv("REPLY_DELAY", 800*time.Millisecond)
	if err != nil {
		return DialogueConfig{}, err
	}
	if delay < 0 {
		return DialogueConfig{}, fmt.Errorf("invalid REPLY_DELAY value %q: must not be negative", delay)
	}

	voice, err := parseDurationEnv("VOICE_TIMEOUT", 2*time.Second)
	if err != nil {
		return DialogueConfig{}, err
	}

	return DialogueConfig{
		ReplyDelay:    delay,
		VoiceTimeout:  voice,
		ClinicProfile: strings.TrimSpace(os.Getenv("CLINIC_PROFILE")),
	}, nil
}

// StoreConfig 选择会话的存储位置。
type StoreConfig struct {
	Kind          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration
}

func loadStoreConfig() (StoreConfig, error) {
	kind := strings.ToLower(getEnvOrDefault("STORE", "memory"))
	if kind != "memory" && kind != "redis" {
		return StoreConfig{}, fmt.Errorf("invalid STORE value %q: want memory or redis", kind)
	}

	db := 0
	if override, err := parseOptionalIntEnv("REDIS_DB"); err != nil {
		return StoreConfig{}, err
	} else if override != nil {
		db = *override
	}

	ttl, err := parseDurationEnv("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return StoreConfig{}, err
	}

	return StoreConfig{
		Kind:          kind,
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		RedisDB:       db,
		SessionTTL:    ttl,
	}, nil
}

// DatabaseConfig 描述预约簿数据库。
type DatabaseConfig struct {
	Type string
	DSN  string
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Type: strings.ToLower(getEnvOrDefault("DB_TYPE", "sqlite")),
		DSN:  strings.TrimSpace(os.Getenv("DB_DSN")),
	}
}

// RateLimitConfig 限制每个客户端IP的请求速率。
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Enabled 判断是否启用限流。
func (c RateLimitConfig) Enabled() bool {
	return c.RequestsPerSecond > 0 && c.Burst > 0
}

func loadRateLimitConfig() (RateLimitConfig, error) {
	rps := 5.0
	if override, err := parseOptionalFloatEnv("RATE_LIMIT"); err != nil {
		return RateLimitConfig{}, err
	} else if override != nil {
		rps = *override
	}

	burst := 10
	if override, err := parseOptionalIntEnv("RATE_BURST"); err != nil {
		return RateLimitConfig{}, err
	} else if override != nil {
		burst = *override
	}

	return RateLimitConfig{RequestsPerSecond: rps, Burst: burst}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
