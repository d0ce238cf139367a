package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-ini/ini"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type DB struct {
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
	PublicURL  string
}

type Log struct {
	Level  string
	Format string
}

type Config struct {
	ServerPort           int
	DB                   DB
	MinIO                MinIO
	Log                  Log
	JWTSecretKey         string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
	MaxUploadSize        int64
	MaxImageSize         int64
	CommentModeration    bool
	MigrationsPath       string
}

// source resolves a key from the environment first, then from the optional ini file.
type source struct {
	file map[string]string
}

func (s source) lookup(key string) (string, bool) {
	if value, exists := os.LookupEnv(key); exists {
		return value, true
	}
	value, exists := s.file[key]
	return value, exists
}

func (s source) getEnv(key string, defaultValue string) string {
	if value, exists := s.lookup(key); exists {
		return value
	}
	return defaultValue
}

func (s source) getEnvBool(key string, fallback bool) bool {
	if value, ok := s.lookup(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func (s source) getEnvAsInt(key string, defaultValue int) int {
	if value, ok := s.lookup(key); ok && value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (s source) getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, ok := s.lookup(key); ok && value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (s source) getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, ok := s.lookup(key); ok {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Warnf("некорректная длительность %s=%q, используется %s", key, value, defaultValue)
	}
	return defaultValue
}

// loadFile reads every key of every section of an ini file into one flat map.
func loadFile(path string) map[string]string {
	values := make(map[string]string)
	if path == "" {
		return values
	}

	file, err := ini.Load(path)
	if err != nil {
		log.Warnf("не удалось прочитать файл конфигурации %s: %v", path, err)
		return values
	}

	for _, section := range file.Sections() {
		for key, value := range section.KeysHash() {
			values[key] = value
		}
	}
	return values
}

func (s source) loadDB() DB {
	return DB{
		DbHOST:     s.getEnv("DB_HOST", "localhost"),
		DbPORT:     s.getEnv("DB_PORT", "5432"),
		DbUSER:     s.getEnv("DB_USER", "postgres"),
		DbPASSWORD: s.getEnv("DB_PASSWORD", "password"),
		DbNAME:     s.getEnv("DB_NAME", "blogbreeze"),
		DbSSLMODE:  s.getEnv("DB_SSLMODE", "disable"),
	}
}

func (s source) loadMinIO() MinIO {
	return MinIO{
		Endpoint:   s.getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey:  s.getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  s.getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: s.getEnv("MINIO_BUCKET_NAME", "images"),
		UseSSL:     s.getEnvBool("MINIO_USE_SSL", false),
		Region:     s.getEnv("MINIO_REGION", "us-east-1"),
		PublicURL:  s.getEnv("MINIO_PUBLIC_URL", ""),
	}
}

// Load builds the configuration from .env, the environment and an optional ini file.
func Load(envFiles ...string) *Config {
	err := godotenv.Load(envFiles...)
	if err != nil {
		log.Info("файл .env не найден, используются переменные окружения")
	}

	s := source{file: loadFile(os.Getenv("CONFIG_FILE"))}

	return &Config{
		ServerPort: s.getEnvAsInt("SERVER_PORT", 8080),
		DB:         s.loadDB(),
		MinIO:      s.loadMinIO(),
		Log: Log{
			Level:  s.getEnv("LOG_LEVEL", "info"),
			Format: s.getEnv("LOG_FORMAT", "text"),
		},
		JWTSecretKey:         s.getEnv("JWT_SECRET_KEY", ""),
		AccessTokenDuration:  s.getEnvDuration("ACCESS_TOKEN_DURATION", 2*time.Hour),
		RefreshTokenDuration: s.getEnvDuration("REFRESH_TOKEN_DURATION", 168*time.Hour),
		MaxUploadSize:        s.getEnvAsInt64("MAX_UPLOAD_SIZE", 10*1024*1024),
		MaxImageSize:         s.getEnvAsInt64("MAX_IMAGE_SIZE", 5*1024*1024),
		CommentModeration:    s.getEnvBool("COMMENT_MODERATION", false),
		MigrationsPath:       s.getEnv("MIGRATIONS_PATH", "migrations/001_create_tables.sql"),
	}
}

// LoadConfig reads .env from the working directory when present.
func LoadConfig() *Config {
	return Load()
}
