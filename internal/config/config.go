package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort       string `mapstructure:"APP_PORT"`
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL"`

	// --- доступ ---
	AllowedOrigins       string `mapstructure:"ALLOWED_ORIGINS"`        // чтение: список хостов через запятую или "*"
	UploadAllowedOrigins string `mapstructure:"UPLOAD_ALLOWED_ORIGINS"` // загрузка: пусто = проверка выключена
	OriginMatchMode      string `mapstructure:"ORIGIN_MATCH_MODE"`      // host (default) | substring
	MaxFileSize          int64  `mapstructure:"MAX_FILE_SIZE"`          // байты; 0 = без глобального лимита
	AppSecrets           string `mapstructure:"APP_SECRETS"`            // JSON {"app":"secret",...}

	// --- S3 ---
	S3Endpoint  string `mapstructure:"S3_ENDPOINT"`
	S3Region    string `mapstructure:"S3_REGION"`
	S3Bucket    string `mapstructure:"S3_BUCKET"`
	S3AccessKey string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey string `mapstructure:"S3_SECRET_KEY"`
	S3UseSSL    bool   `mapstructure:"S3_USE_SSL"`
	S3PathStyle bool   `mapstructure:"S3_PATH_STYLE"`

	// --- Redis ---
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
}

// String реализует интерфейс Stringer; секреты маскируем
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  AppPort: %s\n", c.AppPort))
	sb.WriteString(fmt.Sprintf("  PublicBaseURL: %s\n", c.PublicBaseURL))
	sb.WriteString(fmt.Sprintf("  AllowedOrigins: %s\n", c.AllowedOrigins))
	sb.WriteString(fmt.Sprintf("  UploadAllowedOrigins: %s\n", c.UploadAllowedOrigins))
	sb.WriteString(fmt.Sprintf("  OriginMatchMode: %s\n", c.OriginMatchMode))
	sb.WriteString(fmt.Sprintf("  MaxFileSize: %d\n", c.MaxFileSize))
	if c.AppSecrets != "" {
		sb.WriteString("  AppSecrets: ********\n")
	} else {
		sb.WriteString("  AppSecrets: (empty)\n")
	}

	sb.WriteString(fmt.Sprintf("  S3Endpoint: %s\n", c.S3Endpoint))
	sb.WriteString(fmt.Sprintf("  S3Region: %s\n", c.S3Region))
	sb.WriteString(fmt.Sprintf("  S3Bucket: %s\n", c.S3Bucket))
	if c.S3AccessKey != "" {
		sb.WriteString("  S3AccessKey: ********\n")
	} else {
		sb.WriteString("  S3AccessKey: (empty)\n")
	}
	if c.S3SecretKey != "" {
		sb.WriteString("  S3SecretKey: ********\n")
	} else {
		sb.WriteString("  S3SecretKey: (empty)\n")
	}
	sb.WriteString(fmt.Sprintf("  S3UseSSL: %v\n", c.S3UseSSL))
	sb.WriteString(fmt.Sprintf("  S3PathStyle: %v\n", c.S3PathStyle))

	sb.WriteString(fmt.Sprintf("  RedisAddr: %s\n", c.RedisAddr))
	sb.WriteString(fmt.Sprintf("  RedisDB: %d\n", c.RedisDB))
	if c.RedisPassword != "" {
		sb.WriteString("  RedisPassword: ********\n")
	} else {
		sb.WriteString("  RedisPassword: (empty)\n")
	}

	return sb.String()
}

// LoadFromEnv загружает конфигурацию из переменных окружения
func LoadFromEnv() (*Config, error) {
	// .env только для локальной разработки
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, errors.New("failed to load .env")
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	keys := []string{
		"APP_PORT", "PUBLIC_BASE_URL",
		"ALLOWED_ORIGINS", "UPLOAD_ALLOWED_ORIGINS", "ORIGIN_MATCH_MODE",
		"MAX_FILE_SIZE", "APP_SECRETS",
		"S3_ENDPOINT", "S3_REGION", "S3_BUCKET", "S3_ACCESS_KEY", "S3_SECRET_KEY",
		"S3_USE_SSL", "S3_PATH_STYLE",
		"REDIS_ADDR", "REDIS_DB", "REDIS_PASSWORD",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("ALLOWED_ORIGINS", "*")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}
