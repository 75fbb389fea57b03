package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultDriveFolderID is used when DRIVE_FOLDER_ID is not configured.
const DefaultDriveFolderID = "1ZlVeuiyT5jk8E8peOwO06pAJT_qelnWZ"

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	CORS     CORSConfig
	Log      LogConfig
	Uploads  UploadsConfig
	Drive    DriveConfig
	Seed     SeedConfig
}

type DatabaseConfig struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	Path         string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig governs caching of the standards overview.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// UploadsConfig controls the local evidence directory.
type UploadsConfig struct {
	Dir            string
	MaxUploadBytes int64
}

// DriveConfig holds the service account used for remote evidence storage.
type DriveConfig struct {
	ClientEmail    string
	PrivateKey     string
	FolderID       string
	ShareWithEmail string
	MakePublic     bool
}

// Configured reports whether both service account credentials are present.
func (d DriveConfig) Configured() bool {
	return strings.TrimSpace(d.ClientEmail) != "" && strings.TrimSpace(d.PrivateKey) != ""
}

// SeedConfig configures the dataset importer and its background queue.
type SeedConfig struct {
	DatasetPath string
	Workers     int
	Retries     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		Path:         v.GetString("DB_PATH"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("CORS_ORIGIN"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	maxUpload := v.GetInt64("MAX_UPLOAD_SIZE")
	if maxUpload <= 0 {
		maxUpload = 10 * 1024 * 1024
	}
	cfg.Uploads = UploadsConfig{
		Dir:            v.GetString("UPLOADS_DIR"),
		MaxUploadBytes: maxUpload,
	}

	cfg.Drive = DriveConfig{
		ClientEmail:    strings.TrimSpace(v.GetString("GOOGLE_CLIENT_EMAIL")),
		PrivateKey:     normalizePrivateKey(v.GetString("GOOGLE_PRIVATE_KEY")),
		FolderID:       v.GetString("DRIVE_FOLDER_ID"),
		ShareWithEmail: strings.TrimSpace(v.GetString("DRIVE_SHARE_WITH_EMAIL")),
		MakePublic:     v.GetBool("DRIVE_MAKE_PUBLIC"),
	}
	if strings.TrimSpace(cfg.Drive.FolderID) == "" {
		cfg.Drive.FolderID = DefaultDriveFolderID
	}

	cfg.Seed = SeedConfig{
		DatasetPath: v.GetString("SEED_DATASET_PATH"),
		Workers:     v.GetInt("SEED_WORKERS"),
		Retries:     v.GetInt("SEED_RETRIES"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 3000)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "school_eval")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_PATH", "./school_eval.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "5m")

	v.SetDefault("CORS_ORIGIN", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("UPLOADS_DIR", "./uploads")
	v.SetDefault("MAX_UPLOAD_SIZE", 10*1024*1024)

	v.SetDefault("GOOGLE_CLIENT_EMAIL", "")
	v.SetDefault("GOOGLE_PRIVATE_KEY", "")
	v.SetDefault("DRIVE_FOLDER_ID", DefaultDriveFolderID)
	v.SetDefault("DRIVE_SHARE_WITH_EMAIL", "")
	v.SetDefault("DRIVE_MAKE_PUBLIC", false)

	v.SetDefault("SEED_DATASET_PATH", "./school_standards_indicators.json")
	v.SetDefault("SEED_WORKERS", 1)
	v.SetDefault("SEED_RETRIES", 1)
}

// normalizePrivateKey turns escaped newlines from single-line env values into real ones.
func normalizePrivateKey(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), `\n`, "\n")
}

// viper reports an explicit SetConfigFile that does not exist as a plain path error.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
