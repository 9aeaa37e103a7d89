package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		HTTP              HTTP
		Log               Log
		PG                PG
		S3                S3
		Auth              Auth
		Upload            Upload
		OutboxRelay       OutboxRelay
		Kafka             Kafka
		ReleaseController ReleaseController
		Swagger           Swagger
	}

	HTTP struct {
		Port           string        `env:"PORT,required"`
		UsePreforkMode bool          `env:"HTTP_USE_PREFORK_MODE" envDefault:"false"`
		ReadTimeout    time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
		WriteTimeout   time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL" envDefault:"info"`
	}

	PG struct {
		PoolMax       int    `env:"PG_POOL_MAX" envDefault:"10"`
		URL           string `env:"DATABASE_URL,required"`
		RunMigrations bool   `env:"PG_RUN_MIGRATIONS" envDefault:"true"`
	}

	S3 struct {
		Endpoint       string        `env:"S3_ENDPOINT"`
		AccessKey      string        `env:"AWS_ACCESS_KEY_ID,required,notEmpty"`
		SecretKey      string        `env:"AWS_SECRET_ACCESS_KEY,required,notEmpty"`
		Region         string        `env:"AWS_REGION" envDefault:"ap-south-1"`
		Bucket         string        `env:"AWS_BUCKET_NAME,required"`
		PublicBaseURL  string        `env:"S3_PUBLIC_BASE_URL"`
		UsePathStyle   bool          `env:"S3_USE_PATH_STYLE" envDefault:"false"`
		PublicRead     bool          `env:"S3_PUBLIC_READ" envDefault:"true"`
		CfgLoadTimeout time.Duration `env:"S3_LOAD_CFG_TIMEOUT" envDefault:"10s"`
	}

	Auth struct {
		TokenSecret string        `env:"ACCESS_TOKEN_SECRET,required,notEmpty"`
		TokenTTL    time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"720h"`
		BcryptCost  int           `env:"BCRYPT_COST" envDefault:"10"`
		CacheTTL    time.Duration `env:"AUTH_CACHE_TTL" envDefault:"10m"`
	}

	Upload struct {
		MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" envDefault:"10485760"`
	}

	Kafka struct {
		Brokers []string `env:"KAFKA_BROKERS,required"`
		GroupID string   `env:"KAFKA_GROUP_ID" envDefault:"localstoreconnect-release"`
		Topic   string   `env:"KAFKA_TOPIC" envDefault:"object-release"`

		ConnAttempts int           `env:"KAFKA_CONN_ATTEMPTS" envDefault:"10"`
		BatchTimeout time.Duration `env:"KAFKA_BATCH_TIMEOUT" envDefault:"50ms"`
		WriteTimeout time.Duration `env:"KAFKA_WRITE_TIMEOUT" envDefault:"10s"`
		FetchMaxWait time.Duration `env:"KAFKA_FETCH_MAX_WAIT" envDefault:"1s"`
	}

	OutboxRelay struct {
		PollInterval        time.Duration `env:"OUTBOX_RELAY_POLL_INTERVAL" envDefault:"2s"`
		MarkFailedInterval  time.Duration `env:"OUTBOX_RELAY_MARK_FAILED_INTERVAL" envDefault:"2m"`
		CleanupInterval     time.Duration `env:"OUTBOX_RELAY_CLEANUP_INTERVAL" envDefault:"24h"`
		ProcessBatchTimeout time.Duration `env:"OUTBOX_RELAY_PROCESS_BATCH_TIMEOUT" envDefault:"15s"`
		ShutdownTimeout     time.Duration `env:"OUTBOX_RELAY_SHUTDOWN_TIMEOUT" envDefault:"5s"`
		BatchSize           int           `env:"OUTBOX_RELAY_BATCH_SIZE" envDefault:"100"`
		MaxRetries          int           `env:"OUTBOX_RELAY_MAX_RETRIES" envDefault:"5"`
	}

	ReleaseController struct {
		CommitTimeout   time.Duration `env:"RELEASE_CONTROLLER_COMMIT_TIMEOUT" envDefault:"2s"`
		DeleteTimeout   time.Duration `env:"RELEASE_CONTROLLER_DELETE_TIMEOUT" envDefault:"10s"`
		ShutdownTimeout time.Duration `env:"RELEASE_CONTROLLER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
		Workers         int           `env:"RELEASE_CONTROLLER_WORKERS" envDefault:"4"`
	}

	Swagger struct {
		Enabled bool `env:"SWAGGER_ENABLED" envDefault:"false"`
	}
)

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}
