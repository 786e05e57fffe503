package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/speedkillimmortal-svg/yt/internal/domain/entity"
)

type Config struct {
	Keyword        string        `env:"KEYWORD"`
	InputPath      string        `env:"INPUT_PATH"      envDefault:"input.mp4"`
	OutputRoot     string        `env:"OUTPUT_ROOT"     envDefault:"."`
	PreSec         float64       `env:"PRE_SEC"         envDefault:"5"`
	PostSec        float64       `env:"POST_SEC"        envDefault:"5"`
	MergeGapSec    float64       `env:"MERGE_GAP_SEC"   envDefault:"1"`
	SampleInterval float64       `env:"SAMPLE_INTERVAL" envDefault:"1"`
	Region         entity.Region `env:"REGION"          envDefault:"0,0.33,0.25,0.33"`
	PartCount      int           `env:"PART_COUNT"      envDefault:"4"`
	PartWorkers    int           `env:"PART_WORKERS"    envDefault:"1"`
	OCRTimeout     time.Duration `env:"OCR_TIMEOUT"     envDefault:"0"`

	FrameFormat   string `env:"FRAME_FORMAT"   envDefault:"png"`
	TesseractBin  string `env:"TESSERACT_BIN"  envDefault:"tesseract"`
	TesseractLang string `env:"TESSERACT_LANG" envDefault:"eng"`

	MergeClips      bool   `env:"MERGE_CLIPS"      envDefault:"false"`
	VerticalConvert bool   `env:"VERTICAL_CONVERT" envDefault:"false"`
	KeepTemp        bool   `env:"KEEP_TEMP"        envDefault:"false"`
	TempDir         string `env:"TEMP_DIR"         envDefault:"/tmp/yt-clips"`

	MinIOEndpoint  string `env:"MINIO_ENDPOINT"   envDefault:""`
	MinIOAccessKey string `env:"MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	MinIOSecretKey string `env:"MINIO_SECRET_KEY" envDefault:"minioadmin"`
	MinIOUseSSL    bool   `env:"MINIO_USE_SSL"    envDefault:"false"`
	MinIOBucket    string `env:"MINIO_BUCKET"     envDefault:"clips"`

	RabbitMQURL      string `env:"RABBITMQ_URL"      envDefault:""`
	RabbitMQExchange string `env:"RABBITMQ_EXCHANGE" envDefault:"yt.clips"`

	NotifyEmail string `env:"NOTIFY_EMAIL" envDefault:""`
	SMTPHost    string `env:"SMTP_HOST"    envDefault:"localhost"`
	SMTPPort    int    `env:"SMTP_PORT"    envDefault:"25"`
	SMTPFrom    string `env:"SMTP_FROM"    envDefault:"noreply@yt-clips.local"`

	MetricsPort  int    `env:"METRICS_PORT"  envDefault:"0"`
	OTELEndpoint string `env:"OTEL_ENDPOINT" envDefault:""`
	LogLevel     string `env:"LOG_LEVEL"     envDefault:"info"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces the configuration invariants before a run starts.
func (c *Config) Validate() error {
	if c.Keyword == "" {
		return fmt.Errorf("KEYWORD is required")
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("SAMPLE_INTERVAL must be > 0, got %g", c.SampleInterval)
	}
	if c.PreSec < 0 || c.PostSec < 0 || c.MergeGapSec < 0 {
		return fmt.Errorf("PRE_SEC, POST_SEC and MERGE_GAP_SEC must be >= 0")
	}
	if c.PartCount < 1 {
		return fmt.Errorf("PART_COUNT must be >= 1, got %d", c.PartCount)
	}
	if c.PartWorkers < 1 {
		return fmt.Errorf("PART_WORKERS must be >= 1, got %d", c.PartWorkers)
	}
	if err := c.Region.Validate(); err != nil {
		return err
	}
	return nil
}
