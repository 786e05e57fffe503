package config

import (
	"testing"
	"time"

	"github.com/speedkillimmortal-svg/yt/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("KEYWORD", "immortal")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "immortal", cfg.Keyword)
	assert.Equal(t, "input.mp4", cfg.InputPath)
	assert.Equal(t, 5.0, cfg.PreSec)
	assert.Equal(t, 5.0, cfg.PostSec)
	assert.Equal(t, 1.0, cfg.MergeGapSec)
	assert.Equal(t, 1.0, cfg.SampleInterval)
	assert.Equal(t, 4, cfg.PartCount)
	assert.Equal(t, 1, cfg.PartWorkers)
	assert.Equal(t, time.Duration(0), cfg.OCRTimeout)
	assert.Equal(t, entity.Region{X: 0, Y: 0.33, W: 0.25, H: 0.33}, cfg.Region)
	assert.Equal(t, 0, cfg.MetricsPort)
	assert.Empty(t, cfg.MinIOEndpoint)
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KEYWORD", "enemy downed")
	t.Setenv("SAMPLE_INTERVAL", "0.5")
	t.Setenv("REGION", "0.7,0,0.3,0.25")
	t.Setenv("OCR_TIMEOUT", "2s")
	t.Setenv("PART_WORKERS", "4")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.5, cfg.SampleInterval)
	assert.Equal(t, entity.Region{X: 0.7, Y: 0, W: 0.3, H: 0.25}, cfg.Region)
	assert.Equal(t, 2*time.Second, cfg.OCRTimeout)
	assert.Equal(t, 4, cfg.PartWorkers)
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		return &Config{
			Keyword:        "kw",
			SampleInterval: 1,
			PartCount:      1,
			PartWorkers:    1,
			Region:         entity.Region{X: 0, Y: 0, W: 1, H: 1},
		}
	}

	assert.NoError(t, base().Validate())

	c := base()
	c.Keyword = ""
	assert.Error(t, c.Validate())

	c = base()
	c.SampleInterval = 0
	assert.Error(t, c.Validate())

	c = base()
	c.PreSec = -1
	assert.Error(t, c.Validate())

	c = base()
	c.PartCount = 0
	assert.Error(t, c.Validate())

	c = base()
	c.Region = entity.Region{X: 0.9, Y: 0, W: 0.5, H: 0.5}
	assert.Error(t, c.Validate())
}
