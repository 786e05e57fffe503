package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/speedkillimmortal-svg/yt/internal/domain/port"
	"github.com/speedkillimmortal-svg/yt/internal/infra/config"
	"github.com/speedkillimmortal-svg/yt/internal/infra/email"
	"github.com/speedkillimmortal-svg/yt/internal/infra/ffmpeg"
	"github.com/speedkillimmortal-svg/yt/internal/infra/metrics"
	miniostorage "github.com/speedkillimmortal-svg/yt/internal/infra/minio"
	"github.com/speedkillimmortal-svg/yt/internal/infra/rabbitmq"
	"github.com/speedkillimmortal-svg/yt/internal/infra/tesseract"
	"github.com/speedkillimmortal-svg/yt/internal/infra/tracing"
	"github.com/speedkillimmortal-svg/yt/internal/usecase"
	"github.com/speedkillimmortal-svg/yt/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	verticalWidth  = 1080
	verticalHeight = 1920
)

func main() {
	cfg, err := config.Load()
	fatalOnErr(err, "load config")

	// Primary knobs are also flags so the tool works without exporting
	// anything; flags win over the environment.
	flag.StringVar(&cfg.Keyword, "keyword", cfg.Keyword, "text to detect (case-insensitive)")
	flag.StringVar(&cfg.InputPath, "input", cfg.InputPath, "source video path")
	flag.StringVar(&cfg.OutputRoot, "output", cfg.OutputRoot, "output directory root")
	flag.IntVar(&cfg.PartCount, "parts", cfg.PartCount, "number of equal parts to split into")
	flag.Float64Var(&cfg.SampleInterval, "interval", cfg.SampleInterval, "seconds between sampled frames")
	flag.Parse()

	fatalOnErr(cfg.Validate(), "invalid config")

	log, err := logger.New(cfg.LogLevel)
	fatalOnErr(err, "init logger")
	defer log.Sync()

	log.Info("starting clip extractor",
		zap.String("keyword", cfg.Keyword),
		zap.String("input", cfg.InputPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing is opt-in and non-fatal when the collector is unreachable.
	if cfg.OTELEndpoint != "" {
		tp, err := tracing.InitTracer(ctx, cfg.OTELEndpoint)
		if err != nil {
			log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
		} else {
			defer tp.Shutdown(ctx)
		}
	}

	if cfg.MetricsPort > 0 {
		srv := metrics.StartMetricsServer(ctx, cfg.MetricsPort, log)
		defer srv.Shutdown(context.Background())
	}

	var storage port.ClipStorage
	if cfg.MinIOEndpoint != "" {
		s, err := miniostorage.NewStorage(miniostorage.StorageConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			UseSSL:    cfg.MinIOUseSSL,
			Bucket:    cfg.MinIOBucket,
		})
		fatalOnErr(err, "create minio storage")
		fatalOnErr(s.EnsureBucket(ctx), "ensure minio bucket")
		storage = s
	}

	var publisher port.StatusPublisher
	if cfg.RabbitMQURL != "" {
		conn, err := amqp.Dial(cfg.RabbitMQURL)
		fatalOnErr(err, "connect to rabbitmq")
		defer conn.Close()

		pub, err := rabbitmq.NewPublisher(conn, cfg.RabbitMQExchange)
		fatalOnErr(err, "create rabbitmq publisher")
		publisher = pub
	}

	var notifier port.FailureNotifier
	if cfg.NotifyEmail != "" {
		notifier = email.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, log)
	}

	// A missing OCR engine is fatal before any frame is decoded: a run that
	// cannot recognize text would silently produce zero clips.
	recognizer, err := tesseract.New(cfg.TesseractBin, cfg.TesseractLang, log)
	fatalOnErr(err, "init text recognizer")

	uc := usecase.NewExtractClipsUseCase(
		ffmpeg.NewSplitter(log),
		ffmpeg.NewSampler(cfg.SampleInterval, cfg.FrameFormat, log),
		recognizer,
		ffmpeg.NewCutter(log),
		ffmpeg.NewMerger(log),
		ffmpeg.NewConverter(verticalWidth, verticalHeight, log),
		storage,
		publisher,
		notifier,
		log,
		usecase.ExtractClipsConfig{
			Keyword:         cfg.Keyword,
			InputPath:       cfg.InputPath,
			OutputRoot:      cfg.OutputRoot,
			PreSec:          cfg.PreSec,
			PostSec:         cfg.PostSec,
			MergeGapSec:     cfg.MergeGapSec,
			Region:          cfg.Region,
			OCRTimeout:      cfg.OCRTimeout,
			PartCount:       cfg.PartCount,
			PartWorkers:     cfg.PartWorkers,
			TempDir:         cfg.TempDir,
			MergeClips:      cfg.MergeClips,
			VerticalConvert: cfg.VerticalConvert,
			KeepTemp:        cfg.KeepTemp,
			NotifyEmail:     cfg.NotifyEmail,
		},
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	run, err := uc.Execute(ctx)
	if err != nil {
		log.Error("run failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}

	log.Info("done",
		zap.String("run_id", run.ID.String()),
		zap.Int("clips", run.ClipCount),
		zap.Int("failed_clips", run.FailedClips),
	)
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
