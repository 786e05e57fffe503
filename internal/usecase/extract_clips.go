package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/speedkillimmortal-svg/yt/internal/detect"
	"github.com/speedkillimmortal-svg/yt/internal/domain/entity"
	"github.com/speedkillimmortal-svg/yt/internal/domain/port"
	"github.com/speedkillimmortal-svg/yt/internal/infra/metrics"
	"github.com/speedkillimmortal-svg/yt/internal/segment"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ExtractClipsUseCase runs the whole pipeline for one source video: split
// into parts, sample frames, detect the keyword, segment detections into
// windows, export one clip per window, then optionally merge and convert.
//
// Parts are processed independently, so an event straddling a part boundary
// comes out as two truncated clips, one per side. That matches the equal
// division contract and is a documented limitation, not a defect.
type ExtractClipsUseCase struct {
	splitter   port.PartSplitter
	sampler    port.FrameSampler
	recognizer port.TextRecognizer
	cutter     port.ClipCutter
	merger     port.ClipMerger
	converter  port.VerticalConverter
	storage    port.ClipStorage     // nil when object storage is not configured
	publisher  port.StatusPublisher // nil when no broker is configured
	notifier   port.FailureNotifier // nil when no notification address is configured
	logger     *zap.Logger
	cfg        ExtractClipsConfig
}

type ExtractClipsConfig struct {
	Keyword         string
	InputPath       string
	OutputRoot      string
	PreSec          float64
	PostSec         float64
	MergeGapSec     float64
	Region          entity.Region
	OCRTimeout      time.Duration
	PartCount       int
	PartWorkers     int
	TempDir         string
	MergeClips      bool
	VerticalConvert bool
	KeepTemp        bool
	NotifyEmail     string
}

func NewExtractClipsUseCase(
	splitter port.PartSplitter,
	sampler port.FrameSampler,
	recognizer port.TextRecognizer,
	cutter port.ClipCutter,
	merger port.ClipMerger,
	converter port.VerticalConverter,
	storage port.ClipStorage,
	publisher port.StatusPublisher,
	notifier port.FailureNotifier,
	logger *zap.Logger,
	cfg ExtractClipsConfig,
) *ExtractClipsUseCase {
	return &ExtractClipsUseCase{
		splitter:   splitter,
		sampler:    sampler,
		recognizer: recognizer,
		cutter:     cutter,
		merger:     merger,
		converter:  converter,
		storage:    storage,
		publisher:  publisher,
		notifier:   notifier,
		logger:     logger,
		cfg:        cfg,
	}
}

func (uc *ExtractClipsUseCase) Execute(ctx context.Context) (*entity.Run, error) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "ExtractClipsUseCase.Execute")
	defer span.End()

	run := entity.NewRun(uc.cfg.Keyword, uc.cfg.InputPath, uc.cfg.PartCount)
	span.SetAttributes(
		attribute.String("run.id", run.ID.String()),
		attribute.String("run.keyword", run.Keyword),
	)

	log := uc.logger.With(zap.String("run_id", run.ID.String()), zap.String("keyword", run.Keyword))

	workDir := filepath.Join(uc.cfg.TempDir, run.ID.String())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return run, fmt.Errorf("create workdir: %w", err)
	}
	if !uc.cfg.KeepTemp {
		defer os.RemoveAll(workDir)
	}

	run.MarkProcessing()
	uc.publishStatus(ctx, statusMessage(run, nil), log)

	splitStart := time.Now()
	splitCtx, splitSpan := tracer.Start(ctx, "split_parts")
	parts, err := uc.splitter.Split(splitCtx, uc.cfg.InputPath, workDir, uc.cfg.PartCount)
	splitSpan.End()
	if err != nil {
		log.Error("part split failed", zap.Error(err))
		return run, uc.fail(ctx, run, "split_parts: "+err.Error(), err, log)
	}
	metrics.StageDuration.WithLabelValues("split").Observe(time.Since(splitStart).Seconds())

	clipsDir := filepath.Join(uc.cfg.OutputRoot, keywordSlug(uc.cfg.Keyword)+"_clips")

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu        sync.Mutex
		firstErr  error
		clipPaths []string
		wg        sync.WaitGroup
	)
	jobs := make(chan port.VideoPart)

	for w := 0; w < uc.cfg.PartWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for part := range jobs {
				res, clips, err := uc.processPart(runCtx, part, clipsDir, workDir, log)
				var msg *entity.RunStatusMessage
				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = fmt.Errorf("part %d: %w", part.Index+1, err)
						cancel()
					}
				} else {
					run.AddPartResult(res)
					clipPaths = append(clipPaths, clips...)
					// Snapshot under the lock: sibling workers keep
					// mutating run while this message is in flight.
					idx := part.Index
					m := statusMessage(run, &idx)
					msg = &m
				}
				mu.Unlock()
				if msg != nil {
					uc.publishStatus(ctx, *msg, log)
				}
			}
		}()
	}

	for _, part := range parts {
		select {
		case jobs <- part:
		case <-runCtx.Done():
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		log.Error("run aborted", zap.Error(firstErr))
		return run, uc.fail(ctx, run, firstErr.Error(), firstErr, log)
	}

	// Keep merge input ordering deterministic across worker schedules.
	sort.Strings(clipPaths)
	uc.postProcess(ctx, clipsDir, clipPaths, log)

	run.MarkCompleted()
	metrics.RunsTotal.WithLabelValues("completed").Inc()
	uc.publishStatus(ctx, statusMessage(run, nil), log)

	if err := uc.writeReport(run); err != nil {
		log.Warn("could not write run report", zap.Error(err))
	}

	log.Info("run completed",
		zap.Int("windows", run.WindowCount),
		zap.Int("clips", run.ClipCount),
		zap.Int("failed_clips", run.FailedClips),
	)
	return run, nil
}

func (uc *ExtractClipsUseCase) processPart(
	ctx context.Context,
	part port.VideoPart,
	clipsDir string,
	workDir string,
	log *zap.Logger,
) (entity.PartResult, []string, error) {
	tracer := otel.Tracer("usecase")

	metrics.ActivePartWorkers.Inc()
	defer metrics.ActivePartWorkers.Dec()

	plog := log.With(zap.Int("part", part.Index+1))
	res := entity.PartResult{Index: part.Index, Offset: part.Offset, Duration: part.Duration}

	framesDir := filepath.Join(workDir, fmt.Sprintf("frames_part%d", part.Index+1))
	if err := os.MkdirAll(framesDir, 0755); err != nil {
		return res, nil, fmt.Errorf("create frames dir: %w", err)
	}

	sampleStart := time.Now()
	sampleCtx, sampleSpan := tracer.Start(ctx, "sample_frames")
	stream, err := uc.sampler.Sample(sampleCtx, part.Path, framesDir)
	sampleSpan.End()
	if err != nil {
		return res, nil, err
	}
	res.Frames = stream.Len()
	metrics.FramesSampledTotal.Add(float64(stream.Len()))
	metrics.StageDuration.WithLabelValues("sample").Observe(time.Since(sampleStart).Seconds())

	detector := detect.New(uc.recognizer, uc.cfg.Keyword, uc.cfg.Region, uc.cfg.OCRTimeout, plog)

	detectStart := time.Now()
	detectCtx, detectSpan := tracer.Start(ctx, "detect_and_segment")
	detections := detector.Stream(detectCtx, stream)
	maxEnd := stream.VideoDuration
	if maxEnd <= 0 {
		maxEnd = stream.MaxTimestamp()
	}
	windows := segment.Segment(detections.Next, segment.Params{
		PreSec:      uc.cfg.PreSec,
		PostSec:     uc.cfg.PostSec,
		MergeGapSec: uc.cfg.MergeGapSec,
		MaxEnd:      maxEnd,
		PartIndex:   part.Index,
	})
	detectSpan.End()
	if err := detections.Err(); err != nil {
		return res, nil, err
	}
	res.Windows = len(windows)
	metrics.WindowsEmittedTotal.Add(float64(len(windows)))
	metrics.StageDuration.WithLabelValues("detect_and_segment").Observe(time.Since(detectStart).Seconds())

	plog.Info("part scanned",
		zap.Int("frames", stream.Len()),
		zap.Int("windows", len(windows)),
	)

	ext := filepath.Ext(uc.cfg.InputPath)
	if ext == "" {
		ext = ".mp4"
	}

	var clips []string
	for _, w := range segment.Offset(windows, part.Offset) {
		spec := entity.ClipSpec{
			SourcePath: uc.cfg.InputPath,
			Start:      w.Start,
			End:        w.End,
			OutputPath: filepath.Join(
				clipsDir,
				fmt.Sprintf("part%d", part.Index+1),
				fmt.Sprintf("clip_%.2f_%.2f%s", w.Start, w.End, ext),
			),
		}
		if err := uc.exportClip(ctx, spec, plog); err != nil {
			res.FailedClips++
			metrics.ClipsExportedTotal.WithLabelValues("failed").Inc()
			continue
		}
		res.Clips++
		metrics.ClipsExportedTotal.WithLabelValues("ok").Inc()
		clips = append(clips, spec.OutputPath)

		if uc.storage != nil {
			key, err := filepath.Rel(uc.cfg.OutputRoot, spec.OutputPath)
			if err != nil {
				key = filepath.Base(spec.OutputPath)
			}
			if err := uc.storage.UploadClip(ctx, filepath.ToSlash(key), spec.OutputPath); err != nil {
				plog.Warn("clip upload failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return res, clips, nil
}

// exportClip cuts one clip, retrying a failed export once with identical
// arguments before giving up on that window.
func (uc *ExtractClipsUseCase) exportClip(ctx context.Context, spec entity.ClipSpec, log *zap.Logger) error {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "export_clip")
	defer span.End()

	exportStart := time.Now()
	err := uc.cutter.Cut(ctx, spec)
	if err != nil {
		log.Warn("clip export failed, retrying once",
			zap.String("path", spec.OutputPath),
			zap.Error(err),
		)
		err = uc.cutter.Cut(ctx, spec)
	}
	metrics.StageDuration.WithLabelValues("export").Observe(time.Since(exportStart).Seconds())
	if err != nil {
		log.Error("clip export failed",
			zap.String("path", spec.OutputPath),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// postProcess runs the optional merge and vertical conversion stages. Both
// are best-effort: a failed batch is logged and skipped, the clips
// themselves are already on disk.
func (uc *ExtractClipsUseCase) postProcess(ctx context.Context, clipsDir string, clips []string, log *zap.Logger) {
	sources := clips

	if uc.cfg.MergeClips && len(clips) > 0 {
		mergedDir := filepath.Join(clipsDir, "merged")
		ext := filepath.Ext(clips[0])
		var merged []string
		for i, batch := range mergeBatches(clips) {
			out := filepath.Join(mergedDir, fmt.Sprintf("merged_batch_%d%s", i+1, ext))
			if err := uc.merger.MergeBatch(ctx, batch, out); err != nil {
				log.Error("merge batch failed", zap.Strings("clips", batch), zap.Error(err))
				continue
			}
			merged = append(merged, out)
		}
		sources = merged
	}

	if uc.cfg.VerticalConvert {
		verticalDir := filepath.Join(clipsDir, "vertical")
		for _, src := range sources {
			base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
			out := filepath.Join(verticalDir, base+".mp4")
			if err := uc.converter.Convert(ctx, src, out); err != nil {
				log.Error("vertical conversion failed", zap.String("clip", src), zap.Error(err))
			}
		}
	}
}

func (uc *ExtractClipsUseCase) fail(ctx context.Context, run *entity.Run, msg string, cause error, log *zap.Logger) error {
	run.MarkFailed(msg)
	metrics.RunsTotal.WithLabelValues("failed").Inc()
	uc.publishStatus(ctx, statusMessage(run, nil), log)

	if uc.notifier != nil && uc.cfg.NotifyEmail != "" {
		_ = uc.notifier.NotifyFailure(ctx, uc.cfg.NotifyEmail, run.ID.String(), uc.cfg.InputPath, msg)
	}
	return cause
}

// statusMessage snapshots the run counters into an outbound event. Callers
// racing with part workers must hold the run mutex while building it.
func statusMessage(run *entity.Run, part *int) entity.RunStatusMessage {
	return entity.RunStatusMessage{
		RunID:        run.ID,
		Keyword:      run.Keyword,
		Status:       run.Status,
		Part:         part,
		WindowCount:  run.WindowCount,
		ClipCount:    run.ClipCount,
		FailedClips:  run.FailedClips,
		ErrorMessage: run.ErrorMessage,
	}
}

func (uc *ExtractClipsUseCase) publishStatus(ctx context.Context, msg entity.RunStatusMessage, log *zap.Logger) {
	if uc.publisher == nil {
		return
	}
	data, _ := json.Marshal(msg)
	if err := uc.publisher.PublishStatus(ctx, data); err != nil {
		log.Error("failed to publish status", zap.Error(err))
	}
}

func (uc *ExtractClipsUseCase) writeReport(run *entity.Run) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(uc.cfg.OutputRoot, "report.json"), data, 0644)
}

// keywordSlug derives the output directory name from the keyword.
func keywordSlug(keyword string) string {
	return strings.Join(strings.Fields(strings.ToLower(keyword)), "_")
}

// mergeBatches groups clips in pairs; a trailing odd clip joins the final
// batch of three rather than merging alone.
func mergeBatches(clips []string) [][]string {
	var batches [][]string
	i := 0
	for i < len(clips) {
		if i+3 == len(clips) {
			batches = append(batches, clips[i:i+3])
			i += 3
			continue
		}
		end := i + 2
		if end > len(clips) {
			end = len(clips)
		}
		batches = append(batches, clips[i:end])
		i = end
	}
	return batches
}
