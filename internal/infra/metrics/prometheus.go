package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yt_runs_total",
		Help: "Total number of extraction runs, by final status",
	}, []string{"status"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yt_stage_duration_seconds",
		Help:    "Duration of extraction pipeline stages",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"stage"})

	FramesSampledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yt_frames_sampled_total",
		Help: "Total number of frames sampled for OCR across all runs",
	})

	DetectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yt_detections_total",
		Help: "Total number of per-frame keyword detections, by result",
	}, []string{"result"})

	OCRTimeoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yt_ocr_timeouts_total",
		Help: "Total number of OCR calls that hit the per-frame timeout",
	})

	WindowsEmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yt_windows_emitted_total",
		Help: "Total number of event windows emitted by the segmenter",
	})

	ClipsExportedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yt_clips_exported_total",
		Help: "Total number of clip exports, by outcome",
	}, []string{"status"})

	ActivePartWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "yt_active_part_workers",
		Help: "Number of video parts currently being processed",
	})
)
