package entity

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunStatusPending    RunStatus = "PENDING"
	RunStatusProcessing RunStatus = "PROCESSING"
	RunStatusCompleted  RunStatus = "COMPLETED"
	RunStatusFailed     RunStatus = "FAILED"
)

// PartResult summarizes one processed part of the source video.
type PartResult struct {
	Index       int     `json:"index"`
	Offset      float64 `json:"offset_seconds"`
	Duration    float64 `json:"duration_seconds"`
	Frames      int     `json:"frames_sampled"`
	Windows     int     `json:"windows"`
	Clips       int     `json:"clips_exported"`
	FailedClips int     `json:"clips_failed"`
}

// Run is one invocation of the extraction pipeline over a single source
// video. It accumulates per-part results and drives the status lifecycle
// PENDING -> PROCESSING -> COMPLETED/FAILED.
type Run struct {
	ID           uuid.UUID    `json:"id"`
	Keyword      string       `json:"keyword"`
	InputPath    string       `json:"input_path"`
	Status       RunStatus    `json:"status"`
	PartCount    int          `json:"part_count"`
	Parts        []PartResult `json:"parts,omitempty"`
	WindowCount  int          `json:"window_count"`
	ClipCount    int          `json:"clip_count"`
	FailedClips  int          `json:"failed_clips"`
	ErrorMessage string       `json:"error_message,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
}

func NewRun(keyword, inputPath string, partCount int) *Run {
	now := time.Now().UTC()
	return &Run{
		ID:        uuid.New(),
		Keyword:   keyword,
		InputPath: inputPath,
		Status:    RunStatusPending,
		PartCount: partCount,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (r *Run) MarkProcessing() {
	r.Status = RunStatusProcessing
	r.UpdatedAt = time.Now().UTC()
}

func (r *Run) MarkCompleted() {
	now := time.Now().UTC()
	r.Status = RunStatusCompleted
	r.UpdatedAt = now
	r.CompletedAt = &now
}

func (r *Run) MarkFailed(errMsg string) {
	r.Status = RunStatusFailed
	r.ErrorMessage = errMsg
	r.UpdatedAt = time.Now().UTC()
}

// AddPartResult folds one part's outcome into the run totals.
func (r *Run) AddPartResult(p PartResult) {
	r.Parts = append(r.Parts, p)
	r.WindowCount += p.Windows
	r.ClipCount += p.Clips
	r.FailedClips += p.FailedClips
	r.UpdatedAt = time.Now().UTC()
}
