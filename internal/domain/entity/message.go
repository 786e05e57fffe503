package entity

import "github.com/google/uuid"

// RunStatusMessage is the outbound status event published while a run
// progresses, for callers that wire up a message broker.
type RunStatusMessage struct {
	RunID        uuid.UUID `json:"run_id"`
	Keyword      string    `json:"keyword"`
	Status       RunStatus `json:"status"`
	Part         *int      `json:"part,omitempty"`
	WindowCount  int       `json:"window_count,omitempty"`
	ClipCount    int       `json:"clip_count,omitempty"`
	FailedClips  int       `json:"failed_clips,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
}
