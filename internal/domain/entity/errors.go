package entity

import (
	"errors"
	"fmt"
)

// ErrRecognizerUnavailable means the OCR engine cannot be invoked at all
// (not installed, bad binary path). Fatal for the whole run: continuing
// would silently produce zero clips.
var ErrRecognizerUnavailable = errors.New("text recognizer unavailable")

// ErrRecognitionTimeout marks a single OCR call that exceeded its deadline.
// Recoverable: the frame is treated as a non-match and the scan continues.
var ErrRecognitionTimeout = errors.New("text recognition timed out")

// InputError reports a source video that cannot be opened or decoded. Fatal
// and never retried.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("unreadable input %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// ExportError reports a failed clip cut. Recoverable at per-clip
// granularity: the run logs it and moves on to the next window.
type ExportError struct {
	OutputPath string
	Err        error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.OutputPath, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
