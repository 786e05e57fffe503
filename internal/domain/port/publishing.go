package port

import "context"

// ClipStorage uploads an exported clip to object storage.
type ClipStorage interface {
	UploadClip(ctx context.Context, objectKey string, filePath string) error
}

// StatusPublisher emits run status events to interested consumers.
type StatusPublisher interface {
	PublishStatus(ctx context.Context, msg []byte) error
}

// FailureNotifier tells a human that a run failed permanently.
type FailureNotifier interface {
	NotifyFailure(ctx context.Context, recipient string, runID string, inputPath string, errorMsg string) error
}
