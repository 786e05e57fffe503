package port

import (
	"context"

	"github.com/speedkillimmortal-svg/yt/internal/domain/entity"
)

// TextRecognizer runs optical text recognition over one region of one frame
// image. Pure per call: no state is retained between invocations, and
// implementations must be safe for concurrent use. Returns
// entity.ErrRecognizerUnavailable (wrapped) when the engine cannot be
// invoked at all.
type TextRecognizer interface {
	Recognize(ctx context.Context, imagePath string, region entity.Region) (string, error)
}
