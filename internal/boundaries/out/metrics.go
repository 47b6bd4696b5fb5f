package out

import (
	"context"
	"time"
)

// TranslationRecorder records the outcome of a translation.
// An empty kind counts as success; otherwise kind labels the failure.
type TranslationRecorder interface {
	RecordTranslation(ctx context.Context, elapsed time.Duration, kind string)
}
