package services

import (
	"context"

	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
)

// maxWriteAttempts bounds read-modify-write retries on version conflicts
const maxWriteAttempts = 3

// retryOnConflict reruns fn while it fails with a version conflict. fn must
// re-read the record it modifies.
func retryOnConflict(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		if err = fn(); !errors.Is(err, errors.ErrCodeConflict) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return err
}
