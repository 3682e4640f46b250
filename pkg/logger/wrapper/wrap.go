package wrap

import (
	"context"
	"errors"
)

// Error attaches the current LogCtx to err. Already wrapped errors get their LogCtx refreshed.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	lc, hasCtx := ctx.Value(LogCtxKey).(LogCtx)

	var e *errorWithLogCtx
	if errors.As(err, &e) {
		if hasCtx {
			e.logCtx = lc
		}
		return err
	}

	return &errorWithLogCtx{
		err:    err,
		logCtx: lc,
	}
}
