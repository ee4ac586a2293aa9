package obs

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// Time logs the duration (and failure, if any) of the named operation when
// the returned func runs. Usage:
//
//	defer obs.Time(ctx, log, "repo.Get")(&err)
func Time(ctx context.Context, log zerolog.Logger, name string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start)

		evt := log.Info()
		if errp != nil && *errp != nil {
			evt = log.Error().Err(*errp)
		}
		evt.Str("req_id", reqID).Str("op", name).Dur("dur", dur).Msg("op timed")
	}
}
