// Package attr provides slog attribute helpers so log keys stay consistent
// across modules.
package attr

import (
	"context"
	"log/slog"
	"time"

	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
	"github.com/google/uuid"
)

type correlationKey struct{}

func String(key, value string) slog.Attr { return slog.String(key, value) }
func Int(key string, value int) slog.Attr { return slog.Int(key, value) }
func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }
func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }
func Any(key string, value any) slog.Attr { return slog.Any(key, value) }
func Time(key string, value time.Time) slog.Attr { return slog.Time(key, value) }
func Duration(key string, d time.Duration) slog.Attr { return slog.Duration(key, d) }

// Error logs err under the "error" key. A nil error yields an empty string.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

func RoundNumber(key string, n sharedtypes.RoundNumber) slog.Attr {
	return slog.Int(key, int(n))
}

func UserID(key string, id sharedtypes.UserID) slog.Attr {
	return slog.Int64(key, int64(id))
}

// WithCorrelationID stores id on ctx. An empty id generates a new one.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the id stored by WithCorrelationID, if any.
func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

func ExtractCorrelationID(ctx context.Context) slog.Attr {
	return slog.String("correlation_id", CorrelationID(ctx))
}
