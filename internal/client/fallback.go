package client

import (
	"context"
	"log/slog"
	"reflect"
)

// Fallback tries the remote backend first and, on any failure (network
// error or non-2xx), retries the same request against the local server.
// When both fail the local error is returned.
type Fallback struct {
	Remote *Client
	Local  *Client
	Log    *slog.Logger
}

// Do implements Requester. A nil Remote sends straight to Local.
func (f *Fallback) Do(ctx context.Context, method, path string, body, result any) error {
	if f.Remote != nil {
		err := f.Remote.Do(ctx, method, path, body, result)
		if err == nil {
			return nil
		}

		f.logger().Warn("remote backend failed, falling back to local",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("remote", f.Remote.BaseURL()),
			slog.String("error", err.Error()))

		// A 2xx body that failed to decode part-way may have filled some
		// fields already.
		resetResult(result)
	}

	return f.Local.Do(ctx, method, path, body, result)
}

func resetResult(result any) {
	v := reflect.ValueOf(result)
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		v.Elem().SetZero()
	}
}

func (f *Fallback) logger() *slog.Logger {
	if f.Log != nil {
		return f.Log
	}
	return slog.Default()
}
