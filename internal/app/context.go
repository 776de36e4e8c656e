package app

import (
	"context"

	"github.com/sirupsen/logrus"
)

type contextKey int

const (
	appKey contextKey = iota
	runKey
)

// WithApp stores the App in ctx
func WithApp(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, appKey, a)
}

// FromContext returns the App stored in ctx, or nil
func FromContext(ctx context.Context) *App {
	a, _ := ctx.Value(appKey).(*App)
	return a
}

// WithRunID tags ctx with the id of the scrape run in progress
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runKey, id)
}

// RunID returns the run id tagged on ctx, or ""
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runKey).(string)
	return id
}

// Log returns the App's logger for ctx, with the run id attached when present.
// Falls back to the standard logrus logger outside an App.
func Log(ctx context.Context) *logrus.Entry {
	logger := logrus.StandardLogger()
	if a := FromContext(ctx); a != nil && a.Logger != nil {
		logger = a.Logger
	}
	entry := logrus.NewEntry(logger)
	if id := RunID(ctx); id != "" {
		entry = entry.WithField("run", id)
	}
	return entry
}
