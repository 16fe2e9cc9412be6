// Package notify delivers transient user-facing notifications (toasts).
package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Level is the severity of a toast.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Toast is a short message shown once to the user.
type Toast struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Level       Level  `json:"level" yaml:"level"`
}

// Success builds a success toast.
func Success(title, description string) Toast {
	return Toast{Title: title, Description: description, Level: LevelSuccess}
}

// Error builds an error toast.
func Error(title, description string) Toast {
	return Toast{Title: title, Description: description, Level: LevelError}
}

// Notifier shows toasts to the user.
type Notifier interface {
	Notify(ctx context.Context, toast Toast)
}

// LogNotifier writes toasts to the log. Used by the CLI and background jobs.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs error toasts at warn and the rest at info.
func (n *LogNotifier) Notify(_ context.Context, toast Toast) {
	fields := []zap.Field{zap.String("title", toast.Title), zap.String("description", toast.Description)}
	if toast.Level == LevelError {
		n.logger.Warn("notification", fields...)
		return
	}
	n.logger.Info("notification", fields...)
}

// Fanout forwards each toast to every attached notifier. Notifiers can be
// attached after construction.
type Fanout struct {
	mu        sync.RWMutex
	notifiers []Notifier
}

// NewFanout sends every toast to each of notifiers in order.
func NewFanout(notifiers ...Notifier) *Fanout {
	return &Fanout{notifiers: notifiers}
}

// Add registers another notifier.
func (f *Fanout) Add(n Notifier) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifiers = append(f.notifiers, n)
}

func (f *Fanout) Notify(ctx context.Context, toast Toast) {
	f.mu.RLock()
	notifiers := f.notifiers
	f.mu.RUnlock()
	for _, n := range notifiers {
		n.Notify(ctx, toast)
	}
}
