package notify

import (
	"context"
	"encoding/gob"

	"github.com/alexedwards/scs/v2"
)

const sessionKeyToasts = "toasts"

func init() {
	gob.Register([]Toast{})
}

type sessionMarker struct{}

// WithSession marks ctx as carrying loaded scs session data. FlashNotifier
// ignores contexts without the mark.
func WithSession(ctx context.Context) context.Context {
	return context.WithValue(ctx, sessionMarker{}, true)
}

func inSession(ctx context.Context) bool {
	ok, _ := ctx.Value(sessionMarker{}).(bool)
	return ok
}

// FlashNotifier queues toasts in the web session until they are popped.
type FlashNotifier struct {
	sm *scs.SessionManager
}

func NewFlashNotifier(sm *scs.SessionManager) *FlashNotifier {
	return &FlashNotifier{sm: sm}
}

// Notify queues toast on the session. Without a session it does nothing.
func (n *FlashNotifier) Notify(ctx context.Context, toast Toast) {
	if !inSession(ctx) {
		return
	}
	pending, _ := n.sm.Get(ctx, sessionKeyToasts).([]Toast)
	n.sm.Put(ctx, sessionKeyToasts, append(pending, toast))
}

// Pop returns and clears the queued toasts.
func (n *FlashNotifier) Pop(ctx context.Context) []Toast {
	if !inSession(ctx) {
		return nil
	}
	toasts, _ := n.sm.Pop(ctx, sessionKeyToasts).([]Toast)
	return toasts
}
