package notify

import (
	"context"
	"sync"
)

type recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *recorder) Notify(_ context.Context, toast Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, toast)
}

func (r *recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}
