package schemac

import (
	"log/slog"
	"sync"
)

// WarningSink receives developer-facing deprecation notices. Key identifies the
// notice so a sink can report each one once.
type WarningSink interface {
	Warn(key, msg string)
}

// OnceWarner is a WarningSink that logs every key at most once.
type OnceWarner struct {
	Logger *slog.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewOnceWarner returns a warner logging to l, or to slog.Default when l is nil.
func NewOnceWarner(l *slog.Logger) *OnceWarner {
	return &OnceWarner{Logger: l}
}

func (w *OnceWarner) Warn(key, msg string) {
	w.mu.Lock()
	if w.seen == nil {
		w.seen = map[string]struct{}{}
	}
	if _, ok := w.seen[key]; ok {
		w.mu.Unlock()
		return
	}
	w.seen[key] = struct{}{}
	w.mu.Unlock()

	l := w.Logger
	if l == nil {
		l = slog.Default()
	}
	l.Warn(msg, "key", key)
}

// Seen reports whether key has been warned about.
func (w *OnceWarner) Seen(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.seen[key]
	return ok
}

type discardWarnings struct{}

func (discardWarnings) Warn(string, string) {}

// DiscardWarnings drops every notice.
var DiscardWarnings WarningSink = discardWarnings{}
