package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"roster-sync/internal/logger"
)

// Notifier is the user-visible, non-blocking message channel (toasts).
// It is injected so the sync engine can run without a UI.
type Notifier interface {
	Success(ctx context.Context, message string)
	Failure(ctx context.Context, message, detail string)
}

type Kind string

const (
	KindSuccess Kind = "success"
	KindFailure Kind = "failure"
)

type Message struct {
	Kind   Kind
	Text   string
	Detail string
}

// Recorder keeps every message in order. Used by tests and CLIs that print
// a summary at the end.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Success(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Kind: KindSuccess, Text: message})
}

func (r *Recorder) Failure(_ context.Context, message, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Kind: KindFailure, Text: message, Detail: detail})
}

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Count returns the number of messages of kind.
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.messages {
		if m.Kind == kind {
			n++
		}
	}
	return n
}

// Last returns the most recent message, if any.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}

// LogNotifier writes notifications through a logger.
type LogNotifier struct {
	Log logger.Logger
}

func (n LogNotifier) Success(_ context.Context, message string) {
	n.Log.Info(message, "notification", KindSuccess)
}

func (n LogNotifier) Failure(_ context.Context, message, detail string) {
	n.Log.Warn(message, "notification", KindFailure, "detail", detail)
}

// Writer prints one line per notification, for terminals.
type Writer struct {
	mu sync.Mutex
	W  io.Writer
}

func (n *Writer) Success(_ context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.W, "ok: %s\n", message)
}

func (n *Writer) Failure(_ context.Context, message, detail string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if detail == "" {
		fmt.Fprintf(n.W, "error: %s\n", message)
		return
	}
	fmt.Fprintf(n.W, "error: %s: %s\n", message, detail)
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

func (m Multi) Success(ctx context.Context, message string) {
	for _, n := range m {
		n.Success(ctx, message)
	}
}

func (m Multi) Failure(ctx context.Context, message, detail string) {
	for _, n := range m {
		n.Failure(ctx, message, detail)
	}
}

// Discard ignores every notification.
type Discard struct{}

func (Discard) Success(context.Context, string)         {}
func (Discard) Failure(context.Context, string, string) {}
