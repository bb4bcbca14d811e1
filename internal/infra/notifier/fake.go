package notifier

import (
	"context"
	"fmt"
	"sync"
)

// SentMessage is one call recorded by FakeChannel.
type SentMessage struct {
	To         string
	From       string
	Message    string
	DecisionID string
}

// FakeChannel records sent messages for test assertions.
type FakeChannel struct {
	mu   sync.Mutex
	sent []SentMessage

	// SendError, if set, is returned by Send and nothing is recorded.
	SendError error
}

func NewFakeChannel() *FakeChannel {
	return &FakeChannel{}
}

func (f *FakeChannel) Send(ctx context.Context, to, from, message string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.SendError != nil {
		return "", f.SendError
	}

	msg := SentMessage{To: to, From: from, Message: message}
	if id, ok := decisionID(ctx); ok {
		msg.DecisionID = id
	}
	f.sent = append(f.sent, msg)

	return fmt.Sprintf("fake-%d", len(f.sent)), nil
}

// Sent returns a copy of everything sent so far.
func (f *FakeChannel) Sent() []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]SentMessage, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *FakeChannel) SetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.SendError = err
}

func (f *FakeChannel) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = nil
	f.SendError = nil
}
