package alerts

import (
	"context"
	"fmt"
	"strings"
)

// MultiSender fans an alert out to several channels. A failing channel does
// not stop the others; the combined error names every channel that failed.
type MultiSender struct {
	senders []Sender
}

// NewMultiSender creates a fan-out sender.
func NewMultiSender(senders ...Sender) *MultiSender {
	return &MultiSender{senders: senders}
}

// Send dispatches to all channels.
func (s *MultiSender) Send(ctx context.Context, payload *AlertPayload) error {
	var failures []string
	for _, sender := range s.senders {
		if err := sender.Send(ctx, payload); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", sender.Name(), err))
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("send failures: %s", strings.Join(failures, "; "))
	}
	return nil
}

// Name returns the sender name.
func (s *MultiSender) Name() string {
	return "multi"
}
