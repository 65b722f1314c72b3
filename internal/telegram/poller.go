package telegram

import (
	"errors"
	"fmt"
	"log"
	"time"
)

const longPollTimeout = 25 // seconds, must stay under the HTTP client timeout

// Poller drives a single getUpdates loop. Updates are handled one at a
// time in arrival order.
type Poller struct {
	client     *Client
	handler    *UpdateHandler
	retryAfter time.Duration
	stopCh     chan struct{}
}

func NewPoller(client *Client, handler *UpdateHandler, retryAfter time.Duration) *Poller {
	return &Poller{
		client:     client,
		handler:    handler,
		retryAfter: retryAfter,
		stopCh:     make(chan struct{}),
	}
}

// Run polls until Stop is called. A 409 conflict is returned to the caller
// as a fatal error; transient errors are logged and retried on the next
// cycle by the loop itself.
func (p *Poller) Run() error {
	var offset int64

	for {
		select {
		case <-p.stopCh:
			return nil
		default:
		}

		updates, err := p.client.GetUpdates(offset, longPollTimeout)
		if err != nil {
			if errors.Is(err, ErrConflict) {
				return fmt.Errorf("getUpdates: %w", err)
			}
			log.Printf("[Poller] getUpdates: %v", err)
			select {
			case <-p.stopCh:
				return nil
			case <-time.After(p.retryAfter):
			}
			continue
		}

		for _, upd := range updates {
			offset = upd.UpdateID + 1
			p.handler.Handle(upd)
		}
	}
}

func (p *Poller) Stop() {
	close(p.stopCh)
}
