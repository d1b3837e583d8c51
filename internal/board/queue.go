package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotSynced is returned for a queued call that refers to an item whose
// creation never reached the server.
var ErrNotSynced = errors.New("item was never saved to the server")

const tempIDPrefix = "local-"

type mutation struct {
	seq   int
	label string
	run   func(ctx context.Context) error
}

func isTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}

// newTempIDLocked returns an id for an item not yet created on the server.
func (c *Controller) newTempIDLocked() string {
	c.nextTemp++
	return fmt.Sprintf("%s%d", tempIDPrefix, c.nextTemp)
}

// enqueueLocked appends a remote call. Calls run one at a time in the order
// they were enqueued.
func (c *Controller) enqueueLocked(label string, run func(ctx context.Context) error) {
	if c.closed {
		return
	}
	c.nextSeq++
	m := &mutation{seq: c.nextSeq, label: label, run: run}
	c.queue = append(c.queue, m)
	c.state.Pending = append(c.state.Pending, PendingMutation{Seq: m.seq, Label: label})
	c.active++

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Controller) dequeue() *mutation {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return nil
	}
	m := c.queue[0]
	c.queue[0] = nil
	c.queue = c.queue[1:]
	return m
}

func (c *Controller) worker() {
	defer close(c.done)
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.wake:
		}
		for m := c.dequeue(); m != nil; m = c.dequeue() {
			c.execute(m)
		}
	}
}

// execute runs one call. A failure is reported but the optimistic local
// change stays; the next reload brings the view back in line.
func (c *Controller) execute(m *mutation) {
	ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
	err := m.run(ctx)
	cancel()

	c.mu.Lock()
	for i := range c.state.Pending {
		if c.state.Pending[i].Seq != m.seq {
			continue
		}
		if err == nil {
			c.state.Pending = append(c.state.Pending[:i], c.state.Pending[i+1:]...)
		} else {
			c.state.Pending[i].Failed = true
			c.state.Pending[i].Err = err.Error()
		}
		break
	}
	c.active--
	if c.active == 0 {
		c.idle.Broadcast()
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("board mutation failed", "label", m.label, "seq", m.seq, "error", err)
		c.notify(Notice{Kind: NoticeError, Message: fmt.Sprintf("Could not %s: %v", m.label, err)})
	}
}

// resolveID maps a temporary id to its server id once known.
func (c *Controller) resolveID(id string) (string, error) {
	if !isTempID(id) {
		return id, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	real, ok := c.ids[id]
	if !ok || real == "" {
		return "", ErrNotSynced
	}
	return real, nil
}

// Flush blocks until every queued call has finished.
func (c *Controller) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.active > 0 && !c.closed {
		c.idle.Wait()
	}
}
