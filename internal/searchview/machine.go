package searchview

import (
	"context"
	"sync"
)

// machine is the lifecycle shared by View and Detail: the state mutex,
// in-flight fetch accounting, change notification and cancellation.
type machine struct {
	mu      sync.Mutex
	idle    *sync.Cond
	pending int
	subs    []chan struct{}
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
}

func (m *machine) init(parent context.Context) {
	if parent == nil {
		parent = context.Background()
	}
	m.ctx, m.cancel = context.WithCancel(parent)
	m.idle = sync.NewCond(&m.mu)
}

// beginLocked records a fetch about to start. Callers hold mu.
func (m *machine) beginLocked() {
	m.pending++
}

func (m *machine) end() {
	m.mu.Lock()
	m.pending--
	if m.pending == 0 {
		m.idle.Broadcast()
	}
	m.mu.Unlock()
}

// notifyLocked signals every subscriber without blocking. Signals coalesce;
// subscribers read the latest snapshot. Callers hold mu.
func (m *machine) notifyLocked() {
	for _, ch := range m.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribe returns a channel that receives a signal after every applied
// state change. The channel is closed when the machine is closed.
func (m *machine) Subscribe() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan struct{}, 1)
	if m.closed {
		close(ch)
		return ch
	}
	m.subs = append(m.subs, ch)
	return ch
}

// Wait blocks until no fetch is in flight.
func (m *machine) Wait() {
	m.mu.Lock()
	for m.pending > 0 {
		m.idle.Wait()
	}
	m.mu.Unlock()
}

// Close cancels in-flight fetches and closes subscriber channels. Responses
// arriving afterwards are discarded.
func (m *machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	m.cancel()
	for _, ch := range m.subs {
		close(ch)
	}
	m.subs = nil
}

// Closed reports whether Close has been called.
func (m *machine) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
