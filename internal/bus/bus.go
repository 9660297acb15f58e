// Package bus is the cross-view broadcast channel: named, typed signals any
// view can publish so sibling views refetch without direct coupling.
// Delivery is transient: a signal published while nobody listens is gone.
package bus

import "sync"

// Signal names the cross-view notifications.
type Signal int

const (
	// RefreshCalendar asks the calendar view to refetch its aggregate.
	RefreshCalendar Signal = iota
	// RefreshChats asks coach-history consumers to refetch.
	RefreshChats
	// RefreshSessions asks session-history consumers to refetch.
	RefreshSessions
	// SwitchView asks the shell to display the named view.
	SwitchView
)

func (s Signal) String() string {
	switch s {
	case RefreshCalendar:
		return "refresh-calendar"
	case RefreshChats:
		return "refresh-chats"
	case RefreshSessions:
		return "refresh-sessions"
	case SwitchView:
		return "switch-view"
	default:
		return "unknown"
	}
}

// Event is one broadcast. View carries the SwitchView target and is empty
// for the refresh signals.
type Event struct {
	Signal Signal
	View   string
}

// Bus fans published events out to subscribers.
type Bus struct {
	mu     sync.Mutex
	subs   []*subscription
	closed bool
}

type subscription struct {
	ch      chan Event
	signals map[Signal]bool
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{}
}

// Subscribe returns a channel receiving the named signals, or every signal
// when none are given. The channel is buffered; events a full subscriber
// cannot take are dropped, never queued.
func (b *Bus) Subscribe(signals ...Signal) <-chan Event {
	sub := &subscription{ch: make(chan Event, 16)}
	if len(signals) > 0 {
		sub.signals = make(map[Signal]bool, len(signals))
		for _, s := range signals {
			sub.signals[s] = true
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.ch)
		return sub.ch
	}
	b.subs = append(b.subs, sub)
	return sub.ch
}

// Publish broadcasts ev to every matching subscriber without blocking.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, sub := range b.subs {
		if sub.signals != nil && !sub.signals[ev.Signal] {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

// Close shuts every subscriber channel down.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, sub := range b.subs {
		close(sub.ch)
	}
	b.subs = nil
}
