package console

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// DefaultNotifyDelay is how long a notification stays visible.
const DefaultNotifyDelay = 3 * time.Second

// Severity of a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a transient status message.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier holds at most one notification and dismisses it after a delay.
type Notifier struct {
	clock    clockwork.Clock
	delay    time.Duration
	onChange func()

	mu      sync.Mutex
	current *Notification
	timer   clockwork.Timer
}

// NewNotifier creates a Notifier. onChange, if set, runs after every change.
func NewNotifier(clock clockwork.Clock, delay time.Duration, onChange func()) *Notifier {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if delay <= 0 {
		delay = DefaultNotifyDelay
	}
	return &Notifier{clock: clock, delay: delay, onChange: onChange}
}

// Notify replaces the current notification and restarts the dismissal timer.
func (n *Notifier) Notify(message string, severity Severity) Notification {
	n.mu.Lock()
	n.stopTimer()
	note := &Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: n.clock.Now(),
	}
	n.current = note
	id := note.ID
	n.timer = n.clock.AfterFunc(n.delay, func() { n.expire(id) })
	n.mu.Unlock()

	n.changed()
	return *note
}

// Dismiss clears the current notification, if any.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	if n.current == nil {
		n.mu.Unlock()
		return
	}
	n.stopTimer()
	n.current = nil
	n.mu.Unlock()

	n.changed()
}

// Current returns a copy of the live notification, or nil.
func (n *Notifier) Current() *Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return nil
	}
	note := *n.current
	return &note
}

// expire is the timer callback. A timer that fired while being replaced
// finds a different ID and leaves the newer notification alone.
func (n *Notifier) expire(id string) {
	n.mu.Lock()
	if n.current == nil || n.current.ID != id {
		n.mu.Unlock()
		return
	}
	n.current = nil
	n.timer = nil
	n.mu.Unlock()

	n.changed()
}

// stopTimer must be called with mu held.
func (n *Notifier) stopTimer() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *Notifier) changed() {
	if n.onChange != nil {
		n.onChange()
	}
}
