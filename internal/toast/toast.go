// Package toast is the process-wide queue of transient notifications shown
// by the dashboard shell. Producers publish through Success, Error, Warning
// and Info; the renderer subscribes and redraws on every change.
package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type is the severity of a toast.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Valid reports whether t is one of the four known types.
func (t Type) Valid() bool {
	switch t {
	case TypeSuccess, TypeError, TypeWarning, TypeInfo:
		return true
	}
	return false
}

// Message is a single notification.
type Message struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Listener receives the full ordered list after every change.
type Listener func([]Message)

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func())

// DefaultDurations is how long each type stays on screen.
var DefaultDurations = map[Type]time.Duration{
	TypeSuccess: 3 * time.Second,
	TypeInfo:    4 * time.Second,
	TypeWarning: 4 * time.Second,
	TypeError:   5 * time.Second,
}

// Option configures a Manager.
type Option func(*Manager)

// WithDurations overrides display durations for the given types.
func WithDurations(d map[Type]time.Duration) Option {
	return func(m *Manager) {
		for t, v := range d {
			if v > 0 {
				m.durations[t] = v
			}
		}
	}
}

// WithAfterFunc replaces the expiry scheduler.
func WithAfterFunc(f AfterFunc) Option {
	return func(m *Manager) { m.afterFunc = f }
}

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithPublishHook registers a callback run after each publish, outside
// subscriber delivery. Used for metrics and logging.
func WithPublishHook(f func(Message)) Option {
	return func(m *Manager) { m.onPublish = f }
}

type subscriber struct {
	id uint64
	fn Listener
}

// Manager owns the toast list. All mutation happens inside its methods.
type Manager struct {
	mu        sync.Mutex
	messages  []Message
	subs      []subscriber
	nextSubID uint64

	durations map[Type]time.Duration
	afterFunc AfterFunc
	now       func() time.Time
	onPublish func(Message)
}

// New creates a Manager with the default durations and real timers.
func New(opts ...Option) *Manager {
	m := &Manager{
		durations: make(map[Type]time.Duration, len(DefaultDurations)),
		afterFunc: func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		now:       time.Now,
	}
	for t, d := range DefaultDurations {
		m.durations[t] = d
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var (
	defaultOnce    sync.Once
	defaultManager *Manager
)

// Default returns the process-wide manager.
func Default() *Manager {
	defaultOnce.Do(func() { defaultManager = New() })
	return defaultManager
}

// Success queues a success toast and returns it.
func (m *Manager) Success(message string) Message {
	return m.push(TypeSuccess, message)
}

// Error queues an error toast and returns it.
func (m *Manager) Error(message string) Message {
	return m.push(TypeError, message)
}

// Warning queues a warning toast and returns it.
func (m *Manager) Warning(message string) Message {
	return m.push(TypeWarning, message)
}

// Info queues an info toast and returns it.
func (m *Manager) Info(message string) Message {
	return m.push(TypeInfo, message)
}

// Publish dispatches on t. Unknown types are published as info.
func (m *Manager) Publish(t Type, message string) Message {
	if !t.Valid() {
		t = TypeInfo
	}
	return m.push(t, message)
}

func (m *Manager) push(t Type, text string) Message {
	m.mu.Lock()
	msg := Message{
		ID:        uuid.NewString(),
		Type:      t,
		Message:   text,
		CreatedAt: m.now(),
	}
	m.messages = append(m.messages, msg)
	list, subs := m.stateLocked()
	d := m.durations[t]
	after := m.afterFunc
	hook := m.onPublish
	m.mu.Unlock()

	notify(subs, list)
	if hook != nil {
		hook(msg)
	}

	// Expiry may race a manual Remove; Remove tolerates that.
	after(d, func() { m.Remove(msg.ID) })
	return msg
}

// Remove drops the message with id. Unknown ids are ignored and produce no
// notification.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	idx := -1
	for i := range m.messages {
		if m.messages[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.mu.Unlock()
		return
	}
	m.messages = append(m.messages[:idx], m.messages[idx+1:]...)
	list, subs := m.stateLocked()
	m.mu.Unlock()

	notify(subs, list)
}

// Subscribe registers fn and returns a function that deregisters it.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.mu.Lock()
	m.nextSubID++
	id := m.nextSubID
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, s := range m.subs {
				if s.id == id {
					m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Messages returns a copy of the current list in display order.
func (m *Manager) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyMessages(m.messages)
}

// Reset clears messages and subscribers. Pending expiries become no-ops.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
	m.subs = nil
}

func (m *Manager) stateLocked() ([]Message, []subscriber) {
	subs := make([]subscriber, len(m.subs))
	copy(subs, m.subs)
	return copyMessages(m.messages), subs
}

// notify runs in the caller's goroutine with the lock released so a
// listener may call back into the manager. Each listener gets its own copy.
func notify(subs []subscriber, list []Message) {
	for _, s := range subs {
		s.fn(copyMessages(list))
	}
}

func copyMessages(in []Message) []Message {
	out := make([]Message, len(in))
	copy(out, in)
	return out
}
