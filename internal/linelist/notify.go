package linelist

import (
	"sync"
	"time"
)

// Level is the severity of a user-facing notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notification is a banner-style message produced by the loops.
type Notification struct {
	Level     Level
	Text      string
	RequestID string
	Time      time.Time
}

// Notifier receives notifications. Implementations must not block for long;
// they are called from the loop goroutines.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

type discardNotifier struct{}

func (discardNotifier) Notify(Notification) {}

// NotificationQueue is a bounded Notifier read through a channel. When full,
// the oldest pending notification is dropped.
type NotificationQueue struct {
	mu sync.Mutex
	ch chan Notification
}

// NewNotificationQueue returns a queue holding up to size notifications.
func NewNotificationQueue(size int) *NotificationQueue {
	if size <= 0 {
		size = 16
	}
	return &NotificationQueue{ch: make(chan Notification, size)}
}

// Notify implements Notifier without blocking.
func (q *NotificationQueue) Notify(n Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		select {
		case q.ch <- n:
			return
		default:
		}
		select {
		case <-q.ch:
		default:
		}
	}
}

// C returns the receive side of the queue.
func (q *NotificationQueue) C() <-chan Notification {
	return q.ch
}
