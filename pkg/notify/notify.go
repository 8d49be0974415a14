package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matst80/slask-dashboard/pkg/debounce"
)

type ToastType = string

const (
	Info    ToastType = "info"
	Success ToastType = "success"
	Error   ToastType = "error"

	DismissAfter = 4 * time.Second
)

type Toast struct {
	Id      string    `json:"id"`
	Title   string    `json:"title"`
	Message string    `json:"message,omitempty"`
	Type    ToastType `json:"type"`
}

// Center holds the visible toasts. Each one removes itself after
// DismissAfter unless it was removed earlier.
type Center struct {
	mu        sync.Mutex
	scheduler debounce.Scheduler
	toasts    []Toast
	timers    map[string]debounce.Timer
}

func NewCenter(scheduler debounce.Scheduler) *Center {
	if scheduler == nil {
		scheduler = debounce.RealScheduler{}
	}
	return &Center{
		scheduler: scheduler,
		toasts:    make([]Toast, 0),
		timers:    make(map[string]debounce.Timer),
	}
}

func (c *Center) Add(title, message string, toastType ToastType) Toast {
	if toastType == "" {
		toastType = Info
	}
	toast := Toast{
		Id:      uuid.New().String(),
		Title:   title,
		Message: message,
		Type:    toastType,
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toasts = append(c.toasts, toast)
	c.timers[toast.Id] = c.scheduler.AfterFunc(DismissAfter, func() {
		c.Remove(toast.Id)
	})
	return toast
}

func (c *Center) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if timer, ok := c.timers[id]; ok {
		timer.Stop()
		delete(c.timers, id)
	}
	before := len(c.toasts)
	c.toasts = slices.DeleteFunc(c.toasts, func(t Toast) bool {
		return t.Id == id
	})
	return len(c.toasts) != before
}

func (c *Center) List() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.toasts)
}

// Close stops every pending dismissal.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, timer := range c.timers {
		timer.Stop()
		delete(c.timers, id)
	}
}
