package tui

import (
	"time"
)

const (
	defaultToastTTL   = 5 * time.Second
	defaultMaxToasts  = 4
	toastTickInterval = 100 * time.Millisecond
	toastWidth        = 48
)

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastSuccess
	toastError
)

type toast struct {
	level     toastLevel
	message   string
	remaining time.Duration
}

// ToastController manages the lifecycle of active toasts: push, eviction,
// TTL countdown and dismissal.
type ToastController struct {
	toasts  []toast
	ticking bool
}

func NewToastController() *ToastController {
	return &ToastController{}
}

// Push adds a toast. When the stack exceeds defaultMaxToasts the oldest
// toast is evicted.
func (c *ToastController) Push(level toastLevel, message string) {
	c.toasts = append(c.toasts, toast{
		level:     level,
		message:   message,
		remaining: defaultToastTTL,
	})
	if len(c.toasts) > defaultMaxToasts {
		c.toasts = c.toasts[len(c.toasts)-defaultMaxToasts:]
	}
}

// Tick decrements the remaining TTL on all toasts by d and removes expired
// ones.
func (c *ToastController) Tick(d time.Duration) {
	alive := c.toasts[:0]
	for _, t := range c.toasts {
		t.remaining -= d
		if t.remaining > 0 {
			alive = append(alive, t)
		}
	}
	c.toasts = alive
}

// Dismiss removes the newest toast.
func (c *ToastController) Dismiss() {
	if len(c.toasts) > 0 {
		c.toasts = c.toasts[:len(c.toasts)-1]
	}
}

// DismissAll removes every active toast.
func (c *ToastController) DismissAll() {
	c.toasts = c.toasts[:0]
}

func (c *ToastController) HasToasts() bool {
	return len(c.toasts) > 0
}

func (c *ToastController) Toasts() []toast {
	return c.toasts
}

func (c *ToastController) Ticking() bool {
	return c.ticking
}

func (c *ToastController) SetTicking(v bool) {
	c.ticking = v
}
