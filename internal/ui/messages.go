package ui

import (
	"miniatlas/internal/debounce"
	"miniatlas/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// settleMsg fires when the debounce delay for a keystroke has elapsed
type settleMsg struct {
	handle debounce.Handle
}

// pagerMsg contains the result of an ov pager command
type pagerMsg struct {
	title string
	err   error
}

// clearStatusMsg clears the status line
type clearStatusMsg struct{}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
