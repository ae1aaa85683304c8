// ABOUTME: Presenter that queues core events for the bubbletea program
// ABOUTME: The root model drains the queue with a Wait command, so core calls never block on the UI

package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/gestao-pecas/internal/permissions"
	"github.com/markalston/gestao-pecas/internal/uistate"
)

// renderMsg carries a recomputed UI state
type renderMsg struct {
	state uistate.State
}

// toastMsg carries a transient message
type toastMsg struct {
	level   permissions.ToastLevel
	message string
}

// openLoginMsg asks for the login modal
type openLoginMsg struct{}

// bridgeMsg delivers every event queued since the last Wait
type bridgeMsg struct {
	events []tea.Msg
}

// Bridge implements uistate.Presenter for the TUI
type Bridge struct {
	mu     sync.Mutex
	queue  []tea.Msg
	notify chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewBridge creates an empty bridge
func NewBridge() *Bridge {
	return &Bridge{notify: make(chan struct{}, 1), done: make(chan struct{})}
}

func (b *Bridge) push(msg tea.Msg) {
	b.mu.Lock()
	b.queue = append(b.queue, msg)
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// Render queues a state
func (b *Bridge) Render(st uistate.State) {
	b.push(renderMsg{state: st})
}

// Toast queues a transient message
func (b *Bridge) Toast(level permissions.ToastLevel, message string) {
	b.push(toastMsg{level: level, message: message})
}

// OpenLogin queues a login prompt
func (b *Bridge) OpenLogin() {
	b.push(openLoginMsg{})
}

// Drain returns and clears the queued events
func (b *Bridge) Drain() []tea.Msg {
	b.mu.Lock()
	defer b.mu.Unlock()
	events := b.queue
	b.queue = nil
	return events
}

// Close releases pending and future Wait commands
func (b *Bridge) Close() {
	b.once.Do(func() { close(b.done) })
}

// Wait blocks until events are queued, ctx ends, or the bridge is closed
func (b *Bridge) Wait(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.notify:
			return bridgeMsg{events: b.Drain()}
		case <-ctx.Done():
			return nil
		case <-b.done:
			return nil
		}
	}
}
