// ABOUTME: Tests for the presenter bridge
// ABOUTME: Verifies event ordering, coalesced wakeups, and release on close

package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/gestao-pecas/internal/permissions"
	"github.com/markalston/gestao-pecas/internal/uistate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridgeDeliversQueuedEventsInOrder(t *testing.T) {
	b := NewBridge()
	b.Render(uistate.State{UserName: "Ana"})
	b.Toast(permissions.ToastSuccess, "ok")
	b.OpenLogin()

	msg := b.Wait(context.Background())()

	batch, ok := msg.(bridgeMsg)
	require.True(t, ok, "expected bridgeMsg, got %T", msg)
	require.Len(t, batch.events, 3)
	assert.Equal(t, renderMsg{state: uistate.State{UserName: "Ana"}}, batch.events[0])
	assert.Equal(t, toastMsg{level: permissions.ToastSuccess, message: "ok"}, batch.events[1])
	assert.Equal(t, openLoginMsg{}, batch.events[2])
	assert.Empty(t, b.Drain())
}

func TestBridgePushNeverBlocks(t *testing.T) {
	b := NewBridge()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Toast(permissions.ToastInfo, "x")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("push blocked without a reader")
	}
	assert.Len(t, b.Drain(), 100)
}

func TestBridgeWaitReleasedByClose(t *testing.T) {
	b := NewBridge()
	got := make(chan tea.Msg, 1)
	go func() { got <- b.Wait(context.Background())() }()

	b.Close()
	b.Close()

	select {
	case msg := <-got:
		assert.Nil(t, msg)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Close")
	}
}

func TestBridgeWaitReleasedByContext(t *testing.T) {
	b := NewBridge()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Nil(t, b.Wait(ctx)())
}
