package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tatianab/party-house/internal/controller"
)

// Bridge carries controller notifications and choice prompts into the
// bubbletea event loop. Controller actions run in tea.Cmd goroutines, so a
// prompt blocks that goroutine until the model replies.
type Bridge struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach routes messages to a running program.
func (b *Bridge) Attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

func (b *Bridge) deliver(msg tea.Msg) bool {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send == nil {
		return false
	}
	send(msg)
	return true
}

type noticeMsg controller.Notice

type choice struct {
	n  int
	ok bool
}

type chooseMsg struct {
	prompt  string
	options []string
	reply   chan<- choice
}

func (b *Bridge) Notify(n controller.Notice) {
	b.deliver(noticeMsg(n))
}

// Choose waits for the player to answer in the UI. A detached bridge or a
// cancelled context counts as no choice.
func (b *Bridge) Choose(ctx context.Context, prompt string, options []string) (int, bool) {
	reply := make(chan choice, 1)
	if !b.deliver(chooseMsg{prompt: prompt, options: options, reply: reply}) {
		return 0, false
	}
	select {
	case c := <-reply:
		return c.n, c.ok
	case <-ctx.Done():
		return 0, false
	}
}
