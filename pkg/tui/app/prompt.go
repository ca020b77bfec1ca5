package teaui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// promptBridge is a notify.Prompter that asks through the UI. Prompt runs
// off the event loop and blocks on channels; the model shows a modal when a
// request arrives and answers on the request's reply channel.
type promptBridge struct {
	requests chan promptRequest
}

type promptRequest struct {
	reply chan bool
}

type promptRequestMsg struct {
	req promptRequest
}

func newPromptBridge() *promptBridge {
	return &promptBridge{requests: make(chan promptRequest)}
}

// Prompt implements notify.Prompter.
func (b *promptBridge) Prompt(ctx context.Context) (bool, error) {
	req := promptRequest{reply: make(chan bool, 1)}
	select {
	case b.requests <- req:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case ok := <-req.reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// wait delivers the next request to the event loop.
func (b *promptBridge) wait(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case req := <-b.requests:
			return promptRequestMsg{req: req}
		case <-ctx.Done():
			return nil
		}
	}
}
