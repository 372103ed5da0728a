package practice

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/parla/internal/tutor"
)

// partialMsg carries a streamed snapshot of the turn in flight.
type partialMsg struct {
	Seq    int
	Result tutor.TurnResult
}

// turnDoneMsg is sent when a turn finishes, successfully or not.
type turnDoneMsg struct {
	Seq    int
	Result tutor.TurnResult
	Err    error
}

// turnStream connects the goroutine running a turn to the screen. Partial
// snapshots are cumulative, so a full buffer keeps only the newest one.
type turnStream struct {
	partials chan tutor.TurnResult
	finished chan struct{}
}

func newTurnStream() *turnStream {
	return &turnStream{
		partials: make(chan tutor.TurnResult, 1),
		finished: make(chan struct{}),
	}
}

func (t *turnStream) publish(r tutor.TurnResult) {
	select {
	case t.partials <- r:
		return
	default:
	}
	select {
	case <-t.partials:
	default:
	}
	select {
	case t.partials <- r:
	default:
	}
}

// wait blocks until the next partial arrives or the turn finishes.
func (t *turnStream) wait(seq int) tea.Cmd {
	return func() tea.Msg {
		select {
		case r := <-t.partials:
			return partialMsg{Seq: seq, Result: r}
		case <-t.finished:
			return nil
		}
	}
}
