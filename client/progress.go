package client

import (
	"fmt"

	"github.com/zucenko/amaze/model"
)

type State int

const (
	WAITING State = iota + 1
	CARVING
	DONE
)

func (s State) Name() string {
	switch s {
	case WAITING:
		return "WAITING"
	case CARVING:
		return "CARVING"
	case DONE:
		return "DONE"
	default:
		return fmt.Sprintf("N/A(%d)", s)
	}
}

// Progress follows a maze from the transitions it goes through. A remote
// viewer may never see some of them, so any carving step counts as a
// restart when the maze was done.
type Progress struct {
	State State
	Steps int
	Last  model.Transition
}

func NewProgress() Progress {
	return Progress{State: WAITING}
}

// Apply records tr and reports whether the state changed.
func (p *Progress) Apply(tr model.Transition) bool {
	prev := p.State
	p.Last = tr
	switch tr {
	case model.Reinitialized:
		p.State = CARVING
		p.Steps = 0
	case model.Advanced, model.Backtracked:
		if p.State != CARVING {
			p.Steps = 0
		}
		p.State = CARVING
		p.Steps++
	case model.Finished:
		p.State = DONE
		p.Steps++
	}
	return p.State != prev
}
