package bot

import (
	"fmt"

	"github.com/aretw0/listbot/pkg/domain"
	"github.com/aretw0/listbot/pkg/listops"
)

// Limits bounds the work a single message may cause.
type Limits struct {
	// MaxExpandedTokens caps the number of IDs an expansion may produce. 0 disables the cap.
	MaxExpandedTokens int
}

// Outcome is what handling one text produced.
type Outcome struct {
	Replies []domain.Reply

	// Result is set when the engine ran.
	Result *listops.Result
}

var modeOps = map[domain.Mode]listops.Op{
	domain.ModeSort:    listops.OpSort,
	domain.ModeFilter:  listops.OpFilter,
	domain.ModeExpand:  listops.OpExpand,
	domain.ModeCompare: listops.OpCompare,
}

// OpFor returns the engine operation behind a mode.
func OpFor(m domain.Mode) (listops.Op, bool) {
	op, ok := modeOps[m]
	return op, ok
}

// Dispatch applies text to a session. It never mutates s; the returned session is the
// state to persist. In compare mode the first text is queued and the second triggers
// the comparison, after which the queue is reset.
func Dispatch(s domain.Session, text string, limits Limits) (domain.Session, Outcome) {
	next := *s.Clone()

	switch next.Mode {
	case domain.ModeSort:
		return next, resultOutcome(listops.Sort(text))

	case domain.ModeFilter:
		return next, resultOutcome(listops.Filter(text))

	case domain.ModeExpand:
		if limits.MaxExpandedTokens > 0 {
			if n := listops.ExpandedCount(text); n > limits.MaxExpandedTokens {
				return next, Outcome{Replies: []domain.Reply{
					{Text: fmt.Sprintf(msgTooManyTokens, n, limits.MaxExpandedTokens)},
					switchPrompt(),
				}}
			}
		}
		return next, resultOutcome(listops.Expand(text))

	case domain.ModeCompare:
		next.Pending = append(next.Pending, text)
		if len(next.Pending) < domain.MaxPending {
			return next, Outcome{Replies: []domain.Reply{{Text: msgFirstList}}}
		}
		res := listops.Compare(next.Pending[0], next.Pending[1])
		next.Pending = nil
		return next, resultOutcome(res)

	default:
		return next, Outcome{Replies: []domain.Reply{{Text: msgNoMode}}}
	}
}

func resultOutcome(res listops.Result) Outcome {
	return Outcome{
		Replies: []domain.Reply{{Text: res.Display()}, switchPrompt()},
		Result:  &res,
	}
}
