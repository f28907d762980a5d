package listops

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOp is returned by Apply and ParseOp for names outside Ops.
	ErrUnknownOp = errors.New("unknown operation")
	// ErrArity is returned by Apply when the number of inputs does not fit the operation.
	ErrArity = errors.New("wrong number of inputs")
)

// ParseOp resolves an operation name.
func ParseOp(name string) (Op, error) {
	for _, op := range Ops {
		if string(op) == name {
			return op, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOp, name)
}

// Arity returns the number of texts an operation consumes.
func (op Op) Arity() int {
	if op == OpCompare {
		return 2
	}
	return 1
}

// Apply runs op over inputs. Compare takes the two lists in order; every other
// operation takes exactly one text.
func Apply(op Op, inputs ...string) (Result, error) {
	if _, err := ParseOp(string(op)); err != nil {
		return Result{}, err
	}
	if len(inputs) != op.Arity() {
		return Result{}, fmt.Errorf("%w: %s takes %d, got %d", ErrArity, op, op.Arity(), len(inputs))
	}
	switch op {
	case OpSort:
		return Sort(inputs[0]), nil
	case OpFilter:
		return Filter(inputs[0]), nil
	case OpExpand:
		return Expand(inputs[0]), nil
	default:
		return Compare(inputs[0], inputs[1]), nil
	}
}
