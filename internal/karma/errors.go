package karma

import (
	"errors"
	"fmt"
)

// ErrTooFewSubsets is returned by Similarity when fewer than two subsets are
// available to compare.
var ErrTooFewSubsets = errors.New("similarity needs at least two subsets")

// SubsetError describes why a subset search could not produce a result.
type SubsetError struct {
	Kind SubsetErrorKind

	Needed, Available int // InsufficientCandidates, PreviousInsufficient
	Required, Found   int // NotEnoughRuns

	Target, Sum, MinPossible, MaxPossible int // TargetUnreachable
}

// SubsetErrorKind enumerates subset search failures.
type SubsetErrorKind int

const (
	InsufficientCandidates SubsetErrorKind = iota
	PreviousInsufficient
	TargetUnreachable
	NotEnoughRuns
)

func (e *SubsetError) Error() string {
	switch e.Kind {
	case InsufficientCandidates:
		return fmt.Sprintf("insufficient candidates: needed %d, only %d available", e.Needed, e.Available)
	case PreviousInsufficient:
		return fmt.Sprintf("insufficient candidates even with previously selected cars: needed %d, only %d available", e.Needed, e.Available)
	case TargetUnreachable:
		return fmt.Sprintf("target %d is unreachable: current sum %d, possible range [%d, %d]",
			e.Target, e.Sum, e.Sum+e.MinPossible, e.Sum+e.MaxPossible)
	case NotEnoughRuns:
		return fmt.Sprintf("only %d/%d satisfactory subsets found within tolerance", e.Found, e.Required)
	default:
		return "subset search failed"
	}
}
