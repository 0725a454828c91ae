package gline

import "github.com/atinylittleshell/gsuggest/pkg/suggest"

// SelectionRecorder persists committed selections.
type SelectionRecorder interface {
	Record(selection suggest.Selection) error
}

type Options struct {
	// ListHeight is the number of candidates shown at once.
	ListHeight int

	// Placeholder is shown while the input is empty.
	Placeholder string

	// Mouse enables clicking on candidates. It switches the prompt to the
	// alternate screen so rows can be mapped back to items.
	Mouse bool

	// Recorder, when set, receives every committed selection.
	Recorder SelectionRecorder
}

func NewOptions() Options {
	return Options{
		ListHeight: 6,
	}
}
