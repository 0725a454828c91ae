package suggest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidOptions is returned when a configuration blob cannot be parsed.
var ErrInvalidOptions = errors.New("invalid suggest options")

const (
	DefaultMatchWith       = "label"
	DefaultMinLength       = 1
	DefaultWrapperClass    = "suggest-wrapper"
	DefaultActiveClass     = "active"
	DefaultResultsClass    = "suggest-list"
	DefaultItemClass       = "suggest-list__item"
	DefaultVisibilityClass = "is-opened"
	DefaultDelay           = 350 * time.Millisecond
)

// Options is the per-input configuration record. The JSON keys match the
// data-suggest attribute accepted by the browser plugin this controller
// replaces, so existing markup can be reused as-is.
type Options struct {
	// MatchWith names the candidate field used for display, preview and
	// the exact-match check.
	MatchWith string `json:"matchWith" yaml:"matchWith" toml:"matchWith"`

	// MinLength is the gate: a fetch happens only when the trimmed input is
	// strictly longer than this.
	MinLength int `json:"minLength" yaml:"minLength" toml:"minLength"`

	WrapperClass    string `json:"wrapperClass" yaml:"wrapperClass" toml:"wrapperClass"`
	ActiveClass     string `json:"activeClass" yaml:"activeClass" toml:"activeClass"`
	ResultsClass    string `json:"resultsClass" yaml:"resultsClass" toml:"resultsClass"`
	ItemClass       string `json:"itemClass" yaml:"itemClass" toml:"itemClass"`
	VisibilityClass string `json:"visibilityClass" yaml:"visibilityClass" toml:"visibilityClass"`

	// ArrayName locates the candidate array when the endpoint answers with
	// an object instead of a bare array.
	ArrayName string `json:"arrayName" yaml:"arrayName" toml:"arrayName"`

	// DelayMillis is the debounce delay in milliseconds.
	DelayMillis int `json:"delay" yaml:"delay" toml:"delay"`
}

func DefaultOptions() Options {
	return Options{
		MatchWith:       DefaultMatchWith,
		MinLength:       DefaultMinLength,
		WrapperClass:    DefaultWrapperClass,
		ActiveClass:     DefaultActiveClass,
		ResultsClass:    DefaultResultsClass,
		ItemClass:       DefaultItemClass,
		VisibilityClass: DefaultVisibilityClass,
		DelayMillis:     int(DefaultDelay / time.Millisecond),
	}
}

// ParseOptions decodes blob on top of base. Keys absent from the blob keep
// the base value. An empty blob returns base unchanged.
func ParseOptions(base Options, blob string) (Options, error) {
	opts := base
	if strings.TrimSpace(blob) == "" {
		return opts, nil
	}

	if err := json.Unmarshal([]byte(blob), &opts); err != nil {
		return base, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if err := opts.Validate(); err != nil {
		return base, err
	}

	return opts, nil
}

// Validate reports options no controller can work with.
func (o Options) Validate() error {
	if o.MatchWith == "" {
		return fmt.Errorf("%w: matchWith must not be empty", ErrInvalidOptions)
	}
	if o.MinLength < 0 {
		return fmt.Errorf("%w: minLength must not be negative", ErrInvalidOptions)
	}
	if o.DelayMillis < 0 {
		return fmt.Errorf("%w: delay must not be negative", ErrInvalidOptions)
	}
	return nil
}

func (o Options) Delay() time.Duration {
	return time.Duration(o.DelayMillis) * time.Millisecond
}

// Classes returns the class names a view applies to its elements.
func (o Options) Classes() Classes {
	return Classes{
		Wrapper:    o.WrapperClass,
		Active:     o.ActiveClass,
		Results:    o.ResultsClass,
		Item:       o.ItemClass,
		Visibility: o.VisibilityClass,
	}
}
