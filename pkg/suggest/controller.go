package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/atinylittleshell/gsuggest/pkg/debounce"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

var (
	ErrNoView    = errors.New("suggest controller requires a view")
	ErrNoFetcher = errors.New("suggest controller requires a fetcher")
)

// Config is everything needed to bind a controller to one input.
type Config struct {
	View    View
	Fetcher Fetcher

	// Options are the caller defaults, usually DefaultOptions() with some
	// fields changed. A zero value means DefaultOptions().
	Options Options

	// Blob is the per-input JSON configuration. Its keys override Options.
	Blob string

	// Template is the item template source. Empty displays the matchWith
	// field verbatim.
	Template string

	Logger *zap.Logger

	// OnEvent receives every notification, outside the controller lock.
	OnEvent func(Event)

	// OnSelect receives each committed selection, after EventSelected.
	OnSelect func(Selection)

	// Dispatch runs callbacks coming from timers and finished requests.
	// UI toolkits with their own event loop pass a function that posts the
	// callback onto that loop. Defaults to calling it immediately.
	Dispatch func(func())
}

// request is the token of one in-flight fetch. Completions are applied only
// while their token is still the controller's current one.
type request struct {
	id     uint64
	query  string
	cancel context.CancelFunc
}

// Controller coordinates one input with its suggestion list.
type Controller struct {
	mu sync.Mutex

	view     View
	fetcher  Fetcher
	options  Options
	template *Template
	logger   *zap.Logger
	onEvent  func(Event)
	onSelect func(Selection)
	dispatch func(func())

	ctx    context.Context
	cancel context.CancelFunc

	list      candidateList
	debouncer *debounce.Debouncer
	inflight  *request
	requestID uint64
	// scheduled identifies the most recent debounced fetch; a timer that
	// fired just before being replaced sees a different value and does nothing
	scheduled uint64
	closed    bool

	// notifications queued under the lock, delivered after unlocking
	outbox     []func()
	delivering bool
}

// New builds a controller and mounts its results container. It fails when
// the configuration blob or the template cannot be parsed.
func New(cfg Config) (*Controller, error) {
	if cfg.View == nil {
		return nil, ErrNoView
	}
	if cfg.Fetcher == nil {
		return nil, ErrNoFetcher
	}

	base := cfg.Options
	if base == (Options{}) {
		base = DefaultOptions()
	}
	options, err := ParseOptions(base, cfg.Blob)
	if err != nil {
		return nil, fmt.Errorf("parsing suggest configuration: %w", err)
	}

	template := DefaultTemplate(options.MatchWith)
	if cfg.Template != "" {
		template, err = ParseTemplate(cfg.Template)
		if err != nil {
			return nil, fmt.Errorf("parsing suggest template: %w", err)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dispatch := cfg.Dispatch
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		view:      cfg.View,
		fetcher:   cfg.Fetcher,
		options:   options,
		template:  template,
		logger:    logger,
		onEvent:   cfg.OnEvent,
		onSelect:  cfg.OnSelect,
		dispatch:  dispatch,
		ctx:       ctx,
		cancel:    cancel,
		list:      newCandidateList(),
		debouncer: debounce.New(options.Delay()),
	}

	c.view.Mount(options.Classes())
	c.view.SetVisible(false)

	return c, nil
}

func (c *Controller) Options() Options {
	return c.options
}

// IsOpen reports whether the results list is visible.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.open
}

// Pointer returns the highlighted index, or NoPointer.
func (c *Controller) Pointer() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.pointer
}

// Candidates returns a copy of the remembered candidate set.
func (c *Controller) Candidates() []Candidate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Candidate(nil), c.list.candidates...)
}

// Pending reports whether a fetch is scheduled or in flight.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight != nil || c.debouncer.Pending()
}

// KeyDown handles the key-down phase. It reports whether the default action
// of the key must be suppressed: Enter with a highlighted candidate commits
// it instead of submitting the surrounding form.
func (c *Controller) KeyDown(k Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && k == KeyEnter && c.list.pointer != NoPointer
}

// KeyUp handles the key-up phase, where keys take effect.
func (c *Controller) KeyUp(k Key) {
	c.run(func() {
		value := strings.TrimSpace(c.view.Value())

		switch k {
		case KeyDown:
			if c.list.open {
				c.moveLocked(c.list.next())
				return
			}
			if c.passesGate(value) {
				c.cancelScheduledLocked()
				c.startFetchLocked(value)
			}

		case KeyUp:
			if c.list.open {
				c.moveLocked(c.list.prev())
			}

		case KeyEnter:
			if c.list.pointer != NoPointer {
				c.commitLocked(c.list.pointer)
			}

		case KeyEscape:
			c.revertLocked()
			c.closeLocked()

		case KeyTab, KeyShift, KeyLeft, KeyRight:

		default:
			c.contentChangedLocked(value)
		}
	})
}

// Focus reopens a previously fetched list without fetching again.
func (c *Controller) Focus() {
	c.run(func() {
		if c.list.open || c.list.len() == 0 {
			return
		}
		c.logger.Debug("suggest reopening remembered candidates", zap.Int("count", c.list.len()))
		c.renderLocked()
	})
}

// ClickItem commits the candidate at index, wherever the pointer is.
// Indexes that do not resolve to a candidate are ignored.
func (c *Controller) ClickItem(index int) {
	c.run(func() {
		if !c.list.open {
			return
		}
		if _, ok := c.list.at(index); !ok {
			c.logger.Debug("suggest ignoring click on unknown item", zap.Int("index", index))
			return
		}
		c.commitLocked(index)
	})
}

// ClickItemID resolves a rendered item identifier (see Item.ID) and commits
// it. Malformed identifiers are ignored.
func (c *Controller) ClickItemID(id string) {
	index, ok := parseItemID(id)
	if !ok {
		c.logger.Debug("suggest ignoring click on malformed item", zap.String("id", id))
		return
	}
	c.ClickItem(index)
}

// ClickOutside handles a click anywhere except the input and the list: the
// preview is undone and the list hidden.
func (c *Controller) ClickOutside() {
	c.run(func() {
		if !c.list.open {
			return
		}
		c.revertLocked()
		c.closeLocked()
	})
}

// Close cancels the pending timer and the in-flight request. The controller
// ignores every event afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.debouncer.Stop()
	c.abortLocked()
	c.cancel()
}

// run executes fn under the lock, then delivers queued notifications in
// order. Notifications raised while another goroutine is delivering, or
// from inside a callback, are delivered by that same loop.
func (c *Controller) run(fn func()) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	fn()

	if c.delivering {
		c.mu.Unlock()
		return
	}
	c.delivering = true
	for len(c.outbox) > 0 {
		notify := c.outbox[0]
		c.outbox = c.outbox[1:]
		c.mu.Unlock()
		notify()
		c.mu.Lock()
	}
	c.delivering = false
	c.mu.Unlock()
}

func (c *Controller) emitLocked(e Event) {
	if c.onEvent == nil {
		return
	}
	onEvent := c.onEvent
	c.outbox = append(c.outbox, func() { onEvent(e) })
}

func (c *Controller) passesGate(value string) bool {
	return utf8.RuneCountInString(value) > c.options.MinLength
}

// contentChangedLocked reacts to a key that edited the input.
func (c *Controller) contentChangedLocked(value string) {
	if c.list.open {
		// whatever is in the field now was typed by the user
		c.unhighlightLocked()
		c.list.rememberEdit(c.view.Value())
	}

	c.cancelScheduledLocked()
	c.abortLocked()

	if !c.passesGate(value) {
		c.list.clear()
		c.closeLocked()
		return
	}

	token := c.scheduled
	c.debouncer.Trigger(func() {
		c.dispatch(func() {
			c.run(func() {
				if token != c.scheduled {
					return
				}
				c.startFetchLocked(value)
			})
		})
	})
}

func (c *Controller) cancelScheduledLocked() {
	c.scheduled++
	c.debouncer.Cancel()
}

// abortLocked cancels the in-flight request. Its completion, if it still
// arrives, no longer matches c.inflight and is dropped.
func (c *Controller) abortLocked() {
	if c.inflight == nil {
		return
	}
	c.logger.Debug("suggest aborting request",
		zap.Uint64("requestId", c.inflight.id),
		zap.String("query", c.inflight.query))
	c.inflight.cancel()
	c.inflight = nil
}

func (c *Controller) startFetchLocked(query string) {
	c.abortLocked()

	c.requestID++
	ctx, cancel := context.WithCancel(c.ctx)
	req := &request{id: c.requestID, query: query, cancel: cancel}
	c.inflight = req

	c.emitLocked(EventRequest)
	c.logger.Debug("suggest fetching", zap.Uint64("requestId", req.id), zap.String("query", query))

	go func() {
		payload, err := c.fetcher.Fetch(ctx, query)
		c.dispatch(func() {
			c.run(func() { c.completeLocked(req, payload, err) })
		})
	}()
}

func (c *Controller) completeLocked(req *request, payload Payload, err error) {
	if req != c.inflight {
		c.logger.Debug("suggest discarding stale response",
			zap.Uint64("requestId", req.id),
			zap.String("query", req.query))
		return
	}
	c.inflight = nil
	req.cancel()

	if err != nil {
		c.logger.Error("suggest fetch failed", zap.String("query", req.query), zap.Error(err))
		return
	}

	candidates, err := DecodeCandidates(payload, c.options.ArrayName)
	switch {
	case errors.Is(err, ErrArrayNameRequired):
		c.logger.Warn("suggest configuration error",
			zap.String("query", req.query),
			zap.String("hint", `set "arrayName" in the configuration, e.g. {"arrayName": "items"}`),
			zap.Error(err))
		candidates = nil
	case err != nil:
		c.logger.Error("suggest could not decode response", zap.String("query", req.query), zap.Error(err))
		return
	}

	c.displayLocked(req.query, candidates)
}

// displayLocked decides whether a fresh candidate set is shown.
func (c *Controller) displayLocked(query string, candidates []Candidate) {
	// new results invalidate a preview of the old ones, whether they open
	// the list or close it
	if c.list.pointer != NoPointer {
		c.revertLocked()
	}

	if query == "" || len(candidates) == 0 {
		c.list.clear()
		c.closeLocked()
		return
	}

	if len(candidates) == 1 && candidates[0].Field(c.options.MatchWith) == query {
		c.logger.Debug("suggest suppressing list matching the input", zap.String("query", query))
		c.list.clear()
		c.closeLocked()
		return
	}

	c.list.replace(query, candidates)
	c.renderLocked()
}

// renderLocked renders the remembered candidates and opens the list with
// nothing highlighted.
func (c *Controller) renderLocked() {
	items := lo.Map(c.list.candidates, func(candidate Candidate, i int) Item {
		return Item{Index: i, Text: c.template.Render(candidate), Candidate: candidate}
	})
	c.view.Render(items)

	c.list.pointer = NoPointer
	c.list.rememberEdit(c.view.Value())
	c.openLocked()
}

func (c *Controller) openLocked() {
	if c.list.open {
		return
	}
	c.list.open = true
	c.list.pointer = NoPointer
	c.view.SetVisible(true)
	c.emitLocked(EventOpen)
}

func (c *Controller) closeLocked() {
	if !c.list.open {
		return
	}
	c.unhighlightLocked()
	c.list.open = false
	c.view.SetVisible(false)
	c.emitLocked(EventClose)
}

func (c *Controller) unhighlightLocked() {
	if c.list.pointer != NoPointer {
		c.view.SetActive(c.list.pointer, false)
		c.list.pointer = NoPointer
	}
}

// moveLocked highlights target and previews it, or reverts when target is
// NoPointer.
func (c *Controller) moveLocked(target int) {
	if target == NoPointer {
		c.revertLocked()
		return
	}

	if c.list.pointer == NoPointer && !c.list.hasPendingEdit {
		// a new preview sequence starts from what is in the field now
		c.list.rememberEdit(c.view.Value())
	}

	c.unhighlightLocked()
	c.list.pointer = target
	c.view.SetActive(target, true)

	candidate, _ := c.list.highlighted()
	c.view.SetValue(candidate.Field(c.options.MatchWith))
}

// revertLocked restores the text the user typed and forgets it.
func (c *Controller) revertLocked() {
	if !c.list.open {
		return
	}
	if c.list.hasPendingEdit {
		c.view.SetValue(c.list.pendingEdit)
	}
	c.list.clearPendingEdit()
	c.unhighlightLocked()
}

func (c *Controller) commitLocked(index int) {
	candidate, ok := c.list.at(index)
	if !ok {
		return
	}

	query := c.list.query
	if c.list.hasPendingEdit {
		query = c.list.pendingEdit
	}
	value := candidate.Field(c.options.MatchWith)

	c.view.SetValue(value)
	c.closeLocked()
	c.list.clear()

	c.logger.Debug("suggest committed selection",
		zap.Int("index", index),
		zap.String("query", query),
		zap.String("value", value))

	c.emitLocked(EventSelected)
	if c.onSelect != nil {
		onSelect := c.onSelect
		selection := Selection{Query: query, Value: value, Index: index, Candidate: candidate}
		c.outbox = append(c.outbox, func() { onSelect(selection) })
	}
}
