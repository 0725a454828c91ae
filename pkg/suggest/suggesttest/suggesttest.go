// Package suggesttest provides an in-memory view and a scripted fetcher for
// exercising suggest controllers without a UI or a network.
package suggesttest

import (
	"context"
	"sync"

	"github.com/atinylittleshell/gsuggest/pkg/suggest"
)

// View records everything a controller does to it.
type View struct {
	mu      sync.Mutex
	classes suggest.Classes
	mounted int
	value   string
	items   []suggest.Item
	visible bool
	active  map[int]bool
	values  []string
}

func NewView(value string) *View {
	return &View{value: value, active: map[int]bool{}}
}

func (v *View) Mount(classes suggest.Classes) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.classes = classes
	v.mounted++
}

func (v *View) Value() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

func (v *View) SetValue(value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.value = value
	v.values = append(v.values, value)
}

func (v *View) Render(items []suggest.Item) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = append([]suggest.Item(nil), items...)
	v.active = map[int]bool{}
}

func (v *View) SetVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visible = visible
}

func (v *View) SetActive(index int, active bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if active {
		v.active[index] = true
	} else {
		delete(v.active, index)
	}
}

// Type replaces the input text the way a user typing would, without the
// controller being told. Follow it with KeyUp(suggest.KeyOther).
func (v *View) Type(value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.value = value
}

func (v *View) Classes() suggest.Classes {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.classes
}

func (v *View) Mounted() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mounted
}

func (v *View) Items() []suggest.Item {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]suggest.Item(nil), v.items...)
}

// Texts returns the rendered text of each item.
func (v *View) Texts() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	texts := make([]string, len(v.items))
	for i, item := range v.items {
		texts[i] = item.Text
	}
	return texts
}

func (v *View) Visible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visible
}

// Active returns the highlighted indexes.
func (v *View) Active() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	var indexes []int
	for i := range v.items {
		if v.active[i] {
			indexes = append(indexes, i)
		}
	}
	return indexes
}

// InputAttributes returns the semantic attributes of the input as the view
// currently shows it.
func (v *View) InputAttributes() suggest.Attributes {
	v.mu.Lock()
	defer v.mu.Unlock()
	active := suggest.NoPointer
	for i := range v.items {
		if v.active[i] {
			active = i
		}
	}
	return suggest.InputAttributes(v.visible, active)
}

// ItemAttributes returns the semantic attributes of every rendered item.
func (v *View) ItemAttributes() []suggest.Attributes {
	v.mu.Lock()
	defer v.mu.Unlock()
	attrs := make([]suggest.Attributes, len(v.items))
	for i, item := range v.items {
		attrs[i] = item.Attributes(v.active[item.Index])
	}
	return attrs
}

// Values returns every value written through SetValue, oldest first.
func (v *View) Values() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.values...)
}

// Call is one request received by a Fetcher. It blocks until answered.
type Call struct {
	Query string
	Ctx   context.Context
	reply chan reply
}

type reply struct {
	payload suggest.Payload
	err     error
}

// Respond completes the call with payload.
func (c *Call) Respond(payload string) {
	c.reply <- reply{payload: suggest.Payload(payload)}
}

// Fail completes the call with err.
func (c *Call) Fail(err error) {
	c.reply <- reply{err: err}
}

// Canceled reports whether the controller gave up on the call.
func (c *Call) Canceled() bool {
	return c.Ctx.Err() != nil
}

// Fetcher hands every request to the test, which answers it explicitly and
// in any order. Responses are delivered even after cancellation, which is
// how a late response from an aborted request looks to the controller.
type Fetcher struct {
	mu    sync.Mutex
	calls []*Call
}

func NewFetcher() *Fetcher {
	return &Fetcher{}
}

func (f *Fetcher) Fetch(ctx context.Context, query string) (suggest.Payload, error) {
	call := &Call{Query: query, Ctx: ctx, reply: make(chan reply, 1)}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	r := <-call.reply
	return r.payload, r.err
}

// Calls returns the requests received so far.
func (f *Fetcher) Calls() []*Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Call(nil), f.calls...)
}

// Call returns the i-th request, or nil.
func (f *Fetcher) Call(i int) *Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.calls) {
		return nil
	}
	return f.calls[i]
}

// Queries returns the query of every request received so far.
func (f *Fetcher) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	queries := make([]string, len(f.calls))
	for i, call := range f.calls {
		queries[i] = call.Query
	}
	return queries
}

// StaticFetcher answers immediately from a fixed table. Unknown queries
// get an empty array.
type StaticFetcher map[string]string

func (f StaticFetcher) Fetch(ctx context.Context, query string) (suggest.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload, ok := f[query]
	if !ok {
		return suggest.Payload("[]"), nil
	}
	return suggest.Payload(payload), nil
}
