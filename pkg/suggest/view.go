package suggest

import (
	"strconv"
	"strings"
)

// Semantic roles a view should expose on its elements.
const (
	RoleInput        = "combobox"
	RoleListbox      = "listbox"
	RoleOption       = "option"
	RoleAutocomplete = "list"
)

// Attributes are the semantic attributes of one element, keyed by name.
type Attributes map[string]string

// InputAttributes describes the bound input while the list is open or
// closed, pointing at the highlighted item when there is one.
func InputAttributes(open bool, active int) Attributes {
	attrs := Attributes{
		"role":              RoleInput,
		"aria-autocomplete": RoleAutocomplete,
		"aria-expanded":     strconv.FormatBool(open),
	}
	if open && active != NoPointer {
		attrs["aria-activedescendant"] = strconv.Itoa(active)
	}
	return attrs
}

// ListAttributes describes the results container.
func ListAttributes() Attributes {
	return Attributes{"role": RoleListbox}
}

// Classes carries the class names configured for one controller.
type Classes struct {
	Wrapper    string
	Active     string
	Results    string
	Item       string
	Visibility string
}

// Item is one rendered entry of the results list. Index is the stable
// position identifier used to resolve clicks back to the candidate.
type Item struct {
	Index     int
	Text      string
	Candidate Candidate
}

// ID is the identifier a view attaches to the rendered element.
func (i Item) ID() string {
	return strconv.Itoa(i.Index)
}

// Attributes describes the rendered item.
func (i Item) Attributes(active bool) Attributes {
	return Attributes{
		"role":          RoleOption,
		"id":            i.ID(),
		"aria-selected": strconv.FormatBool(active),
	}
}

// View is the presentation side of a controller: the bound input field and
// the results container next to it.
//
// The controller calls these methods while holding its lock, so a View must
// not call back into the controller from inside them.
type View interface {
	// Mount prepares the results container. Called once, from New.
	Mount(classes Classes)

	// Value returns the raw text of the input.
	Value() string

	// SetValue replaces the text of the input.
	SetValue(value string)

	// Render replaces the item markup of the results container.
	Render(items []Item)

	// SetVisible shows or hides the results container.
	SetVisible(visible bool)

	// SetActive toggles the highlight on the item at index.
	SetActive(index int, active bool)
}

func parseItemID(id string) (int, bool) {
	index, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}
