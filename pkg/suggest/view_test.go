package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputAttributes(t *testing.T) {
	assert.Equal(t, Attributes{
		"role":              "combobox",
		"aria-autocomplete": "list",
		"aria-expanded":     "false",
	}, InputAttributes(false, 2))

	assert.Equal(t, Attributes{
		"role":                  "combobox",
		"aria-autocomplete":     "list",
		"aria-expanded":         "true",
		"aria-activedescendant": "2",
	}, InputAttributes(true, 2))

	assert.NotContains(t, InputAttributes(true, NoPointer), "aria-activedescendant")
}

func TestListAndItemAttributes(t *testing.T) {
	assert.Equal(t, Attributes{"role": "listbox"}, ListAttributes())

	item := Item{Index: 3, Text: "Paris"}
	assert.Equal(t, Attributes{"role": "option", "id": "3", "aria-selected": "true"}, item.Attributes(true))
	assert.Equal(t, "false", item.Attributes(false)["aria-selected"])
}
