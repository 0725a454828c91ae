package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func listOf(labels ...string) candidateList {
	cl := newCandidateList()
	candidates := make([]Candidate, len(labels))
	for i, l := range labels {
		candidates[i] = Candidate{"label": l}
	}
	cl.replace("q", candidates)
	return cl
}

func TestCandidateListNext(t *testing.T) {
	cl := listOf("a", "b", "c")

	var visited []int
	for i := 0; i < 4; i++ {
		cl.pointer = cl.next()
		visited = append(visited, cl.pointer)
	}

	assert.Equal(t, []int{0, 1, 2, NoPointer}, visited)
}

func TestCandidateListPrev(t *testing.T) {
	cl := listOf("a", "b", "c")

	var visited []int
	for i := 0; i < 4; i++ {
		cl.pointer = cl.prev()
		visited = append(visited, cl.pointer)
	}

	assert.Equal(t, []int{2, 1, 0, NoPointer}, visited)
}

func TestCandidateListEmpty(t *testing.T) {
	cl := newCandidateList()
	assert.Equal(t, NoPointer, cl.next())
	assert.Equal(t, NoPointer, cl.prev())

	_, ok := cl.highlighted()
	assert.False(t, ok)
}

func TestCandidateListAt(t *testing.T) {
	cl := listOf("a", "b")

	c, ok := cl.at(1)
	assert.True(t, ok)
	assert.Equal(t, "b", c.Field("label"))

	_, ok = cl.at(2)
	assert.False(t, ok)
	_, ok = cl.at(NoPointer)
	assert.False(t, ok)
}

func TestCandidateListClear(t *testing.T) {
	cl := listOf("a", "b")
	cl.pointer = 1
	cl.rememberEdit("typed")

	cl.clear()

	assert.Equal(t, 0, cl.len())
	assert.Equal(t, NoPointer, cl.pointer)
	assert.Equal(t, "", cl.query)
	assert.False(t, cl.hasPendingEdit)
	assert.Equal(t, "", cl.pendingEdit)
}

func TestParseItemID(t *testing.T) {
	tests := []struct {
		id    string
		index int
		ok    bool
	}{
		{id: "0", index: 0, ok: true},
		{id: " 12 ", index: 12, ok: true},
		{id: "-1", ok: false},
		{id: "", ok: false},
		{id: "li-3", ok: false},
	}

	for _, tt := range tests {
		index, ok := parseItemID(tt.id)
		assert.Equal(t, tt.ok, ok, tt.id)
		if tt.ok {
			assert.Equal(t, tt.index, index, tt.id)
		}
	}
}
