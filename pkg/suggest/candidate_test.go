package suggest_test

import (
	"testing"

	"github.com/atinylittleshell/gsuggest/pkg/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCandidatesArray(t *testing.T) {
	candidates, err := suggest.DecodeCandidates(suggest.Payload(`
		[{"label":"Paris","population":2161000,"capital":true,"note":null,"tags":["fr", "eu"]},
		 {"label":"Parma"}]`), "")
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "Paris", candidates[0].Field("label"))
	assert.Equal(t, "2161000", candidates[0].Field("population"))
	assert.Equal(t, "true", candidates[0].Field("capital"))
	assert.Equal(t, "", candidates[0].Field("note"))
	assert.Equal(t, `["fr","eu"]`, candidates[0].Field("tags"))
	assert.Equal(t, "", candidates[1].Field("population"))
}

func TestDecodeCandidatesObject(t *testing.T) {
	payload := suggest.Payload(`{"total": 1, "items": [{"label": "X"}]}`)

	candidates, err := suggest.DecodeCandidates(payload, "items")
	require.NoError(t, err)
	assert.Equal(t, []suggest.Candidate{{"label": "X"}}, candidates)

	_, err = suggest.DecodeCandidates(payload, "")
	assert.ErrorIs(t, err, suggest.ErrArrayNameRequired)

	candidates, err = suggest.DecodeCandidates(payload, "results")
	require.NoError(t, err)
	assert.Empty(t, candidates)

	candidates, err = suggest.DecodeCandidates(payload, "total")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestDecodeCandidatesEmptyArray(t *testing.T) {
	candidates, err := suggest.DecodeCandidates(suggest.Payload(`[]`), "")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestDecodeCandidatesUnsupported(t *testing.T) {
	for _, payload := range []string{"", "  ", `"Paris"`, `42`, `[1, 2]`, `[{"label": }]`, `{"items": `} {
		_, err := suggest.DecodeCandidates(suggest.Payload(payload), "items")
		assert.ErrorIs(t, err, suggest.ErrUnsupportedPayload, payload)
	}
}
