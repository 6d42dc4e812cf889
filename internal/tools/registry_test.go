package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardsListsEveryTool(t *testing.T) {
	cards := Cards()
	require.Len(t, cards, 3)

	ids := map[ID]bool{}
	for _, card := range cards {
		ids[card.ID] = true
		assert.NotEmpty(t, card.Title)
		assert.NotEmpty(t, card.Description)
	}
	assert.True(t, ids[IDLinkedin])
	assert.True(t, ids[IDKeywords])
	assert.True(t, ids[IDResearch])
}

func TestCardsReturnsCopy(t *testing.T) {
	cards := Cards()
	cards[0].Title = "mutated"
	assert.NotEqual(t, "mutated", Cards()[0].Title)
}

func TestResolveEmptyParamIsDashboard(t *testing.T) {
	target := Resolve("")
	assert.True(t, target.Dashboard)
	assert.Nil(t, target.Tool)
}

func TestResolveKnownTool(t *testing.T) {
	target := Resolve("keywords")
	require.NotNil(t, target.Tool)
	assert.False(t, target.Dashboard)
	assert.Equal(t, IDKeywords, target.Tool.ID)
}

func TestResolveUnknownFallsBackToDashboard(t *testing.T) {
	for _, param := range []string{"bogus", "KEYWORDS", "linkedin "} {
		target := Resolve(param)
		assert.True(t, target.Dashboard, "param %q should fall back", param)
		assert.Nil(t, target.Tool)
	}
}
