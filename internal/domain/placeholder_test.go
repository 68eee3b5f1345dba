package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePlaceholderCard(t *testing.T) {
	col := Column{ID: "c9", BoardID: "b1"}

	card := GeneratePlaceholderCard(col)
	assert.Equal(t, "c9-placeholder-card", card.ID)
	assert.Equal(t, "c9", card.ColumnID)
	assert.Equal(t, "b1", card.BoardID)
	assert.True(t, card.PlaceholderCard)
	assert.NotNil(t, card.Members)
	assert.NotNil(t, card.Comments)
	assert.NotNil(t, card.Attachments)
	require.NotNil(t, card.CreatedAt)

	// Same id every call
	assert.Equal(t, card.ID, GeneratePlaceholderCard(col).ID)
}

func TestIsPlaceholderID(t *testing.T) {
	assert.True(t, IsPlaceholderID(PlaceholderCardID("c1")))
	assert.False(t, IsPlaceholderID("k1"))
	assert.False(t, IsPlaceholderID("placeholder-card-k1"))
	assert.Equal(t, "c1", PlaceholderColumnID(PlaceholderCardID("c1")))
}

func TestInstallPlaceholder(t *testing.T) {
	col := Column{ID: "c1", Cards: []Card{}, CardOrderIDs: nil}
	InstallPlaceholder(&col)

	require.Len(t, col.Cards, 1)
	assert.Equal(t, []string{"c1-placeholder-card"}, col.CardOrderIDs)
	assert.True(t, col.HasPlaceholder())
	assert.True(t, col.IsEmpty())
}

func TestPersistableIDs(t *testing.T) {
	assert.Equal(t, []string{}, PersistableIDs([]string{"c1-placeholder-card"}))
	assert.Equal(t, []string{"k1", "k2"}, PersistableIDs([]string{"k1", "c1-placeholder-card", "k2"}))
	assert.Equal(t, []string{}, PersistableIDs(nil))
}
