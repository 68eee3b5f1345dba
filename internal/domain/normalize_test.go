package domain

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBoard_SortsColumnsAndCards(t *testing.T) {
	board := newTestBoard()
	board.ColumnOrderIDs = []string{"c2", "c3", "c1"}
	board.Columns[0].CardOrderIDs = []string{"k2", "k1"}

	out := NormalizeBoard(board)

	assert.Equal(t, []string{"c2", "c3", "c1"}, colIDs(out))
	assert.Equal(t, []string{"k2", "k1"}, cardIDsOf(out, "c1"))

	// Input untouched
	assert.Equal(t, []string{"c1", "c2", "c3"}, colIDs(board))
	assert.Equal(t, []string{"k1", "k2"}, cardIDsOf(board, "c1"))
}

func TestNormalizeBoard_InstallsPlaceholderInEmptyColumns(t *testing.T) {
	out := NormalizeBoard(newTestBoard())

	c3, ok := out.FindColumn("c3")
	require.True(t, ok)
	require.Len(t, c3.Cards, 1)
	assert.True(t, c3.Cards[0].PlaceholderCard)
	assert.Equal(t, []string{"c3-placeholder-card"}, c3.CardOrderIDs)

	c1, _ := out.FindColumn("c1")
	assert.False(t, c1.HasPlaceholder())
}

func TestNormalizeBoard_NilInputs(t *testing.T) {
	assert.Nil(t, NormalizeBoard(nil))

	board := &Board{ID: "b1", Columns: []Column{{ID: "c1"}}}
	out := NormalizeBoard(board)
	assert.Equal(t, []string{}, out.ColumnOrderIDs)
	assert.Empty(t, out.Columns)
}

func TestNormalizeBoard_MissingCardOrderEmptiesColumn(t *testing.T) {
	board := newTestBoard()
	board.Columns[1].CardOrderIDs = nil

	out := NormalizeBoard(board)
	c2, _ := out.FindColumn("c2")
	assert.Equal(t, []string{"c2-placeholder-card"}, c2.CardOrderIDs)
}

func TestNormalizeBoard_Idempotent(t *testing.T) {
	once := NormalizeBoard(newTestBoard())
	twice := NormalizeBoard(once)
	assert.Equal(t, colIDs(once), colIDs(twice))
	for _, id := range once.ColumnOrderIDs {
		assert.Equal(t, cardIDsOf(once, id), cardIDsOf(twice, id))
	}
}

// genBoard builds a board with up to 6 columns holding 0-4 cards each
func genBoard() gopter.Gen {
	return gen.SliceOfN(6, gen.IntRange(0, 4)).Map(func(counts []int) *Board {
		b := &Board{ID: "b", ColumnOrderIDs: []string{}, Columns: []Column{}}
		for i, n := range counts {
			col := Column{ID: fmt.Sprintf("c%d", i), BoardID: "b", CardOrderIDs: []string{}, Cards: []Card{}}
			for j := 0; j < n; j++ {
				id := fmt.Sprintf("c%d-k%d", i, j)
				col.Cards = append(col.Cards, Card{ID: id, ColumnID: col.ID})
				col.CardOrderIDs = append([]string{id}, col.CardOrderIDs...)
			}
			b.Columns = append(b.Columns, col)
			b.ColumnOrderIDs = append([]string{col.ID}, b.ColumnOrderIDs...)
		}
		return b
	})
}

func TestProperty_PlaceholderInvariantAfterLoad(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("every column ends non-empty; empty ones hold exactly their placeholder", prop.ForAll(
		func(board *Board) bool {
			out := NormalizeBoard(board)
			for i, col := range out.Columns {
				if len(col.Cards) == 0 {
					return false
				}
				if len(board.Columns[len(board.Columns)-1-i].Cards) == 0 {
					if len(col.Cards) != 1 || !col.Cards[0].PlaceholderCard || col.CardOrderIDs[0] != PlaceholderCardID(col.ID) {
						return false
					}
				} else if col.HasPlaceholder() {
					return false
				}
			}
			return true
		},
		genBoard(),
	))

	properties.Property("order arrays match the sequenced ids", prop.ForAll(
		func(board *Board) bool {
			out := NormalizeBoard(board)
			if !assert.ObjectsAreEqual(out.ColumnOrderIDs, columnIDs(out.Columns)) {
				return false
			}
			for _, col := range out.Columns {
				if !assert.ObjectsAreEqual(col.CardOrderIDs, cardIDs(col.Cards)) {
					return false
				}
			}
			return true
		},
		genBoard(),
	))

	properties.TestingRun(t)
}
