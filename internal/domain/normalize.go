package domain

import "trellone-sync/internal/util"

// NormalizeBoard returns a copy of board with columns sequenced by ColumnOrderIDs and
// cards sequenced by CardOrderIDs. Columns without cards receive a placeholder card.
func NormalizeBoard(board *Board) *Board {
	if board == nil {
		return nil
	}
	out := board.Clone()

	out.Columns = util.MapOrder(out.Columns, out.ColumnOrderIDs, func(c Column) string { return c.ID })
	for i := range out.Columns {
		col := &out.Columns[i]
		if len(col.Cards) > 0 {
			col.Cards = util.MapOrder(col.Cards, col.CardOrderIDs, func(c Card) string { return c.ID })
		}
		if len(col.Cards) == 0 {
			InstallPlaceholder(col)
		}
	}
	if out.ColumnOrderIDs == nil {
		out.ColumnOrderIDs = []string{}
	}
	return out
}
