package domain

// newTestBoard builds b1 with columns c1 (k1, k2), c2 (k3) and an empty c3
func newTestBoard() *Board {
	return &Board{
		ID:             "b1",
		Title:          "Roadmap",
		ColumnOrderIDs: []string{"c1", "c2", "c3"},
		Columns: []Column{
			{ID: "c1", BoardID: "b1", Title: "Todo", CardOrderIDs: []string{"k1", "k2"}, Cards: []Card{
				{ID: "k1", BoardID: "b1", ColumnID: "c1", Title: "one"},
				{ID: "k2", BoardID: "b1", ColumnID: "c1", Title: "two"},
			}},
			{ID: "c2", BoardID: "b1", Title: "Doing", CardOrderIDs: []string{"k3"}, Cards: []Card{
				{ID: "k3", BoardID: "b1", ColumnID: "c2", Title: "three"},
			}},
			{ID: "c3", BoardID: "b1", Title: "Done", CardOrderIDs: []string{}, Cards: []Card{}},
		},
	}
}

func colIDs(b *Board) []string { return columnIDs(b.Columns) }

func cardIDsOf(b *Board, columnID string) []string {
	col, ok := b.FindColumn(columnID)
	if !ok {
		return nil
	}
	return cardIDs(col.Cards)
}
