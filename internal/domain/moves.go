package domain

// ArrayMove returns a copy of items with the element at index from moved to index to
func ArrayMove[T any](items []T, from, to int) []T {
	out := make([]T, len(items))
	copy(out, items)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	item := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]T{item}, out[to:]...)...)
	return out
}

// MoveColumn returns a copy of board with the active column moved to the position of the over column
func MoveColumn(board *Board, activeColumnID, overColumnID string) (*Board, error) {
	from := board.ColumnIndex(activeColumnID)
	to := board.ColumnIndex(overColumnID)
	if from < 0 || to < 0 {
		return nil, ErrColumnNotFound
	}

	out := board.Clone()
	out.Columns = ArrayMove(out.Columns, from, to)
	out.ColumnOrderIDs = columnIDs(out.Columns)
	return out, nil
}

// MoveCardWithinColumn returns a copy of board with the active card moved to the position
// of the over card inside the same column
func MoveCardWithinColumn(board *Board, columnID, activeCardID, overCardID string) (*Board, error) {
	out := board.Clone()
	col, ok := out.FindColumn(columnID)
	if !ok {
		return nil, ErrColumnNotFound
	}
	from := col.CardIndex(activeCardID)
	to := col.CardIndex(overCardID)
	if from < 0 || to < 0 {
		return nil, ErrCardNotFound
	}

	col.Cards = ArrayMove(col.Cards, from, to)
	col.CardOrderIDs = cardIDs(col.Cards)
	return out, nil
}

// MoveCardAcrossColumns returns a copy of board with the card moved into another column,
// in front of overCardID or at the end when overCardID is not a real card of that column.
// The emptied source column gets a placeholder; the destination loses its placeholder.
func MoveCardAcrossColumns(board *Board, cardID, toColumnID, overCardID string) (*Board, error) {
	out := board.Clone()
	source, ok := out.FindColumnByCardID(cardID)
	if !ok {
		return nil, ErrCardNotFound
	}
	dest, ok := out.FindColumn(toColumnID)
	if !ok {
		return nil, ErrColumnNotFound
	}
	if source.ID == dest.ID {
		return out, nil
	}

	i := source.CardIndex(cardID)
	card := source.Cards[i]
	source.Cards = append(source.Cards[:i], source.Cards[i+1:]...)
	if len(source.Cards) == 0 {
		InstallPlaceholder(source)
	} else {
		source.CardOrderIDs = cardIDs(source.Cards)
	}

	realCards := make([]Card, 0, len(dest.Cards)+1)
	for _, c := range dest.Cards {
		if !c.PlaceholderCard {
			realCards = append(realCards, c)
		}
	}
	insertAt := len(realCards)
	for j, c := range realCards {
		if c.ID == overCardID {
			insertAt = j
			break
		}
	}

	card.ColumnID = dest.ID
	realCards = append(realCards[:insertAt], append([]Card{card}, realCards[insertAt:]...)...)
	dest.Cards = realCards
	dest.CardOrderIDs = cardIDs(dest.Cards)
	return out, nil
}

func columnIDs(columns []Column) []string {
	ids := make([]string, len(columns))
	for i := range columns {
		ids[i] = columns[i].ID
	}
	return ids
}

func cardIDs(cards []Card) []string {
	ids := make([]string, len(cards))
	for i := range cards {
		ids[i] = cards[i].ID
	}
	return ids
}
