package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"trellone-sync/internal/domain"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan, color.Bold)
	faint  = color.New(color.Faint)
)

// Success prints a success message in green with a checkmark prefix
func Success(format string, a ...any) {
	green.Printf("✓ %s", fmt.Sprintf(format, a...))
}

// Info prints an informational message in the default color
func Info(format string, a ...any) {
	fmt.Printf(format, a...)
}

// Warning prints a warning message in yellow
func Warning(format string, a ...any) {
	yellow.Printf("⚠️  %s", fmt.Sprintf(format, a...))
}

// Error prints title and explanation to stderr and returns a plain error for cobra
func Error(title, explanation string, suggestions ...string) error {
	red.Fprintf(os.Stderr, "%s\n\n", title)
	fmt.Fprintf(os.Stderr, "%s\n", explanation)
	if len(suggestions) > 0 {
		fmt.Fprintln(os.Stderr)
		for _, s := range suggestions {
			fmt.Fprintf(os.Stderr, "  - %s\n", s)
		}
	}
	return fmt.Errorf("%s", title)
}

// Board writes the columns and cards of board in display order. Placeholder cards are skipped.
func Board(w io.Writer, board *domain.Board) {
	title := board.Title
	if board.Destroy {
		title += " (closed)"
	}
	cyan.Fprintf(w, "%s\n", title)
	faint.Fprintf(w, "%s · %d columns · %d cards\n", board.ID, len(board.Columns), board.CardCount())

	for _, col := range board.Columns {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s\n", col.Title)
		fmt.Fprintf(w, "%s\n", strings.Repeat("─", max(len([]rune(col.Title)), 3)))
		if col.IsEmpty() {
			faint.Fprintln(w, "  (no cards)")
			continue
		}
		for _, card := range col.Cards {
			if card.PlaceholderCard {
				continue
			}
			writeCard(w, card)
		}
	}
}

func writeCard(w io.Writer, card domain.Card) {
	mark := "[ ]"
	if card.IsCompleted {
		mark = green.Sprint("[x]")
	}
	fmt.Fprintf(w, "  %s %s", mark, card.Title)

	var extras []string
	if card.DueDate != nil {
		extras = append(extras, "due "+card.DueDate.UTC().Format("2006-01-02"))
	}
	if n := len(card.Comments); n > 0 {
		extras = append(extras, fmt.Sprintf("%d comments", n))
	}
	if n := len(card.Attachments); n > 0 {
		extras = append(extras, fmt.Sprintf("%d attachments", n))
	}
	if len(extras) > 0 {
		faint.Fprintf(w, "  (%s)", strings.Join(extras, ", "))
	}
	fmt.Fprintln(w)
}
