package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rsawada/aniterm/internal/domain"
	"github.com/rsawada/aniterm/internal/tui/styles"
)

// ItemList is a scrollable cursor list of display items.
type ItemList struct {
	items  []domain.DisplayItem
	cursor int
	offset int
	width  int
	height int
}

// NewItemList creates an empty list.
func NewItemList() ItemList {
	return ItemList{}
}

// SetItems replaces the list contents wholesale and clamps the cursor.
func (l *ItemList) SetItems(items []domain.DisplayItem) {
	l.items = items
	if l.cursor >= len(items) {
		l.cursor = len(items) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.clampOffset()
}

// Items returns the current contents.
func (l ItemList) Items() []domain.DisplayItem { return l.items }

// Len returns the item count.
func (l ItemList) Len() int { return len(l.items) }

// Selected returns the item under the cursor, or nil for an empty list.
func (l ItemList) Selected() *domain.DisplayItem {
	if len(l.items) == 0 || l.cursor >= len(l.items) {
		return nil
	}
	return &l.items[l.cursor]
}

// SetSize updates the viewport dimensions.
func (l *ItemList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.clampOffset()
}

// CursorUp moves the cursor up one row.
func (l *ItemList) CursorUp() {
	if l.cursor > 0 {
		l.cursor--
	}
	l.clampOffset()
}

// CursorDown moves the cursor down one row.
func (l *ItemList) CursorDown() {
	if l.cursor < len(l.items)-1 {
		l.cursor++
	}
	l.clampOffset()
}

func (l *ItemList) clampOffset() {
	if l.height <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.height {
		l.offset = l.cursor - l.height + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

// View renders the visible window of the list.
func (l ItemList) View() string {
	if len(l.items) == 0 {
		return ""
	}

	var b strings.Builder
	end := l.offset + l.height
	if l.height <= 0 || end > len(l.items) {
		end = len(l.items)
	}

	for i := l.offset; i < end; i++ {
		b.WriteString(l.renderRow(i))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (l ItemList) renderRow(i int) string {
	item := l.items[i]
	selected := i == l.cursor

	score := fmt.Sprintf("%4.2f", item.Score)
	if item.Score == 0 {
		score = "  — "
	}

	titleWidth := l.width - 30
	if titleWidth < 12 {
		titleWidth = 12
	}
	title := styles.Truncate(item.Title, titleWidth)
	genres := styles.Truncate(strings.Join(item.Genres, ", "), 22)

	line := fmt.Sprintf("%s %s  %s", styles.ScoreStyle.Render(score), title, styles.GenreStyle.Render(genres))
	if item.Kind == domain.KindRecommendation {
		line = fmt.Sprintf("%s %s  %s", styles.ScoreStyle.Render("~"+score), title, styles.GenreStyle.Render(genres))
	}

	if selected {
		prefix := styles.AccentStyle.Render("▸ ")
		return prefix + styles.SelectedItemStyle.Render(lipgloss.NewStyle().Render(line))
	}
	return "  " + styles.NormalItemStyle.Render(line)
}
