package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rsawada/aniterm/internal/domain"
)

// lanesState backs the model comparison screen: one recommendation lane
// per model variant, fetched concurrently. A slow or failed lane never
// blocks the others.
type lanesState struct {
	data   map[string]laneData
	focus  int // index into domain.ModelNames
	cursor int
	width  int
	height int
}

type laneData struct {
	items []domain.DisplayItem
	via   string
}

func newLanesState() lanesState {
	return lanesState{data: make(map[string]laneData)}
}

func (l *lanesState) resize(w, h int) {
	l.width = w
	l.height = h
}

func (m *Model) enterLanes() tea.Cmd {
	if !m.Session.IsAuthenticated() {
		return statusCmd("sign in to compare recommendation models", true)
	}
	token := m.Session.Token()
	cmds := make([]tea.Cmd, 0, len(domain.ModelNames))
	for _, model := range m.Rec.Models() {
		section := laneSection + model
		cmds = append(cmds, loadLaneCmd(m.Rec, m.Coord.Begin(section), token, model, 10))
	}
	return tea.Batch(cmds...)
}

func (m *Model) updateLanes(msg tea.Msg) tea.Cmd {
	lane, ok := msg.(LaneLoadedMsg)
	if !ok {
		return nil
	}
	section := laneSection + lane.Model
	if m.Coord.Complete(section, lane.Epoch, lane.Err) {
		if lane.Err != nil {
			return m.maybeInvalidate(lane.Err)
		}
		m.lanes.data[lane.Model] = laneData{items: lane.Set.Items, via: lane.Set.ModelUsed}
	}
	return nil
}

func (m *Model) lanesKey(msg tea.KeyMsg) tea.Cmd {
	models := m.Rec.Models()
	switch {
	case key.Matches(msg, Keys.Left):
		if m.lanes.focus > 0 {
			m.lanes.focus--
			m.lanes.cursor = 0
		}
	case key.Matches(msg, Keys.Right), key.Matches(msg, Keys.Tab):
		if m.lanes.focus < len(models)-1 {
			m.lanes.focus++
			m.lanes.cursor = 0
		}
	case key.Matches(msg, Keys.Up):
		if m.lanes.cursor > 0 {
			m.lanes.cursor--
		}
	case key.Matches(msg, Keys.Down):
		if items := m.focusedLane(); m.lanes.cursor < len(items)-1 {
			m.lanes.cursor++
		}
	case key.Matches(msg, Keys.Enter):
		if items := m.focusedLane(); m.lanes.cursor < len(items) {
			return m.openDetail(items[m.lanes.cursor].ID)
		}
	case key.Matches(msg, Keys.Refresh):
		return m.enterLanes()
	}
	return nil
}

func (m *Model) focusedLane() []domain.DisplayItem {
	models := m.Rec.Models()
	if m.lanes.focus >= len(models) {
		return nil
	}
	return m.lanes.data[models[m.lanes.focus]].items
}
