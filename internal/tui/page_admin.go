package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rsawada/aniterm/internal/api"
	"github.com/rsawada/aniterm/internal/domain"
)

const jobPollInterval = 2 * time.Second

// adminState backs the dashboard screen: dataset stats, aggregation
// charts, and the model registry with activate/train controls.
type adminState struct {
	tab     int // 0 = stats, 1 = charts, 2 = models
	stats   domain.Stats
	viz     api.VisualizationData
	models  []domain.ModelInfo
	compare []api.ModelComparison
	cursor  int
	job     *domain.TrainingJob
	width   int
	height  int
}

func newAdminState() adminState {
	return adminState{}
}

func (a *adminState) resize(w, h int) {
	a.width = w
	a.height = h
}

func (m *Model) enterAdmin() tea.Cmd {
	if !m.Session.IsAuthenticated() {
		return statusCmd("sign in to open the dashboard", true)
	}
	return tea.Batch(
		loadStatsCmd(m.Admin, m.Coord.Begin(sectionAdminStats)),
		loadVizCmd(m.Admin, m.Coord.Begin(sectionAdminViz)),
		loadModelsCmd(m.Admin, m.Coord.Begin(sectionAdminModels)),
		loadCompareCmd(m.Admin, m.Coord.Begin(sectionCompare)),
	)
}

func (m *Model) updateAdmin(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case StatsLoadedMsg:
		if m.Coord.Complete(sectionAdminStats, msg.Epoch, msg.Err) && msg.Err == nil {
			m.admin.stats = msg.Stats
		}
	case VizLoadedMsg:
		if m.Coord.Complete(sectionAdminViz, msg.Epoch, msg.Err) && msg.Err == nil {
			m.admin.viz = msg.Data
		}
	case ModelsLoadedMsg:
		if m.Coord.Complete(sectionAdminModels, msg.Epoch, msg.Err) && msg.Err == nil {
			m.admin.models = msg.Models
			if m.admin.cursor >= len(msg.Models) {
				m.admin.cursor = 0
			}
		}
	case CompareLoadedMsg:
		if m.Coord.Complete(sectionCompare, msg.Epoch, msg.Err) && msg.Err == nil {
			m.admin.compare = msg.Rows
		}
	case ModelActivatedMsg:
		if msg.Err != nil {
			return statusCmd(humanizeErr(msg.Err), true)
		}
		return tea.Batch(
			statusCmd(fmt.Sprintf("%s is now active", msg.Model), false),
			loadModelsCmd(m.Admin, m.Coord.Begin(sectionAdminModels)),
		)
	case TrainStartedMsg:
		if msg.Err != nil {
			return statusCmd(humanizeErr(msg.Err), true)
		}
		m.admin.job = &msg.Job
		return pollJobCmd(m.Admin, msg.Job.JobID, jobPollInterval)
	case JobStatusMsg:
		return m.handleJobStatus(msg)
	}
	return nil
}

func (m *Model) handleJobStatus(msg JobStatusMsg) tea.Cmd {
	if msg.Err != nil {
		m.admin.job = nil
		return statusCmd(humanizeErr(msg.Err), true)
	}
	job := msg.Job
	m.admin.job = &job
	switch job.Status {
	case "completed":
		m.admin.job = nil
		return tea.Batch(
			statusCmd(fmt.Sprintf("training %s finished", job.Model), false),
			loadModelsCmd(m.Admin, m.Coord.Begin(sectionAdminModels)),
			loadCompareCmd(m.Admin, m.Coord.Begin(sectionCompare)),
		)
	case "failed":
		m.admin.job = nil
		return statusCmd(fmt.Sprintf("training %s failed: %s", job.Model, job.Error), true)
	default:
		return pollJobCmd(m.Admin, job.JobID, jobPollInterval)
	}
}

func (m *Model) adminKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, Keys.Tab):
		m.admin.tab = (m.admin.tab + 1) % 3
	case key.Matches(msg, Keys.Up):
		if m.admin.cursor > 0 {
			m.admin.cursor--
		}
	case key.Matches(msg, Keys.Down):
		if m.admin.tab == 2 && m.admin.cursor < len(m.admin.models)-1 {
			m.admin.cursor++
		}
	case key.Matches(msg, Keys.Activate):
		if model := m.selectedModel(); model != "" {
			return activateModelCmd(m.Admin, model)
		}
	case key.Matches(msg, Keys.Train):
		if m.admin.job != nil {
			return statusCmd("a training job is already running", true)
		}
		if model := m.selectedModel(); model != "" {
			return trainModelCmd(m.Admin, model)
		}
	case key.Matches(msg, Keys.Refresh):
		return m.enterAdmin()
	}
	return nil
}

func (m *Model) selectedModel() string {
	if m.admin.tab != 2 || m.admin.cursor >= len(m.admin.models) {
		return ""
	}
	return m.admin.models[m.admin.cursor].Name
}
