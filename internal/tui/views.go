package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rsawada/aniterm/internal/api"
	"github.com/rsawada/aniterm/internal/domain"
	"github.com/rsawada/aniterm/internal/tui/styles"
)

// View renders the whole screen
func (m Model) View() string {
	if !m.Ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	switch m.page {
	case PageHome:
		b.WriteString(m.viewHome())
	case PageBrowse:
		b.WriteString(m.viewBrowse())
	case PageSearch:
		b.WriteString(m.viewSearch())
	case PageLanes:
		b.WriteString(m.viewLanes())
	case PageHistory:
		b.WriteString(m.viewHistory())
	case PageDetail:
		b.WriteString(m.viewDetail())
	case PageAdmin:
		b.WriteString(m.viewAdmin())
	case PageLogin:
		b.WriteString(m.viewLogin())
	case PageHelp:
		b.WriteString(m.viewHelp())
	}

	content := b.String()
	pad := m.Height - lipgloss.Height(content) - 1
	if pad > 0 {
		content += strings.Repeat("\n", pad)
	}
	return content + "\n" + m.StatusBar.View()
}

var headerTabs = []struct {
	name string
	page Page
}{
	{"1:home", PageHome},
	{"2:browse", PageBrowse},
	{"3:search", PageSearch},
	{"4:models", PageLanes},
	{"5:history", PageHistory},
	{"6:admin", PageAdmin},
}

func (m Model) viewHeader() string {
	badge := styles.BadgeStyle.Render("aniterm")
	tabs := make([]string, len(headerTabs))
	for i, t := range headerTabs {
		if t.page == m.page {
			tabs[i] = styles.TitleStyle.Render(t.name)
		} else {
			tabs[i] = styles.DimStyle.Render(t.name)
		}
	}
	line := badge + "  " + strings.Join(tabs, "  ")
	if m.Coord.AnyLoading() {
		line += "  " + styles.AccentStyle.Render(styles.SpinnerFrames[m.SpinnerFrame])
	}
	return line
}

// sectionHeader renders a section title with its load state appended.
func (m Model) sectionHeader(title, section string) string {
	head := styles.SectionHeaderStyle.Render(title)
	if m.Coord.Loading(section) {
		return head + " " + styles.DimStyle.Render(styles.SpinnerFrames[m.SpinnerFrame])
	}
	if err := m.Coord.Err(section); err != nil {
		return head + " " + styles.ErrorStyle.Render(humanizeErr(err))
	}
	return head
}

func (m Model) viewHome() string {
	var b strings.Builder
	b.WriteString(m.sectionHeader("Top Anime", sectionHomeTop))
	b.WriteString("\n")
	b.WriteString(m.home.top.View())
	b.WriteString("\n")

	if m.Session.IsAuthenticated() {
		recsTitle := "For You"
		if m.home.recsVia != "" {
			recsTitle = fmt.Sprintf("For You (%s)", m.home.recsVia)
		}
		b.WriteString(m.sectionHeader(recsTitle, sectionHomeRecs))
		b.WriteString("\n")
		b.WriteString(m.home.recs.View())
		if len(m.home.recent) > 0 {
			b.WriteString("\n")
			b.WriteString(m.sectionHeader("Recently Watched", sectionHomeHistory))
			b.WriteString("\n")
			for _, h := range m.home.recent {
				b.WriteString("  " + styles.NormalItemStyle.Render(h.AnimeName) + "\n")
			}
		}
	} else {
		b.WriteString(styles.DimStyle.Render("press i to sign in for personal recommendations"))
	}
	return b.String()
}

func (m Model) viewBrowse() string {
	var b strings.Builder
	title := "Browse"
	if m.browse.state.Genre != "" {
		title += " · " + m.browse.state.Genre
	}
	title += fmt.Sprintf(" · %s %s", m.browse.state.Sort, m.browse.state.Order)
	if m.browse.page.Pages > 0 {
		title += fmt.Sprintf(" · page %d/%d", m.browse.state.Page, m.browse.page.Pages)
	}
	b.WriteString(m.sectionHeader(title, sectionBrowse))
	b.WriteString("\n")

	if m.browse.pickerOpen {
		b.WriteString(m.viewGenrePicker())
		return b.String()
	}

	if m.browse.filterOpen || m.browse.filterInput.Value() != "" {
		b.WriteString(styles.AccentStyle.Render("filter: "))
		b.WriteString(m.browse.filterInput.View())
		b.WriteString("\n")
	}
	b.WriteString(m.browse.list.View())
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("[/] page  / filter  g genre  s sort  o order  esc clear"))
	return b.String()
}

func (m Model) viewGenrePicker() string {
	var b strings.Builder
	b.WriteString(styles.AccentStyle.Render("genre: "))
	b.WriteString(m.browse.pickerInput.View())
	b.WriteString("\n")
	max := m.contentHeight() - 4
	for i, g := range m.browse.pickerItems {
		if i >= max {
			break
		}
		if i == m.browse.pickerCursor {
			b.WriteString(styles.SelectedItemStyle.Render("> " + g))
		} else {
			b.WriteString(styles.NormalItemStyle.Render("  " + g))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewSearch() string {
	var b strings.Builder
	mode := "text"
	if m.search.vector {
		mode = "semantic"
	}
	b.WriteString(m.sectionHeader("Search · "+mode, sectionSearch))
	b.WriteString("\n")
	b.WriteString(m.search.input.View())
	b.WriteString("\n")

	q := strings.TrimSpace(m.search.input.Value())
	switch {
	case len(q) > 0 && len(q) < 2:
		b.WriteString(styles.DimStyle.Render("keep typing..."))
	case m.search.resultsOf != "" && m.search.list.Len() == 0 && !m.Coord.Loading(sectionSearch):
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("no results for %q", m.search.resultsOf)))
	default:
		b.WriteString(m.search.list.View())
	}
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("v toggle semantic  / edit  esc clear"))
	return b.String()
}

func (m Model) viewLanes() string {
	if !m.Session.IsAuthenticated() {
		return styles.DimStyle.Render("sign in (i) to compare recommendation models")
	}
	models := m.Rec.Models()
	cols := make([]string, 0, len(models))
	colWidth := m.Width/len(models) - 2
	if colWidth < 16 {
		colWidth = 16
	}
	for li, model := range models {
		var b strings.Builder
		b.WriteString(m.sectionHeader(model, laneSection+model))
		b.WriteString("\n")
		for i, item := range m.lanes.data[model].items {
			line := styles.Truncate(item.Title, colWidth-2)
			if li == m.lanes.focus && i == m.lanes.cursor {
				line = styles.SelectedItemStyle.Render("> " + line)
			} else {
				line = styles.NormalItemStyle.Render("  " + line)
			}
			b.WriteString(line + "\n")
		}
		style := styles.InactiveBorder
		if li == m.lanes.focus {
			style = styles.ActiveBorder
		}
		cols = append(cols, style.Width(colWidth).Render(b.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m Model) viewHistory() string {
	if !m.Session.IsAuthenticated() {
		return styles.DimStyle.Render("sign in (i) to see your history")
	}
	var b strings.Builder
	if m.history.tab == 0 {
		b.WriteString(m.sectionHeader(fmt.Sprintf("Watch History · page %d", m.history.histPg), sectionHistory))
		b.WriteString("\n")
		for i, h := range m.history.hist.Items {
			line := fmt.Sprintf("%s  %s", h.AnimeName, styles.DimStyle.Render(h.WatchedAt))
			if i == m.history.cursor {
				line = styles.SelectedItemStyle.Render("> ") + line
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
		if len(m.history.hist.Items) == 0 {
			b.WriteString(styles.DimStyle.Render("nothing watched yet"))
		}
	} else {
		b.WriteString(m.sectionHeader(fmt.Sprintf("My Ratings · page %d", m.history.ratePg), sectionRatings))
		b.WriteString("\n")
		for i, r := range m.history.ratings.Items {
			line := fmt.Sprintf("%s  %s", r.AnimeName, styles.ScoreStyle.Render(fmt.Sprintf("%d/10", r.Rating)))
			if i == m.history.cursor {
				line = styles.SelectedItemStyle.Render("> ") + line
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
		if len(m.history.ratings.Items) == 0 {
			b.WriteString(styles.DimStyle.Render("no ratings yet"))
		}
	}
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("tab switch  [/] page  x remove  enter open"))
	return b.String()
}

func (m Model) viewDetail() string {
	var b strings.Builder
	b.WriteString(m.sectionHeader("Anime", sectionDetail))
	b.WriteString("\n")

	if d := m.detail.detail; d != nil {
		b.WriteString(styles.TitleStyle.Render(d.Title))
		b.WriteString("\n")
		meta := fmt.Sprintf("%s · %d eps · score %.2f", d.MediaType, d.EpisodeCount, d.Score)
		b.WriteString(styles.SubtitleStyle.Render(meta))
		b.WriteString("\n")
		if len(d.Genres) > 0 {
			b.WriteString(styles.GenreStyle.Render(strings.Join(d.Genres, ", ")))
			b.WriteString("\n")
		}
		if d.UserRatingCount > 0 {
			b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%d user ratings, avg %.1f", d.UserRatingCount, d.UserAvgRating)))
			b.WriteString("\n")
		}
		if d.Synopsis != "" {
			b.WriteString(styles.NormalItemStyle.Render(styles.Truncate(d.Synopsis, m.Width*3)))
			b.WriteString("\n")
		}
	}

	if m.Session.IsAuthenticated() {
		if m.detail.ratingPrompt {
			b.WriteString(styles.AccentStyle.Render(fmt.Sprintf("rate 1-10: %s_", m.detail.ratingDigits)))
		} else if r := m.detail.myRating; r != nil {
			b.WriteString(styles.ScoreStyle.Render(fmt.Sprintf("your rating: %d/10", r.Rating)))
		} else {
			b.WriteString(styles.DimStyle.Render("not rated · R to rate · w mark watched"))
		}
		b.WriteString("\n")
	}

	simTitle := "Similar"
	if m.detail.similarVia != "" {
		simTitle = fmt.Sprintf("Similar (%s)", m.detail.similarVia)
	}
	b.WriteString("\n")
	b.WriteString(m.sectionHeader(simTitle, sectionSimilar))
	b.WriteString("\n")
	b.WriteString(m.detail.similar.View())
	return b.String()
}

func (m Model) viewAdmin() string {
	if !m.Session.IsAuthenticated() {
		return styles.DimStyle.Render("sign in (i) to open the dashboard")
	}
	var b strings.Builder
	switch m.admin.tab {
	case 0:
		b.WriteString(m.viewAdminStats())
	case 1:
		b.WriteString(m.viewAdminCharts())
	case 2:
		b.WriteString(m.viewAdminModels())
	}
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("tab switch pane  a activate  t train  r refresh"))
	return b.String()
}

func (m Model) viewAdminStats() string {
	var b strings.Builder
	b.WriteString(m.sectionHeader("Dataset", sectionAdminStats))
	b.WriteString("\n")
	s := m.admin.stats
	b.WriteString(fmt.Sprintf("  users %d · anime %d · ratings %d · history %d\n",
		s.TotalUsers, s.TotalAnimes, s.TotalRatings, s.TotalHistory))
	if len(s.RatingDistribution) > 0 {
		b.WriteString("\n" + styles.SubtitleStyle.Render("rating distribution") + "\n")
		b.WriteString(renderBars(s.RatingDistribution, s.TotalRatings, 30))
	}
	if len(s.TopGenres) > 0 {
		b.WriteString("\n" + styles.SubtitleStyle.Render("top genres") + "\n")
		total := 0
		for _, g := range s.TopGenres {
			total += g.Count
		}
		b.WriteString(renderBars(s.TopGenres, total, 30))
	}
	return b.String()
}

func (m Model) viewAdminCharts() string {
	var b strings.Builder
	b.WriteString(m.sectionHeader("Charts", sectionAdminViz))
	b.WriteString("\n")
	if buckets := api.MapBuckets(m.admin.viz.GenreFrequency); len(buckets) > 0 {
		total := 0
		for _, kc := range buckets {
			total += kc.Count
		}
		b.WriteString(styles.SubtitleStyle.Render("genre frequency") + "\n")
		b.WriteString(renderBars(buckets, total, 30))
	}
	if buckets := api.MapBuckets(m.admin.viz.RatingDistribution); len(buckets) > 0 {
		total := 0
		for _, kc := range buckets {
			total += kc.Count
		}
		b.WriteString(styles.SubtitleStyle.Render("ratings") + "\n")
		b.WriteString(renderBars(buckets, total, 30))
	}
	if n := len(m.admin.viz.RatingCategories); n > 0 {
		b.WriteString(styles.SubtitleStyle.Render("rating categories") + "\n")
		for _, c := range m.admin.viz.RatingCategories {
			b.WriteString(fmt.Sprintf("  %-12s %d\n", c.Category, c.Count))
		}
	}
	if n := len(m.admin.viz.EngagementFunnel); n > 0 {
		b.WriteString(styles.SubtitleStyle.Render("engagement funnel") + "\n")
		for _, s := range m.admin.viz.EngagementFunnel {
			b.WriteString(fmt.Sprintf("  %-20s %d\n", s.Stage, s.Count))
		}
	}
	return b.String()
}

func (m Model) viewAdminModels() string {
	var b strings.Builder
	b.WriteString(m.sectionHeader("Models", sectionAdminModels))
	b.WriteString("\n")
	for i, mi := range m.admin.models {
		mark := "  "
		if mi.IsActive {
			mark = styles.SuccessStyle.Render("* ")
		}
		line := fmt.Sprintf("%s%-16s %-12s", mark, mi.Name, mi.Status)
		if rmse, ok := mi.Metrics["rmse"]; ok {
			line += styles.DimStyle.Render(fmt.Sprintf(" rmse %.3f", rmse))
		}
		if i == m.admin.cursor {
			line = styles.SelectedItemStyle.Render(">") + line
		} else {
			line = " " + line
		}
		b.WriteString(line + "\n")
	}
	if job := m.admin.job; job != nil {
		b.WriteString("\n")
		b.WriteString(styles.AccentStyle.Render(
			fmt.Sprintf("training %s: %s %d%% %s", job.Model, job.Status, job.Progress, job.Step)))
		b.WriteString("\n")
	}
	if len(m.admin.compare) > 0 {
		b.WriteString("\n" + m.sectionHeader("Comparison", sectionCompare) + "\n")
		for _, row := range m.admin.compare {
			line := fmt.Sprintf("  %-16s", row.Name)
			for _, k := range []string{"rmse", "mae", "precision_at_10"} {
				if v, ok := row.Metrics[k]; ok {
					line += fmt.Sprintf(" %s=%.3f", k, v)
				}
			}
			b.WriteString(styles.NormalItemStyle.Render(line) + "\n")
		}
	}
	return b.String()
}

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(styles.SectionHeaderStyle.Render("Sign In"))
	b.WriteString("\n\n")
	b.WriteString("  " + m.login.input.View())
	b.WriteString("\n\n")
	if m.login.busy {
		b.WriteString(styles.DimStyle.Render("  signing in " + styles.SpinnerFrames[m.SpinnerFrame]))
	} else if m.login.errText != "" {
		b.WriteString(styles.ErrorStyle.Render("  " + m.login.errText))
	} else {
		b.WriteString(styles.DimStyle.Render("  enter a numeric user id · esc to cancel"))
	}
	return b.String()
}

func (m Model) viewHelp() string {
	rows := []string{
		"1-6        switch screen",
		"j/k        move",
		"enter      open selection",
		"[/]        previous/next page",
		"g s o      genre / sort / order (browse)",
		"v          toggle semantic search",
		"R x w      rate / remove rating / mark watched",
		"a t        activate / train model (admin)",
		"i L        sign in / sign out",
		"r          refresh screen",
		"q          quit",
	}
	var b strings.Builder
	b.WriteString(styles.SectionHeaderStyle.Render("Keys"))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString("  " + styles.NormalItemStyle.Render(r) + "\n")
	}
	return b.String()
}

// renderBars draws a simple horizontal bar chart for aggregation buckets.
func renderBars(buckets []domain.KeyCount, total, maxWidth int) string {
	var b strings.Builder
	for _, kc := range buckets {
		w := int(kc.Percent(total) * float64(maxWidth))
		bar := strings.Repeat("█", w)
		b.WriteString(fmt.Sprintf("  %-10s %s %d\n", kc.Key, styles.AccentStyle.Render(bar), kc.Count))
	}
	return b.String()
}

// humanizeErr maps transport and API errors to short user-facing text.
func humanizeErr(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrBackendUnreachable):
		return "backend unreachable"
	case errors.Is(err, domain.ErrUnauthorized):
		return "session expired"
	case errors.Is(err, domain.ErrNotFound):
		return "not found"
	case errors.Is(err, domain.ErrInvalidRating):
		return "rating must be 1-10"
	case errors.Is(err, domain.ErrInvalidUserID):
		return "invalid user id"
	}
	return err.Error()
}
