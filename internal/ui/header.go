package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/linelist/internal/linelist"
	"github.com/five82/linelist/internal/logtail"
	"github.com/five82/linelist/internal/metadata"
	"github.com/five82/linelist/internal/state"
)

// statusKey returns the theme status key for the snapshot.
func statusKey(snap state.Snapshot) string {
	if snap.IsOffline() {
		return "offline"
	}
	return snap.Status.String()
}

// renderHeader renders the project and load status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("linelist", styles.Logo)}

	switch {
	case m.project != nil:
		label := strings.TrimSpace(m.project.Label)
		if label == "" {
			label = "Project " + m.project.ID
		}
		parts = append(parts, bg.Render(truncate(label, 40), styles.Text.Bold(true)))
		if !compact && strings.TrimSpace(m.project.Organism) != "" {
			parts = append(parts, bg.Render(m.project.Organism, styles.InfoText))
		}
	case m.projectErr != nil:
		parts = append(parts, bg.Render(metadata.UserMessage(m.projectErr), styles.WarningText))
	}

	status := statusKey(m.snapshot)
	parts = append(parts, styles.StatusStyle(status).Render(strings.ToUpper(status)))

	parts = append(parts,
		bg.Render("Samples:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(m.snapshot.Entries)), styles.Text),
		bg.Render("Fields:", styles.MutedText)+bg.Space()+
			bg.Render(m.fieldCount(), styles.Text),
	)

	if !compact && !m.snapshot.LastUpdated.IsZero() {
		age := humanizeDuration(time.Since(m.snapshot.LastUpdated))
		parts = append(parts, bg.Render("updated "+age, styles.FaintText))
	}

	if m.snapshot.LastError != nil && m.snapshot.Status == state.StatusFailed {
		parts = append(parts, bg.Render(truncate(metadata.UserMessage(m.snapshot.LastError), 60), styles.DangerText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

func (m Model) fieldCount() string {
	total := len(m.snapshot.Fields)
	hidden := total - len(m.visibleFields())
	if hidden > 0 {
		return fmt.Sprintf("%d (%d hidden)", total, hidden)
	}
	return fmt.Sprintf("%d", total)
}

// renderCommandBar shows the short help, or the active prompt.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	var content string
	switch m.mode {
	case modeEdit:
		label := metadata.FieldLabel(m.editField)
		content = bg.Render(fmt.Sprintf("%s · %s", m.editSample, label), styles.AccentText) +
			bg.Spaces(2) + m.editor.View() +
			bg.Spaces(2) + bg.Render("enter save  esc cancel", styles.FaintText)
	case modeConfirmRemove:
		content = bg.Render(fmt.Sprintf("Remove %s from every sample?", metadata.FieldLabel(m.removeField)), styles.DangerText) +
			bg.Spaces(2) + bg.Render("y confirm  n cancel", styles.FaintText)
	default:
		bindings := m.keys.ShortHelp()
		items := make([]string, 0, len(bindings))
		for _, b := range bindings {
			h := b.Help()
			items = append(items, bg.Render(h.Key, styles.WarningText)+bg.Space()+bg.Render(h.Desc, styles.MutedText))
		}
		content = bg.Join(items, "  ")
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.SurfaceAlt)).
		Padding(0, 1).
		Width(m.width).
		Render(content)
}

// renderFooter shows the latest notification and the selected cell.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var parts []string
	if m.notice != nil {
		style := styles.InfoText
		switch m.notice.Level {
		case linelist.LevelSuccess:
			style = styles.SuccessText
		case linelist.LevelError:
			style = styles.DangerText
		}
		parts = append(parts, bg.Render(truncate(m.notice.Text, max(m.width-30, 20)), style))
	}
	if entry, col, ok := m.selectedCell(); ok {
		where := entry.SampleID
		if !col.isSample() {
			where += " · " + col.title
		}
		parts = append(parts, bg.Render(where, styles.FaintText))
	}
	return styles.Footer.Width(m.width).Render(bg.Join(parts, "  "))
}

func (m *Model) setActivity(msg activityMsg) {
	styles := m.theme.Styles()
	if msg.err != nil {
		m.activity.SetContent(styles.DangerText.Render(msg.err.Error()))
		return
	}
	lines := make([]string, 0, len(msg.records))
	for _, rec := range msg.records {
		style := styles.MutedText
		switch rec.Level {
		case "error":
			style = styles.DangerText
		case "warn", "warning":
			style = styles.WarningText
		case "debug":
			style = styles.FaintText
		}
		lines = append(lines, style.Render(truncate(logtail.Format(rec), m.width)))
	}
	atBottom := m.activity.AtBottom() || m.activity.TotalLineCount() == 0
	m.activity.SetContent(strings.Join(lines, "\n"))
	if atBottom {
		m.activity.GotoBottom()
	}
}

func (m Model) renderActivity() string {
	title := m.theme.Styles().AccentText.Bold(true).Render("Activity")
	rule := m.theme.Styles().FaintText.Render(" " + strings.Repeat("─", max(m.width-10, 0)))
	return title + rule + "\n" + m.activity.View()
}
