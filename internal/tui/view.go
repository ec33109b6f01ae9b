package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/casedesk/internal/preview"
	"github.com/jask/casedesk/internal/session"
)

// styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cba6f7"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#45475a")).Padding(0, 1)
	focusedBorder = lipgloss.Color("#b4befe")

	badgeStyles = map[preview.Modality]lipgloss.Style{
		preview.Video:    lipgloss.NewStyle().Foreground(lipgloss.Color("#fab387")),
		preview.Audio:    lipgloss.NewStyle().Foreground(lipgloss.Color("#94e2d5")),
		preview.Document: lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")),
	}
)

func badge(m preview.Modality) string {
	return badgeStyles[m].Render(fmt.Sprintf("%-8s", "["+m.String()+"]"))
}

func (a *App) View() string {
	snap := a.sess.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Case Q&A and evidence viewer"))
	b.WriteString("\n")
	b.WriteString(a.caseInput.View())
	if snap.AssetsLoading {
		b.WriteString("  " + a.spinner.View() + mutedStyle.Render(" loading assets"))
	}
	b.WriteString("\n")
	b.WriteString(a.questionInput.View())
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Answer"))
	b.WriteString("\n")
	b.WriteString(a.renderAnswer(snap))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Citations"))
	b.WriteString("\n")
	if len(snap.CitationRows) == 0 {
		b.WriteString(mutedStyle.Render("  (none)"))
		b.WriteString("\n")
	}
	for _, row := range snap.CitationRows {
		b.WriteString("  • " + row + "\n")
	}
	b.WriteString("\n")

	left := a.renderAssets(snap)
	right := a.renderPreview(snap)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	b.WriteString("\n")

	if a.status != "" {
		if strings.HasPrefix(a.status, "error:") {
			b.WriteString(errorStyle.Render(a.status))
		} else {
			b.WriteString(a.status)
		}
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(a.helpText()))
	return b.String()
}

func (a *App) renderAnswer(snap session.Snapshot) string {
	ans := snap.Answer
	var out string
	switch ans.State {
	case session.AnswerPending:
		out = a.spinner.View() + " searching..."
	case session.AnswerReady:
		out = ans.Text
	case session.AnswerFailed:
		out = errorStyle.Render("error: " + ans.Err.Error())
	default:
		return mutedStyle.Render("(ask a question)")
	}
	if ans.CaseID != snap.CaseID {
		out += "\n" + mutedStyle.Render(fmt.Sprintf("(asked in case %q)", ans.CaseID))
	}
	return out
}

func (a *App) renderAssets(snap session.Snapshot) string {
	var b strings.Builder
	title := "Assets"
	if a.filter != "" || a.filtering {
		title += " /" + a.filter
	}
	b.WriteString(sectionStyle.Render(title))
	b.WriteString("\n")

	switch {
	case snap.AssetsErr != nil:
		b.WriteString(errorStyle.Render("error: " + snap.AssetsErr.Error()))
	case len(snap.Assets) == 0 && snap.AssetsLoading:
		b.WriteString(mutedStyle.Render("loading..."))
	case len(snap.Assets) == 0:
		b.WriteString(mutedStyle.Render("(no assets)"))
	}

	for i, asset := range filterAssets(a.filter, snap.Assets) {
		marker := " "
		if a.focus == focusAssets && i == a.assetCursor {
			marker = "▶"
		}
		sel := " "
		if snap.Selected != nil && snap.Selected.Name == asset.Name {
			sel = "●"
		}
		fmt.Fprintf(&b, "%s%s %s %s\n", marker, sel, badge(preview.Classify(asset.Name)), asset.Name)
	}

	style := paneStyle.Width(40)
	if a.focus == focusAssets {
		style = style.BorderForeground(focusedBorder)
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}

func (a *App) renderPreview(snap session.Snapshot) string {
	width := 60
	if a.width > 50+40 {
		width = a.width - 50
	}
	style := paneStyle.Width(width)
	if snap.Selected == nil {
		return style.Render(mutedStyle.Render("Select an asset to preview (video / audio / document)"))
	}
	viewer := map[preview.Modality]string{
		preview.Video:    "video player",
		preview.Audio:    "audio player",
		preview.Document: "document viewer",
	}[snap.Modality]
	body := fmt.Sprintf("%s\n%s open in %s\n%s",
		sectionStyle.Render(snap.Selected.Name),
		badge(snap.Modality), viewer,
		snap.Selected.URL,
	)
	return style.Render(body)
}

func (a *App) helpText() string {
	k := a.keys
	switch a.focus {
	case focusAssets:
		if a.filtering {
			return "type to filter  [enter] keep  [esc] clear filter"
		}
		return helpLine(k.Up, k.Down, k.Select, k.Clear, k.Filter, k.Next, k.Refresh, k.Quit)
	case focusCase:
		return helpLine(k.Submit, k.Next, k.Refresh, k.ForceQuit)
	default:
		return "[enter] ask  [↑/↓] history  " + helpLine(k.Next, k.Refresh, k.ForceQuit)
	}
}
