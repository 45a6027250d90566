package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/josephgoksu/perspecto/internal/app"
	"github.com/josephgoksu/perspecto/internal/util"
	"github.com/josephgoksu/perspecto/internal/utils"
	"github.com/josephgoksu/perspecto/models"
)

var title = cases.Title(language.English)

// IsInteractive reports whether both stdin and stdout are terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// FormatTime renders a Unix-millisecond timestamp for listings.
func FormatTime(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).Local().Format("Jan 02 15:04")
}

// RenderPersona renders a persona card.
func RenderPersona(p models.PersonaData) string {
	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Foreground(ColorPersona).Bold(true).Render(p.Name))
	if p.Role != "" {
		sb.WriteString(StyleSubtle.Render("  " + p.Role))
	}
	sb.WriteString("\n")

	sections := []struct {
		field models.PersonaListField
		items []string
	}{
		{models.FieldGoals, p.Goals},
		{models.FieldNeeds, p.Needs},
		{models.FieldPains, p.Pains},
		{models.FieldTasks, p.Tasks},
	}
	for _, s := range sections {
		if len(s.items) == 0 {
			continue
		}
		sb.WriteString("\n" + StyleTitle.Render(title.String(string(s.field))) + "\n")
		for i, item := range s.items {
			fmt.Fprintf(&sb, " %s %s\n", StyleSubtle.Render(fmt.Sprintf("%d.", i+1)), item)
		}
	}
	return StylePersonaBox.Render(strings.TrimRight(sb.String(), "\n"))
}

// RenderJTBD renders job statements, numbered from 1.
func RenderJTBD(jobs []models.JTBDData) string {
	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Foreground(ColorJTBD).Bold(true).Render("Jobs to be Done"))
	for i, j := range jobs {
		situation, motivation, outcome := j.Phrases()
		fmt.Fprintf(&sb, "\n\n%s %s,\n   %s,\n   %s.",
			StyleSubtle.Render(fmt.Sprintf("%d.", i+1)), situation, motivation, outcome)
	}
	return StyleJTBDBox.Render(sb.String())
}

// RenderResult renders whatever the result holds, persona first.
func RenderResult(r *models.GeneratedResult) string {
	if r == nil || r.IsEmpty() {
		return StyleSubtle.Render("(no artifact)")
	}
	var parts []string
	if r.HasPersona() {
		parts = append(parts, RenderPersona(*r.Persona))
	}
	if r.HasJTBD() {
		parts = append(parts, RenderJTBD(r.JTBD))
	}
	if r.IsOrphanJTBD() {
		parts = append(parts, StyleWarning.Render("No persona linked to these jobs yet."))
	}
	return strings.Join(parts, "\n")
}

// RenderProjects renders the project list, most recently updated first.
func RenderProjects(projects []models.Project) string {
	if len(projects) == 0 {
		return StyleSubtle.Render("No projects yet. Create one with: perspecto project create <name>") + "\n"
	}
	t := &Table{Headers: []string{"ID", "Name", "Items", "Updated"}, MaxWidth: 40}
	for _, p := range projects {
		t.Rows = append(t.Rows, []string{
			util.ShortID(p.ID, 0),
			p.Name,
			fmt.Sprint(len(p.Items)),
			FormatTime(p.UpdatedAt),
		})
	}
	return t.Render()
}

// RenderProjectDetail renders a project header and its items.
func RenderProjectDetail(p models.Project) string {
	var sb strings.Builder
	sb.WriteString(StyleHeader.Render(p.Name))
	sb.WriteString(StyleSubtle.Render(fmt.Sprintf(" %s · created %s", util.ShortID(p.ID, 0), FormatTime(p.CreatedAt))))
	sb.WriteString("\n\n")
	if len(p.Items) == 0 {
		sb.WriteString(StyleSubtle.Render("No artifacts saved in this project.") + "\n")
		return sb.String()
	}
	t := &Table{Headers: []string{"ID", "Name", "Type", "JTBD", "Updated"}, MaxWidth: 40}
	for _, it := range p.Items {
		t.Rows = append(t.Rows, []string{
			util.ShortID(it.ID, 0),
			it.Name,
			string(it.Type),
			fmt.Sprint(len(it.Data.JTBD)),
			FormatTime(it.UpdatedAt),
		})
	}
	sb.WriteString(t.Render())
	return sb.String()
}

// RenderHistory renders history entries, newest first.
func RenderHistory(items []models.HistoryItem) string {
	if len(items) == 0 {
		return StyleSubtle.Render("History is empty.") + "\n"
	}
	t := &Table{Headers: []string{"ID", "When", "Type", "Context"}, MaxWidth: 60}
	for _, h := range items {
		t.Rows = append(t.Rows, []string{
			util.ShortID(h.ID, 0),
			FormatTime(h.Timestamp),
			string(h.InputContext.Type),
			utils.Truncate(strings.ReplaceAll(h.InputContext.Context, "\n", " "), 60),
		})
	}
	return t.Render()
}

// RenderStatus summarizes where the user is.
func RenderStatus(s app.State) string {
	var lines []string
	add := func(k, v string) {
		lines = append(lines, fmt.Sprintf("%s %s", StyleSubtle.Render(fmt.Sprintf("%-10s", k)), v))
	}

	add("View", string(s.View))
	if s.User != nil {
		add("User", s.User.Email)
	} else {
		add("User", StyleWarning.Render("signed out"))
	}
	if s.ActiveProject != nil {
		add("Project", s.ActiveProject.Name)
	}
	if s.ActiveItem != nil {
		add("Item", s.ActiveItem.Name)
	}
	if s.InputContext != nil {
		add("Input", fmt.Sprintf("[%s] %s", s.InputContext.Type, utils.Truncate(s.InputContext.Context, 50)))
	}
	if s.Result != nil {
		state := "unsaved"
		if s.IsSaved() {
			state = "saved"
		}
		add("Result", fmt.Sprintf("%s (%s)", s.Result.DerivedName(), state))
	}
	if s.PendingSave != nil {
		add("Pending", "choose a project to save into")
	}
	add("Projects", fmt.Sprint(len(s.Projects)))
	add("History", fmt.Sprint(len(s.History)))
	return strings.Join(lines, "\n")
}

// RenderNotice renders a one-line confirmation.
func RenderNotice(msg string) string {
	if msg == "" {
		return ""
	}
	return StyleNotice.Render("✓ " + msg)
}

// RenderError renders a one-line failure.
func RenderError(err error) string {
	return StyleError.Render("✗ " + err.Error())
}
