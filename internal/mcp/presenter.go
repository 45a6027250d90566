package mcp

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/josephgoksu/perspecto/internal/app"
	"github.com/josephgoksu/perspecto/internal/export"
	"github.com/josephgoksu/perspecto/internal/util"
	"github.com/josephgoksu/perspecto/models"
)

var title = cases.Title(language.English)

// FormatError returns a standardized Markdown error message.
func FormatError(message string) string {
	return fmt.Sprintf("## Error\n\n**Details**: %s", message)
}

// FormatValidationError returns a Markdown error for validation failures.
func FormatValidationError(field, message string) string {
	return fmt.Sprintf("## Validation Error\n\n**Field**: `%s`\n**Details**: %s", field, message)
}

// FormatState renders the controller state, including the current artifact.
func FormatState(s app.State) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", title.String(strings.ReplaceAll(string(s.View), "_", " ")))
	if s.Notice != "" {
		fmt.Fprintf(&sb, "> %s\n\n", s.Notice)
	}
	if s.User == nil {
		sb.WriteString("Signed out. Run `perspecto auth signin` in a terminal first.\n")
		return strings.TrimSpace(sb.String())
	}
	if s.ActiveProject != nil {
		fmt.Fprintf(&sb, "- **Project**: %s (`%s`)\n", s.ActiveProject.Name, util.ShortID(s.ActiveProject.ID, 0))
	}
	if s.ActiveItem != nil {
		fmt.Fprintf(&sb, "- **Item**: %s (`%s`)\n", s.ActiveItem.Name, util.ShortID(s.ActiveItem.ID, 0))
	}
	if s.InputContext != nil {
		fmt.Fprintf(&sb, "- **Request**: %s\n", s.InputContext.Type)
	}
	if s.PendingSave != nil {
		sb.WriteString("- **Pending save**: call `save` with `project_id` or `new_project`\n")
	}
	if s.IsIntermediate() {
		sb.WriteString("- **Next**: call `jtbd` to generate jobs for this persona\n")
	}
	if s.Result != nil && s.Result.IsOrphanJTBD() && s.IsSaved() {
		sb.WriteString("- **Next**: call `orphan` to link or generate a persona\n")
	}
	if s.Result != nil {
		sb.WriteString("\n")
		sb.WriteString(FormatResult(*s.Result, s.InputContext))
	}
	return strings.TrimSpace(sb.String())
}

// FormatResult renders an artifact as Markdown.
func FormatResult(r models.GeneratedResult, in *models.InputContext) string {
	var sb strings.Builder
	_ = export.Write(&sb, export.FromResult(r, in), export.FormatMarkdown)
	return sb.String()
}

// FormatProjects renders the project list.
func FormatProjects(projects []models.Project) string {
	if len(projects) == 0 {
		return "No projects yet. Use the `project` tool with action `create`."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Projects (%d)\n\n", len(projects))
	for _, p := range projects {
		fmt.Fprintf(&sb, "- **%s** `%s` · %d items\n", p.Name, util.ShortID(p.ID, 0), len(p.Items))
		for _, it := range p.Items {
			fmt.Fprintf(&sb, "  - %s `%s` (%s)\n", it.Name, util.ShortID(it.ID, 0), it.Type)
		}
	}
	return strings.TrimSpace(sb.String())
}

// FormatHistory renders at most limit history entries.
func FormatHistory(items []models.HistoryItem, limit int) string {
	if len(items) == 0 {
		return "History is empty."
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	var sb strings.Builder
	sb.WriteString("## History\n\n")
	for _, h := range items {
		when := time.UnixMilli(h.Timestamp).UTC().Format(time.RFC3339)
		fmt.Fprintf(&sb, "- `%s` %s [%s] %s\n", util.ShortID(h.ID, 0), when, h.InputContext.Type, truncate(h.InputContext.Context, 80))
	}
	return strings.TrimSpace(sb.String())
}

func truncate(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
