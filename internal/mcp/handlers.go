package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/josephgoksu/perspecto/internal/app"
	"github.com/josephgoksu/perspecto/internal/export"
	"github.com/josephgoksu/perspecto/models"
)

// ErrInvalidParams marks errors caused by tool arguments rather than state.
var ErrInvalidParams = errors.New("invalid parameters")

// Handlers drives one Controller on behalf of an MCP client. Every handler returns
// Markdown for the client to read.
type Handlers struct {
	ctrl *app.Controller
	deps *app.Context
}

// NewHandlers creates the handlers.
func NewHandlers(ctrl *app.Controller, deps *app.Context) *Handlers {
	return &Handlers{ctrl: ctrl, deps: deps}
}

func invalid(field, msg string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidParams, field, msg)
}

// State reports where the session is.
func (h *Handlers) State(context.Context, StateParams) (string, error) {
	return FormatState(h.ctrl.State()), nil
}

// Generate runs a new request or repeats the current one.
func (h *Handlers) Generate(ctx context.Context, p GenerateParams) (string, error) {
	if p.Regenerate {
		if err := h.ctrl.Regenerate(ctx); err != nil {
			return "", err
		}
		return FormatState(h.ctrl.State()), nil
	}
	if strings.TrimSpace(p.Context) == "" {
		return "", invalid("context", "required unless regenerate is set")
	}
	kind := models.TypeBoth
	if p.Type != "" {
		var err error
		if kind, err = models.ParseGeneratorType(p.Type); err != nil {
			return "", invalid("type", err.Error())
		}
	}
	if err := h.ctrl.Generate(ctx, models.InputContext{Context: p.Context, Type: kind}); err != nil {
		return "", err
	}
	return FormatState(h.ctrl.State()), nil
}

// JTBD continues a persona into jobs.
func (h *Handlers) JTBD(ctx context.Context, p JTBDParams) (string, error) {
	persona, ok := h.ctrl.State().FindPersona(p.Persona)
	if !ok {
		return "", invalid("persona", "no persona with that name in the current result or project")
	}
	if err := h.ctrl.ContinueToJTBD(ctx, persona); err != nil {
		return "", err
	}
	return FormatState(h.ctrl.State()), nil
}

// Orphan gives a saved JTBD set a persona.
func (h *Handlers) Orphan(ctx context.Context, p OrphanParams) (string, error) {
	switch p.Action {
	case OrphanActionGenerate:
		if err := h.ctrl.GeneratePersonaForOrphan(ctx); err != nil {
			return "", err
		}
	case OrphanActionLink:
		if p.Persona == "" {
			return "", invalid("persona", "required for link")
		}
		persona, ok := h.ctrl.State().FindPersona(p.Persona)
		if !ok {
			return "", invalid("persona", fmt.Sprintf("%q is not a persona of the active project", p.Persona))
		}
		if err := h.ctrl.LinkPersona(ctx, persona); err != nil {
			return "", err
		}
	default:
		return "", invalid("action", "must be link or generate")
	}
	return FormatState(h.ctrl.State()), nil
}

// Save stores the current result, completing a pending save when a target is given.
func (h *Handlers) Save(ctx context.Context, p SaveParams) (string, error) {
	if p.ProjectID != "" && p.NewProject != "" {
		return "", invalid("project_id", "set project_id or new_project, not both")
	}
	if h.ctrl.State().PendingSave == nil {
		if _, err := h.ctrl.Save(ctx); err != nil {
			return "", err
		}
	}
	if h.ctrl.State().PendingSave != nil {
		switch {
		case p.ProjectID != "":
			proj, err := h.deps.Projects.Resolve(ctx, p.ProjectID)
			if err != nil {
				return "", err
			}
			if _, err := h.ctrl.SaveToExistingProject(ctx, proj.ID); err != nil {
				return "", err
			}
		case p.NewProject != "":
			if _, err := h.ctrl.CreateProject(ctx, p.NewProject, ""); err != nil {
				return "", err
			}
		}
	}
	return FormatState(h.ctrl.State()), nil
}

// Project manages the project library.
func (h *Handlers) Project(ctx context.Context, p ProjectParams) (string, error) {
	if !p.Action.IsValid() {
		return "", invalid("action", "must be list, create, open, rename or delete")
	}
	if p.Action == ProjectActionList {
		return FormatProjects(h.ctrl.State().Projects), nil
	}
	if p.Action == ProjectActionCreate {
		if p.Name == "" {
			return "", invalid("name", "required for create")
		}
		if _, err := h.ctrl.CreateProject(ctx, p.Name, ""); err != nil {
			return "", err
		}
		return FormatState(h.ctrl.State()), nil
	}

	if p.ID == "" {
		return "", invalid("id", "required for "+string(p.Action))
	}
	proj, err := h.deps.Projects.Resolve(ctx, p.ID)
	if err != nil {
		return "", err
	}
	switch p.Action {
	case ProjectActionOpen:
		err = h.ctrl.SelectProject(ctx, proj.ID)
	case ProjectActionRename:
		if p.Name == "" {
			return "", invalid("name", "required for rename")
		}
		_, err = h.ctrl.RenameProject(ctx, proj.ID, p.Name, proj.PreviewImage)
	case ProjectActionDelete:
		err = h.ctrl.DeleteProject(ctx, proj.ID)
	}
	if err != nil {
		return "", err
	}
	return FormatState(h.ctrl.State()), nil
}

// Item opens or deletes a saved artifact.
func (h *Handlers) Item(ctx context.Context, p ItemParams) (string, error) {
	if !p.Action.IsValid() {
		return "", invalid("action", "must be open or delete")
	}
	if p.ItemID == "" {
		return "", invalid("item_id", "required")
	}

	var proj *models.Project
	if p.ProjectID != "" {
		var err error
		if proj, err = h.deps.Projects.Resolve(ctx, p.ProjectID); err != nil {
			return "", err
		}
	} else if proj = h.ctrl.State().ActiveProject; proj == nil {
		return "", app.ErrNoActiveProject
	}
	item, err := app.ResolveItem(*proj, p.ItemID)
	if err != nil {
		return "", err
	}

	switch p.Action {
	case ItemActionOpen:
		err = h.ctrl.SelectProjectItem(ctx, proj.ID, item.ID)
	case ItemActionDelete:
		if err = h.ctrl.SelectProject(ctx, proj.ID); err == nil {
			err = h.ctrl.DeleteItemFromProject(ctx, item.ID)
		}
	}
	if err != nil {
		return "", err
	}
	return FormatState(h.ctrl.State()), nil
}

// History lists, recalls or clears history entries.
func (h *Handlers) History(ctx context.Context, p HistoryParams) (string, error) {
	switch p.Action {
	case HistoryActionList, "":
		return FormatHistory(h.ctrl.State().History, cmpLimit(p.Limit)), nil
	case HistoryActionRecall:
		if p.ID == "" {
			return "", invalid("id", "required for recall")
		}
		if err := h.ctrl.RecallHistory(ctx, p.ID); err != nil {
			return "", err
		}
	case HistoryActionClear:
		if err := h.ctrl.ClearHistory(ctx); err != nil {
			return "", err
		}
	default:
		return "", invalid("action", "must be list, recall or clear")
	}
	return FormatState(h.ctrl.State()), nil
}

// Export renders the current artifact in the requested format.
func (h *Handlers) Export(_ context.Context, p ExportParams) (string, error) {
	format := export.FormatMarkdown
	if p.Format != "" {
		var err error
		if format, err = export.ParseFormat(p.Format); err != nil {
			return "", invalid("format", err.Error())
		}
	}
	s := h.ctrl.State()
	if s.Result == nil {
		return "", app.ErrNoInput
	}
	doc := export.FromOpen(*s.Result, s.InputContext, s.ActiveProject, s.ActiveItem)

	var sb strings.Builder
	if err := export.Write(&sb, doc, format); err != nil {
		return "", err
	}
	if format == export.FormatMarkdown {
		return sb.String(), nil
	}
	return fmt.Sprintf("```%s\n%s```", format, sb.String()), nil
}

func cmpLimit(n int) int {
	if n <= 0 {
		return 20
	}
	return n
}
