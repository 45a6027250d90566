package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/josephgoksu/perspecto/internal/utils"
	"github.com/josephgoksu/perspecto/models"
)

// historyContextChars is how much of the prompt a standalone generation entry quotes.
const historyContextChars = 30

// Generate runs a new request for in. A "both" request asks for the persona only and
// stops in the intermediate output state. On failure the view reverts to input.
func (c *Controller) Generate(ctx context.Context, in models.InputContext) error {
	if err := models.ValidateStruct(in); err != nil {
		return err
	}

	c.mu.Lock()
	if err := c.ready(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state.InputContext = &in
	c.state.Result = nil
	standalone := c.state.ActiveProject == nil && c.state.ActiveItem == nil
	token := c.beginRequest()
	if err := c.persistSession(ctx); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	kind := in.Type
	if kind == models.TypeBoth {
		kind = models.TypePersona
	}
	res, genErr := c.deps.Generator.Generate(ctx, in.Context, kind, nil)

	ctx = context.WithoutCancel(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.token {
		return ErrStaleRequest
	}
	if genErr != nil {
		slog.Error("generation failed", "type", kind, "error", genErr)
		c.setView(models.ViewInput)
		if err := c.persistSession(ctx); err != nil {
			slog.Warn("could not save session", "error", err)
		}
		return fmt.Errorf("generate %s: %w", kind, genErr)
	}

	c.state.Result = &res
	if in.Type != models.TypeBoth && standalone {
		desc := fmt.Sprintf("Generated %s: %s...", in.Type, utils.Head(in.Context, historyContextChars))
		if err := c.appendHistory(ctx, desc, &res, &in); err != nil {
			return err
		}
	}
	c.setView(models.ViewOutput)
	return c.persistSession(ctx)
}

// Regenerate repeats the current request from scratch.
func (c *Controller) Regenerate(ctx context.Context) error {
	c.mu.Lock()
	in := c.state.InputContext
	c.mu.Unlock()
	if in == nil {
		return ErrNoInput
	}
	return c.Generate(ctx, *in)
}

// ContinueToJTBD requests JTBD grounded in persona, which may have been edited since it
// was generated. An open saved artifact is updated in place; a standalone result is
// completed in memory. On failure the view returns to output unchanged.
func (c *Controller) ContinueToJTBD(ctx context.Context, persona models.PersonaData) error {
	c.mu.Lock()
	if err := c.ready(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.state.InputContext == nil {
		c.mu.Unlock()
		return ErrNoInput
	}
	in := *c.state.InputContext
	var projectID, projectName, itemID string
	if c.state.ActiveProject != nil && c.state.ActiveItem != nil {
		projectID, projectName = c.state.ActiveProject.ID, c.state.ActiveProject.Name
		itemID = c.state.ActiveItem.ID
	}
	token := c.beginRequest()
	if err := c.persistSession(ctx); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	grounding := persona.Clone()
	res, genErr := c.deps.Generator.Generate(ctx, in.Context, models.TypeJTBD, &grounding)

	ctx = context.WithoutCancel(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.token {
		return ErrStaleRequest
	}
	if genErr != nil {
		slog.Error("JTBD generation failed", "persona", persona.Name, "error", genErr)
		c.setView(models.ViewOutput)
		if err := c.persistSession(ctx); err != nil {
			slog.Warn("could not save session", "error", err)
		}
		return fmt.Errorf("generate jtbd: %w", genErr)
	}

	completed := models.GeneratedResult{Persona: &grounding, JTBD: res.JTBD}
	if itemID != "" {
		updated, err := c.deps.Projects.UpdateItem(ctx, projectID, itemID, completed)
		if err != nil {
			return err
		}
		if updated != nil {
			if err := c.adoptProject(ctx, updated, itemID); err != nil {
				return err
			}
			desc := fmt.Sprintf("Expanded JTBD for %s in %s", persona.Name, projectName)
			if err := c.appendHistory(ctx, desc, &completed, &in); err != nil {
				return err
			}
		}
	} else {
		desc := fmt.Sprintf("Generated JTBD for %s", persona.Name)
		if err := c.appendHistory(ctx, desc, &completed, &in); err != nil {
			return err
		}
	}
	c.state.Result = cloneResult(&completed)
	c.setView(models.ViewOutput)
	return c.persistSession(ctx)
}

// GeneratePersonaForOrphan asks for a fresh persona for the open orphan JTBD set and
// saves it into the artifact, keeping the JTBD statements.
func (c *Controller) GeneratePersonaForOrphan(ctx context.Context) error {
	c.mu.Lock()
	if err := c.ready(); err != nil {
		c.mu.Unlock()
		return err
	}
	switch {
	case c.state.InputContext == nil || c.state.Result == nil:
		c.mu.Unlock()
		return ErrNoInput
	case !c.state.Result.IsOrphanJTBD():
		c.mu.Unlock()
		return ErrNotOrphan
	case c.state.ActiveProject == nil || c.state.ActiveItem == nil:
		c.mu.Unlock()
		return ErrNoActiveItem
	}
	in := *c.state.InputContext
	jtbd := c.state.Result.Clone().JTBD
	projectID, projectName := c.state.ActiveProject.ID, c.state.ActiveProject.Name
	itemID := c.state.ActiveItem.ID
	token := c.beginRequest()
	if err := c.persistSession(ctx); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	res, genErr := c.deps.Generator.Generate(ctx, in.Context, models.TypePersona, nil)

	ctx = context.WithoutCancel(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.token {
		return ErrStaleRequest
	}
	if genErr != nil {
		slog.Error("persona generation failed", "item_id", itemID, "error", genErr)
		c.setView(models.ViewOutput)
		if err := c.persistSession(ctx); err != nil {
			slog.Warn("could not save session", "error", err)
		}
		return fmt.Errorf("generate persona: %w", genErr)
	}

	updatedData := models.GeneratedResult{Persona: res.Persona, JTBD: jtbd}
	updated, err := c.deps.Projects.UpdateItem(ctx, projectID, itemID, updatedData)
	if err != nil {
		return err
	}
	if updated != nil {
		if err := c.adoptProject(ctx, updated, itemID); err != nil {
			return err
		}
		c.state.Result = cloneResult(&updatedData)
		c.state.Notice = "Persona generated successfully"
		desc := fmt.Sprintf("Generated Persona for JTBD in %s", projectName)
		if err := c.appendHistory(ctx, desc, &updatedData, &in); err != nil {
			return err
		}
	}
	c.setView(models.ViewOutput)
	return c.persistSession(ctx)
}

// LinkPersona attaches an existing persona to the open artifact and saves it.
// Only data.persona changes.
func (c *Controller) LinkPersona(ctx context.Context, persona models.PersonaData) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ready(); err != nil {
		return err
	}
	if c.state.ActiveProject == nil || c.state.ActiveItem == nil {
		return ErrNoActiveItem
	}
	if c.state.Result == nil {
		return ErrNoInput
	}

	linked := persona.Clone()
	updatedData := c.state.Result.Clone()
	updatedData.Persona = &linked

	project, item := c.state.ActiveProject, c.state.ActiveItem
	updated, err := c.deps.Projects.UpdateItem(ctx, project.ID, item.ID, updatedData)
	if err != nil {
		return err
	}
	if updated == nil {
		return nil
	}
	projectName, itemID := project.Name, item.ID
	in := c.state.InputContext
	if in == nil {
		ic := item.InputContext
		in = &ic
	}
	if err := c.adoptProject(ctx, updated, itemID); err != nil {
		return err
	}
	c.state.Result = cloneResult(&updatedData)
	c.state.Notice = "Persona linked successfully"
	desc := fmt.Sprintf("Linked Persona %s to JTBD in %s", persona.Name, projectName)
	if err := c.appendHistory(ctx, desc, &updatedData, in); err != nil {
		return err
	}
	return c.persistSession(ctx)
}
