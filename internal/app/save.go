package app

import (
	"context"
	"fmt"

	"github.com/josephgoksu/perspecto/internal/store"
	"github.com/josephgoksu/perspecto/models"
)

// SaveOutcome says which of the three save paths ran.
type SaveOutcome string

const (
	// SaveUpdated replaced the data of the open artifact.
	SaveUpdated SaveOutcome = "updated"
	// SaveAdded added a new artifact to the open project.
	SaveAdded SaveOutcome = "added"
	// SavePending parked a standalone result until a project is chosen.
	SavePending SaveOutcome = "pending"
)

// Save stores the current result. With an open artifact it is updated; with only an
// open project a new artifact is added and opened; otherwise the result waits in
// PendingSave for SaveToExistingProject or CreateProject.
func (c *Controller) Save(ctx context.Context) (SaveOutcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ready(); err != nil {
		return "", err
	}
	if c.state.InputContext == nil || c.state.Result == nil {
		return "", ErrNoInput
	}
	data := c.state.Result.Clone()
	in := *c.state.InputContext

	if c.state.ActiveProject == nil {
		c.state.PendingSave = &data
		return SavePending, nil
	}
	project := c.state.ActiveProject

	if item := c.state.ActiveItem; item != nil {
		updated, err := c.deps.Projects.UpdateItem(ctx, project.ID, item.ID, data)
		if err != nil {
			return "", err
		}
		if updated == nil {
			return "", ErrItemNotFound
		}
		desc := fmt.Sprintf("Updated artifact %s in %s", item.Name, project.Name)
		if err := c.adoptProject(ctx, updated, item.ID); err != nil {
			return "", err
		}
		c.state.Notice = "Changes successfully saved"
		if err := c.appendHistory(ctx, desc, &data, &in); err != nil {
			return "", err
		}
		c.setView(models.ViewProjectDetail)
		return SaveUpdated, c.persistSession(ctx)
	}

	name := data.DerivedName()
	updated, err := c.deps.Projects.AddItem(ctx, project.ID, models.ItemFields{
		Type:         in.Type,
		Name:         name,
		Data:         data,
		InputContext: in,
	})
	if err != nil {
		return "", err
	}
	if updated == nil {
		return "", store.ErrProjectNotFound
	}
	desc := fmt.Sprintf("Created artifact %s in %s", name, project.Name)
	// AddItem prepends, so the new artifact is first.
	if err := c.adoptProject(ctx, updated, updated.Items[0].ID); err != nil {
		return "", err
	}
	c.state.Notice = "Artifact saved successfully"
	if err := c.appendHistory(ctx, desc, &data, &in); err != nil {
		return "", err
	}
	c.setView(models.ViewProjectDetail)
	return SaveAdded, c.persistSession(ctx)
}

// SaveToExistingProject adds the pending standalone result to an existing project.
func (c *Controller) SaveToExistingProject(ctx context.Context, projectID string) (*models.Project, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ready(); err != nil {
		return nil, err
	}
	if c.state.PendingSave == nil || c.state.InputContext == nil {
		return nil, ErrNoPendingSave
	}
	data := c.state.PendingSave.Clone()
	in := *c.state.InputContext
	name := data.DerivedName()

	updated, err := c.deps.Projects.AddItem(ctx, projectID, models.ItemFields{
		Type:         in.Type,
		Name:         name,
		Data:         data,
		InputContext: in,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, store.ErrProjectNotFound
	}
	if err := c.adoptProject(ctx, updated, ""); err != nil {
		return nil, err
	}
	c.state.PendingSave = nil
	c.state.Notice = "Artifact saved to project"
	desc := fmt.Sprintf("Saved standalone artifact %s to %s", name, updated.Name)
	if err := c.appendHistory(ctx, desc, &data, &in); err != nil {
		return nil, err
	}
	c.setView(models.ViewProjectDetail)
	out := updated.Clone()
	return &out, c.persistSession(ctx)
}

// CreateProject creates a project. When a standalone result is pending it is saved into
// the new project; otherwise the new project is opened.
func (c *Controller) CreateProject(ctx context.Context, name, previewImage string) (*models.Project, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ready(); err != nil {
		return nil, err
	}
	created, err := c.deps.Projects.Create(ctx, name, previewImage)
	if err != nil {
		return nil, err
	}
	if err := c.refreshProjects(ctx); err != nil {
		return nil, err
	}
	if err := c.appendHistory(ctx, "Created project: "+name, nil, nil); err != nil {
		return nil, err
	}

	if c.state.PendingSave == nil || c.state.InputContext == nil {
		c.state.ActiveProject = created
		c.state.ActiveItem = nil
		c.state.Notice = "Project created successfully"
		c.setView(models.ViewProjectDetail)
		out := created.Clone()
		return &out, c.persistSession(ctx)
	}

	data := c.state.PendingSave.Clone()
	in := *c.state.InputContext
	itemName := data.DerivedName()
	updated, err := c.deps.Projects.AddItem(ctx, created.ID, models.ItemFields{
		Type:         in.Type,
		Name:         itemName,
		Data:         data,
		InputContext: in,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, store.ErrProjectNotFound
	}
	if err := c.adoptProject(ctx, updated, ""); err != nil {
		return nil, err
	}
	c.state.PendingSave = nil
	c.state.Notice = "Project created and artifact saved"
	desc := fmt.Sprintf("Saved artifact %s to new project %s", itemName, name)
	if err := c.appendHistory(ctx, desc, &data, &in); err != nil {
		return nil, err
	}
	c.setView(models.ViewProjectDetail)
	out := updated.Clone()
	return &out, c.persistSession(ctx)
}
