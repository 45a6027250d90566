package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/josephgoksu/perspecto/internal/store"
	"github.com/josephgoksu/perspecto/internal/util"
	"github.com/josephgoksu/perspecto/models"
)

// RenameProject changes a project's name and preview image.
func (c *Controller) RenameProject(ctx context.Context, projectID, name, previewImage string) (*models.Project, error) {
	var out *models.Project
	err := c.transition(ctx, func() error {
		p, err := c.deps.Projects.Get(ctx, projectID)
		if err != nil {
			return err
		}
		if p == nil {
			return store.ErrProjectNotFound
		}
		p.Name = name
		p.PreviewImage = previewImage
		updated, err := c.deps.Projects.Update(ctx, *p)
		if err != nil {
			return err
		}
		if updated == nil {
			return store.ErrProjectNotFound
		}
		if err := c.refreshProjects(ctx); err != nil {
			return err
		}
		if c.state.ActiveProject != nil && c.state.ActiveProject.ID == updated.ID {
			c.state.ActiveProject = c.findProject(updated.ID)
		}
		out = updated
		return c.appendHistory(ctx, "Updated project: "+name, nil, nil)
	})
	return out, err
}

// DeleteProject removes a project and every artifact in it. Deleting the open project
// closes it.
func (c *Controller) DeleteProject(ctx context.Context, projectID string) error {
	return c.transition(ctx, func() error {
		p, err := c.deps.Projects.Get(ctx, projectID)
		if err != nil {
			return err
		}
		if p == nil {
			return store.ErrProjectNotFound
		}
		if err := c.deps.Projects.Delete(ctx, projectID); err != nil {
			return err
		}
		if err := c.refreshProjects(ctx); err != nil {
			return err
		}
		if c.state.ActiveProject != nil && c.state.ActiveProject.ID == projectID {
			c.state.ActiveProject = nil
			c.state.ActiveItem = nil
			if c.state.View == models.ViewProjectDetail {
				c.setView(models.ViewProjects)
			}
		}
		c.state.Notice = "Project deleted successfully"
		return c.appendHistory(ctx, "Deleted project: "+p.Name, nil, nil)
	})
}

// DeleteProjectItem deletes the open artifact and returns to its project.
func (c *Controller) DeleteProjectItem(ctx context.Context) error {
	return c.transition(ctx, func() error {
		project, item := c.state.ActiveProject, c.state.ActiveItem
		if project == nil || item == nil {
			return ErrNoActiveItem
		}
		updated, err := c.deps.Projects.DeleteItem(ctx, project.ID, item.ID)
		if err != nil {
			return err
		}
		if updated == nil {
			return store.ErrProjectNotFound
		}
		desc := fmt.Sprintf("Deleted artifact %s from %s", item.Name, project.Name)
		data, in := item.Data.Clone(), item.InputContext
		c.state.ActiveItem = nil
		if err := c.adoptProject(ctx, updated, ""); err != nil {
			return err
		}
		c.state.Notice = "Artifact deleted successfully"
		if err := c.appendHistory(ctx, desc, &data, &in); err != nil {
			return err
		}
		c.setView(models.ViewProjectDetail)
		return nil
	})
}

// DeleteItemFromProject deletes an artifact of the open project by id, as the project
// detail view does. A missing id leaves the project unchanged.
func (c *Controller) DeleteItemFromProject(ctx context.Context, itemID string) error {
	return c.transition(ctx, func() error {
		if c.state.ActiveProject == nil {
			return ErrNoActiveProject
		}
		updated, err := c.deps.Projects.DeleteItem(ctx, c.state.ActiveProject.ID, itemID)
		if err != nil {
			return err
		}
		if updated == nil {
			return store.ErrProjectNotFound
		}
		if c.state.ActiveItem != nil && c.state.ActiveItem.ID == itemID {
			c.state.ActiveItem = nil
		}
		if err := c.adoptProject(ctx, updated, ""); err != nil {
			return err
		}
		c.state.Notice = "Artifact deleted successfully"
		return c.appendHistory(ctx, "Updated project details for "+updated.Name, nil, nil)
	})
}

// ResolveItem finds an item of p by full id or unique id prefix.
func ResolveItem(p models.Project, ref string) (*models.Item, error) {
	ids := make([]string, len(p.Items))
	for i, it := range p.Items {
		ids[i] = it.ID
	}
	id, err := util.ResolveID(ref, ids)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, ref)
		}
		return nil, err
	}
	return p.FindItem(id), nil
}
