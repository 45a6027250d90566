package app

import (
	"context"
	"fmt"

	"github.com/josephgoksu/perspecto/internal/store"
	"github.com/josephgoksu/perspecto/models"
)

// transition runs fn under the lock and snapshots the session when it succeeds.
func (c *Controller) transition(ctx context.Context, fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ready(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	return c.persistSession(ctx)
}

// Start opens a blank standalone input with the type selector unlocked.
func (c *Controller) Start(ctx context.Context) error {
	return c.transition(ctx, func() error {
		c.state.ActiveProject = nil
		c.state.ActiveItem = nil
		c.state.InitialInputType = models.TypeBoth
		c.state.InputTypeLocked = false
		c.setView(models.ViewInput)
		return nil
	})
}

// SelectArtifactTypeFromHome opens a standalone input locked to kind.
func (c *Controller) SelectArtifactTypeFromHome(ctx context.Context, kind models.GeneratorType) error {
	return c.transition(ctx, func() error {
		c.state.ActiveProject = nil
		c.state.ActiveItem = nil
		c.state.InitialInputType = kind
		c.state.InputTypeLocked = true
		c.setView(models.ViewInput)
		return nil
	})
}

// InputBack leaves the input view for the open project, or home.
func (c *Controller) InputBack(ctx context.Context) error {
	return c.transition(ctx, func() error {
		if c.state.ActiveProject != nil {
			c.setView(models.ViewProjectDetail)
		} else {
			c.setView(models.ViewHome)
		}
		return nil
	})
}

// OutputBack leaves the output view for the open project, or the input.
func (c *Controller) OutputBack(ctx context.Context) error {
	return c.transition(ctx, func() error {
		if c.state.ActiveProject != nil {
			c.setView(models.ViewProjectDetail)
		} else {
			c.setView(models.ViewInput)
		}
		return nil
	})
}

// SelectProject opens a project. An open artifact from another project is closed.
func (c *Controller) SelectProject(ctx context.Context, projectID string) error {
	return c.transition(ctx, func() error {
		p, err := c.deps.Projects.Get(ctx, projectID)
		if err != nil {
			return err
		}
		if p == nil {
			return store.ErrProjectNotFound
		}
		if c.state.ActiveItem != nil && p.FindItem(c.state.ActiveItem.ID) == nil {
			c.state.ActiveItem = nil
		}
		c.state.ActiveProject = p
		c.setView(models.ViewProjectDetail)
		return nil
	})
}

// SelectProjectItem opens an artifact straight from the home screen.
func (c *Controller) SelectProjectItem(ctx context.Context, projectID, itemID string) error {
	return c.transition(ctx, func() error {
		p, err := c.deps.Projects.Get(ctx, projectID)
		if err != nil {
			return err
		}
		if p == nil {
			return store.ErrProjectNotFound
		}
		item := p.FindItem(itemID)
		if item == nil {
			return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
		}
		c.state.ActiveProject = p
		c.openItem(item)
		c.setView(models.ViewOutput)
		return nil
	})
}

// NewProjectItem opens the input for a new artifact in the open project, locked to kind.
func (c *Controller) NewProjectItem(ctx context.Context, kind models.GeneratorType) error {
	return c.transition(ctx, func() error {
		if c.state.ActiveProject == nil {
			return ErrNoActiveProject
		}
		c.state.ActiveItem = nil
		c.state.InitialInputType = kind
		c.state.InputTypeLocked = true
		c.setView(models.ViewInput)
		return nil
	})
}

// EditProjectItem opens one artifact of the open project in the output view.
func (c *Controller) EditProjectItem(ctx context.Context, itemID string) error {
	return c.transition(ctx, func() error {
		if c.state.ActiveProject == nil {
			return ErrNoActiveProject
		}
		item := c.state.ActiveProject.FindItem(itemID)
		if item == nil {
			return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
		}
		c.openItem(item)
		c.setView(models.ViewOutput)
		return nil
	})
}

// RecallHistory shows a history entry in the output view, detached from any project.
func (c *Controller) RecallHistory(ctx context.Context, ref string) error {
	return c.transition(ctx, func() error {
		entry, err := c.deps.History.Find(ctx, ref)
		if err != nil {
			return err
		}
		if entry == nil {
			return fmt.Errorf("history entry %q not found", ref)
		}
		in := entry.InputContext
		c.state.InputContext = &in
		c.state.Result = cloneResult(&entry.Result)
		c.state.ActiveProject = nil
		c.state.ActiveItem = nil
		c.setView(models.ViewOutput)
		return nil
	})
}

// ClearHistory empties the history log. Projects are untouched.
func (c *Controller) ClearHistory(ctx context.Context) error {
	return c.transition(ctx, func() error {
		if err := c.deps.History.Clear(ctx); err != nil {
			return err
		}
		c.state.History = []models.HistoryItem{}
		return nil
	})
}

// Navigate switches to a top-level view. Views that need state to render are only
// reachable when that state exists; loading is never entered directly.
func (c *Controller) Navigate(ctx context.Context, v models.View) error {
	if _, err := models.ParseView(string(v)); err != nil {
		return err
	}
	return c.transition(ctx, func() error {
		switch v {
		case models.ViewLoading:
			return fmt.Errorf("%w: %s", ErrInvalidView, v)
		case models.ViewProjectDetail:
			if c.state.ActiveProject == nil {
				return fmt.Errorf("%w: %s needs an open project", ErrInvalidView, v)
			}
		case models.ViewOutput:
			if c.state.Result == nil || c.state.InputContext == nil {
				return fmt.Errorf("%w: %s needs a result", ErrInvalidView, v)
			}
		}
		c.setView(v)
		return nil
	})
}
