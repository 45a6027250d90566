package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/josephgoksu/perspecto/models"
)

// Controller serializes every state transition behind one mutex. Generator calls run
// outside the lock and are matched back to their request by token.
type Controller struct {
	deps *Context

	mu    sync.Mutex
	state State
	token uint64
}

// New loads projects, history, the signed-in user and the session snapshot.
func New(ctx context.Context, deps *Context) (*Controller, error) {
	c := &Controller{
		deps: deps,
		state: State{
			View:             models.ViewLanding,
			InitialInputType: models.TypeBoth,
		},
	}
	if err := c.refreshProjects(ctx); err != nil {
		return nil, err
	}
	history, err := deps.History.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	c.state.History = history

	user, err := deps.Auth.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("load current user: %w", err)
	}
	c.state.User = user

	session, err := deps.Session.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session != nil {
		c.restore(*session)
	}
	c.gateOnUser()
	return c, nil
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// restore re-resolves the snapshot against the live projects. A missing project drops
// every active-entity field but keeps the input-type flags.
func (c *Controller) restore(s models.Session) {
	if s.SavedInitialInputType != "" {
		c.state.InitialInputType = s.SavedInitialInputType
	}
	c.state.InputTypeLocked = s.SavedIsInputTypeLocked

	restoreView := func() {
		if s.View != "" && s.View != models.ViewLanding {
			c.state.View = s.View
		}
	}

	if s.ProjectID == "" {
		c.state.InputContext = s.TempInputContext
		c.state.Result = s.TempResult
		restoreView()
		c.normalizeView()
		return
	}

	p := c.findProject(s.ProjectID)
	if p == nil {
		slog.Info("session project no longer exists", "project_id", s.ProjectID)
		return
	}
	c.state.ActiveProject = p
	if s.ItemID != "" {
		if item := p.FindItem(s.ItemID); item != nil {
			c.openItem(item)
		}
	} else {
		c.state.InputContext = s.TempInputContext
		c.state.Result = s.TempResult
	}
	restoreView()
	c.normalizeView()
}

// normalizeView moves a restored view that has nothing to show to its nearest parent.
// A snapshot taken mid-generation lands where a failed request would have.
func (c *Controller) normalizeView() {
	switch c.state.View {
	case models.ViewLoading:
		if c.state.Result != nil && c.state.InputContext != nil {
			c.state.View = models.ViewOutput
		} else {
			c.state.View = models.ViewInput
		}
	case models.ViewOutput:
		if c.state.Result == nil || c.state.InputContext == nil {
			c.state.View = models.ViewHome
		}
	case models.ViewProjectDetail:
		if c.state.ActiveProject == nil {
			c.state.View = models.ViewProjects
		}
	}
}

// gateOnUser keeps signed-out users on the landing view and moves signed-in users off it.
func (c *Controller) gateOnUser() {
	switch {
	case c.state.User != nil && c.state.View == models.ViewLanding:
		c.setView(models.ViewHome)
	case c.state.User == nil && c.state.View != models.ViewLanding:
		c.setView(models.ViewLanding)
	}
}

// ready starts a workspace action. Callers hold mu.
func (c *Controller) ready() error {
	c.state.Notice = ""
	if c.state.User == nil {
		return ErrNotAuthenticated
	}
	return nil
}

// setView changes the view. Leaving the loading view abandons the in-flight request.
func (c *Controller) setView(v models.View) {
	if c.state.View == models.ViewLoading && v != models.ViewLoading {
		c.token++
	}
	c.state.View = v
}

// beginRequest enters the loading view and returns the token the completion must present.
func (c *Controller) beginRequest() uint64 {
	c.token++
	c.state.View = models.ViewLoading
	return c.token
}

// persistSession overwrites the snapshot. The landing view is never recorded.
func (c *Controller) persistSession(ctx context.Context) error {
	if c.state.View == models.ViewLanding {
		return nil
	}
	s := models.Session{
		View:                   c.state.View,
		TempInputContext:       c.state.InputContext,
		TempResult:             c.state.Result,
		SavedInitialInputType:  c.state.InitialInputType,
		SavedIsInputTypeLocked: c.state.InputTypeLocked,
	}
	if c.state.ActiveProject != nil {
		s.ProjectID = c.state.ActiveProject.ID
	}
	if c.state.ActiveItem != nil {
		s.ItemID = c.state.ActiveItem.ID
	}
	if err := c.deps.Session.Save(ctx, s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (c *Controller) refreshProjects(ctx context.Context) error {
	projects, err := c.deps.Projects.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load projects: %w", err)
	}
	c.state.Projects = projects
	return nil
}

func (c *Controller) findProject(id string) *models.Project {
	for i := range c.state.Projects {
		if c.state.Projects[i].ID == id {
			p := c.state.Projects[i].Clone()
			return &p
		}
	}
	return nil
}

// openItem makes item the active artifact and loads its input and data for the output view.
func (c *Controller) openItem(item *models.Item) {
	it := *item
	it.Data = it.Data.Clone()
	c.state.ActiveItem = &it
	in := it.InputContext
	c.state.InputContext = &in
	c.state.Result = cloneResult(&it.Data)
}

// adoptProject makes p the active project and, when itemID is set, re-points the
// active item at its stored copy.
func (c *Controller) adoptProject(ctx context.Context, p *models.Project, itemID string) error {
	c.state.ActiveProject = p
	if itemID != "" {
		if item := p.FindItem(itemID); item != nil {
			it := *item
			it.Data = it.Data.Clone()
			c.state.ActiveItem = &it
		}
	}
	return c.refreshProjects(ctx)
}

// appendHistory records one natural-language entry. Without an input context the
// description doubles as the context of a "both" entry.
func (c *Controller) appendHistory(ctx context.Context, desc string, data *models.GeneratedResult, in *models.InputContext) error {
	hc := models.InputContext{Context: desc, Type: models.TypeBoth}
	if in != nil {
		hc = *in
		hc.Context = desc
	}
	entry := models.HistoryItem{InputContext: hc}
	if data != nil {
		entry.Result = data.Clone()
	}
	saved, err := c.deps.History.Append(ctx, entry)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	c.state.History = append([]models.HistoryItem{saved}, c.state.History...)
	return nil
}
