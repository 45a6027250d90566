package store

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/josephgoksu/perspecto/internal/kv"
	"github.com/josephgoksu/perspecto/internal/util"
	"github.com/josephgoksu/perspecto/models"
)

// ProjectStore persists the project library as one JSON array.
// Every mutation reads the whole array, changes it and writes it back under the backend's lock.
type ProjectStore struct {
	kv   kv.Store
	opts options
}

// NewProjectStore creates a ProjectStore over kvs.
func NewProjectStore(kvs kv.Store, opts ...Option) *ProjectStore {
	return &ProjectStore{kv: kvs, opts: buildOptions(opts)}
}

func decodeProjects(data []byte) ([]models.Project, error) {
	if len(data) == 0 {
		return []models.Project{}, nil
	}
	var projects []models.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ProjectsKey, err)
	}
	if projects == nil {
		projects = []models.Project{}
	}
	for i := range projects {
		if projects[i].Items == nil {
			projects[i].Items = []models.Item{}
		}
	}
	return projects, nil
}

// latestStamp is the highest timestamp anywhere in the library.
func latestStamp(projects []models.Project) int64 {
	var latest int64
	for _, p := range projects {
		latest = max(latest, p.CreatedAt, p.UpdatedAt)
		for _, it := range p.Items {
			latest = max(latest, it.CreatedAt, it.UpdatedAt)
		}
	}
	return latest
}

// mutate runs fn over the decoded library and writes the result.
// fn returns false to skip the write.
func (s *ProjectStore) mutate(ctx context.Context, fn func(projects []models.Project, stamp int64) ([]models.Project, bool)) error {
	return s.kv.Update(ctx, ProjectsKey, func(current []byte) ([]byte, error) {
		projects, err := decodeProjects(current)
		if err != nil {
			return nil, err
		}
		stamp := nextStamp(s.opts.now(), latestStamp(projects))
		next, changed := fn(projects, stamp)
		if !changed {
			return nil, kv.ErrNoChange
		}
		return json.Marshal(next)
	})
}

// GetAll returns every project, most recently updated first.
func (s *ProjectStore) GetAll(ctx context.Context) ([]models.Project, error) {
	data, err := s.kv.Get(ctx, ProjectsKey)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return nil, err
	}
	projects, err := decodeProjects(data)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(projects, func(a, b models.Project) int {
		return cmp.Compare(b.UpdatedAt, a.UpdatedAt)
	})
	return projects, nil
}

// Get returns the project with the given id, or nil.
func (s *ProjectStore) Get(ctx context.Context, id string) (*models.Project, error) {
	projects, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].ID == id {
			return &projects[i], nil
		}
	}
	return nil, nil
}

// Resolve finds a project by full id or unique id prefix.
func (s *ProjectStore) Resolve(ctx context.Context, ref string) (*models.Project, error) {
	projects, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	id, err := util.ResolveID(ref, models.ProjectIDs(projects))
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, ref)
		}
		return nil, err
	}
	for i := range projects {
		if projects[i].ID == id {
			return &projects[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, ref)
}

// Create prepends a new empty project.
func (s *ProjectStore) Create(ctx context.Context, name, previewImage string) (*models.Project, error) {
	p := models.Project{Name: name, PreviewImage: previewImage, Items: []models.Item{}}
	if err := models.ValidateStruct(p); err != nil {
		return nil, err
	}
	err := s.mutate(ctx, func(projects []models.Project, stamp int64) ([]models.Project, bool) {
		p.ID = s.opts.newID()
		p.CreatedAt = stamp
		p.UpdatedAt = stamp
		return append([]models.Project{p}, projects...), true
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update replaces the project with the same id and bumps its updatedAt.
// It returns nil without writing when the id is unknown.
func (s *ProjectStore) Update(ctx context.Context, project models.Project) (*models.Project, error) {
	if err := models.ValidateStruct(project); err != nil {
		return nil, err
	}
	var updated *models.Project
	err := s.mutate(ctx, func(projects []models.Project, stamp int64) ([]models.Project, bool) {
		i := indexOfProject(projects, project.ID)
		if i < 0 {
			return nil, false
		}
		next := project.Clone()
		if next.Items == nil {
			next.Items = []models.Item{}
		}
		next.UpdatedAt = stamp
		projects[i] = next
		updated = &next
		return projects, true
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the project. Unknown ids are ignored.
func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, func(projects []models.Project, _ int64) ([]models.Project, bool) {
		i := indexOfProject(projects, id)
		if i < 0 {
			return nil, false
		}
		return slices.Delete(projects, i, i+1), true
	})
}

// AddItem prepends a new item to the project and returns the updated project, or nil if it does not exist.
func (s *ProjectStore) AddItem(ctx context.Context, projectID string, fields models.ItemFields) (*models.Project, error) {
	var updated *models.Project
	err := s.mutate(ctx, func(projects []models.Project, stamp int64) ([]models.Project, bool) {
		i := indexOfProject(projects, projectID)
		if i < 0 {
			return nil, false
		}
		item := models.Item{
			ID:           s.opts.newID(),
			Type:         upgradeType(fields.Type, fields.Data),
			Name:         fields.Name,
			CreatedAt:    stamp,
			UpdatedAt:    stamp,
			Data:         fields.Data.Clone(),
			InputContext: fields.InputContext,
		}
		p := &projects[i]
		p.Items = append([]models.Item{item}, p.Items...)
		p.UpdatedAt = stamp
		out := p.Clone()
		updated = &out
		return projects, true
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateItem replaces an item's data, upgrading its type to both when it now holds a persona and JTBD.
// It returns nil when the project or the item is missing.
func (s *ProjectStore) UpdateItem(ctx context.Context, projectID, itemID string, data models.GeneratedResult) (*models.Project, error) {
	var updated *models.Project
	err := s.mutate(ctx, func(projects []models.Project, stamp int64) ([]models.Project, bool) {
		i := indexOfProject(projects, projectID)
		if i < 0 {
			return nil, false
		}
		p := &projects[i]
		item := p.FindItem(itemID)
		if item == nil {
			return nil, false
		}
		item.Data = data.Clone()
		item.Type = upgradeType(item.Type, item.Data)
		item.UpdatedAt = stamp
		p.UpdatedAt = stamp
		out := p.Clone()
		updated = &out
		return projects, true
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteItem removes an item and stamps the project. A missing item still stamps and returns the project.
// It returns nil only when the project is missing.
func (s *ProjectStore) DeleteItem(ctx context.Context, projectID, itemID string) (*models.Project, error) {
	var updated *models.Project
	err := s.mutate(ctx, func(projects []models.Project, stamp int64) ([]models.Project, bool) {
		i := indexOfProject(projects, projectID)
		if i < 0 {
			return nil, false
		}
		p := &projects[i]
		p.Items = slices.DeleteFunc(p.Items, func(it models.Item) bool { return it.ID == itemID })
		p.UpdatedAt = stamp
		out := p.Clone()
		updated = &out
		return projects, true
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func indexOfProject(projects []models.Project, id string) int {
	return slices.IndexFunc(projects, func(p models.Project) bool { return p.ID == id })
}

// upgradeType never downgrades.
func upgradeType(t models.GeneratorType, data models.GeneratedResult) models.GeneratorType {
	if data.IsComplete() {
		return models.TypeBoth
	}
	return t
}
