package app

import (
	"cmp"
	"context"

	"github.com/josephgoksu/perspecto/models"
)

// Editor operations change the result shown in the output view. Nothing reaches a
// project until Save.

func (c *Controller) editResult(ctx context.Context, fn func(r *models.GeneratedResult) error) error {
	return c.transition(ctx, func() error {
		if c.state.Result == nil {
			return ErrNoInput
		}
		edited := c.state.Result.Clone()
		if err := fn(&edited); err != nil {
			return err
		}
		c.state.Result = &edited
		return nil
	})
}

func (c *Controller) editPersona(ctx context.Context, fn func(p *models.PersonaData) error) error {
	return c.editResult(ctx, func(r *models.GeneratedResult) error {
		if r.Persona == nil {
			return ErrNoPersona
		}
		return fn(r.Persona)
	})
}

// SetPersonaName renames the persona.
func (c *Controller) SetPersonaName(ctx context.Context, name string) error {
	return c.editPersona(ctx, func(p *models.PersonaData) error {
		p.Name = name
		return nil
	})
}

// SetPersonaRole changes the persona's role.
func (c *Controller) SetPersonaRole(ctx context.Context, role string) error {
	return c.editPersona(ctx, func(p *models.PersonaData) error {
		p.Role = role
		return nil
	})
}

// AppendPersonaEntry adds an entry to one persona list; an empty value adds the placeholder.
func (c *Controller) AppendPersonaEntry(ctx context.Context, field models.PersonaListField, value string) error {
	return c.editPersona(ctx, func(p *models.PersonaData) error {
		return p.AppendEntry(field, cmp.Or(value, models.NewListEntry))
	})
}

// RemovePersonaEntry removes entry index from one persona list.
func (c *Controller) RemovePersonaEntry(ctx context.Context, field models.PersonaListField, index int) error {
	return c.editPersona(ctx, func(p *models.PersonaData) error {
		return p.RemoveEntry(field, index)
	})
}

// EditPersonaEntry replaces entry index of one persona list.
func (c *Controller) EditPersonaEntry(ctx context.Context, field models.PersonaListField, index int, value string) error {
	return c.editPersona(ctx, func(p *models.PersonaData) error {
		return p.EditEntry(field, index, value)
	})
}

// AddJTBD appends the template statement.
func (c *Controller) AddJTBD(ctx context.Context) error {
	return c.editResult(ctx, func(r *models.GeneratedResult) error {
		r.AddJTBD(models.DefaultJTBD())
		return nil
	})
}

// RemoveJTBD removes statement index.
func (c *Controller) RemoveJTBD(ctx context.Context, index int) error {
	return c.editResult(ctx, func(r *models.GeneratedResult) error {
		return r.RemoveJTBD(index)
	})
}

// EditJTBD replaces one part of statement index.
func (c *Controller) EditJTBD(ctx context.Context, index int, part models.JTBDPart, value string) error {
	return c.editResult(ctx, func(r *models.GeneratedResult) error {
		return r.EditJTBD(index, part, value)
	})
}
