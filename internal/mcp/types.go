// Package mcp provides the tool handlers behind `perspecto mcp`.
package mcp

// ProjectAction selects the operation of the project tool.
type ProjectAction string

const (
	ProjectActionList   ProjectAction = "list"
	ProjectActionCreate ProjectAction = "create"
	ProjectActionOpen   ProjectAction = "open"
	ProjectActionRename ProjectAction = "rename"
	ProjectActionDelete ProjectAction = "delete"
)

// IsValid checks if the action is a valid project action.
func (a ProjectAction) IsValid() bool {
	switch a {
	case ProjectActionList, ProjectActionCreate, ProjectActionOpen, ProjectActionRename, ProjectActionDelete:
		return true
	}
	return false
}

// ItemAction selects the operation of the item tool.
type ItemAction string

const (
	ItemActionOpen   ItemAction = "open"
	ItemActionDelete ItemAction = "delete"
)

// IsValid checks if the action is a valid item action.
func (a ItemAction) IsValid() bool {
	return a == ItemActionOpen || a == ItemActionDelete
}

// HistoryAction selects the operation of the history tool.
type HistoryAction string

const (
	HistoryActionList   HistoryAction = "list"
	HistoryActionRecall HistoryAction = "recall"
	HistoryActionClear  HistoryAction = "clear"
)

// IsValid checks if the action is a valid history action.
func (a HistoryAction) IsValid() bool {
	switch a {
	case HistoryActionList, HistoryActionRecall, HistoryActionClear:
		return true
	}
	return false
}

// OrphanAction selects how a JTBD set without a persona gets one.
type OrphanAction string

const (
	OrphanActionLink     OrphanAction = "link"
	OrphanActionGenerate OrphanAction = "generate"
)

// StateParams takes no arguments.
type StateParams struct{}

// GenerateParams defines the parameters for the generate tool.
type GenerateParams struct {
	Context    string `json:"context,omitempty" jsonschema:"project description; omit with regenerate=true"`
	Type       string `json:"type,omitempty" jsonschema:"persona, jtbd or both (default both)"`
	Regenerate bool   `json:"regenerate,omitempty" jsonschema:"repeat the current request"`
}

// JTBDParams defines the parameters for the jtbd tool.
type JTBDParams struct {
	Persona string `json:"persona,omitempty" jsonschema:"persona name to ground on; default is the current persona"`
}

// OrphanParams defines the parameters for the orphan tool.
type OrphanParams struct {
	Action  OrphanAction `json:"action" jsonschema:"link or generate"`
	Persona string       `json:"persona,omitempty" jsonschema:"persona name from the active project, for link"`
}

// SaveParams defines the parameters for the save tool.
type SaveParams struct {
	ProjectID  string `json:"project_id,omitempty" jsonschema:"existing project id or prefix for a pending save"`
	NewProject string `json:"new_project,omitempty" jsonschema:"name of a project to create for a pending save"`
}

// ProjectParams defines the parameters for the project tool.
type ProjectParams struct {
	Action ProjectAction `json:"action" jsonschema:"list, create, open, rename or delete"`
	ID     string        `json:"id,omitempty" jsonschema:"project id or unique prefix"`
	Name   string        `json:"name,omitempty"`
}

// ItemParams defines the parameters for the item tool.
type ItemParams struct {
	Action    ItemAction `json:"action" jsonschema:"open or delete"`
	ProjectID string     `json:"project_id,omitempty" jsonschema:"defaults to the active project"`
	ItemID    string     `json:"item_id" jsonschema:"item id or unique prefix"`
}

// HistoryParams defines the parameters for the history tool.
type HistoryParams struct {
	Action HistoryAction `json:"action" jsonschema:"list, recall or clear"`
	ID     string        `json:"id,omitempty" jsonschema:"history entry id or prefix, for recall"`
	Limit  int           `json:"limit,omitempty" jsonschema:"entries to list (default 20)"`
}

// ExportParams defines the parameters for the export tool.
type ExportParams struct {
	Format string `json:"format,omitempty" jsonschema:"json, yaml or markdown (default markdown)"`
}
