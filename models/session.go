package models

import "fmt"

// View is the screen the user is on.
type View string

const (
	ViewLanding       View = "landing"
	ViewHome          View = "home"
	ViewProjects      View = "projects"
	ViewProjectDetail View = "project_detail"
	ViewInput         View = "input"
	ViewLoading       View = "loading"
	ViewOutput        View = "output"
	ViewSettings      View = "settings"
)

// Views lists every view in display order.
var Views = []View{
	ViewLanding, ViewHome, ViewProjects, ViewProjectDetail,
	ViewInput, ViewLoading, ViewOutput, ViewSettings,
}

// ParseView validates a view name.
func ParseView(s string) (View, error) {
	for _, v := range Views {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// Session is the snapshot of where the user was, referencing projects and items by id only.
type Session struct {
	View                   View             `json:"view"`
	ProjectID              string           `json:"projectId,omitempty"`
	ItemID                 string           `json:"itemId,omitempty"`
	TempInputContext       *InputContext    `json:"tempInputContext,omitempty"`
	TempResult             *GeneratedResult `json:"tempResult,omitempty"`
	SavedInitialInputType  GeneratorType    `json:"savedInitialInputType,omitempty"`
	SavedIsInputTypeLocked bool             `json:"savedIsInputTypeLocked"`
}
