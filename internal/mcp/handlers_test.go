package mcp

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/perspecto/internal/app"
	"github.com/josephgoksu/perspecto/internal/auth"
	"github.com/josephgoksu/perspecto/internal/generator"
	"github.com/josephgoksu/perspecto/internal/kv"
	"github.com/josephgoksu/perspecto/internal/util"
	"github.com/josephgoksu/perspecto/models"
)

func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()
	kvs, err := kv.NewFileStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)
	deps := app.NewContext(kvs, generator.NewMock(), auth.NoAuth{})
	ctrl, err := app.New(context.Background(), deps)
	require.NoError(t, err)
	return NewHandlers(ctrl, deps)
}

func TestGenerateValidation(t *testing.T) {
	h := newTestHandlers(t)
	ctx := context.Background()

	_, err := h.Generate(ctx, GenerateParams{})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = h.Generate(ctx, GenerateParams{Context: "an app", Type: "essay"})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = h.Generate(ctx, GenerateParams{Regenerate: true})
	assert.ErrorIs(t, err, app.ErrNoInput)
}

func TestGenerateBothThenJTBD(t *testing.T) {
	h := newTestHandlers(t)
	ctx := context.Background()

	out, err := h.Generate(ctx, GenerateParams{Context: "A design tool for freelancers"})
	require.NoError(t, err)
	assert.Contains(t, out, "Alex Rivera")
	assert.Contains(t, out, "call `jtbd`")
	assert.NotContains(t, out, "Jobs to be Done")

	out, err = h.JTBD(ctx, JTBDParams{})
	require.NoError(t, err)
	assert.Contains(t, out, "Jobs to be Done")
	assert.NotContains(t, out, "call `jtbd`")

	_, err = h.JTBD(ctx, JTBDParams{Persona: "Nobody"})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestSavePendingIntoNewProject(t *testing.T) {
	h := newTestHandlers(t)
	ctx := context.Background()

	_, err := h.Generate(ctx, GenerateParams{Context: "A design tool", Type: "persona"})
	require.NoError(t, err)

	_, err = h.Save(ctx, SaveParams{ProjectID: "x", NewProject: "y"})
	assert.ErrorIs(t, err, ErrInvalidParams)

	out, err := h.Save(ctx, SaveParams{})
	require.NoError(t, err)
	assert.Contains(t, out, "Pending save")

	out, err = h.Save(ctx, SaveParams{NewProject: "Design Suite"})
	require.NoError(t, err)
	assert.NotContains(t, out, "Pending save")

	st := h.ctrl.State()
	require.Len(t, st.Projects, 1)
	assert.Equal(t, "Design Suite", st.Projects[0].Name)
	require.Len(t, st.Projects[0].Items, 1)
	assert.Equal(t, "Alex Rivera", st.Projects[0].Items[0].Name)
}

func TestProjectAndItemActions(t *testing.T) {
	h := newTestHandlers(t)
	ctx := context.Background()

	_, err := h.Project(ctx, ProjectParams{Action: "archive"})
	assert.ErrorIs(t, err, ErrInvalidParams)
	_, err = h.Project(ctx, ProjectParams{Action: ProjectActionCreate})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = h.Project(ctx, ProjectParams{Action: ProjectActionCreate, Name: "Banking"})
	require.NoError(t, err)
	_, err = h.Generate(ctx, GenerateParams{Context: "Banking for shops", Type: "jtbd"})
	require.NoError(t, err)
	_, err = h.Save(ctx, SaveParams{})
	require.NoError(t, err)

	st := h.ctrl.State()
	require.NotNil(t, st.ActiveProject)
	require.Len(t, st.ActiveProject.Items, 1)
	projectID := st.ActiveProject.ID
	itemID := st.ActiveProject.Items[0].ID

	out, err := h.Project(ctx, ProjectParams{Action: ProjectActionList})
	require.NoError(t, err)
	assert.Contains(t, out, "**Banking**")
	assert.Contains(t, out, util.ShortID(itemID, 0))

	out, err = h.Project(ctx, ProjectParams{Action: ProjectActionRename, ID: util.ShortID(projectID, 0), Name: "Retail Banking"})
	require.NoError(t, err)
	assert.Contains(t, out, "Retail Banking")

	out, err = h.Item(ctx, ItemParams{Action: ItemActionOpen, ItemID: util.ShortID(itemID, 0)})
	require.NoError(t, err)
	assert.Contains(t, out, "call `orphan`")
	assert.Equal(t, itemID, h.ctrl.State().ActiveItem.ID)

	_, err = h.Item(ctx, ItemParams{Action: ItemActionOpen, ItemID: "zzzz"})
	assert.ErrorIs(t, err, app.ErrItemNotFound)

	_, err = h.Item(ctx, ItemParams{Action: ItemActionDelete, ProjectID: projectID, ItemID: itemID})
	require.NoError(t, err)
	assert.Empty(t, h.ctrl.State().ActiveProject.Items)

	_, err = h.Project(ctx, ProjectParams{Action: ProjectActionDelete, ID: projectID})
	require.NoError(t, err)
	assert.Empty(t, h.ctrl.State().Projects)
}

func TestOrphanGenerate(t *testing.T) {
	h := newTestHandlers(t)
	ctx := context.Background()

	_, err := h.Orphan(ctx, OrphanParams{Action: "merge"})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = h.Project(ctx, ProjectParams{Action: ProjectActionCreate, Name: "Design"})
	require.NoError(t, err)
	_, err = h.Generate(ctx, GenerateParams{Context: "Design tool", Type: "jtbd"})
	require.NoError(t, err)
	_, err = h.Save(ctx, SaveParams{})
	require.NoError(t, err)

	_, err = h.Orphan(ctx, OrphanParams{Action: OrphanActionLink, Persona: "Nobody"})
	assert.ErrorIs(t, err, ErrInvalidParams)

	out, err := h.Orphan(ctx, OrphanParams{Action: OrphanActionGenerate})
	require.NoError(t, err)
	assert.Contains(t, out, "Alex Rivera")
	assert.True(t, h.ctrl.State().Result.HasPersona())
}

func TestHistoryAndExport(t *testing.T) {
	h := newTestHandlers(t)
	ctx := context.Background()

	out, err := h.History(ctx, HistoryParams{})
	require.NoError(t, err)
	assert.Equal(t, "History is empty.", out)

	_, err = h.Export(ctx, ExportParams{})
	assert.ErrorIs(t, err, app.ErrNoInput)

	_, err = h.Generate(ctx, GenerateParams{Context: "Design tool", Type: "persona"})
	require.NoError(t, err)

	out, err = h.History(ctx, HistoryParams{Action: HistoryActionList})
	require.NoError(t, err)
	assert.Contains(t, out, "[persona] Generated persona: Design tool")
	entryID := h.ctrl.State().History[0].ID

	_, err = h.History(ctx, HistoryParams{Action: HistoryActionRecall})
	assert.ErrorIs(t, err, ErrInvalidParams)
	_, err = h.History(ctx, HistoryParams{Action: HistoryActionRecall, ID: entryID})
	require.NoError(t, err)
	assert.Equal(t, models.ViewOutput, h.ctrl.State().View)

	out, err = h.Export(ctx, ExportParams{Format: "json"})
	require.NoError(t, err)
	assert.Contains(t, out, "```json\n")
	assert.Contains(t, out, `"name": "Alex Rivera"`)

	_, err = h.Export(ctx, ExportParams{Format: "pdf"})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = h.History(ctx, HistoryParams{Action: HistoryActionClear})
	require.NoError(t, err)
	assert.Empty(t, h.ctrl.State().History)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Error\n\n**Details**: boom", FormatError("boom"))
	assert.Contains(t, FormatValidationError("name", "required"), "**Field**: `name`")
	assert.Equal(t, "abcdefg...", truncate("abcdefghijk", 10))
	assert.Equal(t, "a b", truncate(" a \n b ", 10))
	assert.Contains(t, FormatProjects(nil), "No projects yet")
}
