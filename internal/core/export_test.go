package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader is an in-memory ExportReader.
type fakeReader struct {
	mu       sync.Mutex
	recipes  []RecipeRow
	settings map[uuid.UUID][]SettingRow
	tags     map[uuid.UUID][]TagRow
	images   map[uuid.UUID][]ImageRow

	listErr    error
	settingErr map[uuid.UUID]error
	calls      int
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		settings:   make(map[uuid.UUID][]SettingRow),
		tags:       make(map[uuid.UUID][]TagRow),
		images:     make(map[uuid.UUID][]ImageRow),
		settingErr: make(map[uuid.UUID]error),
	}
}

func (f *fakeReader) ListRecipes(ctx context.Context, filter ExportFilter) ([]RecipeRow, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []RecipeRow
	for _, r := range f.recipes {
		if filter.ActiveOnly && !r.IsActive {
			continue
		}
		if filter.FeaturedOnly && !r.IsFeatured {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReader) GetRecipe(ctx context.Context, id uuid.UUID) (RecipeRow, bool, error) {
	for _, r := range f.recipes {
		if r.ID == id {
			return r, true, nil
		}
	}
	return RecipeRow{}, false, nil
}

func (f *fakeReader) ListRecipeSettings(ctx context.Context, recipeID uuid.UUID) ([]SettingRow, error) {
	f.count()
	if err := f.settingErr[recipeID]; err != nil {
		return nil, err
	}
	return f.settings[recipeID], nil
}

func (f *fakeReader) ListRecipeTags(ctx context.Context, recipeID uuid.UUID) ([]TagRow, error) {
	f.count()
	return f.tags[recipeID], nil
}

func (f *fakeReader) ListRecipeImages(ctx context.Context, recipeID uuid.UUID) ([]ImageRow, error) {
	f.count()
	return f.images[recipeID], nil
}

func (f *fakeReader) count() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func (f *fakeReader) addRecipe(name, slug string, active, featured bool) RecipeRow {
	r := RecipeRow{
		ID:                 uuid.New(),
		Name:               name,
		Slug:               slug,
		Description:        "desc",
		IsActive:           active,
		IsFeatured:         featured,
		CreatedAt:          fixedTime,
		UpdatedAt:          fixedTime,
		AuthorID:           uuid.New(),
		AuthorName:         "Alice",
		AuthorSlug:         "alice",
		SystemID:           uuid.New(),
		SystemName:         "Fujifilm X",
		SystemSlug:         "fujifilm-x",
		FilmSimulationID:   uuid.New(),
		FilmSimulationName: "Classic Chrome",
		FilmSimulationSlug: "classic-chrome",
	}
	f.recipes = append(f.recipes, r)
	f.settings[r.ID] = []SettingRow{
		{SettingID: uuid.New(), Name: "Dynamic Range", Slug: "dynamic-range", Category: "tone", Value: strPtr("DR200")},
	}
	f.tags[r.ID] = []TagRow{{ID: uuid.New(), Name: "street", Slug: "street"}}
	f.images[r.ID] = []ImageRow{{ID: uuid.New(), URL: "https://example.com/a.jpg", IsPrimary: true}}
	return r
}

func newTestExporter(reader ExportReader) *Exporter {
	e := NewExporter(reader, ExporterConfig{})
	e.now = func() time.Time { return fixedTime }
	return e
}

func TestTransformRecipe(t *testing.T) {
	sensor := uuid.New()
	recipe := RecipeRow{
		ID:                 uuid.New(),
		Name:               "Kodachrome",
		Slug:               "kodachrome",
		StyleCategory:      "Vintage",
		IsActive:           true,
		CreatedAt:          fixedTime,
		UpdatedAt:          fixedTime.Add(time.Hour),
		AuthorName:         "Alice",
		AuthorSlug:         "alice",
		AuthorURL:          "https://alice.example",
		SensorID:           uuid.NullUUID{UUID: sensor, Valid: true},
		SensorName:         "X-Trans IV",
		SensorSlug:         "x-trans-iv",
		FilmSimulationName: "Classic Chrome",
		FilmSimulationSlug: "classic-chrome",
	}
	settingRows := []SettingRow{
		{Name: "ISO", Slug: "iso", Category: "exposure", MinValue: strPtr("800"), MaxValue: strPtr("3200"), Value: strPtr("ignored")},
		{Name: "Color", Slug: "color", Category: "color", Value: strPtr("+2"), Notes: strPtr("punchy")},
		{Name: "White Balance", Slug: "white-balance", Category: "color", Unit: strPtr("K"), Value: strPtr("5500K")},
	}
	tagRows := []TagRow{{Name: "b", Slug: "b"}, {Name: "a", Slug: "a"}}
	imageRows := []ImageRow{{URL: "https://example.com/1.jpg", IsPrimary: true}, {URL: "https://example.com/2.jpg", SortOrder: 1}}

	doc, err := TransformRecipe(recipe, settingRows, tagRows, imageRows)
	require.NoError(t, err)

	assert.Equal(t, "kodachrome", doc.Slug)
	assert.Equal(t, "2024-03-01T12:00:00Z", doc.CreatedAt)
	assert.Equal(t, "2024-03-01T13:00:00Z", doc.UpdatedAt)
	require.NotNil(t, doc.StyleCategory)
	assert.Equal(t, "Vintage", *doc.StyleCategory)
	assert.Nil(t, doc.SourceURL)
	require.NotNil(t, doc.Author.URL)

	require.NotNil(t, doc.System.Sensor)
	assert.Equal(t, "x-trans-iv", doc.System.Sensor.Slug)
	assert.Nil(t, doc.System.Camera)

	iso := doc.Settings["iso"]
	require.NotNil(t, iso.Range)
	assert.Nil(t, iso.Value)
	assert.Equal(t, RangeDoc{Min: "800", Max: "3200"}, *iso.Range)

	color := doc.Settings["color"]
	assert.Nil(t, color.Range)
	require.NotNil(t, color.Value)
	assert.Equal(t, "+2", *color.Value)
	assert.Equal(t, "punchy", color.Notes)

	wb := doc.Settings["white-balance"]
	assert.Equal(t, "", wb.Notes)
	require.NotNil(t, wb.Unit)

	assert.Equal(t, "b", doc.Tags[0].Slug)
	assert.Equal(t, "a", doc.Tags[1].Slug)
	assert.True(t, doc.Images[0].IsPrimary)
	assert.Equal(t, 1, doc.Images[1].SortOrder)
}

func TestTransformRecipe_ValueRangeExclusive(t *testing.T) {
	raw, err := json.Marshal(mustTransform(t, []SettingRow{
		{Name: "ISO", Slug: "iso", MinValue: strPtr("200"), MaxValue: strPtr("6400")},
		{Name: "Color", Slug: "color", Value: strPtr("0")},
	}))
	require.NoError(t, err)

	var doc struct {
		Settings map[string]map[string]any `json:"settings"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))

	for slug, entry := range doc.Settings {
		_, hasValue := entry["value"]
		_, hasRange := entry["range"]
		assert.True(t, hasValue != hasRange, "setting %s must carry exactly one of value or range", slug)
	}
}

func mustTransform(t *testing.T, settingRows []SettingRow) *RecipeDocument {
	t.Helper()
	doc, err := TransformRecipe(RecipeRow{ID: uuid.New(), Name: "x", Slug: "x"}, settingRows, nil, nil)
	require.NoError(t, err)
	return doc
}

func TestTransformRecipe_MalformedRows(t *testing.T) {
	recipe := RecipeRow{ID: uuid.New(), Name: "x", Slug: "x"}

	tests := []struct {
		name     string
		settings []SettingRow
		tags     []TagRow
		images   []ImageRow
	}{
		{name: "setting without slug", settings: []SettingRow{{Name: "Color", Value: strPtr("1")}}},
		{name: "setting without value", settings: []SettingRow{{Name: "Color", Slug: "color"}}},
		{name: "setting with half a range", settings: []SettingRow{{Name: "ISO", Slug: "iso", MinValue: strPtr("200")}}},
		{name: "tag without slug", tags: []TagRow{{Name: "street"}}},
		{name: "image without url", images: []ImageRow{{IsPrimary: true}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TransformRecipe(recipe, tt.settings, tt.tags, tt.images)
			assert.ErrorIs(t, err, errMissingField)
		})
	}
}

func TestExportAll(t *testing.T) {
	reader := newFakeReader()
	reader.addRecipe("Kodachrome", "kodachrome", true, true)
	reader.addRecipe("Portra", "portra", true, false)
	reader.addRecipe("Retired", "retired", false, false)

	var buf bytes.Buffer
	stats, err := newTestExporter(reader).ExportAll(context.Background(), ExportFilter{}, &buf, ExportOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalRecipes)
	assert.Equal(t, 3, stats.ExportedRecipes)
	assert.Equal(t, 0, stats.Errors)
	assert.Equal(t, int64(buf.Len()), stats.BytesWritten)
	assert.Equal(t, 9, reader.calls)

	var bundle ExportBundle
	require.NoError(t, json.Unmarshal(buf.Bytes(), &bundle))
	assert.Equal(t, DefaultExportVersion, bundle.Metadata.Version)
	assert.Equal(t, "2024-03-01T12:00:00Z", bundle.Metadata.ExportDate)
	assert.Equal(t, 3, bundle.Metadata.TotalRecipes)
	require.Len(t, bundle.Recipes, 3)
	assert.Equal(t, "DR200", *bundle.Recipes[0].Settings["dynamic-range"].Value)
}

func TestExportAll_Filters(t *testing.T) {
	reader := newFakeReader()
	reader.addRecipe("Kodachrome", "kodachrome", true, true)
	reader.addRecipe("Portra", "portra", true, false)
	reader.addRecipe("Retired", "retired", false, true)

	var buf bytes.Buffer
	stats, err := newTestExporter(reader).ExportAll(context.Background(), ExportFilter{ActiveOnly: true, FeaturedOnly: true}, &buf, ExportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ExportedRecipes)
}

func TestExportAll_RecipeFailureIsolated(t *testing.T) {
	reader := newFakeReader()
	reader.addRecipe("Good", "good", true, false)
	bad := reader.addRecipe("Bad", "bad", true, false)
	reader.settingErr[bad.ID] = errors.New("connection reset")
	broken := reader.addRecipe("Broken", "broken", true, false)
	reader.settings[broken.ID] = []SettingRow{{Name: "Color", Slug: "color"}}

	var buf bytes.Buffer
	stats, err := newTestExporter(reader).ExportAll(context.Background(), ExportFilter{}, &buf, ExportOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalRecipes)
	assert.Equal(t, 1, stats.ExportedRecipes)
	assert.Equal(t, 2, stats.Errors)

	var bundle ExportBundle
	require.NoError(t, json.Unmarshal(buf.Bytes(), &bundle))
	require.Len(t, bundle.Recipes, 1)
	assert.Equal(t, "good", bundle.Recipes[0].Slug)
	assert.Equal(t, 1, bundle.Metadata.TotalRecipes)
}

func TestExportAll_DryRun(t *testing.T) {
	reader := newFakeReader()
	reader.addRecipe("Kodachrome", "kodachrome", true, false)

	var buf bytes.Buffer
	stats, err := newTestExporter(reader).ExportAll(context.Background(), ExportFilter{}, &buf, ExportOptions{DryRun: true})
	require.NoError(t, err)

	assert.True(t, stats.DryRun)
	assert.Equal(t, 1, stats.ExportedRecipes)
	assert.Zero(t, stats.BytesWritten)
	assert.Zero(t, buf.Len())
}

func TestExportAll_ListFailure(t *testing.T) {
	reader := newFakeReader()
	reader.listErr = errors.New("connection refused")

	var buf bytes.Buffer
	_, err := newTestExporter(reader).ExportAll(context.Background(), ExportFilter{}, &buf, ExportOptions{})
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestExportAll_EmptyCatalogue(t *testing.T) {
	var buf bytes.Buffer
	_, err := newTestExporter(newFakeReader()).ExportAll(context.Background(), ExportFilter{}, &buf, ExportOptions{})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"metadata":{"version":"1.0.0","exportDate":"2024-03-01T12:00:00Z","totalRecipes":0},"recipes":[]}`,
		buf.String(),
	)
}

func TestExportByID(t *testing.T) {
	reader := newFakeReader()
	r := reader.addRecipe("Kodachrome", "kodachrome", true, false)

	var buf bytes.Buffer
	stats, err := newTestExporter(reader).ExportByID(context.Background(), r.ID, &buf, ExportOptions{Pretty: true})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ExportedRecipes)
	assert.Contains(t, buf.String(), "\n  \"id\"")

	var doc RecipeDocument
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, r.ID.String(), doc.ID)
	assert.Equal(t, "classic-chrome", doc.FilmSimulation.Slug)
}

func TestExportByID_NotFound(t *testing.T) {
	var buf bytes.Buffer
	_, err := newTestExporter(newFakeReader()).ExportByID(context.Background(), uuid.New(), &buf, ExportOptions{})
	assert.ErrorIs(t, err, ErrRecipeNotFound)
	assert.Zero(t, buf.Len())
}

func TestExportByID_TransformFailure(t *testing.T) {
	reader := newFakeReader()
	r := reader.addRecipe("Broken", "broken", true, false)
	reader.images[r.ID] = []ImageRow{{}}

	var buf bytes.Buffer
	_, err := newTestExporter(reader).ExportByID(context.Background(), r.ID, &buf, ExportOptions{})
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestTransformRecipe_ChildOrderPreserved(t *testing.T) {
	tagA, tagB := uuid.New(), uuid.New()
	img1, img2 := uuid.New(), uuid.New()
	alt := "Harbour at dusk"

	doc, err := TransformRecipe(
		RecipeRow{ID: uuid.New(), Name: "Harbour", Slug: "harbour"},
		nil,
		[]TagRow{{ID: tagB, Name: "Warm", Slug: "warm"}, {ID: tagA, Name: "Film", Slug: "film"}},
		[]ImageRow{
			{ID: img2, URL: "https://example.com/2.jpg", SortOrder: 1},
			{ID: img1, URL: "https://example.com/1.jpg", AltText: &alt, IsPrimary: true},
		},
	)
	require.NoError(t, err)

	wantTags := []TagDoc{
		{ID: tagB.String(), Name: "Warm", Slug: "warm"},
		{ID: tagA.String(), Name: "Film", Slug: "film"},
	}
	if diff := cmp.Diff(wantTags, doc.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}

	wantImages := []ImageDoc{
		{ID: img2.String(), URL: "https://example.com/2.jpg", SortOrder: 1},
		{ID: img1.String(), URL: "https://example.com/1.jpg", AltText: &alt, IsPrimary: true},
	}
	if diff := cmp.Diff(wantImages, doc.Images); diff != "" {
		t.Errorf("images mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, doc.Settings)
}
