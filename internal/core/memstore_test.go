package core

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/filmrecipes/internal/settings"
)

// memStore is an in-memory RecordStore. Savepoints snapshot the whole
// transaction state so rollback-to-savepoint behaves like PostgreSQL.
type memStore struct {
	mu        sync.Mutex
	committed *memState
	defs      []SettingDefinition

	// failure injection
	beginErr        error
	commitErr       error
	savepointErr    error
	insertRecipeErr func(p RecipeParams) error

	begins    int
	commits   int
	rollbacks int
}

type memEntity struct {
	ID       uuid.UUID
	Name     string
	URL      string
	ParentID uuid.NullUUID
}

type memRecipe struct {
	ID     uuid.UUID
	Params RecipeParams
}

type memState struct {
	entities map[EntityKind]map[string]memEntity // kind -> slug -> entity
	recipes  map[string]memRecipe                // slug -> recipe
	settings map[uuid.UUID][]SettingValue
	tags     map[uuid.UUID][]uuid.UUID
	images   map[uuid.UUID][]ImageParams
}

func newMemState() *memState {
	return &memState{
		entities: make(map[EntityKind]map[string]memEntity),
		recipes:  make(map[string]memRecipe),
		settings: make(map[uuid.UUID][]SettingValue),
		tags:     make(map[uuid.UUID][]uuid.UUID),
		images:   make(map[uuid.UUID][]ImageParams),
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for kind, bySlug := range s.entities {
		c.entities[kind] = maps.Clone(bySlug)
	}
	c.recipes = maps.Clone(s.recipes)
	for id, v := range s.settings {
		c.settings[id] = slices.Clone(v)
	}
	for id, v := range s.tags {
		c.tags[id] = slices.Clone(v)
	}
	for id, v := range s.images {
		c.images[id] = slices.Clone(v)
	}
	return c
}

// newMemStore seeds one setting definition per canonical setting name.
func newMemStore() *memStore {
	names := []string{
		settings.FilmSimulation, settings.DynamicRange, settings.DRangePriority,
		settings.HighlightTone, settings.ShadowTone, settings.Color,
		settings.Sharpness, settings.NoiseReduction, settings.Clarity,
		settings.GrainEffect, settings.GrainEffectSize, settings.ColorChromeEffect,
		settings.ColorChromeFXBlue, settings.WhiteBalance, settings.WBShiftRed,
		settings.WBShiftBlue, settings.ISOMin, settings.ISOMax,
		settings.ExposureCompensationMin, settings.ExposureCompensationMax,
		settings.MonochromaticColorWC, settings.MonochromaticColorMG,
		settings.MeteringMode, settings.SmoothSkinEffect, settings.LongExposureNR,
		settings.ColorSpace,
	}
	defs := make([]SettingDefinition, 0, len(names))
	for _, n := range names {
		defs = append(defs, SettingDefinition{
			ID:       uuid.New(),
			Name:     n,
			Slug:     Slugify(n),
			Category: "general",
			DataType: "text",
		})
	}
	return &memStore{committed: newMemState(), defs: defs}
}

func (m *memStore) Begin(ctx context.Context) (RecordTx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.beginErr != nil {
		return nil, m.beginErr
	}
	m.begins++
	return &memTx{store: m, state: m.committed.clone()}, nil
}

// snapshot returns a copy of the committed state.
func (m *memStore) snapshot() *memState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.committed.clone()
}

func (m *memStore) defID(name string) uuid.UUID {
	for _, d := range m.defs {
		if d.Name == name {
			return d.ID
		}
	}
	return uuid.Nil
}

func (s *memState) entityCount(kind EntityKind) int {
	return len(s.entities[kind])
}

func (s *memState) recipe(slug string) (memRecipe, bool) {
	r, ok := s.recipes[slug]
	return r, ok
}

type savepoint struct {
	name  string
	state *memState
}

type memTx struct {
	store      *memStore
	state      *memState
	savepoints []savepoint
	done       bool
}

var errTxDone = errors.New("transaction already closed")

func (t *memTx) Commit(ctx context.Context) error {
	if t.done {
		return errTxDone
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.store.commitErr != nil {
		return t.store.commitErr
	}
	t.done = true
	t.store.committed = t.state
	t.store.commits++
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Lock()
	t.store.rollbacks++
	t.store.mu.Unlock()
	return nil
}

func (t *memTx) Savepoint(ctx context.Context, name string) error {
	if t.store.savepointErr != nil {
		return t.store.savepointErr
	}
	t.savepoints = append(t.savepoints, savepoint{name: name, state: t.state.clone()})
	return nil
}

func (t *memTx) findSavepoint(name string) int {
	for i := len(t.savepoints) - 1; i >= 0; i-- {
		if t.savepoints[i].name == name {
			return i
		}
	}
	return -1
}

func (t *memTx) RollbackToSavepoint(ctx context.Context, name string) error {
	i := t.findSavepoint(name)
	if i < 0 {
		return fmt.Errorf("savepoint %q does not exist", name)
	}
	t.state = t.savepoints[i].state.clone()
	t.savepoints = t.savepoints[:i+1]
	return nil
}

func (t *memTx) ReleaseSavepoint(ctx context.Context, name string) error {
	i := t.findSavepoint(name)
	if i < 0 {
		return fmt.Errorf("savepoint %q does not exist", name)
	}
	t.savepoints = t.savepoints[:i]
	return nil
}

func (t *memTx) TruncateRecipes(ctx context.Context) error {
	t.state.recipes = make(map[string]memRecipe)
	t.state.settings = make(map[uuid.UUID][]SettingValue)
	t.state.tags = make(map[uuid.UUID][]uuid.UUID)
	t.state.images = make(map[uuid.UUID][]ImageParams)
	return nil
}

func (t *memTx) ListSettingDefinitions(ctx context.Context) ([]SettingDefinition, error) {
	return slices.Clone(t.store.defs), nil
}

func (t *memTx) UpsertEntity(ctx context.Context, kind EntityKind, p EntityParams) (Upserted, error) {
	if p.Slug == "" {
		return Upserted{}, &pgconn.PgError{Code: "23514", Message: "empty slug"}
	}
	if kind == KindCameraModel && !p.ParentID.Valid {
		return Upserted{}, &pgconn.PgError{Code: "23502", Message: "camera_system_id is null"}
	}
	bySlug, ok := t.state.entities[kind]
	if !ok {
		bySlug = make(map[string]memEntity)
		t.state.entities[kind] = bySlug
	}
	if e, ok := bySlug[p.Slug]; ok {
		if p.URL != "" {
			e.URL = p.URL
			bySlug[p.Slug] = e
		}
		return Upserted{ID: e.ID}, nil
	}
	e := memEntity{ID: uuid.New(), Name: p.Name, URL: p.URL, ParentID: p.ParentID}
	bySlug[p.Slug] = e
	return Upserted{ID: e.ID, Created: true}, nil
}

func (t *memTx) FindRecipeBySlug(ctx context.Context, slug string) (RecipeOwner, bool, error) {
	r, ok := t.state.recipes[slug]
	if !ok {
		return RecipeOwner{}, false, nil
	}
	return RecipeOwner{ID: r.ID, AuthorID: r.Params.AuthorID}, true, nil
}

func (t *memTx) InsertRecipe(ctx context.Context, p RecipeParams) (uuid.UUID, error) {
	if t.store.insertRecipeErr != nil {
		if err := t.store.insertRecipeErr(p); err != nil {
			return uuid.Nil, err
		}
	}
	if _, ok := t.state.recipes[p.Slug]; ok {
		return uuid.Nil, &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint \"recipes_slug_key\""}
	}
	id := uuid.New()
	t.state.recipes[p.Slug] = memRecipe{ID: id, Params: p}
	return id, nil
}

func (t *memTx) UpdateRecipe(ctx context.Context, id uuid.UUID, p RecipeParams) error {
	for slug, r := range t.state.recipes {
		if r.ID == id {
			p.Slug = slug
			p.AuthorID = r.Params.AuthorID
			t.state.recipes[slug] = memRecipe{ID: id, Params: p}
			return nil
		}
	}
	return fmt.Errorf("update recipe %s: no rows", id)
}

func (t *memTx) ReplaceRecipeSettings(ctx context.Context, recipeID uuid.UUID, values []SettingValue) error {
	for _, v := range values {
		hasValue := v.Value != nil
		hasRange := v.MinValue != nil && v.MaxValue != nil
		if hasValue == hasRange {
			return &pgconn.PgError{Code: "23514", Message: "recipe_settings value/range check"}
		}
	}
	t.state.settings[recipeID] = slices.Clone(values)
	return nil
}

func (t *memTx) ReplaceRecipeTags(ctx context.Context, recipeID uuid.UUID, tagIDs []uuid.UUID) error {
	t.state.tags[recipeID] = slices.Clone(tagIDs)
	return nil
}

func (t *memTx) ReplaceRecipeImages(ctx context.Context, recipeID uuid.UUID, images []ImageParams) error {
	t.state.images[recipeID] = slices.Clone(images)
	return nil
}

// settingValue returns the stored value of a named setting on a recipe.
func (m *memStore) settingValue(s *memState, recipeID uuid.UUID, name string) (string, bool) {
	id := m.defID(name)
	for _, v := range s.settings[recipeID] {
		if v.SettingID == id && v.Value != nil {
			return *v.Value, true
		}
	}
	return "", false
}

// failRecipeNamed makes InsertRecipe fail for recipes whose name contains s.
func failRecipeNamed(s string) func(RecipeParams) error {
	return func(p RecipeParams) error {
		if strings.Contains(p.Name, s) {
			return &pgconn.PgError{Code: "23514", Message: "check constraint violated"}
		}
		return nil
	}
}
