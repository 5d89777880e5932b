package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/filmrecipes/internal/settings"
)

// maxSlugAttempts bounds the base, base-1, base-2, ... probe sequence.
const maxSlugAttempts = 1000

// rowResolver turns the names on one row into entity ids inside the batch
// transaction. Setting definitions are loaded once per batch; entity ids are
// never cached because a rolled-back savepoint can discard them.
type rowResolver struct {
	tx   RecordTx
	defs map[string]SettingDefinition // keyed by lowercase name

	// created counts entities inserted by the current row only.
	created map[EntityKind]int
}

func newRowResolver(tx RecordTx, defs []SettingDefinition) *rowResolver {
	byName := make(map[string]SettingDefinition, len(defs))
	for _, d := range defs {
		byName[strings.ToLower(d.Name)] = d
	}
	return &rowResolver{
		tx:      tx,
		defs:    byName,
		created: make(map[EntityKind]int),
	}
}

// resolvedRefs are the foreign keys of one recipe.
type resolvedRefs struct {
	AuthorID         uuid.UUID
	SystemID         uuid.UUID
	FilmSimulationID uuid.UUID
	SensorID         uuid.NullUUID
	CameraID         uuid.NullUUID
	StyleID          uuid.NullUUID
	TagIDs           []uuid.UUID
}

// upsert finds or creates one entity by the slug of its name.
func (r *rowResolver) upsert(ctx context.Context, kind EntityKind, p EntityParams) (uuid.UUID, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Slug = Slugify(p.Name)
	if p.Slug == "" {
		return uuid.Nil, fmt.Errorf("%s %q: %w", kind, p.Name, ErrEmptySlug)
	}

	up, err := r.tx.UpsertEntity(ctx, kind, p)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve %s %q: %w", kind, p.Name, err)
	}
	if up.Created {
		r.created[kind]++
	}
	return up.ID, nil
}

func (r *rowResolver) upsertOptional(ctx context.Context, kind EntityKind, p EntityParams) (uuid.NullUUID, error) {
	if strings.TrimSpace(p.Name) == "" {
		return uuid.NullUUID{}, nil
	}
	id, err := r.upsert(ctx, kind, p)
	if err != nil {
		return uuid.NullUUID{}, err
	}
	return uuid.NullUUID{UUID: id, Valid: true}, nil
}

// resolveRefs resolves author, system, sensor, camera, film simulation,
// style and tags, in that order.
func (r *rowResolver) resolveRefs(ctx context.Context, row ImportRow) (resolvedRefs, error) {
	var (
		refs resolvedRefs
		err  error
	)

	if refs.AuthorID, err = r.upsert(ctx, KindAuthor, EntityParams{Name: row.Author, URL: row.AuthorURL}); err != nil {
		return refs, err
	}
	if refs.SystemID, err = r.upsert(ctx, KindCameraSystem, EntityParams{Name: row.System}); err != nil {
		return refs, err
	}

	system := uuid.NullUUID{UUID: refs.SystemID, Valid: true}
	if refs.SensorID, err = r.upsertOptional(ctx, KindSensor, EntityParams{Name: row.Sensor}); err != nil {
		return refs, err
	}
	if refs.CameraID, err = r.upsertOptional(ctx, KindCameraModel, EntityParams{Name: row.Camera, ParentID: system}); err != nil {
		return refs, err
	}
	if refs.FilmSimulationID, err = r.upsert(ctx, KindFilmSimulation, EntityParams{Name: row.FilmSimulation}); err != nil {
		return refs, err
	}
	if refs.StyleID, err = r.upsertOptional(ctx, KindStyleCategory, EntityParams{Name: row.Style}); err != nil {
		return refs, err
	}

	for _, tag := range row.Tags {
		id, err := r.upsert(ctx, KindTag, EntityParams{Name: tag})
		if err != nil {
			return refs, err
		}
		refs.TagIDs = append(refs.TagIDs, id)
	}

	return refs, nil
}

// resolveSettings runs every raw cell through the transformer and matches
// the canonical names against the setting definitions. An unknown canonical
// name fails the row. Composite cells that matched no pattern, names kept
// verbatim because no alias matched, and cells that overwrite an earlier
// value for the same setting become warnings.
func (r *rowResolver) resolveSettings(row ImportRow, rowNum int) ([]SettingValue, []RowWarning, error) {
	var (
		values   []SettingValue
		warnings []RowWarning
		position = make(map[uuid.UUID]int)
	)

	warn := func(cell RawSetting, msg string) {
		warnings = append(warnings, RowWarning{
			Row:     rowNum,
			Line:    row.Line,
			Setting: cell.Name,
			Value:   cell.Value,
			Message: msg,
		})
	}

	for _, cell := range row.Settings {
		res := settings.Resolve(cell.Name, cell.Value)

		switch res.Outcome {
		case settings.Ignored, settings.Blank:
			continue
		case settings.Dropped:
			warn(cell, "value not recognized; setting dropped")
			continue
		case settings.Passthrough:
			warn(cell, "name not in alias table; kept verbatim")
		}

		for _, a := range res.Assignments {
			def, ok := r.defs[strings.ToLower(a.Name)]
			if !ok {
				return nil, nil, fmt.Errorf("%w %q (column %q)", ErrUnknownSetting, a.Name, cell.Name)
			}

			sv := SettingValue{SettingID: def.ID, Value: strPtr(a.Value)}
			if i, dup := position[def.ID]; dup {
				warn(cell, fmt.Sprintf("overrides earlier value for %s", def.Name))
				values[i] = sv
				continue
			}
			position[def.ID] = len(values)
			values = append(values, sv)
		}
	}

	return values, warnings, nil
}

// resolveRecipeSlug probes base, base-1, base-2, ... and returns the first
// slug that is free or already owned by authorID. existing is set when the
// slug belongs to a recipe by the same author, which is then updated.
func (r *rowResolver) resolveRecipeSlug(ctx context.Context, name string, authorID uuid.UUID) (slug string, existing uuid.NullUUID, err error) {
	base := Slugify(name)
	if base == "" {
		return "", existing, fmt.Errorf("recipe %q: %w", name, ErrEmptySlug)
	}

	for n := 0; n < maxSlugAttempts; n++ {
		candidate := slugCandidate(base, n)
		owner, found, err := r.tx.FindRecipeBySlug(ctx, candidate)
		if err != nil {
			return "", existing, fmt.Errorf("probe slug %q: %w", candidate, err)
		}
		if !found {
			return candidate, existing, nil
		}
		if owner.AuthorID == authorID {
			return candidate, uuid.NullUUID{UUID: owner.ID, Valid: true}, nil
		}
	}
	return "", existing, fmt.Errorf("recipe %q: no free slug after %d attempts", name, maxSlugAttempts)
}

// takeCreated returns and resets the per-row creation counts.
func (r *rowResolver) takeCreated() map[EntityKind]int {
	out := r.created
	r.created = make(map[EntityKind]int)
	return out
}

// discardCreated drops the counts of a row that was rolled back.
func (r *rowResolver) discardCreated() {
	clear(r.created)
}
