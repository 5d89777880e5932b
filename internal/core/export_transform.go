package core

import (
	"errors"
	"fmt"
	"time"
)

// RecipeDocument is the public JSON shape of one recipe.
type RecipeDocument struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Slug           string                `json:"slug"`
	Description    string                `json:"description"`
	SourceURL      *string               `json:"sourceUrl"`
	Notes          string                `json:"notes"`
	StyleCategory  *string               `json:"styleCategory"`
	IsActive       bool                  `json:"isActive"`
	IsFeatured     bool                  `json:"isFeatured"`
	CreatedAt      string                `json:"createdAt"`
	UpdatedAt      string                `json:"updatedAt"`
	Author         AuthorDoc             `json:"author"`
	System         SystemDoc             `json:"system"`
	FilmSimulation FilmSimulationDoc     `json:"filmSimulation"`
	Settings       map[string]SettingDoc `json:"settings"`
	Tags           []TagDoc              `json:"tags"`
	Images         []ImageDoc            `json:"images"`
}

// AuthorDoc is the nested author of a recipe.
type AuthorDoc struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Slug string  `json:"slug"`
	URL  *string `json:"url"`
}

// SystemDoc nests the optional sensor and camera; each is null if absent.
type SystemDoc struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Slug   string  `json:"slug"`
	Sensor *RefDoc `json:"sensor"`
	Camera *RefDoc `json:"camera"`
}

// RefDoc identifies a sensor, camera or film simulation.
type RefDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// FilmSimulationDoc is the film simulation a recipe is based on.
type FilmSimulationDoc = RefDoc

// SettingDoc carries exactly one of Value or Range.
type SettingDoc struct {
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Unit     *string   `json:"unit,omitempty"`
	Notes    string    `json:"notes"`
	Value    *string   `json:"value,omitempty"`
	Range    *RangeDoc `json:"range,omitempty"`
}

// RangeDoc is an inclusive min/max setting value.
type RangeDoc struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// TagDoc is one tag attached to a recipe.
type TagDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ImageDoc is one recipe image, in display order.
type ImageDoc struct {
	ID        string  `json:"id"`
	URL       string  `json:"url"`
	AltText   *string `json:"altText"`
	IsPrimary bool    `json:"isPrimary"`
	SortOrder int     `json:"sortOrder"`
}

var errMissingField = errors.New("missing required field")

// TransformRecipe builds the export document for one recipe from rows
// already fetched by the query layer. Tags and images keep the given order.
// A malformed setting, tag or image row fails the whole recipe.
func TransformRecipe(recipe RecipeRow, settingRows []SettingRow, tagRows []TagRow, imageRows []ImageRow) (*RecipeDocument, error) {
	doc := &RecipeDocument{
		ID:            recipe.ID.String(),
		Name:          recipe.Name,
		Slug:          recipe.Slug,
		Description:   recipe.Description,
		SourceURL:     optional(recipe.SourceURL),
		Notes:         recipe.Notes,
		StyleCategory: optional(recipe.StyleCategory),
		IsActive:      recipe.IsActive,
		IsFeatured:    recipe.IsFeatured,
		CreatedAt:     formatTime(recipe.CreatedAt),
		UpdatedAt:     formatTime(recipe.UpdatedAt),
		Author: AuthorDoc{
			ID:   recipe.AuthorID.String(),
			Name: recipe.AuthorName,
			Slug: recipe.AuthorSlug,
			URL:  optional(recipe.AuthorURL),
		},
		System: SystemDoc{
			ID:   recipe.SystemID.String(),
			Name: recipe.SystemName,
			Slug: recipe.SystemSlug,
		},
		FilmSimulation: FilmSimulationDoc{
			ID:   recipe.FilmSimulationID.String(),
			Name: recipe.FilmSimulationName,
			Slug: recipe.FilmSimulationSlug,
		},
		Settings: make(map[string]SettingDoc, len(settingRows)),
		Tags:     make([]TagDoc, 0, len(tagRows)),
		Images:   make([]ImageDoc, 0, len(imageRows)),
	}

	if recipe.SensorID.Valid {
		doc.System.Sensor = &RefDoc{ID: recipe.SensorID.UUID.String(), Name: recipe.SensorName, Slug: recipe.SensorSlug}
	}
	if recipe.CameraID.Valid {
		doc.System.Camera = &RefDoc{ID: recipe.CameraID.UUID.String(), Name: recipe.CameraName, Slug: recipe.CameraSlug}
	}

	for i, s := range settingRows {
		entry, err := transformSetting(s)
		if err != nil {
			return nil, fmt.Errorf("setting %d: %w", i, err)
		}
		doc.Settings[s.Slug] = entry
	}

	for i, t := range tagRows {
		if t.Slug == "" || t.Name == "" {
			return nil, fmt.Errorf("tag %d: %w (name, slug)", i, errMissingField)
		}
		doc.Tags = append(doc.Tags, TagDoc{ID: t.ID.String(), Name: t.Name, Slug: t.Slug})
	}

	for i, img := range imageRows {
		if img.URL == "" {
			return nil, fmt.Errorf("image %d: %w (url)", i, errMissingField)
		}
		doc.Images = append(doc.Images, ImageDoc{
			ID:        img.ID.String(),
			URL:       img.URL,
			AltText:   img.AltText,
			IsPrimary: img.IsPrimary,
			SortOrder: img.SortOrder,
		})
	}

	return doc, nil
}

// transformSetting picks range when both bounds are present, value otherwise.
// A row with neither is malformed.
func transformSetting(s SettingRow) (SettingDoc, error) {
	if s.Slug == "" || s.Name == "" {
		return SettingDoc{}, fmt.Errorf("%w (name, slug)", errMissingField)
	}

	entry := SettingDoc{
		Name:     s.Name,
		Category: s.Category,
		Unit:     s.Unit,
	}
	if s.Notes != nil {
		entry.Notes = *s.Notes
	}

	switch {
	case s.MinValue != nil && s.MaxValue != nil:
		entry.Range = &RangeDoc{Min: *s.MinValue, Max: *s.MaxValue}
	case s.Value != nil:
		entry.Value = s.Value
	default:
		return SettingDoc{}, fmt.Errorf("%s: %w (value or min/max)", s.Slug, errMissingField)
	}
	return entry, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
