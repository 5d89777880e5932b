package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	input := "" +
		"My Fuji recipes,,,,,,\n" +
		"Name,Author,System,Film Sim,D-Range,ISO,Tags,Active\n" +
		"Kodachrome 64,Alice,Fujifilm X,Classic Chrome,200%,800-3200,\"street, film\",yes\n" +
		",,,,,,,\n" +
		"# draft,,,,,,,\n" +
		"Portra,Bob,Fujifilm X,Classic Negative,,,,no\n"

	parsed, err := ParseCSV(strings.NewReader(input), ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, parsed.HeaderLine)
	assert.Equal(t, []string{"D-Range", "ISO"}, parsed.SettingHeader)
	require.Len(t, parsed.Rows, 4)

	first := parsed.Rows[0]
	assert.Equal(t, 3, first.Line)
	assert.Equal(t, "Kodachrome 64", first.Name)
	assert.Equal(t, "Alice", first.Author)
	assert.Equal(t, "Fujifilm X", first.System)
	assert.Equal(t, "Classic Chrome", first.FilmSimulation)
	assert.Equal(t, []string{"street", "film"}, first.Tags)
	require.NotNil(t, first.Active)
	assert.True(t, *first.Active)
	assert.Nil(t, first.Featured)
	assert.Equal(t, []RawSetting{
		{Name: "D-Range", Value: "200%"},
		{Name: "ISO", Value: "800-3200"},
	}, first.Settings)

	// Blank and comment rows come back empty so they count as skipped.
	assert.True(t, isBlankRow(parsed.Rows[1]))
	assert.True(t, isBlankRow(parsed.Rows[2]))
	assert.Equal(t, 5, parsed.Rows[2].Line)

	last := parsed.Rows[3]
	assert.Equal(t, "Portra", last.Name)
	assert.Empty(t, last.Settings)
	require.NotNil(t, last.Active)
	assert.False(t, *last.Active)
}

func TestParseCSV_BOMAndAliases(t *testing.T) {
	input := "\xEF\xBB\xBFRecipe Name,Creator,Camera System,Base Simulation,Link,Image URLs\n" +
		"Velvia,Carol,Fujifilm X,Velvia,https://example.com/v,\"https://example.com/1.jpg; https://example.com/2.jpg\"\n"

	parsed, err := ParseCSV(strings.NewReader(input), ParseOptions{})
	require.NoError(t, err)
	require.Len(t, parsed.Rows, 1)

	row := parsed.Rows[0]
	assert.Equal(t, "Velvia", row.Name)
	assert.Equal(t, "Carol", row.Author)
	assert.Equal(t, "https://example.com/v", row.SourceURL)
	assert.Equal(t, []string{"https://example.com/1.jpg", "https://example.com/2.jpg"}, row.Images)
	assert.Empty(t, parsed.SettingHeader)
}

func TestParseCSV_ShortRecords(t *testing.T) {
	input := "Name,Author,System,Film Simulation,Color\n" +
		"Short,Dana\n"

	parsed, err := ParseCSV(strings.NewReader(input), ParseOptions{})
	require.NoError(t, err)
	require.Len(t, parsed.Rows, 1)
	assert.Equal(t, "Dana", parsed.Rows[0].Author)
	assert.Empty(t, parsed.Rows[0].System)
	assert.Empty(t, parsed.Rows[0].Settings)
}

func TestParseCSV_TitleRowAboveHeader(t *testing.T) {
	input := "Recipe,,,\n" +
		"Name,Author,System,Film Simulation\n" +
		"Velvia,Alice,Fujifilm X,Velvia\n"

	parsed, err := ParseCSV(strings.NewReader(input), ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, parsed.HeaderLine)
	require.Len(t, parsed.Rows, 1)
	assert.Equal(t, "Velvia", parsed.Rows[0].Name)
	assert.Equal(t, "Alice", parsed.Rows[0].Author)
}

func TestParseCSV_NameColumnAloneIsNotAHeader(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("Title\nSomething\n"), ParseOptions{})
	assert.ErrorIs(t, err, ErrHeaderNotFound)
}

func TestParseCSV_Errors(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader(""), ParseOptions{})
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("no header", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader("a,b\nc,d\n"), ParseOptions{})
		assert.ErrorIs(t, err, ErrHeaderNotFound)
	})

	t.Run("header beyond search window", func(t *testing.T) {
		input := strings.Repeat("junk,row\n", 3) + "Name,Author\nX,Y\n"
		_, err := ParseCSV(strings.NewReader(input), ParseOptions{MaxHeaderSearchRows: 2})
		assert.ErrorIs(t, err, ErrHeaderNotFound)
	})

	t.Run("too large", func(t *testing.T) {
		input := "Name,Author\n" + strings.Repeat("Recipe,Someone\n", 100)
		_, err := ParseCSV(strings.NewReader(input), ParseOptions{MaxFileSize: 64})
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})
}

func TestIsBlankRow(t *testing.T) {
	assert.True(t, isBlankRow(ImportRow{Line: 7}))
	assert.True(t, isBlankRow(ImportRow{Settings: []RawSetting{{Name: "Color", Value: ""}}}))
	assert.False(t, isBlankRow(ImportRow{Name: "x"}))
	assert.False(t, isBlankRow(ImportRow{Tags: []string{"a"}}))
	assert.False(t, isBlankRow(ImportRow{Notes: "n"}))
	assert.False(t, isBlankRow(ImportRow{SourceURL: "https://example.com"}))
	assert.False(t, isBlankRow(ImportRow{AuthorURL: "https://example.com"}))
	active := false
	assert.False(t, isBlankRow(ImportRow{Active: &active}))
	assert.False(t, isBlankRow(ImportRow{Featured: &active}))
	assert.False(t, isBlankRow(ImportRow{Settings: []RawSetting{{Name: "Color", Value: "+2"}}}))
}
