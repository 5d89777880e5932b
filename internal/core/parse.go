package core

// parse.go reads a recipe spreadsheet (exported as CSV) into ImportRows.
//
// The header row is the first row, within MaxHeaderSearchRows, that has a
// Name column. Rows above it are titles or notes and are ignored. Known
// recipe columns are matched by alias; every other named column is a raw
// setting cell handed to the setting transformer unchanged.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultMaxHeaderSearchRows is the number of rows scanned for the header.
const DefaultMaxHeaderSearchRows = 20

// DefaultMaxFileSize is the largest accepted upload (100MB).
const DefaultMaxFileSize int64 = 100 * 1024 * 1024

// recipeColumn identifies a column that maps to an ImportRow field.
type recipeColumn int

const (
	colName recipeColumn = iota
	colAuthor
	colAuthorURL
	colSystem
	colSensor
	colCamera
	colFilmSimulation
	colStyle
	colDescription
	colSourceURL
	colTags
	colImages
	colActive
	colFeatured
	colNotes
)

// columnAliases maps lowercase header text to recipe columns.
var columnAliases = map[string]recipeColumn{
	"name":            colName,
	"recipe":          colName,
	"recipe name":     colName,
	"title":           colName,
	"author":          colAuthor,
	"creator":         colAuthor,
	"author url":      colAuthorURL,
	"author link":     colAuthorURL,
	"author website":  colAuthorURL,
	"system":          colSystem,
	"camera system":   colSystem,
	"sensor":          colSensor,
	"sensor type":     colSensor,
	"camera":          colCamera,
	"camera model":    colCamera,
	"film simulation": colFilmSimulation,
	"film sim":        colFilmSimulation,
	"base simulation": colFilmSimulation,
	"style":           colStyle,
	"category":        colStyle,
	"style category":  colStyle,
	"description":     colDescription,
	"source url":      colSourceURL,
	"source":          colSourceURL,
	"link":            colSourceURL,
	"url":             colSourceURL,
	"tags":            colTags,
	"tag":             colTags,
	"images":          colImages,
	"image":           colImages,
	"image url":       colImages,
	"image urls":      colImages,
	"active":          colActive,
	"is active":       colActive,
	"featured":        colFeatured,
	"is featured":     colFeatured,
	"notes":           colNotes,
	"note":            colNotes,
}

// ParseOptions bounds what ParseCSV will read.
type ParseOptions struct {
	MaxHeaderSearchRows int
	MaxFileSize         int64
}

// ParsedFile is the result of reading one spreadsheet.
type ParsedFile struct {
	HeaderLine    int
	SettingHeader []string // raw setting column names, in column order
	Rows          []ImportRow
	BytesRead     int64
}

// headerLayout remembers where each column lives.
type headerLayout struct {
	recipe   map[recipeColumn]int
	settings []settingColumn
}

type settingColumn struct {
	index int
	name  string
}

// ParseCSV reads every data row below the header. Blank rows and comment
// rows (first non-empty cell starting with '#') are returned as empty rows
// so the importer can count them as skipped.
func ParseCSV(r io.Reader, opts ParseOptions) (*ParsedFile, error) {
	if opts.MaxHeaderSearchRows <= 0 {
		opts.MaxHeaderSearchRows = DefaultMaxHeaderSearchRows
	}

	sanitized, counter := WrapForStreaming(r, opts.MaxFileSize)
	reader := csv.NewReader(sanitized)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	file := &ParsedFile{}
	var layout *headerLayout
	seenRecords := 0

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if errors.Is(err, ErrFileTooLarge) {
				return nil, err
			}
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		seenRecords++
		line, _ := reader.FieldPos(0)

		if layout == nil {
			if l, ok := detectHeader(record); ok {
				layout = l
				file.HeaderLine = line
				for _, sc := range l.settings {
					file.SettingHeader = append(file.SettingHeader, sc.name)
				}
				continue
			}
			if seenRecords >= opts.MaxHeaderSearchRows {
				return nil, fmt.Errorf("%w in first %d rows", ErrHeaderNotFound, opts.MaxHeaderSearchRows)
			}
			continue
		}

		file.Rows = append(file.Rows, layout.row(record, line))
	}

	file.BytesRead = counter.BytesRead

	if seenRecords == 0 {
		return nil, ErrEmptyFile
	}
	if layout == nil {
		return nil, ErrHeaderNotFound
	}
	return file, nil
}

// detectHeader reports whether record is the header row and, if so, where
// every column lives. A header needs the Name column plus at least one other
// recipe column, so a title row such as "Recipe,,," is not taken for it.
// Duplicate recipe columns keep their first position.
func detectHeader(record []string) (*headerLayout, bool) {
	idx := MakeHeaderIndex(record)
	hasName, hasOther := false, false
	for key, col := range columnAliases {
		if _, ok := idx[key]; !ok {
			continue
		}
		if col == colName {
			hasName = true
		} else {
			hasOther = true
		}
	}
	if !hasName || !hasOther {
		return nil, false
	}

	layout := &headerLayout{recipe: make(map[recipeColumn]int)}
	for i, cell := range record {
		name := CleanCell(cell)
		if name == "" {
			continue
		}
		if col, ok := columnAliases[strings.ToLower(name)]; ok {
			if _, dup := layout.recipe[col]; !dup {
				layout.recipe[col] = i
			}
			continue
		}
		layout.settings = append(layout.settings, settingColumn{index: i, name: name})
	}
	return layout, true
}

func (l *headerLayout) cell(record []string, col recipeColumn) string {
	i, ok := l.recipe[col]
	if !ok || i >= len(record) {
		return ""
	}
	return CleanCell(record[i])
}

func (l *headerLayout) row(record []string, line int) ImportRow {
	row := ImportRow{Line: line}
	if isBlankRecord(record) || isCommentRecord(record) {
		return row
	}

	row.Name = l.cell(record, colName)
	row.Author = l.cell(record, colAuthor)
	row.AuthorURL = l.cell(record, colAuthorURL)
	row.System = l.cell(record, colSystem)
	row.Sensor = l.cell(record, colSensor)
	row.Camera = l.cell(record, colCamera)
	row.FilmSimulation = l.cell(record, colFilmSimulation)
	row.Style = l.cell(record, colStyle)
	row.Description = l.cell(record, colDescription)
	row.SourceURL = l.cell(record, colSourceURL)
	row.Notes = l.cell(record, colNotes)
	row.Tags = SplitList(l.cell(record, colTags))
	row.Images = SplitList(l.cell(record, colImages))

	if v, ok := ParseBool(l.cell(record, colActive)); ok {
		row.Active = &v
	}
	if v, ok := ParseBool(l.cell(record, colFeatured)); ok {
		row.Featured = &v
	}

	for _, sc := range l.settings {
		if sc.index >= len(record) {
			continue
		}
		value := CleanCell(record[sc.index])
		if value == "" {
			continue
		}
		row.Settings = append(row.Settings, RawSetting{Name: sc.name, Value: value})
	}
	return row
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func isCommentRecord(record []string) bool {
	for _, v := range record {
		if v = strings.TrimSpace(v); v != "" {
			return strings.HasPrefix(v, "#")
		}
	}
	return false
}
