package settings

import (
	"fmt"
	"strings"
)

// Outcome classifies what happened to a raw setting cell.
type Outcome int

const (
	// Mapped: the name matched the alias table and produced one assignment.
	Mapped Outcome = iota
	// Passthrough: the name is unknown and was kept verbatim. The assignment
	// will only persist if a setting definition with that name exists.
	Passthrough
	// Ignored: the name is deliberately outside the recipe schema.
	Ignored
	// Split: a composite cell produced one or more assignments.
	Split
	// Dropped: a composite cell matched no known pattern.
	Dropped
	// Blank: the cell value was empty.
	Blank
)

var outcomeNames = map[Outcome]string{
	Mapped:      "mapped",
	Passthrough: "passthrough",
	Ignored:     "ignored",
	Split:       "split",
	Dropped:     "dropped",
	Blank:       "blank",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return "unknown"
}

// MarshalText renders the outcome by name for JSON responses.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText parses an outcome name.
func (o *Outcome) UnmarshalText(text []byte) error {
	for k, v := range outcomeNames {
		if v == string(text) {
			*o = k
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}

// Result is the resolution of one raw cell.
type Result struct {
	RawName     string       `json:"rawName"`
	RawValue    string       `json:"rawValue"`
	Name        string       `json:"name"`
	Outcome     Outcome      `json:"outcome"`
	Assignments []Assignment `json:"assignments"`
}

// Resolve runs a raw (name, value) cell through the full transformer.
func Resolve(rawName, rawValue string) Result {
	name := TransformName(rawName)
	res := Result{
		RawName:     rawName,
		RawValue:    rawValue,
		Name:        name,
		Assignments: []Assignment{},
	}

	switch {
	case name == Ignore:
		res.Outcome = Ignored
	case strings.TrimSpace(rawValue) == "":
		res.Outcome = Blank
	case isSpecialToken(name):
		res.Assignments = append(res.Assignments, ParseSpecialSettings(rawName, rawValue)...)
		if len(res.Assignments) == 0 {
			res.Outcome = Dropped
		} else {
			res.Outcome = Split
		}
	default:
		res.Assignments = append(res.Assignments, Assignment{Name: name, Value: TransformValue(name, rawValue)})
		if _, known := nameAliases[normalizeKey(rawName)]; known {
			res.Outcome = Mapped
		} else {
			res.Outcome = Passthrough
		}
	}

	return res
}
