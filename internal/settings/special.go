package settings

import (
	"regexp"
	"strconv"
	"strings"
)

// Assignment is one canonical (name, value) pair produced from a cell.
type Assignment struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// specialParser splits one composite cell value into canonical assignments.
type specialParser func(value string) []Assignment

var specialParsers = map[string]specialParser{
	WBShiftSpecial:      parseWBShift,
	ISORangeSpecial:     parseISORange,
	EVSuggestionSpecial: parseExposureCompensation,
	ToneCurveSpecial:    parseToneCurve,
	GrainEffectSpecial:  parseGrainEffect,
	MonoColorSpecial:    parseMonochromaticColor,
	CCrCCbSpecial:       parseColorChrome,
}

// ParseSpecialSettings splits a composite cell into canonical assignments.
// The raw name is resolved through the alias table first; names that do not
// resolve to a composite token yield an empty result, which callers treat as
// "use TransformName/TransformValue instead". Unparseable values also yield an
// empty result.
func ParseSpecialSettings(rawName, rawValue string) []Assignment {
	parse, ok := specialParsers[TransformName(rawName)]
	if !ok {
		return nil
	}
	return parse(strings.TrimSpace(rawValue))
}

var (
	// Name-first forms: "R:4", "R+2", "Red: -1".
	wbRedFirst  = regexp.MustCompile(`(?i)\b(?:r|red)\s*:?\s*([+-]?\s*\d+)`)
	wbBlueFirst = regexp.MustCompile(`(?i)\b(?:b|blue)\s*:?\s*([+-]?\s*\d+)`)
	// Value-first forms: "+2 Red", "-1 Blue".
	wbRedLast  = regexp.MustCompile(`(?i)([+-]?\d+)\s*(?:r|red)\b`)
	wbBlueLast = regexp.MustCompile(`(?i)([+-]?\d+)\s*(?:b|blue)\b`)
)

func parseWBShift(value string) []Assignment {
	var out []Assignment
	if red, ok := firstSubmatch(value, wbRedFirst, wbRedLast); ok {
		out = append(out, Assignment{Name: WBShiftRed, Value: normalizeNumber(red)})
	}
	if blue, ok := firstSubmatch(value, wbBlueFirst, wbBlueLast); ok {
		out = append(out, Assignment{Name: WBShiftBlue, Value: normalizeNumber(blue)})
	}
	return out
}

var (
	isoThousands = regexp.MustCompile(`(\d),(\d{3})`)
	isoRange     = regexp.MustCompile(`(?i)(\d+)\s*[-–—]\s*(?:iso\s*)?(\d+)`)
	isoUpTo      = regexp.MustCompile(`(?i)up\s+to\s+(?:iso\s*)?(\d+)`)
	isoMinimum   = regexp.MustCompile(`(?i)(\d+)\s*min(?:imum)?\b`)
)

func parseISORange(value string) []Assignment {
	value = isoThousands.ReplaceAllString(value, "$1$2")

	if m := isoRange.FindStringSubmatch(value); m != nil {
		return []Assignment{
			{Name: ISOMin, Value: m[1]},
			{Name: ISOMax, Value: m[2]},
		}
	}
	if m := isoUpTo.FindStringSubmatch(value); m != nil {
		return []Assignment{{Name: ISOMax, Value: m[1]}}
	}
	if m := isoMinimum.FindStringSubmatch(value); m != nil {
		return []Assignment{{Name: ISOMin, Value: m[1]}}
	}
	return nil
}

// evNumber matches one exposure value: "+1/3", "-2/3", "+1 1/3", "0.7", "2".
const evNumber = `[+-]?\s*(?:\d+\s+\d+/\d+|\d+/\d+|\d+(?:\.\d+)?)`

var (
	evRange  = regexp.MustCompile(`(?i)(` + evNumber + `)\s*(?:ev)?\s+to\s+(` + evNumber + `)`)
	evZero   = regexp.MustCompile(`(?i)^[+-]?0+(?:\.0+)?\s*(?:ev)?$`)
	evSingle = regexp.MustCompile(`(` + evNumber + `)`)
)

func parseExposureCompensation(value string) []Assignment {
	if m := evRange.FindStringSubmatch(value); m != nil {
		return []Assignment{
			{Name: ExposureCompensationMin, Value: formatEV(parseEV(m[1]))},
			{Name: ExposureCompensationMax, Value: formatEV(parseEV(m[2]))},
		}
	}
	if evZero.MatchString(value) {
		return []Assignment{
			{Name: ExposureCompensationMin, Value: "0"},
			{Name: ExposureCompensationMax, Value: "0"},
		}
	}
	if m := evSingle.FindStringSubmatch(value); m != nil {
		return []Assignment{
			{Name: ExposureCompensationMin, Value: "0"},
			{Name: ExposureCompensationMax, Value: formatEV(parseEV(m[1]))},
		}
	}
	return nil
}

// parseEV evaluates a signed exposure value. Fractions a/b are evaluated as
// real numbers; a fraction that cannot be evaluated counts as 0.
func parseEV(s string) float64 {
	s = strings.Join(strings.Fields(s), " ")
	sign := 1.0
	switch {
	case strings.HasPrefix(s, "-"):
		sign = -1
		s = strings.TrimSpace(s[1:])
	case strings.HasPrefix(s, "+"):
		s = strings.TrimSpace(s[1:])
	}

	var total float64
	for _, part := range strings.Fields(s) {
		total += parseFraction(part)
	}
	return sign * total
}

func parseFraction(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	}
	a, errA := strconv.ParseFloat(num, 64)
	b, errB := strconv.ParseFloat(den, 64)
	if errA != nil || errB != nil || b == 0 {
		return 0
	}
	return a / b
}

func formatEV(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var (
	toneHighlight = regexp.MustCompile(`(?i)Highlights?:?\s*([+-]?\d+(?:\.\d+)?)`)
	toneShadow    = regexp.MustCompile(`(?i)Shadows?:?\s*([+-]?\d+(?:\.\d+)?)`)
	// Abbreviated "H+1 S-2" / "H: 1, S: -2".
	toneH = regexp.MustCompile(`(?i)\bH\s*:?\s*([+-]?\d+(?:\.\d+)?)`)
	toneS = regexp.MustCompile(`(?i)\bS\s*:?\s*([+-]?\d+(?:\.\d+)?)`)
)

func parseToneCurve(value string) []Assignment {
	var out []Assignment
	if h, ok := firstSubmatch(value, toneHighlight, toneH); ok {
		out = append(out, Assignment{Name: HighlightTone, Value: normalizeNumber(h)})
	}
	if s, ok := firstSubmatch(value, toneShadow, toneS); ok {
		out = append(out, Assignment{Name: ShadowTone, Value: normalizeNumber(s)})
	}
	return out
}

func parseGrainEffect(value string) []Assignment {
	strength, size, hasSize := strings.Cut(value, ",")
	strength = strings.TrimSpace(strength)
	if strength == "" {
		return nil
	}

	out := []Assignment{{Name: GrainEffect, Value: TransformValue(GrainEffect, strength)}}
	if size = strings.TrimSpace(size); hasSize && size != "" {
		out = append(out, Assignment{Name: GrainEffectSize, Value: size})
	}
	return out
}

var (
	monoWC = regexp.MustCompile(`(?i)\bWC\s*:?\s*([+-]?\s*\d+)`)
	monoMG = regexp.MustCompile(`(?i)\bMG\s*:?\s*([+-]?\s*\d+)`)
)

func parseMonochromaticColor(value string) []Assignment {
	var out []Assignment
	if m := monoWC.FindStringSubmatch(value); m != nil {
		out = append(out, Assignment{Name: MonochromaticColorWC, Value: normalizeNumber(m[1])})
	}
	if m := monoMG.FindStringSubmatch(value); m != nil {
		out = append(out, Assignment{Name: MonochromaticColorMG, Value: normalizeNumber(m[1])})
	}
	return out
}

func parseColorChrome(value string) []Assignment {
	if value == "" {
		return nil
	}
	strength := capitalize(value)
	return []Assignment{
		{Name: ColorChromeEffect, Value: strength},
		{Name: ColorChromeFXBlue, Value: strength},
	}
}

// firstSubmatch returns the first capture group of the first pattern that
// matches s.
func firstSubmatch(s string, patterns ...*regexp.Regexp) (string, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(s); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// normalizeNumber drops whitespace and a redundant leading plus sign:
// "+ 2" -> "2", "-0.5" -> "-0.5".
func normalizeNumber(s string) string {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(s, "+")
	if s == "-0" {
		return "0"
	}
	return s
}

func capitalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
