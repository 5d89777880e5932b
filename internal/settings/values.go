package settings

import (
	"regexp"
	"strings"
)

var (
	// numberRegex matches signed integers and decimals ("+2", "-0.5", "3").
	numberRegex = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)
	// kelvinRegex matches temperature shorthand such as "5500K".
	kelvinRegex = regexp.MustCompile(`(?i)^(\d+)\s*k$`)
)

var (
	strengthValues = map[string]string{
		"Off": "Off", "off": "Off", "OFF": "Off", "None": "Off", "none": "Off", "N/A": "Off", "-": "Off",
		"Weak": "Weak", "weak": "Weak", "WEAK": "Weak", "Low": "Weak", "low": "Weak", "W": "Weak",
		"Strong": "Strong", "strong": "Strong", "STRONG": "Strong", "High": "Strong", "high": "Strong", "S": "Strong",
	}

	grainSizeValues = map[string]string{
		"Small": "Small", "small": "Small", "SMALL": "Small", "S": "Small", "Sm": "Small", "Fine": "Small",
		"Large": "Large", "large": "Large", "LARGE": "Large", "L": "Large", "Lg": "Large", "Big": "Large", "Coarse": "Large",
	}

	dynamicRangeValues = map[string]string{
		"100%": "DR100", "100": "DR100", "DR100": "DR100", "DR 100": "DR100", "DR-100": "DR100", "dr100": "DR100", "DR100%": "DR100",
		"200%": "DR200", "200": "DR200", "DR200": "DR200", "DR 200": "DR200", "DR-200": "DR200", "dr200": "DR200", "DR200%": "DR200",
		"400%": "DR400", "400": "DR400", "DR400": "DR400", "DR 400": "DR400", "DR-400": "DR400", "dr400": "DR400", "DR400%": "DR400",
		"DRAUTO": "Auto", "DR Auto": "Auto", "DR-Auto": "Auto", "DR AUTO": "Auto", "Auto": "Auto", "AUTO": "Auto", "auto": "Auto",
	}

	dRangePriorityValues = map[string]string{
		"Off": "Off", "off": "Off", "OFF": "Off",
		"Weak": "Weak", "weak": "Weak", "WEAK": "Weak", "DR-P Weak": "Weak",
		"Strong": "Strong", "strong": "Strong", "STRONG": "Strong", "DR-P Strong": "Strong",
		"Auto": "Auto", "auto": "Auto", "AUTO": "Auto", "DR-P Auto": "Auto",
	}

	whiteBalanceValues = map[string]string{
		"Auto": "Auto", "auto": "Auto", "AUTO": "Auto", "AWB": "Auto",
		"Auto White Priority": "Auto White Priority", "White Priority": "Auto White Priority", "AWB White Priority": "Auto White Priority",
		"Auto Ambience Priority": "Auto Ambience Priority", "Ambience Priority": "Auto Ambience Priority", "AWB Ambience Priority": "Auto Ambience Priority",
		"Daylight": "Daylight", "daylight": "Daylight", "Sunny": "Daylight", "sunny": "Daylight", "Fine": "Daylight", "Sun": "Daylight",
		"Shade": "Shade", "shade": "Shade", "Cloudy": "Shade", "cloudy": "Shade",
		"Fluorescent 1": "Fluorescent 1", "Fluorescent Light 1": "Fluorescent 1",
		"Fluorescent 2": "Fluorescent 2", "Fluorescent Light 2": "Fluorescent 2",
		"Fluorescent 3": "Fluorescent 3", "Fluorescent Light 3": "Fluorescent 3",
		"Incandescent": "Incandescent", "incandescent": "Incandescent", "Tungsten": "Incandescent", "tungsten": "Incandescent",
		"Underwater": "Underwater", "underwater": "Underwater",
	}

	meteringValues = map[string]string{
		"Multi": "Multi", "multi": "Multi", "Matrix": "Multi", "Evaluative": "Multi",
		"Spot": "Spot", "spot": "Spot",
		"Average": "Average", "average": "Average",
		"Center Weighted": "Center Weighted", "Center-Weighted": "Center Weighted", "Centre Weighted": "Center Weighted",
	}

	colorSpaceValues = map[string]string{
		"sRGB": "sRGB", "srgb": "sRGB", "SRGB": "sRGB",
		"Adobe RGB": "Adobe RGB", "AdobeRGB": "Adobe RGB", "adobe rgb": "Adobe RGB",
	}
)

// valueAliases holds the per-setting enumerated value tables. Lookups are
// case-sensitive; each table lists the spellings actually encountered.
var valueAliases = map[string]map[string]string{
	DynamicRange:      dynamicRangeValues,
	DRangePriority:    dRangePriorityValues,
	GrainEffect:       strengthValues,
	GrainEffectSize:   grainSizeValues,
	ColorChromeEffect: strengthValues,
	ColorChromeFXBlue: strengthValues,
	SmoothSkinEffect:  strengthValues,
	WhiteBalance:      whiteBalanceValues,
	MeteringMode:      meteringValues,
	ColorSpace:        colorSpaceValues,
}

// TransformValue canonicalizes a raw value for the given canonical setting
// name. Enumerated settings are mapped through their value table; numbers pass
// unchanged; "<digits>K" loses its K; anything else is returned trimmed.
func TransformValue(canonicalName, raw string) string {
	value := strings.TrimSpace(raw)

	if table, ok := valueAliases[canonicalName]; ok {
		if mapped, ok := table[value]; ok {
			return mapped
		}
	}

	if numberRegex.MatchString(value) {
		return value
	}

	if m := kelvinRegex.FindStringSubmatch(value); m != nil {
		return m[1]
	}

	return value
}

// HasValueTable reports whether canonicalName has an enumerated value table.
func HasValueTable(canonicalName string) bool {
	_, ok := valueAliases[canonicalName]
	return ok
}
