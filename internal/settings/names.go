package settings

import "strings"

// Ignore is the canonical name for settings that are deliberately outside the
// recipe schema. Cells resolving to it are skipped entirely.
const Ignore = "IGNORE"

// specialSuffix marks canonical tokens whose cells must be split by
// ParseSpecialSettings.
const specialSuffix = "_SPECIAL"

// Composite-cell tokens.
const (
	EVSuggestionSpecial = "EV_SUGGESTION_SPECIAL"
	WBShiftSpecial      = "WB_SHIFT_SPECIAL"
	ISORangeSpecial     = "ISO_RANGE_SPECIAL"
	ToneCurveSpecial    = "TONE_CURVE_SPECIAL"
	CCrCCbSpecial       = "CCR_CCB_SPECIAL"
	MonoColorSpecial    = "MONO_COLOR_SPECIAL"
	GrainEffectSpecial  = "GRAIN_EFFECT_SPECIAL"
)

// Canonical setting names. These must match setting_definitions.name.
const (
	DynamicRange            = "Dynamic Range"
	DRangePriority          = "D Range Priority"
	FilmSimulation          = "Film Simulation"
	HighlightTone           = "Highlight Tone"
	ShadowTone              = "Shadow Tone"
	Color                   = "Color"
	Sharpness               = "Sharpness"
	NoiseReduction          = "Noise Reduction"
	Clarity                 = "Clarity"
	GrainEffect             = "Grain Effect"
	GrainEffectSize         = "Grain Effect Size"
	ColorChromeEffect       = "Color Chrome Effect"
	ColorChromeFXBlue       = "Color Chrome FX Blue"
	WhiteBalance            = "White Balance"
	WBShiftRed              = "WB Shift Red"
	WBShiftBlue             = "WB Shift Blue"
	ISOMin                  = "ISO Min"
	ISOMax                  = "ISO Max"
	ExposureCompensationMin = "Exposure Compensation Min"
	ExposureCompensationMax = "Exposure Compensation Max"
	MonochromaticColorWC    = "Monochromatic Color WC"
	MonochromaticColorMG    = "Monochromatic Color MG"
	MeteringMode            = "Metering Mode"
	SmoothSkinEffect        = "Smooth Skin Effect"
	LongExposureNR          = "Long Exposure NR"
	ColorSpace              = "Color Space"
)

// nameAliases maps a lower-cased, trimmed raw name to its canonical name.
// Keys cover typos, abbreviations, translations, and punctuation variants
// seen in community recipe spreadsheets.
var nameAliases = map[string]string{
	// Dynamic Range
	"dynamic range":   DynamicRange,
	"dynamic-range":   DynamicRange,
	"dynamicrange":    DynamicRange,
	"dynamic rage":    DynamicRange,
	"dnamic range":    DynamicRange,
	"dynamic ranges":  DynamicRange,
	"dyn range":       DynamicRange,
	"dyn. range":      DynamicRange,
	"d range":         DynamicRange,
	"d-range":         DynamicRange,
	"drange":          DynamicRange,
	"dr":              DynamicRange,
	"dr mode":         DynamicRange,
	"plage dynamique": DynamicRange,
	"rango dinámico":  DynamicRange,
	"rango dinamico":  DynamicRange,

	// D Range Priority
	"d range priority":       DRangePriority,
	"d-range priority":       DRangePriority,
	"drange priority":        DRangePriority,
	"dr priority":            DRangePriority,
	"dr-p":                   DRangePriority,
	"drp":                    DRangePriority,
	"dynamic range priority": DRangePriority,

	// Highlight / Shadow
	"highlight":       HighlightTone,
	"highlights":      HighlightTone,
	"highlight tone":  HighlightTone,
	"highlight tones": HighlightTone,
	"highlite":        HighlightTone,
	"hightlight":      HighlightTone,
	"hightlights":     HighlightTone,
	"h tone":          HighlightTone,
	"hl":              HighlightTone,
	"shadow":          ShadowTone,
	"shadows":         ShadowTone,
	"shadow tone":     ShadowTone,
	"shadow tones":    ShadowTone,
	"shaddow":         ShadowTone,
	"shaddows":        ShadowTone,
	"s tone":          ShadowTone,
	"sh":              ShadowTone,

	// Color
	"color":            Color,
	"colour":           Color,
	"colors":           Color,
	"colours":          Color,
	"color saturation": Color,
	"saturation":       Color,
	"sat":              Color,
	"couleur":          Color,

	// Sharpness
	"sharpness":  Sharpness,
	"sharpening": Sharpness,
	"sharpen":    Sharpness,
	"sharp":      Sharpness,
	"sharpnes":   Sharpness,
	"sharness":   Sharpness,
	"netteté":    Sharpness,

	// Noise Reduction
	"noise reduction":          NoiseReduction,
	"noise-reduction":          NoiseReduction,
	"noise reducion":           NoiseReduction,
	"noise":                    NoiseReduction,
	"nr":                       NoiseReduction,
	"high iso nr":              NoiseReduction,
	"high iso noise reduction": NoiseReduction,
	"high-iso nr":              NoiseReduction,
	"iso nr":                   NoiseReduction,

	// Clarity
	"clarity":  Clarity,
	"clartiy":  Clarity,
	"claritiy": Clarity,
	"clarté":   Clarity,

	// Grain
	"grain":             GrainEffectSpecial,
	"grain effect":      GrainEffectSpecial,
	"grain effects":     GrainEffectSpecial,
	"grain efect":       GrainEffectSpecial,
	"grain effet":       GrainEffectSpecial,
	"grain roughness":   GrainEffectSpecial,
	"grain size":        GrainEffectSize,
	"grain effect size": GrainEffectSize,
	"grain-size":        GrainEffectSize,

	// Color Chrome
	"color chrome effect":      ColorChromeEffect,
	"colour chrome effect":     ColorChromeEffect,
	"color chrome":             ColorChromeEffect,
	"colour chrome":            ColorChromeEffect,
	"color chrome efect":       ColorChromeEffect,
	"cce":                      ColorChromeEffect,
	"ccr":                      ColorChromeEffect,
	"color chrome fx blue":     ColorChromeFXBlue,
	"colour chrome fx blue":    ColorChromeFXBlue,
	"color chrome effect blue": ColorChromeFXBlue,
	"color chrome blue":        ColorChromeFXBlue,
	"chrome fx blue":           ColorChromeFXBlue,
	"fx blue":                  ColorChromeFXBlue,
	"ccfxb":                    ColorChromeFXBlue,
	"ccb":                      ColorChromeFXBlue,

	// Color Chrome, both in one cell
	"ccr/ccb":                       CCrCCbSpecial,
	"ccr / ccb":                     CCrCCbSpecial,
	"ccr & ccb":                     CCrCCbSpecial,
	"ccr+ccb":                       CCrCCbSpecial,
	"cc/ccb":                        CCrCCbSpecial,
	"color chrome effect & fx blue": CCrCCbSpecial,
	"color chrome effect / fx blue": CCrCCbSpecial,
	"color chrome (effect/fx blue)": CCrCCbSpecial,

	// White Balance
	"white balance":      WhiteBalance,
	"whitebalance":       WhiteBalance,
	"white-balance":      WhiteBalance,
	"white balanace":     WhiteBalance,
	"wb":                 WhiteBalance,
	"awb":                WhiteBalance,
	"balance des blancs": WhiteBalance,

	// White Balance shift
	"wb shift":            WBShiftSpecial,
	"wb-shift":            WBShiftSpecial,
	"wbshift":             WBShiftSpecial,
	"white balance shift": WBShiftSpecial,
	"wb shift (r/b)":      WBShiftSpecial,
	"shift":               WBShiftSpecial,
	"wb adjustment":       WBShiftSpecial,
	"wb red":              WBShiftRed,
	"wb shift red":        WBShiftRed,
	"red shift":           WBShiftRed,
	"wb blue":             WBShiftBlue,
	"wb shift blue":       WBShiftBlue,
	"blue shift":          WBShiftBlue,

	// ISO
	"iso":          ISORangeSpecial,
	"iso range":    ISORangeSpecial,
	"iso setting":  ISORangeSpecial,
	"iso settings": ISORangeSpecial,
	"auto iso":     ISORangeSpecial,
	"iso auto":     ISORangeSpecial,
	"iso (auto)":   ISORangeSpecial,
	"max iso":      ISOMax,
	"iso max":      ISOMax,
	"min iso":      ISOMin,
	"iso min":      ISOMin,

	// Exposure compensation
	"ev":                         EVSuggestionSpecial,
	"ev comp":                    EVSuggestionSpecial,
	"ev compensation":            EVSuggestionSpecial,
	"ev suggestion":              EVSuggestionSpecial,
	"suggested ev":               EVSuggestionSpecial,
	"exposure":                   EVSuggestionSpecial,
	"exposure comp":              EVSuggestionSpecial,
	"exposure comp.":             EVSuggestionSpecial,
	"exposure compensation":      EVSuggestionSpecial,
	"exposure compenstion":       EVSuggestionSpecial,
	"exp comp":                   EVSuggestionSpecial,
	"exp. comp.":                 EVSuggestionSpecial,
	"expo comp":                  EVSuggestionSpecial,
	"exposure compensation (ev)": EVSuggestionSpecial,

	// Tone curve
	"tone curve":           ToneCurveSpecial,
	"tonecurve":            ToneCurveSpecial,
	"tone-curve":           ToneCurveSpecial,
	"tone":                 ToneCurveSpecial,
	"tones":                ToneCurveSpecial,
	"tone curve (h/s)":     ToneCurveSpecial,
	"h/s":                  ToneCurveSpecial,
	"highlights/shadows":   ToneCurveSpecial,
	"highlight/shadow":     ToneCurveSpecial,
	"highlights & shadows": ToneCurveSpecial,

	// Monochromatic color
	"monochromatic color":    MonoColorSpecial,
	"monochromatic colour":   MonoColorSpecial,
	"monochrome color":       MonoColorSpecial,
	"monochrome colour":      MonoColorSpecial,
	"mono color":             MonoColorSpecial,
	"mono colour":            MonoColorSpecial,
	"mc":                     MonoColorSpecial,
	"wc/mg":                  MonoColorSpecial,
	"toning":                 MonoColorSpecial,
	"monochromatic color wc": MonochromaticColorWC,
	"mono wc":                MonochromaticColorWC,
	"warm/cool":              MonochromaticColorWC,
	"monochromatic color mg": MonochromaticColorMG,
	"mono mg":                MonochromaticColorMG,
	"magenta/green":          MonochromaticColorMG,

	// Less common settings that still exist in the schema
	"metering":           MeteringMode,
	"metering mode":      MeteringMode,
	"smooth skin":        SmoothSkinEffect,
	"smooth skin effect": SmoothSkinEffect,
	"long exposure nr":   LongExposureNR,
	"long exp nr":        LongExposureNR,
	"color space":        ColorSpace,
	"colour space":       ColorSpace,

	// Deliberately out of schema
	"aperture":       Ignore,
	"f-stop":         Ignore,
	"fstop":          Ignore,
	"aspect ratio":   Ignore,
	"aspect":         Ignore,
	"shutter":        Ignore,
	"shutter speed":  Ignore,
	"shutter type":   Ignore,
	"lens":           Ignore,
	"lenses":         Ignore,
	"flash":          Ignore,
	"image quality":  Ignore,
	"image size":     Ignore,
	"file format":    Ignore,
	"focus mode":     Ignore,
	"af mode":        Ignore,
	"drive mode":     Ignore,
	"self timer":     Ignore,
	"face detection": Ignore,
	"ibis":           Ignore,
	"stabilization":  Ignore,
	"filter":         Ignore,
	"nd filter":      Ignore,
	"rating":         Ignore,
	"comments":       Ignore,
	"comment":        Ignore,
	"date":           Ignore,
	"date added":     Ignore,
	"#":              Ignore,
	"no.":            Ignore,
}

// TransformName resolves a raw setting name to its canonical name. Lookup is
// case-insensitive and ignores surrounding whitespace. Unknown names are
// returned trimmed but otherwise unchanged.
func TransformName(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := nameAliases[normalizeKey(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// IsSpecialSetting reports whether raw names a composite cell that must be
// split with ParseSpecialSettings.
func IsSpecialSetting(raw string) bool {
	return isSpecialToken(TransformName(raw))
}

// IsIgnored reports whether raw names a setting outside the recipe schema.
func IsIgnored(raw string) bool {
	return TransformName(raw) == Ignore
}

// Aliases returns a copy of the alias table. Keys are normalized raw names.
func Aliases() map[string]string {
	out := make(map[string]string, len(nameAliases))
	for k, v := range nameAliases {
		out[k] = v
	}
	return out
}

func isSpecialToken(name string) bool {
	return strings.HasSuffix(name, specialSuffix)
}

// normalizeKey lower-cases and collapses internal whitespace runs so that
// "Dynamic   Range" and "dynamic range" share a key.
func normalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
