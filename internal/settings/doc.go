// Package settings maps free-text spreadsheet setting cells onto the fixed
// vocabulary of camera setting definitions.
//
// Spreadsheet authors spell the same setting a dozen ways ("DR", "D-Range",
// "dnamic range") and frequently pack several settings into one cell
// ("R:4 B:-5" for a white balance shift). The package provides three layers:
//
//   - [TransformName] resolves a raw column/setting name through a static
//     many-to-one alias table.
//   - [TransformValue] canonicalizes a raw value for an already-resolved name
//     (enum tables, numbers, "5500K" temperatures).
//   - [ParseSpecialSettings] splits composite cells into several canonical
//     assignments.
//
// [Resolve] combines all three and reports an [Outcome] so callers can tell
// mapped, passthrough, ignored, split, and dropped cells apart without
// inspecting sentinel strings.
//
// Every function is total over string input: nothing here returns an error
// or panics. Unknown names pass through trimmed so they surface downstream;
// unparseable composite cells yield no assignments.
package settings
