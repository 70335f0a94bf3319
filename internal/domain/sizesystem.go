package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// SizeSystem describes how size labels on a product decompose into numeric values.
// The values double as the canonical human-readable labels stored on records.
type SizeSystem string

const (
	SizeSystemAlpha         SizeSystem = "Alpha (XS-XXL: T-shirts, shirts, pants)"
	SizeSystemNumericSingle SizeSystem = "Numeric (single: collar/waist, e.g. 15.5, 32)"
	SizeSystemWaistLength   SizeSystem = "Numeric (waist x length: e.g. 32x30)"
	SizeSystemShoe          SizeSystem = "Shoe size (e.g. 42, 8, UK 9)"
	SizeSystemKids          SizeSystem = "Kids age (e.g. 2-3Y, 4-5Y)"
	SizeSystemFree          SizeSystem = "Free / one size"
)

// sizeSystemPrefixes maps label prefixes to canonical systems. Matching by
// prefix keeps older records valid if the display labels ever drift.
var sizeSystemPrefixes = []struct {
	prefix string
	system SizeSystem
}{
	{"Alpha", SizeSystemAlpha},
	{"Numeric (single", SizeSystemNumericSingle},
	{"Numeric (waist x length", SizeSystemWaistLength},
	{"Shoe size", SizeSystemShoe},
	{"Kids age", SizeSystemKids},
	{"Free / one", SizeSystemFree},
}

// NormalizeSizeSystem resolves free-form input to a canonical size system,
// defaulting to the alpha system when the value is empty or unrecognised.
func NormalizeSizeSystem(value string) SizeSystem {
	v := strings.TrimSpace(value)
	if v == "" {
		return SizeSystemAlpha
	}
	for _, entry := range sizeSystemPrefixes {
		if strings.HasPrefix(v, entry.prefix) {
			return entry.system
		}
	}
	return SizeSystemAlpha
}

// SizeBreakdown carries the numeric decomposition of a size label for
// filtering and analytics. Primary/Secondary are nil when the system does
// not decompose (alpha, kids, free) or the label failed to parse.
type SizeBreakdown struct {
	System    SizeSystem
	Primary   *float64
	Secondary *float64
}

var firstNumericToken = regexp.MustCompile(`[\d.,]+`)

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)`)

// ParseSizeLabel decomposes a normalized size label according to the system.
func ParseSizeLabel(system SizeSystem, label string) SizeBreakdown {
	normalized := NormalizeSizeSystem(string(system))
	raw := strings.TrimSpace(label)
	out := SizeBreakdown{System: normalized}
	if raw == "" {
		return out
	}

	switch normalized {
	case SizeSystemNumericSingle:
		out.Primary = parseNumeric(raw)
	case SizeSystemWaistLength:
		upper := strings.ReplaceAll(strings.ToUpper(raw), "×", "X")
		parts := strings.Split(upper, "X")
		if len(parts) > 0 {
			out.Primary = parseNumeric(parts[0])
		}
		if len(parts) > 1 {
			out.Secondary = parseNumeric(parts[1])
		}
	case SizeSystemShoe:
		if token := firstNumericToken.FindString(raw); token != "" {
			out.Primary = parseNumeric(token)
		}
	}
	return out
}

// parseNumeric reads the leading number from a label fragment, tolerating
// trailing units such as `32"` or `8.5 US`.
func parseNumeric(value string) *float64 {
	trimmed := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	token := leadingFloat.FindString(trimmed)
	if token == "" {
		return nil
	}
	n, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil
	}
	return &n
}
