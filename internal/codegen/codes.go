package codegen

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var nonAlnum = regexp.MustCompile(`[^A-Z0-9]`)

// UpperString stringifies and uppercases a value, treating nil as "".
func UpperString(v any) string {
	if v == nil {
		return ""
	}
	return strings.ToUpper(fmt.Sprintf("%v", v))
}

// SanitizeCode uppercases a value and strips everything outside A-Z0-9.
func SanitizeCode(v any) string {
	return nonAlnum.ReplaceAllString(UpperString(v), "")
}

// CategoryPrefix derives the 3-char category prefix used in product codes.
// Falls back to "GEN" when the seed yields nothing usable.
func CategoryPrefix(seed string) string {
	s := SanitizeCode(seed)
	if len(s) > 3 {
		s = s[:3]
	}
	if s == "" {
		return "GEN"
	}
	return s
}

// ColorPrefix derives the 3-char color token for SKUs, "NOC" when empty.
func ColorPrefix(seed string) string {
	s := SanitizeCode(seed)
	if len(s) > 3 {
		s = s[:3]
	}
	if s == "" {
		return "NOC"
	}
	return s
}

// Pad4 zero-pads a sequence number to four digits.
func Pad4(n int64) string {
	return fmt.Sprintf("%04d", n)
}

func yearStamp(now time.Time) string {
	return fmt.Sprintf("%02d", now.Year()%100)
}

func yearMonthStamp(now time.Time) string {
	return fmt.Sprintf("%02d%02d", now.Year()%100, int(now.Month()))
}

func dateStamp(now time.Time) string {
	return now.Format("20060102")
}

// SizeSKU builds the per-size SKU: BASE-COL or BASE-COL-SIZE.
// Example: "TEE-0001-RED-M".
func SizeSKU(base, color, sizeName string) string {
	c := ColorPrefix(color)
	s := SanitizeCode(sizeName)
	if s == "" {
		return base + "-" + c
	}
	return base + "-" + c + "-" + s
}

var productCodePattern = regexp.MustCompile(`^[A-Z0-9]{2,}-\d{2}-\d{4}$`)

// ValidProductCode reports whether s already matches the CAT-YY-SEQ shape.
func ValidProductCode(s string) bool {
	return productCodePattern.MatchString(s)
}
