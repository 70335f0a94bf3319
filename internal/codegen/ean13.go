package codegen

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
)

var (
	ean13Pattern = regexp.MustCompile(`^\d{13}$`)
	ean12Pattern = regexp.MustCompile(`^\d{12}$`)
)

// IsEAN13 reports whether v stringifies to exactly 13 digits.
func IsEAN13(v any) bool {
	if v == nil {
		return false
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	return ean13Pattern.MatchString(s)
}

// IsEAN12 reports whether v is a 12-digit string, i.e. a barcode missing
// only its check digit.
func IsEAN12(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return ean12Pattern.MatchString(s)
}

// CompleteEAN13 closes a 12-digit base with the standard EAN-13 check
// digit. The base must already be 12 digits.
func CompleteEAN13(base12 string) string {
	total := 0
	for i := 0; i < len(base12); i++ {
		d := int(base12[i] - '0')
		if i%2 == 1 {
			d *= 3
		}
		total += d
	}
	check := (10 - total%10) % 10
	return base12 + string(byte('0'+check))
}

// MakeEAN13 derives a deterministic EAN-13 from an arbitrary seed. The
// sha1 hex digest is folded onto digits (a-f map to 0-5), forced into a
// "20"-prefixed GTIN range, and closed with the standard check digit.
func MakeEAN13(seed string) string {
	sum := sha1.Sum([]byte(seed))
	hexDigest := hex.EncodeToString(sum[:])

	digits := make([]byte, 0, len(hexDigest))
	for i := 0; i < len(hexDigest); i++ {
		c := hexDigest[i]
		if c >= 'a' && c <= 'f' {
			c = '0' + (c - 'a')
		}
		digits = append(digits, c)
	}

	return CompleteEAN13("20" + string(digits[:10]))
}
