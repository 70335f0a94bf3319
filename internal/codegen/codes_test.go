package codegen

import "testing"

func TestCategoryPrefix(t *testing.T) {
	cases := []struct {
		seed string
		want string
	}{
		{seed: "T-Shirts", want: "TSH"},
		{seed: "tee", want: "TEE"},
		{seed: "Polo & Casual", want: "POL"},
		{seed: "ab", want: "AB"},
		{seed: "", want: "GEN"},
		{seed: "--- ", want: "GEN"},
	}
	for _, tc := range cases {
		if got := CategoryPrefix(tc.seed); got != tc.want {
			t.Fatalf("CategoryPrefix(%q) = %s, want %s", tc.seed, got, tc.want)
		}
	}
}

func TestColorPrefix(t *testing.T) {
	cases := []struct {
		seed string
		want string
	}{
		{seed: "Red", want: "RED"},
		{seed: "Navy Blue", want: "NAV"},
		{seed: "", want: "NOC"},
		{seed: "###", want: "NOC"},
	}
	for _, tc := range cases {
		if got := ColorPrefix(tc.seed); got != tc.want {
			t.Fatalf("ColorPrefix(%q) = %s, want %s", tc.seed, got, tc.want)
		}
	}
}

func TestSizeSKU(t *testing.T) {
	if got := SizeSKU("TEE-0001", "Red", "M"); got != "TEE-0001-RED-M" {
		t.Fatalf("unexpected sku %s", got)
	}
	if got := SizeSKU("TEE-0001", "Red", ""); got != "TEE-0001-RED" {
		t.Fatalf("expected no size segment, got %s", got)
	}
	if got := SizeSKU("TEE-0001", "", "32X30"); got != "TEE-0001-NOC-32X30" {
		t.Fatalf("unexpected sku %s", got)
	}
}

func TestValidProductCode(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{code: "TEE-25-0001", want: true},
		{code: "GEN-99-1234", want: true},
		{code: "T-25-0001", want: false},
		{code: "TEE-2025-0001", want: false},
		{code: "TEE-25-001", want: false},
		{code: "tee-25-0001", want: false},
		{code: "", want: false},
	}
	for _, tc := range cases {
		if got := ValidProductCode(tc.code); got != tc.want {
			t.Fatalf("ValidProductCode(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestSanitizeCode(t *testing.T) {
	if got := SanitizeCode("Denim / Slim-Fit 01"); got != "DENIMSLIMFIT01" {
		t.Fatalf("unexpected sanitized code %s", got)
	}
	if got := SanitizeCode(nil); got != "" {
		t.Fatalf("expected empty for nil, got %s", got)
	}
}
