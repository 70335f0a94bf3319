package codegen

// PrePublishGuard checks a payload that is about to be published and
// collects every missing requirement before failing, so the caller sees
// the complete list in one round trip. A payload that is not publishing
// (no publishedAt set) passes untouched.
func PrePublishGuard(rec Record) error {
	publishedAt, publishing := rec["publishedAt"]
	if !publishing || publishedAt == nil || publishedAt == "" || publishedAt == false {
		return nil
	}

	var missing []string

	if rec.String("name") == "" {
		missing = append(missing, "name")
	}
	if rec.String("slug") == "" {
		missing = append(missing, "slug")
	}
	if len(rec.Slice("categories")) == 0 {
		missing = append(missing, "category")
	}

	okImages := len(rec.Slice("images")) > 0 || len(rec.Slice("gallery")) > 0
	if !okImages {
		missing = append(missing, "image (images or gallery)")
	}

	if rec.Has("selling_price") {
		if v := rec["selling_price"]; v == nil || v == "" {
			missing = append(missing, "selling_price")
		}
	}

	if rec.String("currency") == "" {
		missing = append(missing, "currency")
	}
	if rec.String("product_code") == "" {
		missing = append(missing, "product_code")
	}
	if !IsEAN13(rec["barcode"]) {
		missing = append(missing, "barcode (EAN-13)")
	}

	hasSizeStocks := false
	for _, item := range rec.Slice("product_variants") {
		v, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if sizes, _ := v["size_stocks"].([]any); len(sizes) > 0 {
			hasSizeStocks = true
			break
		}
	}
	if !hasSizeStocks {
		missing = append(missing, "at least one color + size variant")
	}

	if len(missing) > 0 {
		return &PublishError{Missing: missing}
	}
	return nil
}
