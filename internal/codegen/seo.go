package codegen

import (
	"strings"

	"github.com/the-dna-lab/catalog-api/internal/domain"
)

const (
	brandName = "THE DNA LAB CLOTHING"

	maxSEOTitleLen       = 70
	maxSEODescriptionLen = 160
	maxSEOKeywordLen     = 48
	maxSEOKeywords       = 12
)

var brandKeywords = []string{
	"the dna lab clothing",
	"the dna lab store",
	"tdlc",
	"tdls",
}

// BuildDefaultSEO assembles the default en/website SEO entry from the
// product name, descriptions and its first category.
func BuildDefaultSEO(rec Record, cat *domain.Category) map[string]any {
	baseName := CollapseSpaces(rec.String("name"))

	titleParts := make([]string, 0, 2)
	if baseName != "" {
		titleParts = append(titleParts, baseName)
	}
	titleParts = append(titleParts, brandName)
	title := Truncate(strings.Join(titleParts, " | "), maxSEOTitleLen)

	descSource := rec.String("short_description")
	if descSource == "" {
		if desc, ok := rec["description"].(string); ok {
			descSource = StripTags(desc)
		}
	}
	description := CollapseSpaces(descSource)
	if len([]rune(description)) > maxSEODescriptionLen {
		description = Truncate(description, maxSEODescriptionLen)
	}

	seen := make(map[string]struct{})
	ordered := make([]string, 0, maxSEOKeywords)
	add := func(kw string) {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			return
		}
		if _, ok := seen[kw]; ok {
			return
		}
		seen[kw] = struct{}{}
		ordered = append(ordered, kw)
	}

	if baseName != "" {
		add(strings.ToLower(baseName))
		for _, w := range strings.FieldsFunc(baseName, func(r rune) bool {
			return r == ' ' || r == ',' || r == '\t' || r == '\n'
		}) {
			add(strings.ToLower(w))
		}
	}
	if cat != nil {
		if cat.Name != "" {
			add(strings.ToLower(cat.Name))
		}
		if cat.Code != "" {
			add(strings.ToLower(cat.Code))
		}
	}
	for _, kw := range brandKeywords {
		add(kw)
	}

	if len(ordered) > maxSEOKeywords {
		ordered = ordered[:maxSEOKeywords]
	}
	keywords := make([]any, 0, len(ordered))
	for _, kw := range ordered {
		keywords = append(keywords, map[string]any{"value": Truncate(kw, maxSEOKeywordLen)})
	}

	return map[string]any{
		"title":       title,
		"description": description,
		"lang":        "en",
		"channel":     "website",
		"keywords":    keywords,
	}
}
