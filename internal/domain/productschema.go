package domain

// UIDs for the catalog content types and components.
const (
	UIDProduct  = "api::product.product"
	UIDCategory = "api::category.category"
	UIDFactory  = "api::factory.factory"

	UIDVariantComponent     = "variant.product-variant"
	UIDSizeStockComponent   = "variant.size-stock"
	UIDSEOMetaComponent     = "common.seo-meta"
	UIDKeywordComponent     = "common.keyword"
	UIDAltNameComponent     = "common.alt-name"
	UIDTranslationComponent = "common.translation"
)

// CatalogRegistry returns the schema registry for the product catalog.
// The attribute maps mirror the published content-type definitions;
// scalar attributes are omitted since unknown fields default to scalar.
func CatalogRegistry() *StaticRegistry {
	product := Schema{
		UID: UIDProduct,
		Attributes: map[string]FieldSpec{
			"categories":        {Kind: FieldRelation, Many: true, Target: UIDCategory},
			"factory":           {Kind: FieldRelation, Target: UIDFactory},
			"images":            {Kind: FieldMedia, Many: true},
			"gallery":           {Kind: FieldMedia, Many: true},
			"product_variants":  {Kind: FieldComponent, Many: true, Component: UIDVariantComponent},
			"seo":               {Kind: FieldComponent, Many: true, Component: UIDSEOMetaComponent},
			"alt_names_entries": {Kind: FieldComponent, Many: true, Component: UIDAltNameComponent},
			"translations":      {Kind: FieldComponent, Many: true, Component: UIDTranslationComponent},
		},
	}

	variant := Schema{
		UID: UIDVariantComponent,
		Attributes: map[string]FieldSpec{
			"image":       {Kind: FieldMedia},
			"size_stocks": {Kind: FieldComponent, Many: true, Component: UIDSizeStockComponent},
		},
	}

	sizeStock := Schema{
		UID:        UIDSizeStockComponent,
		Attributes: map[string]FieldSpec{},
	}

	seoMeta := Schema{
		UID: UIDSEOMetaComponent,
		Attributes: map[string]FieldSpec{
			"keywords":    {Kind: FieldComponent, Many: true, Component: UIDKeywordComponent},
			"share_image": {Kind: FieldMedia},
		},
	}

	keyword := Schema{UID: UIDKeywordComponent, Attributes: map[string]FieldSpec{}}
	altName := Schema{UID: UIDAltNameComponent, Attributes: map[string]FieldSpec{}}
	translation := Schema{UID: UIDTranslationComponent, Attributes: map[string]FieldSpec{}}

	category := Schema{UID: UIDCategory, Attributes: map[string]FieldSpec{}}
	factory := Schema{UID: UIDFactory, Attributes: map[string]FieldSpec{}}

	return NewStaticRegistry(
		[]Schema{product, category, factory},
		[]Schema{variant, sizeStock, seoMeta, keyword, altName, translation},
	)
}
