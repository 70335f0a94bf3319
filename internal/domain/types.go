package domain

// Category is the lookup record backing product classification and code prefixes.
type Category struct {
	ID     string
	Name   string
	Code   string
	HSCode string
}

// Factory identifies the production site referenced by factory batch codes.
type Factory struct {
	ID   string
	Name string
	Code string
}

// LabelItem is a single printable label line: product or variant name plus its codes.
type LabelItem struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Barcode string `json:"barcode"`
}

// LabelSheet aggregates the label lines for one product.
type LabelSheet struct {
	ProductName string      `json:"product_name"`
	ProductCode string      `json:"product_code"`
	Items       []LabelItem `json:"items"`
}

// SEORecord is the normalized read-side view of one SEO meta entry.
type SEORecord struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Lang        string   `json:"lang"`
	Channel     string   `json:"channel"`
	Keywords    []string `json:"keywords"`
}

// MediaFile is the flattened public shape of an uploaded media entry.
type MediaFile struct {
	ID  any    `json:"id,omitempty"`
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// StockSyncItem is one size-stock quantity update pushed by the storefront cron.
type StockSyncItem struct {
	SizeID any `json:"sizeId"`
	Stock  any `json:"stock"`
}

// StockSyncError reports why a single sync item could not be applied.
type StockSyncError struct {
	SizeID any    `json:"sizeId"`
	Error  string `json:"error"`
}

// StockSyncResult summarises one sync batch.
type StockSyncResult struct {
	Received     int              `json:"received"`
	Updated      []any            `json:"updated"`
	UpdatedCount int              `json:"updatedCount"`
	Errors       []StockSyncError `json:"errors"`
}
