package domain

// Pagination carries cursor paging inputs through repository filters.
type Pagination struct {
	PageSize  int
	PageToken string
}

// CursorPage is one page of results plus the token for the next page.
type CursorPage[T any] struct {
	Items         []T
	NextPageToken string
}
