package constants

// Paging defaults for criteria queries. Page numbers are zero based.
const (
	DefaultPageNumber = 0
	DefaultPageSize   = 200
	MaxPageSize       = 1000
	UnlimitedPageSize = -1
)
