package enums

// ResultType tells the resolver what an extractor handed back.
type ResultType string

const (
	ResultTypeVideo    ResultType = "video"
	ResultTypePlaylist ResultType = "playlist"
	// ResultTypeURL asks the resolver to start over with a new URL.
	ResultTypeURL ResultType = "url"
	// ResultTypeURLTransparent is like ResultTypeURL, but the metadata
	// returned alongside the URL overrides what the next extractor finds.
	ResultTypeURLTransparent ResultType = "url_transparent"
)
