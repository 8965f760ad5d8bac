package util

import "fmt"

type Error struct {
	Message string
}

func (err *Error) Error() string {
	return err.Message
}

var (
	ErrUnavailable        = &Error{Message: "this content is unavailable"}
	ErrUnsupportedURL     = &Error{Message: "unsupported url"}
	ErrExtractorDisabled  = &Error{Message: "this extractor is disabled on this instance"}
	ErrTooManyRedirects   = &Error{Message: "exceeded maximum number of redirects"}
	ErrGeoRestricted      = &Error{Message: "this content is not available in your country"}
	ErrDRMProtected       = &Error{Message: "this content is drm protected"}
	ErrEmptyResponse      = &Error{Message: "extractor returned an empty response"}
	ErrUnknownResultType  = &Error{Message: "extractor returned an unknown result type"}
	ErrMissingRedirectURL = &Error{Message: "no URL found in response"}
)

// HTTPStatusError is returned when a site answers with a non 2xx status.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (err *HTTPStatusError) Error() string {
	return fmt.Sprintf("bad response from %s: HTTP %d", err.URL, err.StatusCode)
}
