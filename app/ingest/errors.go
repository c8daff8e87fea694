package ingest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/oncofeed/oncofeed/app/feed"
)

// Code identifies a whole-run failure category. Item-level failures
// (date parse, insert conflict, enrichment failure) are recovered
// internally and never carry one of these.
type Code string

const (
	CodeInvalidURL         Code = "invalid_url"
	CodeUnsupportedScheme  Code = "unsupported_scheme"
	CodeTimeout            Code = "timeout"
	CodeHTTPError          Code = "http_error"
	CodeEmptyContent       Code = "empty_content"
	CodeNotXML             Code = "not_xml"
	CodeParseError         Code = "parse_error"
	CodeUnextractableTitle Code = "unextractable_title"
	CodeCategoryNotFound   Code = "category_not_found"
	CodeDuplicateFeed      Code = "duplicate_feed"
	CodeFeedNotFound       Code = "feed_not_found"
	CodeInternal           Code = "internal_error"
)

// Error is the categorized failure surfaced to callers. HTTPStatus is the
// user-facing status the API layer must respond with; the mapping is part
// of the observable contract.
type Error struct {
	Code       Code
	Message    string
	HTTPStatus int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code Code, status int, message string) *Error {
	return &Error{Code: code, Message: message, HTTPStatus: status}
}

func internalError(message string, err error) *Error {
	return &Error{Code: CodeInternal, Message: message, HTTPStatus: http.StatusInternalServerError, Err: err}
}

// mapFetchError converts fetcher failures into the user-facing categories:
// timeout 408, upstream 5xx as 502, 404/403/429 passed through with
// specific messages, other upstream statuses passed through verbatim,
// malformed bodies as 400.
func mapFetchError(err error) *Error {
	var fetchErr *feed.FetchError
	if !errors.As(err, &fetchErr) {
		return internalError("failed to fetch document", err)
	}

	switch fetchErr.Kind {
	case feed.FetchTimeout:
		return &Error{Code: CodeTimeout, Message: "Feed request timed out", HTTPStatus: http.StatusRequestTimeout, Err: err}
	case feed.FetchEmptyContent:
		return &Error{Code: CodeEmptyContent, Message: "Feed returned an empty or truncated document", HTTPStatus: http.StatusBadRequest, Err: err}
	case feed.FetchNotXML:
		return &Error{Code: CodeNotXML, Message: "Feed did not return an XML document", HTTPStatus: http.StatusBadRequest, Err: err}
	case feed.FetchHTTPStatus:
		return mapHTTPStatus(fetchErr)
	default:
		return &Error{Code: CodeHTTPError, Message: "Feed source could not be reached", HTTPStatus: http.StatusBadGateway, Err: err}
	}
}

func mapHTTPStatus(fetchErr *feed.FetchError) *Error {
	code := fetchErr.StatusCode
	switch {
	case code == http.StatusTooManyRequests:
		return &Error{Code: CodeHTTPError, Message: "Feed source is rate-limiting requests", HTTPStatus: http.StatusTooManyRequests, Err: fetchErr}
	case code == http.StatusForbidden:
		return &Error{Code: CodeHTTPError, Message: "Feed source refused the request (bot blocking?)", HTTPStatus: http.StatusForbidden, Err: fetchErr}
	case code == http.StatusNotFound:
		return &Error{Code: CodeHTTPError, Message: "Feed not found at this URL", HTTPStatus: http.StatusNotFound, Err: fetchErr}
	case code >= 500:
		return &Error{Code: CodeHTTPError, Message: "Feed source is failing upstream", HTTPStatus: http.StatusBadGateway, Err: fetchErr}
	default:
		return &Error{Code: CodeHTTPError, Message: fmt.Sprintf("Feed source returned HTTP %d", code), HTTPStatus: code, Err: fetchErr}
	}
}
