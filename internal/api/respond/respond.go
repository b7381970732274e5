// Package respond writes the API's JSON bodies: tool results, cached
// career and season cards with their ETags, and the error envelope every
// failing endpoint shares.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Error codes carried in ErrorBody.Code.
const (
	CodeEmptyQuery      = "EMPTY_QUERY"
	CodeInvalidFilters  = "INVALID_FILTERS"
	CodeInvalidBody     = "INVALID_BODY"
	CodeInvalidYear     = "INVALID_YEAR"
	CodeMissingPlayer   = "MISSING_PLAYER"
	CodeNotFound        = "NOT_FOUND"
	CodeEmbeddingFailed = "EMBEDDING_FAILED"
	CodeTimeout         = "TIMEOUT"
	CodeUnavailable     = "UNAVAILABLE"
	CodeRateLimited     = "RATE_LIMITED"
)

// ErrorBody describes one failure. Detail carries the underlying error text
// when it helps the caller fix the request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// ErrorResponse is the envelope for every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// JSON encodes v with the given status. Search results, season lists and
// health checks go through here uncached.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Cached writes an already-encoded body from the response cache. hit reports
// whether the body came from the cache or was built for this request.
func Cached(w http.ResponseWriter, body []byte, etag string, ttl time.Duration, hit bool) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("ETag", etag)
	h.Set("Vary", "Accept-Encoding")
	h.Set("X-Cache", cacheStatus(hit))
	h.Set("Cache-Control", cacheControl(ttl))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// NotModified answers a conditional GET whose ETag still matches.
func NotModified(w http.ResponseWriter, etag string) {
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusNotModified)
}

// Error writes the error envelope without detail.
func Error(w http.ResponseWriter, status int, code, message string) {
	ErrorDetail(w, status, code, message, "")
}

// ErrorDetail writes the error envelope. Errors are never cached.
func ErrorDetail(w http.ResponseWriter, status int, code, message, detail string) {
	w.Header().Set("Cache-Control", "no-store")
	JSON(w, status, ErrorResponse{Error: ErrorBody{Code: code, Message: message, Detail: detail}})
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

// cacheControl lets clients reuse a card for its cache TTL and serve it
// stale for half that again while revalidating.
func cacheControl(ttl time.Duration) string {
	maxAge := int(ttl.Seconds())
	return fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d", maxAge, maxAge/2)
}
