// Package geocode wraps a Nominatim-compatible reverse geocoding endpoint.
//
// Requests are paced by a token-bucket limiter, retried with exponential
// backoff on throttling, server errors, and transport failures, and guarded by a
// circuit breaker so a failing endpoint stops costing a request per photo.
// Non-2xx responses surface as *HTTPError, which callers treat as a skippable
// per-photo failure.
package geocode
