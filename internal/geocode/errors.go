package geocode

import (
	"errors"
	"fmt"
	"net/http"

	"geotag/internal/services"
)

// ErrCircuitOpen is returned while the circuit breaker rejects requests.
var ErrCircuitOpen = errors.New("geocoder circuit open")

// HTTPError reports a non-2xx response from the geocoding endpoint.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("geocoder returned %d %s for %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// Is makes HTTP failures match services.ErrSkippable.
func (e *HTTPError) Is(target error) bool {
	return target == services.ErrSkippable
}

// Retryable reports whether the status is worth retrying.
func (e *HTTPError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
