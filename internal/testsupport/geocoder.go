package testsupport

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

// Geocoder is a fake reverse geocoding endpoint. Responses are keyed by the
// "lat,lon" query pair; unknown coordinates get a Nominatim-style error body.
type Geocoder struct {
	Server *httptest.Server

	mu        sync.Mutex
	responses map[string]string
	statuses  map[string]int
	calls     int
}

// NewGeocoder starts a fake geocoder and registers cleanup.
func NewGeocoder(t testing.TB) *Geocoder {
	t.Helper()

	g := &Geocoder{responses: make(map[string]string), statuses: make(map[string]int)}
	g.Server = httptest.NewServer(http.HandlerFunc(g.serve))
	t.Cleanup(g.Server.Close)
	return g
}

// URL returns the reverse endpoint URL.
func (g *Geocoder) URL() string { return g.Server.URL + "/reverse" }

// Respond registers a JSON body for the coordinates.
func (g *Geocoder) Respond(lat, lon float64, body string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.responses[key(lat, lon)] = body
}

// Fail makes the coordinates return status.
func (g *Geocoder) Fail(lat, lon float64, status int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statuses[key(lat, lon)] = status
}

// Calls returns the number of requests served.
func (g *Geocoder) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func (g *Geocoder) serve(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	g.calls++
	k := r.URL.Query().Get("lat") + "," + r.URL.Query().Get("lon")
	body, ok := g.responses[k]
	status := g.statuses[k]
	g.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if !ok {
		_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
		return
	}
	_, _ = w.Write([]byte(body))
}

func key(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
}
