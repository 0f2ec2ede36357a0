package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codeGROOVE-dev/worldtz/pkg/timezone"
	"github.com/codeGROOVE-dev/worldtz/pkg/tzconvert"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/google/go-cmp/cmp"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := newService(t)
	svc = LoggingMiddleware(svc, quietLog)
	svc = MetricsMiddleware(svc, discard.NewCounter(), discard.NewHistogram())
	ts := httptest.NewServer(MakeHandler(svc, quietLog))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("%s %s Content-Type = %q", method, url, ct)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func TestHTTPStatusCodes(t *testing.T) {
	ts := newServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"health", http.MethodGet, "/healthz", "", http.StatusOK},
		{"zones", http.MethodGet, "/api/v1/zones?q=tokyo", "", http.StatusOK},
		{"zones bad limit", http.MethodGet, "/api/v1/zones?limit=ten", "", http.StatusBadRequest},
		{"zone", http.MethodGet, "/api/v1/zones/America/Argentina/Buenos_Aires", "", http.StatusOK},
		{"zone unknown", http.MethodGet, "/api/v1/zones/Mars/Olympus_Mons", "", http.StatusNotFound},
		{"offset", http.MethodGet, "/api/v1/offset?tz=Asia/Tokyo", "", http.StatusOK},
		{"offset bad instant", http.MethodGet, "/api/v1/offset?tz=Asia/Tokyo&at=tomorrow", "", http.StatusBadRequest},
		{"offset unknown", http.MethodGet, "/api/v1/offset?tz=Mars/Olympus_Mons", "", http.StatusNotFound},
		{"parse", http.MethodGet, "/api/v1/parse?q=tokyo", "", http.StatusOK},
		{"parse no match", http.MethodGet, "/api/v1/parse?q=xyzzy", "", http.StatusNotFound},
		{"convert bad json", http.MethodPost, "/api/v1/convert", "{", http.StatusBadRequest},
		{"convert bad time", http.MethodPost, "/api/v1/convert", `{"date":"2024-06-15","time":"noon","source":"tokyo"}`, http.StatusBadRequest},
		{"convert unknown source", http.MethodPost, "/api/v1/convert", `{"date":"2024-06-15","time":"12:00","source":"xyzzy"}`, http.StatusBadRequest},
		{"convert too many", http.MethodPost, "/api/v1/convert", `{"date":"2024-06-15","time":"12:00","source":"tokyo","targets":["a","b","c","d","e","f"]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]any
			got := do(t, tt.method, ts.URL+tt.path, tt.body, &body)
			if got != tt.want {
				t.Errorf("%s %s = %d, want %d (body %v)", tt.method, tt.path, got, tt.want, body)
			}
			if got >= 400 && body["error"] == nil {
				t.Errorf("%s %s error body = %v", tt.method, tt.path, body)
			}
		})
	}
}

func TestHTTPMethodNotAllowed(t *testing.T) {
	ts := newServer(t)
	resp, err := http.Get(ts.URL + "/api/v1/convert")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/v1/convert = %d, want 405", resp.StatusCode)
	}
}

func TestHTTPConvert(t *testing.T) {
	ts := newServer(t)
	var got struct {
		Results []tzconvert.Result `json:"results"`
	}
	status := do(t, http.MethodPost, ts.URL+"/api/v1/convert",
		`{"date":"2024-06-15","time":"12:00","source":"Asia/Taiwan/Taipei(UTC+8)","targets":["America/United States/New York(UTC-4)"]}`,
		&got)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if diff := cmp.Diff([]tzconvert.Result{taipeiToNY}, got.Results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPZone(t *testing.T) {
	ts := newServer(t)
	var got timezone.Entry
	if status := do(t, http.MethodGet, ts.URL+"/api/v1/zones/America/Argentina/Buenos_Aires", "", &got); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	want := timezone.Entry{
		ID:     "America/Argentina/Buenos_Aires",
		Label:  "America/Argentina/Buenos Aires(UTC-3)",
		Offset: "UTC-3",
		Place:  timezone.Place{Region: "America", Country: "Argentina", City: "Buenos Aires"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("zone mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPOffsetAndParse(t *testing.T) {
	ts := newServer(t)

	var offset map[string]string
	do(t, http.MethodGet, ts.URL+"/api/v1/offset?tz=America/New_York&at=2024-01-15T12:00:00Z", "", &offset)
	if diff := cmp.Diff(map[string]string{"tz": "America/New_York", "offset": "UTC-5"}, offset); diff != "" {
		t.Errorf("offset mismatch (-want +got):\n%s", diff)
	}

	var parsed map[string]string
	do(t, http.MethodGet, ts.URL+"/api/v1/parse?q=Asia%2FJapan%2FTokyo(UTC%2B9)", "", &parsed)
	if parsed["id"] != "Asia/Tokyo" {
		t.Errorf("parse = %v, want Asia/Tokyo", parsed)
	}
}

func TestHTTPZonesListing(t *testing.T) {
	ts := newServer(t)
	var page struct {
		Instant string           `json:"instant"`
		Zones   []timezone.Entry `json:"zones"`
	}
	do(t, http.MethodGet, ts.URL+"/api/v1/zones?q=indiana&limit=2", "", &page)
	if page.Instant != "2024-06-15T12:00:00Z" {
		t.Errorf("instant = %q", page.Instant)
	}
	if len(page.Zones) != 2 || page.Zones[0].ID != "America/Indiana/Indianapolis" {
		t.Errorf("zones = %+v", page.Zones)
	}
}
