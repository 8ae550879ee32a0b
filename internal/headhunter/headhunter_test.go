package headhunter

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/cvfuse/internal/normalize"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := New(context.Background(), zap.NewNop(), "token-123")
	c.APIURL = server.URL
	c.HTTPClient = server.Client()
	return c
}

func TestGetMineResumesFollowsPages(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/resumes/mine" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != userAgent {
			t.Errorf("unexpected user agent: %q", got)
		}

		body := map[string]any{"pages": 2, "per_page": 1, "found": 2}
		switch r.URL.Query().Get("page") {
		case "":
			body["page"] = 0
			body["items"] = []any{map[string]any{"id": "r1", "title": "Go Developer"}}
		case "1":
			body["page"] = 1
			body["items"] = []any{map[string]any{"id": "r2", "title": "SRE"}}
		default:
			t.Errorf("unexpected page: %s", r.URL.Query().Get("page"))
			return
		}

		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		defer gz.Close()
		if err := json.NewEncoder(gz).Encode(body); err != nil {
			t.Errorf("encode: %v", err)
		}
	})

	resumes, err := c.GetMineResumes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if resumes.Len() != 2 {
		t.Fatalf("expected 2 resumes, got %d", resumes.Len())
	}

	titles := resumes.Titles()
	if titles[0] != "Go Developer" || titles[1] != "SRE" {
		t.Fatalf("unexpected titles: %v", titles)
	}

	found := resumes.FindByTitle("SRE")
	if found == nil || found.ID != "r2" {
		t.Fatalf("unexpected resume: %+v", found)
	}
	if resumes.FindByTitle("missing") != nil {
		t.Fatalf("expected nil for unknown title")
	}
}

func TestGetMineResumesBadStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	if _, err := c.GetMineResumes(); err == nil {
		t.Fatalf("expected error on bad status")
	}
}

func TestGetResumeDetails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/resumes/r1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":         "r1",
			"title":      "Go Developer",
			"first_name": "Ivan",
			"last_name":  "Petrov",
			"skill_set":  []any{"Go", "Kafka"},
			"experience": []any{
				map[string]any{"company": "Yandex", "position": "Backend Developer", "start": "2019-03-01", "end": nil},
			},
		})
	})

	details, err := c.GetResumeDetails("r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.ID != "r1" || details.Title != "Go Developer" {
		t.Fatalf("unexpected details: %+v", details)
	}

	primary := details.Primary()
	if _, ok := details.Raw["meta"]; ok {
		t.Fatalf("raw document must not be modified")
	}

	record := normalize.Normalize(primary)
	if record.Candidate.Name != "Ivan Petrov" {
		t.Fatalf("unexpected name: %q", record.Candidate.Name)
	}
	if record.Meta.Source != Source {
		t.Fatalf("unexpected source: %q", record.Meta.Source)
	}
	if len(record.Experience) != 1 || record.Experience[0].Employer != "Yandex" {
		t.Fatalf("unexpected experience: %+v", record.Experience)
	}
}

func TestGetResumeDetailsRequiresID(t *testing.T) {
	c := New(context.Background(), nil, "token")
	if _, err := c.GetResumeDetails(""); err == nil {
		t.Fatalf("expected error for empty id")
	}
}
