package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spigell/cvfuse/internal/cv"
	"github.com/spigell/cvfuse/internal/headhunter"
)

func TestWriteRecord(t *testing.T) {
	rec := cv.Empty()
	rec.Candidate.Name = "Jane Doe"

	var buf bytes.Buffer
	if err := writeRecord(&buf, rec, "", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded cv.Record
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("stdout is not json: %v", err)
	}
	if decoded.Candidate.Name != "Jane Doe" {
		t.Fatalf("unexpected name: %q", decoded.Candidate.Name)
	}
}

func TestWriteRecordOverwrite(t *testing.T) {
	original := confirmOverwrite
	defer func() { confirmOverwrite = original }()

	path := filepath.Join(t.TempDir(), "out.json")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	asked := 0
	confirmOverwrite = func(string) error {
		asked++
		return errOverwriteDeclined
	}

	err := writeRecord(&bytes.Buffer{}, cv.Empty(), path, false)
	if !errors.Is(err, errOverwriteDeclined) {
		t.Fatalf("expected declined overwrite, got %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "old" {
		t.Fatalf("file must be kept, got %q", data)
	}

	if err := writeRecord(&bytes.Buffer{}, cv.Empty(), path, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asked != 1 {
		t.Fatalf("force must skip the prompt, asked %d times", asked)
	}
	if data, _ := os.ReadFile(path); string(data) == "old" {
		t.Fatalf("file was not overwritten")
	}
}

func TestReadJSON(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	if err := os.WriteFile(good, []byte(`{"skills": ["Go"]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc, err := readJSON(good)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := doc.(map[string]any)["skills"]; !ok {
		t.Fatalf("unexpected document: %v", doc)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := readJSON(bad); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestSelectResumeByTitle(t *testing.T) {
	resumes := &headhunter.Resumes{Items: []*headhunter.Resume{
		{ID: "r1", Title: "Go Developer"},
		{ID: "r2", Title: "SRE"},
	}}

	got, err := selectResume(resumes, " SRE ")
	if err != nil || got == nil || got.ID != "r2" {
		t.Fatalf("unexpected selection: %+v, %v", got, err)
	}

	got, err = selectResume(resumes, "Designer")
	if err != nil || got != nil {
		t.Fatalf("expected no match, got %+v, %v", got, err)
	}

	single := &headhunter.Resumes{Items: resumes.Items[:1]}
	got, err = selectResume(single, "")
	if err != nil || got.ID != "r1" {
		t.Fatalf("single resume must be chosen without a prompt: %+v, %v", got, err)
	}
}
