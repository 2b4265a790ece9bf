package publish

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-github/v68/github"

	"github.com/vdbe/maze-lvl-maker/internal/models"
)

func sampleLevels() []models.Level {
	return []models.Level{
		{
			ID:              "lvl-aaa11",
			Name:            "spiral",
			Checksum:        "c1",
			Width:           8,
			Height:          8,
			WallCount:       10,
			CheckpointCount: 1,
			Payload:         `{"walls":[],"start":{"x":1,"y":1},"end":{"x":6,"y":6},"checkpoints":[]}`,
		},
		{
			ID:              "lvl-bbb22",
			Name:            "grid",
			Checksum:        "c2",
			Width:           4,
			Height:          4,
			WallCount:       4,
			CheckpointCount: 0,
			Payload:         `{"walls":[],"start":{"x":0,"y":0},"end":{"x":3,"y":3},"checkpoints":[]}`,
		},
	}
}

func TestWritePack(t *testing.T) {
	var buf bytes.Buffer
	manifest, err := WritePack(&buf, "v1", sampleLevels())
	if err != nil {
		t.Fatalf("WritePack: %v", err)
	}

	if manifest.Tag != "v1" {
		t.Errorf("manifest.Tag = %q, want %q", manifest.Tag, "v1")
	}
	if manifest.Count != 2 {
		t.Errorf("manifest.Count = %d, want 2", manifest.Count)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("zip.NewReader: %v", err)
	}

	files := make(map[string]string)
	for _, zf := range zr.File {
		rc, err := zf.Open()
		if err != nil {
			t.Fatalf("open %s: %v", zf.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", zf.Name, err)
		}
		files[zf.Name] = string(data)
	}

	if len(files) != 3 {
		t.Fatalf("pack has %d files, want 3 (2 levels + manifest): %v", len(files), files)
	}
	if !strings.Contains(files["spiral.json"], `"start":{"x":1,"y":1}`) {
		t.Errorf("spiral.json content = %q", files["spiral.json"])
	}
	if _, ok := files["grid.json"]; !ok {
		t.Error("grid.json missing from pack")
	}

	var decoded Manifest
	if err := json.Unmarshal([]byte(files["manifest.json"]), &decoded); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if len(decoded.Levels) != 2 {
		t.Fatalf("manifest has %d levels, want 2", len(decoded.Levels))
	}
	if decoded.Levels[0].File != "spiral.json" {
		t.Errorf("Levels[0].File = %q, want %q", decoded.Levels[0].File, "spiral.json")
	}
	if decoded.Levels[0].Checksum != "c1" {
		t.Errorf("Levels[0].Checksum = %q, want %q", decoded.Levels[0].Checksum, "c1")
	}
}

func TestWritePack_NameCollision(t *testing.T) {
	levels := sampleLevels()
	levels[1].Name = "spiral"

	var buf bytes.Buffer
	manifest, err := WritePack(&buf, "v1", levels)
	if err != nil {
		t.Fatalf("WritePack: %v", err)
	}

	if manifest.Levels[0].File != "spiral.json" {
		t.Errorf("Levels[0].File = %q, want %q", manifest.Levels[0].File, "spiral.json")
	}
	if manifest.Levels[1].File != "spiral-lvl-bbb22.json" {
		t.Errorf("Levels[1].File = %q, want %q", manifest.Levels[1].File, "spiral-lvl-bbb22.json")
	}
}

func TestWritePack_Empty(t *testing.T) {
	var buf bytes.Buffer
	_, err := WritePack(&buf, "v1", nil)
	if err == nil {
		t.Fatal("expected error for empty pack")
	}
	if !strings.Contains(err.Error(), "publish: no levels to pack") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "publish: no levels to pack")
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"spiral", "spiral"},
		{"my maze", "my-maze"},
		{"a/b\\c", "a-b-c"},
		{"Level_42", "Level_42"},
		{"...", "level"},
		{"", "level"},
		{"--edge--", "edge"},
	}
	for _, tt := range tests {
		if got := sanitizeName(tt.in); got != tt.want {
			t.Errorf("sanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// mockReleaseClient simulates the GitHub release API.
type mockReleaseClient struct {
	existing  *github.RepositoryRelease
	getErr    error
	createErr error
	uploadErr error

	created      *github.RepositoryRelease
	uploadedID   int64
	uploadedName string
}

func notFoundResp() *github.Response {
	return &github.Response{Response: &http.Response{StatusCode: http.StatusNotFound}}
}

func okResp() *github.Response {
	return &github.Response{Response: &http.Response{StatusCode: http.StatusOK}}
}

func (m *mockReleaseClient) GetReleaseByTag(_ context.Context, _, _, tag string) (*github.RepositoryRelease, *github.Response, error) {
	if m.getErr != nil {
		return nil, okResp(), m.getErr
	}
	if m.existing != nil {
		return m.existing, okResp(), nil
	}
	return nil, notFoundResp(), errors.New("not found")
}

func (m *mockReleaseClient) CreateRelease(_ context.Context, _, _ string, release *github.RepositoryRelease) (*github.RepositoryRelease, *github.Response, error) {
	if m.createErr != nil {
		return nil, nil, m.createErr
	}
	m.created = release
	return &github.RepositoryRelease{
		ID:      github.Int64(42),
		TagName: release.TagName,
	}, okResp(), nil
}

func (m *mockReleaseClient) UploadReleaseAsset(_ context.Context, _, _ string, id int64, opts *github.UploadOptions, _ *os.File) (*github.ReleaseAsset, *github.Response, error) {
	if m.uploadErr != nil {
		return nil, nil, m.uploadErr
	}
	m.uploadedID = id
	m.uploadedName = opts.Name
	return &github.ReleaseAsset{
		BrowserDownloadURL: github.String("https://example.com/" + opts.Name),
	}, okResp(), nil
}

// writeTempPack writes a pack zip to a temp file and returns its path.
func writeTempPack(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "levels-v1.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := WritePack(f, "v1", sampleLevels()); err != nil {
		t.Fatalf("WritePack: %v", err)
	}
	return path
}

func TestNew_MissingOwnerRepo(t *testing.T) {
	_, err := New(context.Background(), Opts{Owner: "alice"})
	if err == nil {
		t.Fatal("expected error for missing repo")
	}
	if !strings.Contains(err.Error(), "publish: owner and repo are required") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "publish: owner and repo are required")
	}
}

func TestNew_MissingToken(t *testing.T) {
	_, err := New(context.Background(), Opts{Owner: "alice", Repo: "maze-levels"})
	if err == nil {
		t.Fatal("expected error for missing token")
	}
	if !strings.Contains(err.Error(), "publish: github token is required") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "publish: github token is required")
	}
}

func TestNew_WithToken(t *testing.T) {
	p, err := New(context.Background(), Opts{Owner: "alice", Repo: "maze-levels", Token: "ghp_test"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.repos == nil {
		t.Error("repos client not set")
	}
}

func TestRelease_CreatesWhenMissing(t *testing.T) {
	mock := &mockReleaseClient{}
	p, err := New(context.Background(), Opts{Owner: "alice", Repo: "maze-levels", Client: mock})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	url, err := p.Release(context.Background(), "v1", writeTempPack(t))
	if err != nil {
		t.Fatalf("Release: %v", err)
	}

	if mock.created == nil {
		t.Fatal("CreateRelease not called")
	}
	if mock.created.GetTagName() != "v1" {
		t.Errorf("created tag = %q, want %q", mock.created.GetTagName(), "v1")
	}
	if mock.uploadedID != 42 {
		t.Errorf("uploaded release ID = %d, want 42", mock.uploadedID)
	}
	if mock.uploadedName != "levels-v1.zip" {
		t.Errorf("uploaded name = %q, want %q", mock.uploadedName, "levels-v1.zip")
	}
	if url != "https://example.com/levels-v1.zip" {
		t.Errorf("url = %q, want %q", url, "https://example.com/levels-v1.zip")
	}
}

func TestRelease_ReusesExisting(t *testing.T) {
	mock := &mockReleaseClient{
		existing: &github.RepositoryRelease{ID: github.Int64(7), TagName: github.String("v1")},
	}
	p, err := New(context.Background(), Opts{Owner: "alice", Repo: "maze-levels", Client: mock})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := p.Release(context.Background(), "v1", writeTempPack(t)); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if mock.created != nil {
		t.Error("CreateRelease called despite existing release")
	}
	if mock.uploadedID != 7 {
		t.Errorf("uploaded release ID = %d, want 7", mock.uploadedID)
	}
}

func TestRelease_GetError(t *testing.T) {
	mock := &mockReleaseClient{getErr: errors.New("boom")}
	p, err := New(context.Background(), Opts{Owner: "alice", Repo: "maze-levels", Client: mock})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = p.Release(context.Background(), "v1", writeTempPack(t))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "publish: get release v1") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "publish: get release v1")
	}
}

func TestRelease_CreateError(t *testing.T) {
	mock := &mockReleaseClient{createErr: errors.New("boom")}
	p, err := New(context.Background(), Opts{Owner: "alice", Repo: "maze-levels", Client: mock})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = p.Release(context.Background(), "v1", writeTempPack(t))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "publish: create release v1") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "publish: create release v1")
	}
}

func TestRelease_UploadError(t *testing.T) {
	mock := &mockReleaseClient{uploadErr: errors.New("boom")}
	p, err := New(context.Background(), Opts{Owner: "alice", Repo: "maze-levels", Client: mock})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = p.Release(context.Background(), "v1", writeTempPack(t))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "publish: upload asset to v1") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "publish: upload asset to v1")
	}
}

func TestRelease_MissingPackFile(t *testing.T) {
	mock := &mockReleaseClient{existing: &github.RepositoryRelease{ID: github.Int64(7)}}
	p, err := New(context.Background(), Opts{Owner: "alice", Repo: "maze-levels", Client: mock})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = p.Release(context.Background(), "v1", "/nonexistent/pack.zip")
	if err == nil {
		t.Fatal("expected error for missing pack file")
	}
	if !strings.Contains(err.Error(), "publish: open pack") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "publish: open pack")
	}
}
