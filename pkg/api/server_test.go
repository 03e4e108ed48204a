package api

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealthCheck(t *testing.T) {
	r := gin.New()
	r.GET("/health", healthCheck)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" || body["service"] != "hero2saber" {
		t.Errorf("body = %v", body)
	}
}

func TestListTiers(t *testing.T) {
	r := gin.New()
	r.GET("/api/v1/tiers", listTiers)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tiers", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Tiers []string `json:"tiers"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	want := []string{"Easy", "Normal", "Hard", "Expert", "ExpertPlus"}
	if len(body.Tiers) != len(want) {
		t.Fatalf("tiers = %v, want %v", body.Tiers, want)
	}
	for i := range want {
		if body.Tiers[i] != want[i] {
			t.Errorf("tiers[%d] = %q, want %q", i, body.Tiers[i], want[i])
		}
	}
}

func TestListLayout(t *testing.T) {
	r := gin.New()
	r.GET("/api/v1/layout", listLayout)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/layout", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Layout map[string]any `json:"layout"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if _, ok := body.Layout["60"]; !ok {
		t.Errorf("layout missing guitar note 60: %v", body.Layout)
	}
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(corsMiddleware())
	r.GET("/health", healthCheck)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q, want *", got)
	}
}

func TestZipDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "info.dat"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "extra.dat"), []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}

	data, err := zipDir(dir)
	if err != nil {
		t.Fatalf("zipDir() error: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a valid zip: %v", err)
	}

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	if !names["info.dat"] || !names["sub/extra.dat"] {
		t.Errorf("zip entries = %v", names)
	}
}
