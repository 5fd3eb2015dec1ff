package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetch_ParsesPage(t *testing.T) {
	page := `<!DOCTYPE html><html><head>
<title> Go &amp; the  gopher </title>
<meta name="description" content="The Go programming language">
<meta property="og:image" content="https://go.dev/og.png">
</head><body></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	res, err := NewHTTPFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Title != "Go & the gopher" {
		t.Fatalf("unexpected title: %q", res.Title)
	}
	if res.Description != "The Go programming language" {
		t.Fatalf("unexpected description: %q", res.Description)
	}
	if res.Thumbnail != "https://go.dev/og.png" {
		t.Fatalf("unexpected thumbnail: %q", res.Thumbnail)
	}
	if res.Favicon != srv.URL+"/favicon.ico" {
		t.Fatalf("unexpected favicon: %q", res.Favicon)
	}
}

func TestFetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := NewHTTPFetcher().Fetch(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected error for 404")
	}
}

func TestFetch_InvalidURL(t *testing.T) {
	if _, err := NewHTTPFetcher().Fetch(context.Background(), "not a url"); err == nil {
		t.Fatalf("expected error for invalid url")
	}
}

func TestFetch_MissingMeta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>no head</body></html>"))
	}))
	defer srv.Close()

	res, err := NewHTTPFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Title != "" || res.Description != "" {
		t.Fatalf("expected empty metadata, got %+v", res)
	}
}
