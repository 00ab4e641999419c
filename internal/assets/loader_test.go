package assets

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// wait polls until n results arrived or the deadline passes
func wait(t *testing.T, l *Loader, n int) map[string]Result {
	t.Helper()
	got := make(map[string]Result)
	deadline := time.Now().Add(5 * time.Second)
	for len(got) < n && time.Now().Before(deadline) {
		l.Poll(func(r Result) { got[r.Ref] = r })
		time.Sleep(5 * time.Millisecond)
	}
	if len(got) < n {
		t.Fatalf("Expected %d results, got %d", n, len(got))
	}
	return got
}

func TestLoadsRelativeAndAbsoluteURLs(t *testing.T) {
	sprite := pngBytes(t, 32, 48)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/avatars/fox.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(sprite)
	}))
	defer srv.Close()

	l, err := NewLoader(srv.URL+"/", 2, time.Second, zap.NewNop())
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	defer l.Close()

	l.Load("avatars/fox.png")
	l.Load(srv.URL + "/avatars/fox.png")
	l.Load("avatars/missing.png")
	got := wait(t, l, 3)

	for _, ref := range []string{"avatars/fox.png", srv.URL + "/avatars/fox.png"} {
		r := got[ref]
		if r.Err != nil {
			t.Errorf("%s: unexpected error %v", ref, r.Err)
			continue
		}
		if b := r.Image.Bounds(); b.Dx() != 32 || b.Dy() != 48 {
			t.Errorf("%s: expected 32x48, got %dx%d", ref, b.Dx(), b.Dy())
		}
		if r.Bytes != len(sprite) {
			t.Errorf("%s: expected %d bytes, got %d", ref, len(sprite), r.Bytes)
		}
	}
	if got["avatars/missing.png"].Err == nil {
		t.Error("Expected 404 to be reported as an error")
	}
}

func TestLoadsDataURI(t *testing.T) {
	l, err := NewLoader("", 1, time.Second, nil)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	defer l.Close()

	ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 4, 4))
	l.Load(ref)
	r := wait(t, l, 1)[ref]

	if r.Err != nil {
		t.Fatalf("Unexpected error: %v", r.Err)
	}
	if r.Image.Bounds().Dx() != 4 {
		t.Errorf("Expected width 4, got %d", r.Image.Bounds().Dx())
	}
}

func TestLoadsFilePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.png")
	if err := os.WriteFile(path, pngBytes(t, 8, 8), 0o644); err != nil {
		t.Fatal(err)
	}

	l, err := NewLoader("", 1, time.Second, nil)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	defer l.Close()

	l.Load(path)
	r := wait(t, l, 1)[path]
	if r.Err != nil {
		t.Fatalf("Unexpected error: %v", r.Err)
	}
}

func TestRejectsBadRefs(t *testing.T) {
	l, err := NewLoader("", 1, time.Second, nil)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	defer l.Close()

	l.Load("ftp://example.com/a.png")
	l.Load("data:image/png;base64")
	l.Load("data:text/plain,hello")
	got := wait(t, l, 3)

	if !errors.Is(got["ftp://example.com/a.png"].Err, ErrUnsupportedRef) {
		t.Errorf("Expected ErrUnsupportedRef, got %v", got["ftp://example.com/a.png"].Err)
	}
	if !errors.Is(got["data:image/png;base64"].Err, ErrUnsupportedRef) {
		t.Errorf("Expected ErrUnsupportedRef, got %v", got["data:image/png;base64"].Err)
	}
	if got["data:text/plain,hello"].Err == nil {
		t.Error("Expected decode error for non-image payload")
	}
}

func TestPollWithoutResultsDoesNotBlock(t *testing.T) {
	l, err := NewLoader("", 1, time.Second, nil)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	defer l.Close()

	if n := l.Poll(func(Result) { t.Error("Expected no results") }); n != 0 {
		t.Errorf("Expected 0, got %d", n)
	}
}
