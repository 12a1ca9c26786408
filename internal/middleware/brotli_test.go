package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

func brotliEngine(body string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(BrotliWithConfig(BrotliConfig{MinLength: 64, SkipPaths: []string{"/skip"}}))
	handler := func(c *gin.Context) { c.String(http.StatusOK, body) }
	r.GET("/body", handler)
	r.GET("/skip", handler)
	return r
}

func TestBrotliCompressesLargeBodies(t *testing.T) {
	body := strings.Repeat("closing rank ", 100)
	r := brotliEngine(body)

	req := httptest.NewRequest(http.MethodGet, "/body", nil)
	req.Header.Set("Accept-Encoding", "gzip, br;q=1.0")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Content-Encoding"); got != "br" {
		t.Fatalf("expected br encoding, got %q", got)
	}
	decoded, err := io.ReadAll(brotli.NewReader(w.Body))
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if string(decoded) != body {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(decoded), len(body))
	}
}

func TestBrotliLeavesSmallBodiesAlone(t *testing.T) {
	r := brotliEngine("tiny")

	req := httptest.NewRequest(http.MethodGet, "/body", nil)
	req.Header.Set("Accept-Encoding", "br")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Content-Encoding"); got != "" {
		t.Fatalf("expected no encoding, got %q", got)
	}
	if w.Body.String() != "tiny" {
		t.Fatalf("expected plain body, got %q", w.Body.String())
	}
}

func TestBrotliSkipsPathsAndNonAcceptingClients(t *testing.T) {
	body := strings.Repeat("x", 500)
	r := brotliEngine(body)

	for _, tc := range []struct{ path, accept string }{
		{"/skip", "br"},
		{"/body", "gzip"},
		{"/body", ""},
	} {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.accept != "" {
			req.Header.Set("Accept-Encoding", tc.accept)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if got := w.Header().Get("Content-Encoding"); got != "" {
			t.Fatalf("%s with %q: expected no encoding, got %q", tc.path, tc.accept, got)
		}
		if w.Body.String() != body {
			t.Fatalf("%s with %q: body altered", tc.path, tc.accept)
		}
	}
}

func TestAcceptsBrotli(t *testing.T) {
	tests := map[string]bool{
		"br":                true,
		"gzip, deflate, br": true,
		"BR;q=0.5":          true,
		"gzip":              false,
		"":                  false,
		"brotli":            false,
	}
	for header, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Encoding", header)
		if got := acceptsBrotli(req); got != want {
			t.Fatalf("acceptsBrotli(%q) = %v, want %v", header, got, want)
		}
	}
}

func TestBrotliWriterIsCreatedOnlyWhenCompressing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	bw := &brotliWriter{ResponseWriter: c.Writer, minLength: 64, quality: brotli.DefaultCompression}
	if _, err := bw.WriteString("short"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := bw.finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if bw.writer != nil {
		t.Fatal("expected no brotli writer for a short body")
	}
	if w.Body.String() != "short" {
		t.Fatalf("expected plain body, got %q", w.Body.String())
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	bw = &brotliWriter{ResponseWriter: c.Writer, minLength: 64, quality: brotli.DefaultCompression}
	if _, err := bw.WriteString(strings.Repeat("a", 100)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if bw.writer == nil {
		t.Fatal("expected a brotli writer once the body is long enough")
	}
	if err := bw.finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
}

func TestBrotliRestoresWriter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var inner, outer gin.ResponseWriter
	r.Use(func(c *gin.Context) {
		outer = c.Writer
		c.Next()
		if c.Writer != outer {
			t.Errorf("writer not restored after brotli middleware")
		}
	})
	r.Use(BrotliWithConfig(BrotliConfig{MinLength: 64}))
	r.GET("/", func(c *gin.Context) {
		inner = c.Writer
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "br")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if inner == outer {
		t.Fatal("expected the handler to write through the brotli writer")
	}
}
