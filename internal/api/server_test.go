package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tsawler/pdfoutline"
	"github.com/tsawler/pdfoutline/internal/cache"
	"github.com/tsawler/pdfoutline/internal/config"
	"github.com/tsawler/pdfoutline/internal/testpdf"
	"github.com/tsawler/pdfoutline/model"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.MaxUploadBytes = 64 * 1024
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	docs := cache.New(4, func(data []byte) (*pdfoutline.Document, error) {
		return pdfoutline.Open(data)
	})
	srv := httptest.NewServer(NewServer(docs, log, cfg))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path string, body []byte) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/pdf", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	decode(t, resp, &body)
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Errorf("health = %d %v", resp.StatusCode, body)
	}
}

func TestOutline(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv, "/v1/outline", testpdf.Build(testpdf.Sample()))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var tree model.DocumentTree
	decode(t, resp, &tree)
	if tree.Title != "User Guide" || len(tree.Sections) != 2 || len(tree.Index) != 3 {
		t.Errorf("tree = %+v", tree)
	}
	if tree.Index[1].ID != (model.SectionID{Depth: 2, Index: 1}) {
		t.Errorf("index[1] = %+v", tree.Index[1])
	}
}

func TestOutlineHTML(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv, "/v1/outline?format=html", testpdf.Build(testpdf.Sample()))
	body, _ := io.ReadAll(resp.Body)

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(string(body), `<a href="#s2-1">Installation</a>`) {
		t.Errorf("body = %s", body)
	}
}

func TestMultipartUpload(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "guide.pdf")
	if err != nil {
		t.Fatal(err)
	}
	part.Write(testpdf.Build(testpdf.Sample()))
	mw.Close()

	resp, err := http.Post(srv.URL+"/v1/info", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	var meta model.Metadata
	decode(t, resp, &meta)
	if resp.StatusCode != http.StatusOK || meta.PageCount != 2 || meta.Title != "User Guide" {
		t.Errorf("info = %d %+v", resp.StatusCode, meta)
	}
}

func TestReadAndPeek(t *testing.T) {
	srv := newTestServer(t)
	data := testpdf.Build(testpdf.Sample())

	resp := post(t, srv, "/v1/read?section=s2-1", data)
	var content model.SectionContent
	decode(t, resp, &content)
	if content.Title != "Installation" || content.Text != "Run the installer.\n\n[image: p1-Im1]" {
		t.Errorf("content = %+v", content)
	}

	resp = post(t, srv, "/v1/read?section=s2-1&format=html", data)
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "<p>Run the installer.</p>") {
		t.Errorf("html = %s", body)
	}

	resp = post(t, srv, "/v1/peek?section=s1-2&position=ending&limit=3", data)
	var peek model.PeekContent
	decode(t, resp, &peek)
	if peek.Snippet != "it." || peek.Position != model.PositionEnding || peek.TotalChars != 24 {
		t.Errorf("peek = %+v", peek)
	}
}

func TestImages(t *testing.T) {
	srv := newTestServer(t)
	data := testpdf.Build(testpdf.Sample())

	resp := post(t, srv, "/v1/images", data)
	var refs []model.EnrichedImageRef
	decode(t, resp, &refs)
	if len(refs) != 1 || refs[0].ID != "p1-Im1" || refs[0].SectionTitle != "Installation" {
		t.Errorf("refs = %+v", refs)
	}

	resp = post(t, srv, "/v1/images?section=s1-2", data)
	body, _ := io.ReadAll(resp.Body)
	if strings.TrimSpace(string(body)) != "[]" {
		t.Errorf("empty listing = %s", body)
	}

	resp = post(t, srv, "/v1/image?id=p1-Im1", data)
	img, _ := io.ReadAll(resp.Body)
	if resp.Header.Get("Content-Type") != "image/png" || !bytes.HasPrefix(img, []byte("\x89PNG")) {
		t.Errorf("image = %s, %d bytes", resp.Header.Get("Content-Type"), len(img))
	}
}

func TestErrorStatus(t *testing.T) {
	srv := newTestServer(t)
	data := testpdf.Build(testpdf.Sample())
	locked := testpdf.Sample()
	locked.Locked = true

	tests := []struct {
		name string
		path string
		body []byte
		want int
	}{
		{"garbage", "/v1/outline", []byte("not a pdf at all"), http.StatusUnprocessableEntity},
		{"locked", "/v1/outline", testpdf.Build(locked), http.StatusLocked},
		{"missing section", "/v1/read?section=s7-7", data, http.StatusNotFound},
		{"bad section", "/v1/read?section=seven", data, http.StatusBadRequest},
		{"bad position", "/v1/peek?position=sideways", data, http.StatusBadRequest},
		{"bad limit", "/v1/peek?limit=-1", data, http.StatusBadRequest},
		{"missing image", "/v1/image?id=p1-Im9", data, http.StatusNotFound},
		{"no image id", "/v1/image", data, http.StatusBadRequest},
		{"empty body", "/v1/info", nil, http.StatusBadRequest},
		{"too large", "/v1/info", bytes.Repeat([]byte("x"), 64*1024+1), http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, tt.path, tt.body)
			if resp.StatusCode != tt.want {
				body, _ := io.ReadAll(resp.Body)
				t.Errorf("status = %d, want %d (%s)", resp.StatusCode, tt.want, body)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{pdfoutline.ErrSectionNotFound, http.StatusNotFound},
		{pdfoutline.ErrImageNotFound, http.StatusNotFound},
		{pdfoutline.ErrParse, http.StatusUnprocessableEntity},
		{pdfoutline.ErrEncrypted, http.StatusLocked},
		{pdfoutline.ErrIO, http.StatusInternalServerError},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
