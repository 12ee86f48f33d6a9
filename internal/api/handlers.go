package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/tsawler/pdfoutline"
	"github.com/tsawler/pdfoutline/internal/render"
	"github.com/tsawler/pdfoutline/model"
)

var errTooLarge = errors.New("upload too large")

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.document(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("format") == "html" {
		out, err := render.OutlineHTML(doc.Tree())
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeHTML(w, out)
		return
	}
	writeJSON(w, http.StatusOK, doc.Tree())
}

func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	id, ok := sectionParam(w, r)
	if !ok {
		return
	}
	doc, ok := s.document(w, r)
	if !ok {
		return
	}

	content, err := doc.ReadSection(id)
	if err != nil {
		s.fail(w, err)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		out, err := render.MarkdownToHTML(content.Text)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeHTML(w, out)
		return
	}
	writeJSON(w, http.StatusOK, content)
}

func (s *Server) handlePeek(w http.ResponseWriter, r *http.Request) {
	id, ok := sectionParam(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	position := model.PositionBeginning
	if v := q.Get("position"); v != "" {
		p, err := model.ParsePosition(v)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		position = p
	}

	limit := pdfoutline.DefaultPeekLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, fmt.Sprintf("invalid limit %q", v), http.StatusBadRequest)
			return
		}
		limit = n
	}

	doc, ok := s.document(w, r)
	if !ok {
		return
	}
	peek, err := doc.PeekSection(id, position, limit)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, peek)
}

func (s *Server) handleImages(w http.ResponseWriter, r *http.Request) {
	id, ok := sectionParam(w, r)
	if !ok {
		return
	}
	doc, ok := s.document(w, r)
	if !ok {
		return
	}

	refs, err := doc.ListSectionImages(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	if refs == nil {
		refs = []model.EnrichedImageRef{}
	}
	writeJSON(w, http.StatusOK, refs)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	imageID := r.URL.Query().Get("id")
	if imageID == "" {
		jsonError(w, "id is required", http.StatusBadRequest)
		return
	}
	doc, ok := s.document(w, r)
	if !ok {
		return
	}

	img, err := doc.GetImage(imageID)
	if err != nil {
		s.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", img.Format.MIMEType())
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("inline", map[string]string{"filename": imageID + "." + img.Format.Extension()}))
	w.Header().Set("X-Image-Format", string(img.Format))
	w.WriteHeader(http.StatusOK)
	w.Write(img.Data)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.document(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, doc.Info())
}

// document reads the uploaded PDF and returns its parsed form, writing the
// error response itself when that fails
func (s *Server) document(w http.ResponseWriter, r *http.Request) (*pdfoutline.Document, bool) {
	data, err := s.readUpload(w, r)
	if errors.Is(err, errTooLarge) {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return nil, false
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	doc, err := s.docs.Get(data)
	if err != nil {
		s.fail(w, err)
		return nil, false
	}
	return doc, true
}

// readUpload accepts either a multipart form with a "file" part or the raw
// PDF as the request body
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	limit := s.cfg.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit+1024*1024) // extra 1MB for form overhead

	var body io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return nil, fmt.Errorf("invalid multipart form: %w", err)
		}
		defer r.MultipartForm.RemoveAll()

		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("file is required: %w", err)
		}
		defer file.Close()
		body = file
	}

	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errTooLarge
		}
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, errTooLarge
	}
	if len(data) == 0 {
		return nil, errors.New("empty upload")
	}
	return data, nil
}

// sectionParam parses the optional section query parameter. An absent
// parameter means the whole document.
func sectionParam(w http.ResponseWriter, r *http.Request) (*model.SectionID, bool) {
	v := r.URL.Query().Get("section")
	if v == "" {
		return nil, true
	}
	id, err := model.ParseSectionID(v)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return &id, true
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"kind":  pdfoutline.KindOf(err).String(),
	})
}

func statusFor(err error) int {
	switch pdfoutline.KindOf(err) {
	case pdfoutline.KindSectionNotFound, pdfoutline.KindImageNotFound:
		return http.StatusNotFound
	case pdfoutline.KindParse:
		return http.StatusUnprocessableEntity
	case pdfoutline.KindEncrypted:
		return http.StatusLocked
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, body)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
