package http

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pixelsinav/pixelsinav/internal/content"
	"github.com/pixelsinav/pixelsinav/internal/i18n"
	"github.com/pixelsinav/pixelsinav/internal/storage"
)

const maxUpload = 10 << 20

// uploadAsset stores the multipart "file" field and returns its FileRef.
func (s *Server) uploadAsset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	f, hdr, err := r.FormFile("file")
	if err != nil {
		fail(w, r, http.StatusBadRequest, i18n.BadRequest)
		return
	}
	defer f.Close()

	key, err := s.Blobs.Put(storage.NewKey("assets", hdr.Filename), f)
	if err != nil {
		failRaw(w, http.StatusInternalServerError, "store error: "+err.Error())
		return
	}
	ref := content.FileRef{Name: hdr.Filename, Key: key, Size: hdr.Size}
	if u, err := s.Blobs.URL(key); err == nil {
		ref.URL = u
	}
	ok(w, r, http.StatusCreated, i18n.UploadSuccess, ref)
}

// serveFile returns the blob at whatever follows /files/.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	rc, err := s.Blobs.Get(key)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	defer rc.Close()
	ct := mime.TypeByExtension(filepath.Ext(key))
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	_, _ = io.Copy(w, rc)
}
