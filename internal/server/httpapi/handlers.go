package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/dmitrijs2005/photodiary/internal/common"
	"github.com/dmitrijs2005/photodiary/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// multipartOverhead is headroom for form fields and part headers on top of
// the image itself.
const multipartOverhead = 1 << 20

type saveEntryRequest struct {
	Content string `json:"content"`
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	if h.opts.Ready != nil {
		if err := h.opts.Ready(r.Context()); err != nil {
			h.logger.Warn(r.Context(), "readiness check failed", "error", err)
			writeError(w, r, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (h *handlers) getDay(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	day, err := h.diary.GetDay(r.Context(), userID, chi.URLParam(r, "date"))
	if err != nil {
		h.writeServiceError(w, r, "get day", err)
		return
	}
	render.JSON(w, r, day)
}

func (h *handlers) saveEntry(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req saveEntryRequest
	if err := render.DecodeJSON(http.MaxBytesReader(w, r.Body, multipartOverhead), &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	entry, err := h.diary.SaveEntry(r.Context(), userID, chi.URLParam(r, "date"), req.Content)
	if err != nil {
		h.writeServiceError(w, r, "save entry", err)
		return
	}
	render.JSON(w, r, entry)
}

// uploadImage reads a multipart form with an "image" file part and "date"
// and optional "caption" fields.
func (h *handlers) uploadImage(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	limit := h.opts.MaxUploadBytes
	if limit <= 0 {
		limit = 16 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeServiceError(w, r, "upload image", common.ErrFileTooLarge)
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		h.writeServiceError(w, r, "upload image", common.ErrEmptyFile)
		return
	}
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid image part")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		h.writeServiceError(w, r, "upload image", err)
		return
	}

	p, err := h.diary.UploadImage(r.Context(), userID, r.FormValue("date"), data, header.Filename, r.FormValue("caption"))
	if err != nil {
		h.writeServiceError(w, r, "upload image", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, p)
}

func (h *handlers) moveImage(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var patch models.PlacementPatch
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, multipartOverhead))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.diary.MoveImage(r.Context(), userID, chi.URLParam(r, "filename"), patch); err != nil {
		h.writeServiceError(w, r, "move image", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) removeImage(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	if err := h.diary.RemoveImage(r.Context(), userID, chi.URLParam(r, "filename")); err != nil {
		h.writeServiceError(w, r, "remove image", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) openImage(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	filename := chi.URLParam(r, "filename")

	rc, _, err := h.diary.OpenImage(r.Context(), userID, filename)
	if err != nil {
		h.writeServiceError(w, r, "open image", err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", imageContentType(filename))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn(r.Context(), "image stream interrupted", "filename", filename, "error", err)
	}
}

// imageContentType maps a stored name to a raster image type. Anything else,
// SVG included, is served as opaque bytes.
func imageContentType(filename string) string {
	ct, _, _ := strings.Cut(mime.TypeByExtension(strings.ToLower(path.Ext(filename))), ";")
	if !strings.HasPrefix(ct, "image/") || ct == "image/svg+xml" {
		return "application/octet-stream"
	}
	return ct
}
