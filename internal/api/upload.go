package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/starford/pactum/internal/apperr"
)

const maxUploadBytes = 50 << 20 // 50 MB

// UploadDocument handles POST /api/documents (multipart/form-data, field
// "file"). An optional "path" field places the document in a library
// subdirectory.
//
//	@Summary		Upload, parse and index a document
//	@Tags			documents
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"PDF or text document"
//	@Param			path	formData	string	false	"Library path (defaults to the file name)"
//	@Success		201		{object}	DocumentDetail
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Failure		415		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents [post]
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	name := strings.TrimSpace(r.FormValue("path"))
	if name == "" {
		name = path.Base(strings.ReplaceAll(header.Filename, "\\", "/"))
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
		return
	}

	d, err := h.svc.Ingest(r.Context(), name, data)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrAlreadyExists):
			writeJSON(w, http.StatusConflict, errorBody("document already exists"))
		case errors.Is(err, apperr.ErrUnsupported):
			writeJSON(w, http.StatusUnsupportedMediaType, errorBody("only .pdf and .txt documents are supported"))
		default:
			slog.Error("upload document failed", slog.String("path", name), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, d)
}
