package handlers

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"

	"ngoadmin/internal/files"
)

// parseMultipart reads a multipart or urlencoded body within the upload
// limit and returns its values.
func (h *Handler) parseMultipart(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload)
	if err := r.ParseMultipartForm(h.MaxUpload); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, badRequest{msg: "حجم الملف يتجاوز الحد المسموح"}
			}
			return nil, badRequest{msg: MsgInvalidInput}
		}
		if err := r.ParseForm(); err != nil {
			return nil, badRequest{msg: MsgInvalidInput}
		}
		return r.PostForm, nil
	}
	return r.MultipartForm.Value, nil
}

// saveUpload stores the file sent under field. It returns nil when the
// request carries none.
func (h *Handler) saveUpload(r *http.Request, field string) (*files.StoredFile, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, nil
	}
	fh := r.MultipartForm.File[field][0]
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	stored, err := h.Files.Save(r.Context(), fh.Filename, f)
	if err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	return stored, nil
}

func setAttachment(stored *files.StoredFile, name, path **string) {
	if stored == nil {
		return
	}
	*name, *path = &stored.Name, &stored.Path
}

// discard removes a stored upload whose record could not be saved.
func (h *Handler) discard(stored *files.StoredFile) {
	if stored == nil {
		return
	}
	h.removeFile(&stored.Path)
}

func (h *Handler) removeFile(path *string) {
	if path == nil || *path == "" {
		return
	}
	if err := h.Files.Remove(*path); err != nil {
		slog.Warn("failed to remove attachment", "path", *path, "error", err)
	}
}

// serveFile streams a stored attachment as a download named name.
func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, name, path *string) {
	if path == nil || *path == "" {
		writeError(w, http.StatusNotFound, "لا يوجد ملف مرفق")
		return
	}
	f, modTime, err := h.Files.Open(*path)
	if err != nil {
		if errors.Is(err, files.ErrInvalidPath) || isNotExist(err) {
			writeError(w, http.StatusNotFound, "لا يوجد ملف مرفق")
			return
		}
		handleError(w, r, err)
		return
	}
	defer f.Close()

	filename := filepath.Base(*path)
	if name != nil && *name != "" {
		filename = *name
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
	http.ServeContent(w, r, filename, modTime, f)
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
