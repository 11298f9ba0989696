package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/mail"
	"os"
	"path/filepath"

	"github.com/kurochkinivan/bulk_uploader/internal/domain"
)

// multipart parts beyond this size are spooled to disk by net/http.
const maxMemory = 8 << 20

type FileEnqueuer interface {
	EnqueueFile(ctx context.Context, path, owner string) (*domain.IngestionJob, error)
}

type UploadsHandler struct {
	log       *slog.Logger
	uploadDir string
	maxBytes  int64
	enqueuer  FileEnqueuer
}

func NewUploadsHandler(log *slog.Logger, uploadDir string, maxBytes int64, enqueuer FileEnqueuer) *UploadsHandler {
	return &UploadsHandler{
		log:       log,
		uploadDir: uploadDir,
		maxBytes:  maxBytes,
		enqueuer:  enqueuer,
	}
}

type UploadResponse struct {
	Queued    bool   `json:"queued"`
	TrackerID string `json:"trackerId"`
}

func (h *UploadsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File not received")
		return
	}
	defer file.Close()

	email := r.FormValue("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email")
		return
	}

	path, err := h.stage(file)
	if err != nil {
		internalError(w, r, h.log, "failed to stage upload", err)
		return
	}

	h.log.InfoContext(r.Context(), "upload staged",
		slog.String("owner", email),
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size),
		slog.String("path", path),
	)

	job, err := h.enqueuer.EnqueueFile(r.Context(), path, email)
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			h.log.WarnContext(r.Context(), "failed to remove staged upload", slog.String("err", rmErr.Error()))
		}
		h.log.ErrorContext(r.Context(), "failed to enqueue upload", slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, "Queue failed")
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Queued:    true,
		TrackerID: job.ID,
	})
}

// stage copies the upload into the upload directory under a fresh name. The
// client-supplied filename is never used as a path.
func (h *UploadsHandler) stage(src io.Reader) (path string, err error) {
	dst, err := os.CreateTemp(h.uploadDir, "upload-*.csv")
	if err != nil {
		return "", fmt.Errorf("failed to create staging file: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close staging file: %w", closeErr)
		}
		if err != nil {
			os.Remove(dst.Name())
		}
	}()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write staging file: %w", err)
	}

	return filepath.Abs(dst.Name())
}
