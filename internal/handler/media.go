package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/msomdec/jobboard/internal/domain"
)

const (
	maxUploadSize = 6 * 1024 * 1024 // multipart envelope around a 5MB image
	sniffLen      = 512
)

// readImage extracts the uploaded file in field and sniffs its content type
// from the bytes rather than trusting the client.
func readImage(w http.ResponseWriter, r *http.Request, field string) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, domain.Invalid(field, "The file must not be greater than 5MB.")
		}
		return "", nil, domain.Invalid(field, "File not found.")
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile(field)
	if err != nil {
		return "", nil, domain.Invalid(field, "File not found.")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, domain.Invalid(field, "File not found.")
	}
	return http.DetectContentType(data), data, nil
}

// serveImage streams a stored image, sniffing the content type from its head.
func serveImage(w http.ResponseWriter, r *http.Request, rc io.ReadCloser) {
	defer rc.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(rc, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		writeServiceError(w, r, "read image", err)
		return
	}
	head = head[:n]

	w.Header().Set("Content-Type", http.DetectContentType(head))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(head); err != nil {
		return
	}
	if _, err := io.Copy(w, rc); err != nil {
		slog.WarnContext(r.Context(), "stream image", "error", err)
	}
}
