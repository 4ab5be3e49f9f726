package infra

// storage.go — Filesystem storage for recarga proof-of-payment uploads.
// Uploads are validated by size and sniffed MIME type before hitting disk;
// only JPEG, PNG and PDF are accepted.

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedComprobanteTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

// ComprobanteStore persists uploaded payment proofs.
type ComprobanteStore struct {
	dir     string
	maxSize int64
}

// NewComprobanteStore creates the backing directory if needed.
// maxMB caps the accepted upload size.
func NewComprobanteStore(dir string, maxMB int64) (*ComprobanteStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("storage: create dir: %w", err)
	}
	return &ComprobanteStore{dir: dir, maxSize: maxMB * 1024 * 1024}, nil
}

// Save validates and writes the uploaded comprobante, returning the stored
// path relative to the storage root.
func (s *ComprobanteStore) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.maxSize {
		return "", fmt.Errorf("el archivo supera el tamaño máximo de %d MB", s.maxSize/(1024*1024))
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("storage: open upload: %w", err)
	}
	defer f.Close()

	// Sniff the real content type — the client-provided header is not trusted.
	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("storage: read upload: %w", err)
	}
	contentType := http.DetectContentType(head[:n])
	// DetectContentType may append charset info
	contentType = strings.Split(contentType, ";")[0]

	ext, ok := allowedComprobanteTypes[contentType]
	if !ok {
		return "", fmt.Errorf("tipo de archivo no válido: use JPG, PNG o PDF")
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("storage: rewind upload: %w", err)
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, f); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return name, nil
}

// Path resolves a stored name back to an absolute path.
func (s *ComprobanteStore) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}
