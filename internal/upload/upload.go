package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotImage = errors.New("only jpeg, jpg, png and gif images are allowed")
	ErrTooLarge = errors.New("file exceeds the maximum allowed size")
)

// allowed extensions and the sniffed content types they may carry
var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// Saver validates uploaded images and writes them to the content directory
type Saver struct {
	dir      string
	maxBytes int64
}

// NewSaver creates a Saver writing to dir with the given size cap in
// megabytes. The directory is created if missing.
func NewSaver(dir string, maxMB int) (*Saver, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &Saver{
		dir:      dir,
		maxBytes: int64(maxMB) << 20,
	}, nil
}

// Save validates the uploaded file and writes it to the content directory
// under a generated collision-resistant name. Validation happens entirely
// before the first byte is written to disk. Only the generated filename is
// returned, never a path.
func (s *Saver) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.maxBytes {
		return "", ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return "", ErrNotImage
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// Sniff the actual content, the declared type is client-controlled
	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !allowedContentTypes[contentType] {
		return "", ErrNotImage
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), ext)

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := dst.Write(head); err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return name, nil
}

// Remove deletes a previously saved file from the content directory.
// An empty name is a no-op; the name is reduced to its base so a stored
// filename can never escape the directory.
func (s *Saver) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir returns the content directory the saver writes to
func (s *Saver) Dir() string {
	return s.dir
}
