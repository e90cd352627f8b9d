package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrForeignKey      = errors.New("object key not managed by image store")
)

const imageKeyPrefix = "artworks/"

// allowedImageTypes maps accepted MIME types to file extensions.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type StoredImage struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// ImageStore validates uploaded artwork images and writes them to an
// ObjectStorage backend.
type ImageStore struct {
	backend ObjectStorage
	maxSize int64
	now     func() time.Time
}

func NewImageStore(backend ObjectStorage, maxSize int64) *ImageStore {
	return &ImageStore{backend: backend, maxSize: maxSize, now: time.Now}
}

// Save sniffs the content type from the first 512 bytes and stores the
// image under artworks/YYYY/MM/DD/<uuid><ext>.
func (s *ImageStore) Save(ctx context.Context, r io.Reader, size int64) (*StoredImage, error) {
	if size == 0 {
		return nil, ErrEmptyFile
	}
	if s.maxSize > 0 && size > s.maxSize {
		return nil, ErrFileTooLarge
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return nil, ErrEmptyFile
	}
	head = head[:n]

	contentType := strings.Split(http.DetectContentType(head), ";")[0]
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, ErrUnsupportedType
	}

	now := s.now().UTC()
	key := fmt.Sprintf("%s%d/%02d/%02d/%s%s", imageKeyPrefix, now.Year(), now.Month(), now.Day(), uuid.NewString(), ext)

	body := io.MultiReader(bytes.NewReader(head), r)
	if err := s.backend.Put(ctx, key, body, size, contentType); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	return &StoredImage{
		Key:         key,
		URL:         s.backend.URL(key),
		ContentType: contentType,
		Size:        size,
	}, nil
}

// Remove deletes an image by the key Save returned. Only keys under the
// artworks/ prefix are accepted.
func (s *ImageStore) Remove(ctx context.Context, key string) error {
	if !strings.HasPrefix(key, imageKeyPrefix) {
		return fmt.Errorf("%w: %q", ErrForeignKey, key)
	}
	return s.backend.Delete(ctx, key)
}
