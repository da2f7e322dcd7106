package memory

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/magazyn/magazyn/internal/domain"
	"github.com/magazyn/magazyn/internal/domain/repository"
)

var _ repository.ImageStore = (*ImageStore)(nil)

type storedImage struct {
	contentType string
	data        []byte
}

// ImageStore imágenes en memoria; sin URLs públicas (se sirven por la API).
type ImageStore struct {
	mu     sync.RWMutex
	images map[string]storedImage
}

// NewImageStore construye el store.
func NewImageStore() *ImageStore {
	return &ImageStore{images: make(map[string]storedImage)}
}

// Put guarda una copia de los bytes.
func (s *ImageStore) Put(_ context.Context, _ string, contentType string, data []byte) (string, error) {
	key := uuid.New().String()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.mu.Lock()
	s.images[key] = storedImage{contentType: contentType, data: cp}
	s.mu.Unlock()
	return key, nil
}

// Get abre la imagen.
func (s *ImageStore) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	s.mu.RLock()
	img, ok := s.images[key]
	s.mu.RUnlock()
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(img.data)), img.contentType, nil
}

// Delete es idempotente.
func (s *ImageStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.images, key)
	s.mu.Unlock()
	return nil
}

// URL vacío: las imágenes se sirven por /api/warehouse/items/:id/image.
func (s *ImageStore) URL(context.Context, string) (string, error) {
	return "", nil
}

// Len número de imágenes guardadas.
func (s *ImageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}
