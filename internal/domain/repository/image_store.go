package repository

import (
	"context"
	"io"
)

// ImageStore puerto de almacenamiento de imágenes de artículos.
type ImageStore interface {
	// Put guarda los bytes y devuelve la clave asignada.
	Put(ctx context.Context, filename, contentType string, data []byte) (key string, err error)
	// Get abre la imagen; el caller cierra el reader. domain.ErrNotFound si no existe.
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	// Delete es idempotente.
	Delete(ctx context.Context, key string) error
	// URL devuelve una URL pública o firmada, o vacío si el store no expone URLs.
	URL(ctx context.Context, key string) (string, error)
}
