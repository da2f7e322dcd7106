package inventory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/magazyn/magazyn/internal/domain"
)

// CheckImage valida tamaño y contenido de un archivo. El tamaño se comprueba antes de leer bytes;
// el MIME se detecta por contenido, no por la cabecera declarada.
func CheckImage(size int64, head []byte, maxBytes int64) (string, error) {
	if size > maxBytes {
		return "", domain.ErrImageTooLarge
	}
	mt := mimetype.Detect(head)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", domain.ErrImageNotImage
	}
	return mt.String(), nil
}

// ImageErrorMessage mensaje para el usuario de un rechazo de CheckImage.
func ImageErrorMessage(err error, maxBytes int64) string {
	switch {
	case errors.Is(err, domain.ErrImageTooLarge):
		return fmt.Sprintf("file is too large (max %dMB)", maxBytes>>20)
	case errors.Is(err, domain.ErrImageNotImage):
		return "only image files can be uploaded"
	default:
		return "invalid image"
	}
}
