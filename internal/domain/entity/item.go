package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo del almacén.
// Quantity nunca es negativa; Code es único en el catálogo.
type Item struct {
	ID            int64
	Name          string
	Code          string
	Description   string
	Category      Category
	Quantity      int
	Unit          Unit
	PurchasePrice *decimal.Decimal // opcional
	SalePrice     *decimal.Decimal // opcional
	ImageKey      string           // clave en el image store; vacío = sin imagen
	ImageMime     string
	CreatedBy     int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasImage informa si el artículo tiene imagen asociada.
func (i *Item) HasImage() bool {
	return i.ImageKey != ""
}

// Image archivo de imagen ya validado, listo para persistir.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}
