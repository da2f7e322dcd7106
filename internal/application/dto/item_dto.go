package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/magazyn/magazyn/internal/domain"
	"github.com/magazyn/magazyn/internal/domain/inventory"
)

// ItemResponse salida de un artículo. Status es derivado de Quantity.
type ItemResponse struct {
	ID            int64                 `json:"id"`
	Name          string                `json:"name"`
	Code          string                `json:"code"`
	Description   string                `json:"description,omitempty"`
	Category      string                `json:"category"`
	Quantity      int                   `json:"quantity"`
	Unit          string                `json:"unit"`
	PurchasePrice *decimal.Decimal      `json:"purchasePrice,omitempty"`
	SalePrice     *decimal.Decimal      `json:"salePrice,omitempty"`
	Status        inventory.StockStatus `json:"status"`
	ImageURL      string                `json:"imageUrl,omitempty"`
	ImageMime     string                `json:"imageMime,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// ItemListResponse salida de GET /api/warehouse/items.
type ItemListResponse struct {
	Success bool           `json:"success"`
	Items   []ItemResponse `json:"items"`
}

// ItemEnvelope salida de alta, detalle y edición.
type ItemEnvelope struct {
	Success bool          `json:"success"`
	Item    *ItemResponse `json:"item,omitempty"`
	Error   string        `json:"error,omitempty"`
	Errors  FieldErrors   `json:"errors,omitempty"`
}

// FieldErrors mapa campo → mensaje de validación.
type FieldErrors map[string]string

// UpdateItemRequest body de PATCH /api/warehouse/items/:id (campos opcionales).
type UpdateItemRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Category      *string          `json:"category"`
	Quantity      *int             `json:"quantity"`
	Unit          *string          `json:"unit"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice"`
	SalePrice     *decimal.Decimal `json:"salePrice"`
}

// DeleteResponse salida de DELETE.
type DeleteResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

// ValidationError error de formulario con los mensajes por campo.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// Unwrap permite errors.Is(err, domain.ErrInvalidInput).
func (e *ValidationError) Unwrap() error {
	return domain.ErrInvalidInput
}
