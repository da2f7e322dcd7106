package inventory

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/magazyn/magazyn/internal/application/dto"
	"github.com/magazyn/magazyn/internal/domain/entity"
)

// ItemForm entrada textual del alta de artículos, tal como llega del multipart o de los flags del cliente.
type ItemForm struct {
	Name          string `form:"name" validate:"required"`
	Code          string `form:"code" validate:"required"`
	Description   string `form:"description"`
	Category      string `form:"category" validate:"category"`
	Quantity      string `form:"quantity" validate:"wholenum,nonneg,qtymax"`
	Unit          string `form:"unit" validate:"unit"`
	PurchasePrice string `form:"purchasePrice" validate:"omitempty,price,nonneg,cents,pricemax"`
	SalePrice     string `form:"salePrice" validate:"omitempty,price,nonneg,cents,pricemax"`
}

// Límites de las columnas quantity INTEGER y NUMERIC(14, 2).
const (
	MaxQuantity   = math.MaxInt32
	PriceDecimals = 2
)

// maxPrice primer valor con 13 dígitos enteros.
var maxPrice = decimal.New(1, 12)

// NewItemForm formulario con los valores por defecto.
func NewItemForm() ItemForm {
	return ItemForm{
		Category: string(entity.CategoryElectronics),
		Unit:     string(entity.UnitPiece),
		Quantity: "0",
	}
}

// ItemInput formulario ya validado y convertido.
type ItemInput struct {
	Name          string
	Code          string
	Description   string
	Category      entity.Category
	Quantity      int
	Unit          entity.Unit
	PurchasePrice *decimal.Decimal
	SalePrice     *decimal.Decimal
}

var fieldMessages = map[string]string{
	"name.required":          "name is required",
	"code.required":          "code is required",
	"category.category":      "unknown category",
	"unit.unit":              "unknown unit",
	"quantity.wholenum":      "quantity must be a whole number",
	"quantity.nonneg":        "quantity cannot be negative",
	"quantity.qtymax":        "quantity is too large",
	"purchasePrice.price":    "invalid purchase price",
	"purchasePrice.nonneg":   "purchase price cannot be negative",
	"purchasePrice.cents":    "purchase price can have at most 2 decimal places",
	"purchasePrice.pricemax": "purchase price is too large",
	"salePrice.price":        "invalid sale price",
	"salePrice.nonneg":       "sale price cannot be negative",
	"salePrice.cents":        "sale price can have at most 2 decimal places",
	"salePrice.pricemax":     "sale price is too large",
}

// priceRule devuelve el tag de la regla que incumple d, o "" si es un precio válido.
func priceRule(d decimal.Decimal) string {
	switch {
	case d.IsNegative():
		return "nonneg"
	case !d.Equal(d.Truncate(PriceDecimals)):
		return "cents"
	case d.GreaterThanOrEqual(maxPrice):
		return "pricemax"
	}
	return ""
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return entity.Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("unit", func(fl validator.FieldLevel) bool {
		return entity.Unit(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("wholenum", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		// Un entero fuera de rango sigue siendo entero; el límite lo reporta qtymax.
		_, err := strconv.ParseInt(s, 10, 64)
		return err == nil || errors.Is(err, strconv.ErrRange)
	})
	_ = v.RegisterValidation("qtymax", func(fl validator.FieldLevel) bool {
		n, err := strconv.ParseInt(fl.Field().String(), 10, 64)
		return err == nil && n <= MaxQuantity
	})
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		_, err := parseDecimal(fl.Field().String())
		return err == nil
	})
	// nonneg solo rechaza números negativos; lo que no parsea lo reporta la regla anterior.
	_ = v.RegisterValidation("nonneg", func(fl validator.FieldLevel) bool {
		d, err := parseDecimal(fl.Field().String())
		return err != nil || !d.IsNegative()
	})
	_ = v.RegisterValidation("cents", func(fl validator.FieldLevel) bool {
		d, err := parseDecimal(fl.Field().String())
		return err != nil || priceRule(d) != "cents"
	})
	_ = v.RegisterValidation("pricemax", func(fl validator.FieldLevel) bool {
		d, err := parseDecimal(fl.Field().String())
		return err != nil || priceRule(d) != "pricemax"
	})
	return v
}

// parseDecimal acepta coma o punto como separador decimal.
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, errors.New("empty")
	}
	return decimal.NewFromString(strings.Replace(s, ",", ".", 1))
}

// Normalize recorta los campos y aplica los valores por defecto a los vacíos.
func (f ItemForm) Normalize() ItemForm {
	out := ItemForm{
		Name:          strings.TrimSpace(f.Name),
		Code:          strings.TrimSpace(f.Code),
		Description:   strings.TrimSpace(f.Description),
		Category:      strings.TrimSpace(f.Category),
		Quantity:      strings.TrimSpace(f.Quantity),
		Unit:          strings.TrimSpace(f.Unit),
		PurchasePrice: strings.TrimSpace(f.PurchasePrice),
		SalePrice:     strings.TrimSpace(f.SalePrice),
	}
	if out.Category == "" {
		out.Category = string(entity.CategoryElectronics)
	}
	if out.Unit == "" {
		out.Unit = string(entity.UnitPiece)
	}
	if out.Quantity == "" {
		out.Quantity = "0"
	}
	return out
}

// Validate evalúa todas las reglas y devuelve un mensaje por campo inválido (nil si es válido).
func (f ItemForm) Validate() dto.FieldErrors {
	err := formValidator.Struct(f.Normalize())
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return dto.FieldErrors{"form": err.Error()}
	}
	out := make(dto.FieldErrors, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = "invalid value"
		}
		out[fe.Field()] = msg
	}
	return out
}

// Parse valida y convierte. Devuelve *dto.ValidationError si alguna regla falla.
func (f ItemForm) Parse() (ItemInput, error) {
	if errs := f.Validate(); len(errs) > 0 {
		return ItemInput{}, &dto.ValidationError{Fields: errs}
	}
	n := f.Normalize()
	qty, _ := strconv.Atoi(n.Quantity)
	in := ItemInput{
		Name:        n.Name,
		Code:        n.Code,
		Description: n.Description,
		Category:    entity.Category(n.Category),
		Quantity:    qty,
		Unit:        entity.Unit(n.Unit),
	}
	if n.PurchasePrice != "" {
		d, _ := parseDecimal(n.PurchasePrice)
		in.PurchasePrice = &d
	}
	if n.SalePrice != "" {
		d, _ := parseDecimal(n.SalePrice)
		in.SalePrice = &d
	}
	return in, nil
}

// Fields campos del multipart: strings recortados, números ya parseados, opcionales vacíos omitidos.
func (in ItemInput) Fields() map[string]string {
	out := map[string]string{
		"name":     in.Name,
		"code":     in.Code,
		"category": string(in.Category),
		"quantity": strconv.Itoa(in.Quantity),
		"unit":     string(in.Unit),
	}
	if in.Description != "" {
		out["description"] = in.Description
	}
	if in.PurchasePrice != nil {
		out["purchasePrice"] = in.PurchasePrice.String()
	}
	if in.SalePrice != nil {
		out["salePrice"] = in.SalePrice.String()
	}
	return out
}
