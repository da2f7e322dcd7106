package http

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/magazyn/magazyn/internal/application/dto"
	appinv "github.com/magazyn/magazyn/internal/application/inventory"
	"github.com/magazyn/magazyn/internal/domain"
	"github.com/magazyn/magazyn/internal/domain/entity"
	"github.com/magazyn/magazyn/pkg/logger"
)

// ItemHandler maneja el catálogo del almacén (protegido).
type ItemHandler struct {
	uc  *appinv.ItemUseCase
	log *logger.Logger
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *appinv.ItemUseCase, log *logger.Logger) *ItemHandler {
	return &ItemHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar artículos
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ItemListResponse
// @Router       /api/warehouse/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear artículo
// @Tags         items
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        name           formData  string  true   "Nombre"
// @Param        code           formData  string  true   "Código único"
// @Param        description    formData  string  false  "Descripción"
// @Param        category       formData  string  false  "Categoría"
// @Param        quantity       formData  int     false  "Cantidad"
// @Param        unit           formData  string  false  "Unidad"
// @Param        purchasePrice  formData  string  false  "Precio de compra"
// @Param        salePrice      formData  string  false  "Precio de venta"
// @Param        image          formData  file    false  "Imagen (máx. 5MB)"
// @Success      201  {object}  dto.ItemEnvelope
// @Failure      400  {object}  dto.ItemEnvelope
// @Failure      409  {object}  dto.ItemEnvelope
// @Failure      413  {object}  dto.ItemEnvelope
// @Router       /api/warehouse/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	form := appinv.ItemForm{
		Name:          c.FormValue("name"),
		Code:          c.FormValue("code"),
		Description:   c.FormValue("description"),
		Category:      c.FormValue("category"),
		Quantity:      c.FormValue("quantity"),
		Unit:          c.FormValue("unit"),
		PurchasePrice: c.FormValue("purchasePrice"),
		SalePrice:     c.FormValue("salePrice"),
	}

	img, err := h.readImage(c)
	if err != nil {
		return writeError(c, h.log, err)
	}

	out, err := h.uc.Create(c.UserContext(), actorFrom(c), form, img)
	if err != nil {
		return h.writeItemError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ItemEnvelope{Success: true, Item: out})
}

// readImage lee como mucho maxImageBytes+1 bytes: basta para detectar el exceso sin cargar el archivo entero.
func (h *ItemHandler) readImage(c *fiber.Ctx) (*entity.Image, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		// Sin archivo o sin multipart: el artículo se crea sin imagen.
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.uc.MaxImageBytes()+1))
	if err != nil {
		return nil, err
	}
	return &entity.Image{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

// GetByID godoc
// @Summary      Obtener artículo
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del artículo"
// @Success      200  {object}  dto.ItemEnvelope
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouse/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	id, ok := itemID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("INVALID_ID", "invalid item id"))
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ItemEnvelope{Success: true, Item: out})
}

// Update godoc
// @Summary      Editar artículo
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                        true  "ID del artículo"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ItemEnvelope
// @Failure      400   {object}  dto.ItemEnvelope
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/warehouse/items/{id} [patch]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, ok := itemID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("INVALID_ID", "invalid item id"))
	}
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("INVALID_BODY", "invalid request body"))
	}
	out, err := h.uc.Update(c.UserContext(), actorFrom(c), id, in)
	if err != nil {
		return h.writeItemError(c, err)
	}
	return c.JSON(dto.ItemEnvelope{Success: true, Item: out})
}

// Delete godoc
// @Summary      Eliminar artículo
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del artículo"
// @Success      200  {object}  dto.DeleteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouse/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id, ok := itemID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("INVALID_ID", "invalid item id"))
	}
	if err := h.uc.Delete(c.UserContext(), actorFrom(c), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.DeleteResponse{Success: true, ID: id})
}

// Image godoc
// @Summary      Imagen del artículo
// @Tags         items
// @Security     Bearer
// @Produce      image/png,image/jpeg,image/webp,image/gif
// @Param        id   path  int  true  "ID del artículo"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouse/items/{id}/image [get]
func (h *ItemHandler) Image(c *fiber.Ctx) error {
	id, ok := itemID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("INVALID_ID", "invalid item id"))
	}
	rc, mime, err := h.uc.Image(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderCacheControl, "private, max-age=300")
	// fasthttp cierra el stream al terminar de enviarlo.
	return c.SendStream(rc)
}

func (h *ItemHandler) writeItemError(c *fiber.Ctx, err error) error {
	var verr *dto.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ItemEnvelope{Error: msgValidation, Errors: verr.Fields})
	case errors.Is(err, domain.ErrImageTooLarge):
		msg := appinv.ImageErrorMessage(err, h.uc.MaxImageBytes())
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ItemEnvelope{Error: msg, Errors: dto.FieldErrors{"image": msg}})
	case errors.Is(err, domain.ErrImageNotImage):
		msg := appinv.ImageErrorMessage(err, h.uc.MaxImageBytes())
		return c.Status(fiber.StatusBadRequest).JSON(dto.ItemEnvelope{Error: msg, Errors: dto.FieldErrors{"image": msg}})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ItemEnvelope{Error: msgDuplicate, Errors: dto.FieldErrors{"code": msgDuplicate}})
	default:
		return writeError(c, h.log, err)
	}
}

func itemID(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return int64(id), true
}
