package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/magazyn/magazyn/internal/application/dto"
	"github.com/magazyn/magazyn/internal/domain"
	"github.com/magazyn/magazyn/internal/domain/entity"
	"github.com/magazyn/magazyn/internal/domain/inventory"
	"github.com/magazyn/magazyn/internal/domain/repository"
	"github.com/magazyn/magazyn/pkg/logger"
)

// Actor usuario autenticado que ejecuta la operación (sale de los claims del token).
type Actor struct {
	UserID      int64
	Email       string
	AccessLevel int
}

// ItemUseCase casos de uso del catálogo. Re-verifica el nivel de acceso aunque la ruta ya lo haga.
type ItemUseCase struct {
	repo          repository.ItemRepository
	images        repository.ImageStore
	report        ReportGenerator
	maxImageBytes int64
	log           *logger.Logger
}

// NewItemUseCase construye el caso de uso. report puede ser nil (sin reporte PDF).
func NewItemUseCase(
	repo repository.ItemRepository,
	images repository.ImageStore,
	report ReportGenerator,
	maxImageBytes int64,
	log *logger.Logger,
) *ItemUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ItemUseCase{repo: repo, images: images, report: report, maxImageBytes: maxImageBytes, log: log}
}

// MaxImageBytes límite configurado para imágenes.
func (uc *ItemUseCase) MaxImageBytes() int64 {
	return uc.maxImageBytes
}

// List devuelve el catálogo completo.
func (uc *ItemUseCase) List(ctx context.Context) (*dto.ItemListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ItemListResponse{Success: true, Items: uc.toResponses(ctx, list)}, nil
}

// Get obtiene un artículo por ID. domain.ErrNotFound si no existe.
func (uc *ItemUseCase) Get(ctx context.Context, id int64) (*dto.ItemResponse, error) {
	it, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, it), nil
}

// Create valida el formulario y la imagen, guarda la imagen y luego el artículo.
// Si el artículo no se puede guardar, la imagen ya subida se elimina.
func (uc *ItemUseCase) Create(ctx context.Context, actor Actor, form ItemForm, img *entity.Image) (*dto.ItemResponse, error) {
	if actor.AccessLevel < entity.AccessLevelEditor {
		return nil, domain.ErrForbidden
	}
	in, err := form.Parse()
	var fields dto.FieldErrors
	if err != nil {
		var verr *dto.ValidationError
		if !errors.As(err, &verr) {
			return nil, err
		}
		fields = verr.Fields
	}

	// La imagen se valida junto con el formulario para reportar todos los errores a la vez.
	var mime string
	if img != nil {
		mime, err = CheckImage(int64(len(img.Data)), img.Data, uc.maxImageBytes)
		if err != nil {
			if fields == nil {
				return nil, err
			}
			fields["image"] = ImageErrorMessage(err, uc.maxImageBytes)
		}
	}
	if fields != nil {
		return nil, &dto.ValidationError{Fields: fields}
	}

	item := &entity.Item{
		Name:          in.Name,
		Code:          in.Code,
		Description:   in.Description,
		Category:      in.Category,
		Quantity:      in.Quantity,
		Unit:          in.Unit,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		CreatedBy:     actor.UserID,
	}

	if img != nil {
		key, err := uc.images.Put(ctx, img.Filename, mime, img.Data)
		if err != nil {
			return nil, fmt.Errorf("guardar imagen: %w", err)
		}
		item.ImageKey = key
		item.ImageMime = mime
	}

	if err := uc.repo.Create(ctx, item); err != nil {
		if item.HasImage() {
			if derr := uc.images.Delete(context.WithoutCancel(ctx), item.ImageKey); derr != nil {
				uc.log.Warn().Err(derr).Str("key", item.ImageKey).Msg("imagen huérfana")
			}
		}
		return nil, err
	}

	uc.log.Info().Int64("item_id", item.ID).Str("code", item.Code).Int64("user_id", actor.UserID).Msg("item created")
	return uc.toResponse(ctx, item), nil
}

// Update aplica los campos presentes. El código no es editable.
func (uc *ItemUseCase) Update(ctx context.Context, actor Actor, id int64, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if actor.AccessLevel < entity.AccessLevelEditor {
		return nil, domain.ErrForbidden
	}
	it, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}

	errs := dto.FieldErrors{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			errs["name"] = fieldMessages["name.required"]
		}
		it.Name = name
	}
	if in.Description != nil {
		it.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		c := entity.Category(strings.TrimSpace(*in.Category))
		if !c.Valid() {
			errs["category"] = fieldMessages["category.category"]
		}
		it.Category = c
	}
	if in.Unit != nil {
		u := entity.Unit(strings.TrimSpace(*in.Unit))
		if !u.Valid() {
			errs["unit"] = fieldMessages["unit.unit"]
		}
		it.Unit = u
	}
	if in.Quantity != nil {
		switch {
		case *in.Quantity < 0:
			errs["quantity"] = fieldMessages["quantity.nonneg"]
		case *in.Quantity > MaxQuantity:
			errs["quantity"] = fieldMessages["quantity.qtymax"]
		}
		it.Quantity = *in.Quantity
	}
	if in.PurchasePrice != nil {
		if rule := priceRule(*in.PurchasePrice); rule != "" {
			errs["purchasePrice"] = fieldMessages["purchasePrice."+rule]
		}
		it.PurchasePrice = in.PurchasePrice
	}
	if in.SalePrice != nil {
		if rule := priceRule(*in.SalePrice); rule != "" {
			errs["salePrice"] = fieldMessages["salePrice."+rule]
		}
		it.SalePrice = in.SalePrice
	}
	if len(errs) > 0 {
		return nil, &dto.ValidationError{Fields: errs}
	}

	if err := uc.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, it), nil
}

// Delete elimina el artículo y su imagen.
func (uc *ItemUseCase) Delete(ctx context.Context, actor Actor, id int64) error {
	if actor.AccessLevel < entity.AccessLevelEditor {
		return domain.ErrForbidden
	}
	it, err := uc.find(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	if it.HasImage() {
		if err := uc.images.Delete(ctx, it.ImageKey); err != nil {
			uc.log.Warn().Err(err).Str("key", it.ImageKey).Msg("no se pudo borrar la imagen")
		}
	}
	uc.log.Info().Int64("item_id", id).Int64("user_id", actor.UserID).Msg("item deleted")
	return nil
}

// Image abre la imagen de un artículo. El caller cierra el reader.
func (uc *ItemUseCase) Image(ctx context.Context, id int64) (io.ReadCloser, string, error) {
	it, err := uc.find(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !it.HasImage() {
		return nil, "", domain.ErrNotFound
	}
	return uc.images.Get(ctx, it.ImageKey)
}

// Dashboard lista filtrada más estadísticas del catálogo completo.
func (uc *ItemUseCase) Dashboard(ctx context.Context, actor Actor, q inventory.Query) (*dto.DashboardResponse, error) {
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if q.Category == "" {
		q.Category = entity.CategoryAll
	}
	filtered := inventory.Filter(all, q)

	cats := []string{entity.CategoryAll}
	for _, c := range entity.Categories() {
		cats = append(cats, string(c))
	}

	resp := &dto.DashboardResponse{
		Success:    true,
		Search:     q.Search,
		Category:   q.Category,
		Categories: cats,
		Items:      uc.toResponses(ctx, filtered),
		Stats:      inventory.Summarize(all),
		Actions:    inventory.ActionsFor(actor.AccessLevel),
	}
	if len(filtered) == 0 {
		resp.EmptyMessage = inventory.EmptyMessage(q)
	}
	return resp, nil
}

// Stats estadísticas del catálogo completo.
func (uc *ItemUseCase) Stats(ctx context.Context) (inventory.Stats, []*entity.Item, error) {
	all, err := uc.repo.List(ctx)
	if err != nil {
		return inventory.Stats{}, nil, err
	}
	short := make([]*entity.Item, 0)
	for _, it := range all {
		if inventory.StatusOf(it.Quantity) != inventory.StatusOK {
			short = append(short, it)
		}
	}
	return inventory.Summarize(all), short, nil
}

// Report genera el PDF del inventario. Solo administradores.
func (uc *ItemUseCase) Report(ctx context.Context, actor Actor) ([]byte, error) {
	if actor.AccessLevel < entity.AccessLevelAdmin {
		return nil, domain.ErrForbidden
	}
	if uc.report == nil {
		return nil, fmt.Errorf("reporte no configurado")
	}
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return uc.report.InventoryReport(ctx, all, inventory.Summarize(all), actor.Email)
}

func (uc *ItemUseCase) find(ctx context.Context, id int64) (*entity.Item, error) {
	it, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, domain.ErrNotFound
	}
	return it, nil
}

func (uc *ItemUseCase) toResponses(ctx context.Context, list []*entity.Item) []dto.ItemResponse {
	out := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, *uc.toResponse(ctx, it))
	}
	return out
}

// ImagePath ruta de la API que sirve la imagen de un artículo.
func ImagePath(id int64) string {
	return fmt.Sprintf("/api/warehouse/items/%d/image", id)
}

func (uc *ItemUseCase) toResponse(ctx context.Context, it *entity.Item) *dto.ItemResponse {
	r := &dto.ItemResponse{
		ID:            it.ID,
		Name:          it.Name,
		Code:          it.Code,
		Description:   it.Description,
		Category:      string(it.Category),
		Quantity:      it.Quantity,
		Unit:          string(it.Unit),
		PurchasePrice: it.PurchasePrice,
		SalePrice:     it.SalePrice,
		Status:        inventory.StatusOf(it.Quantity),
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
	}
	if it.HasImage() {
		r.ImageMime = it.ImageMime
		url, err := uc.images.URL(ctx, it.ImageKey)
		if err != nil || url == "" {
			url = ImagePath(it.ID)
		}
		r.ImageURL = url
	}
	return r
}
