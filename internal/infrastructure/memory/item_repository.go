package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/magazyn/magazyn/internal/domain"
	"github.com/magazyn/magazyn/internal/domain/entity"
	"github.com/magazyn/magazyn/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo catálogo en memoria. El índice por código garantiza unicidad con escritores concurrentes.
type ItemRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]*entity.Item
	codes  map[string]int64
	now    func() time.Time
}

// NewItemRepository construye un catálogo vacío.
func NewItemRepository() *ItemRepo {
	return &ItemRepo{
		items: make(map[int64]*entity.Item),
		codes: make(map[string]int64),
		now:   time.Now,
	}
}

// Create asigna ID y timestamps.
func (r *ItemRepo) Create(_ context.Context, item *entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.codes[item.Code]; exists {
		return domain.ErrDuplicate
	}
	r.nextID++
	now := r.now()
	item.ID = r.nextID
	item.CreatedAt = now
	item.UpdatedAt = now
	cp := *item
	r.items[item.ID] = &cp
	r.codes[item.Code] = item.ID
	return nil
}

// GetByID devuelve una copia.
func (r *ItemRepo) GetByID(_ context.Context, id int64) (*entity.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

// List devuelve copias ordenadas por creación (ID ascendente).
func (r *ItemRepo) List(_ context.Context) ([]*entity.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*entity.Item, 0, len(r.items))
	for _, it := range r.items {
		cp := *it
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// Update reemplaza los campos editables; el código no cambia.
func (r *ItemRepo) Update(_ context.Context, item *entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Name = item.Name
	cur.Description = item.Description
	cur.Category = item.Category
	cur.Quantity = item.Quantity
	cur.Unit = item.Unit
	cur.PurchasePrice = item.PurchasePrice
	cur.SalePrice = item.SalePrice
	cur.UpdatedAt = r.now()
	item.UpdatedAt = cur.UpdatedAt
	return nil
}

// Delete elimina por ID.
func (r *ItemRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.codes, it.Code)
	delete(r.items, id)
	return nil
}
