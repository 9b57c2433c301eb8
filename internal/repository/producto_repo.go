package repository

import (
	"context"

	"comandapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductoRepository is the read side of the catalog. Services depend on this
// interface, not on the concrete GORM implementation, enabling clean unit
// testing via stubs.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Producto, error)
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *productoRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Producto, error) {
	var productos []model.Producto
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&productos).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]*model.Producto, len(productos))
	for i := range productos {
		out[productos[i].ID] = &productos[i]
	}
	return out, nil
}
