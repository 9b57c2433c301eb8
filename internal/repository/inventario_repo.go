package repository

import (
	"context"

	"comandapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventarioRepository interface {
	Create(ctx context.Context, inv *model.Inventario) error
	FindByProductoID(ctx context.Context, productoID uuid.UUID) (*model.Inventario, error)
	// AjustarTx suma delta (con signo) a la existencia del producto y devuelve la
	// cantidad anterior junto con el registro actualizado. Si el resultado
	// quedaría negativo no escribe nada y devuelve ErrStockInsuficiente con el
	// registro sin modificar.
	AjustarTx(tx *gorm.DB, productoID uuid.UUID, delta decimal.Decimal) (anterior decimal.Decimal, inv *model.Inventario, err error)
	ListBajoMinimo(ctx context.Context) ([]model.Inventario, error)
	DB() *gorm.DB
}

type inventarioRepo struct{ db *gorm.DB }

func NewInventarioRepository(db *gorm.DB) InventarioRepository { return &inventarioRepo{db: db} }

func (r *inventarioRepo) DB() *gorm.DB { return r.db }

func (r *inventarioRepo) Create(ctx context.Context, inv *model.Inventario) error {
	return translate(r.db.WithContext(ctx).Omit("Producto").Create(inv).Error)
}

func (r *inventarioRepo) FindByProductoID(ctx context.Context, productoID uuid.UUID) (*model.Inventario, error) {
	var inv model.Inventario
	err := r.db.WithContext(ctx).Preload("Producto").Where("producto_id = ?", productoID).First(&inv).Error
	if err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

func (r *inventarioRepo) AjustarTx(tx *gorm.DB, productoID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, *model.Inventario, error) {
	var inv model.Inventario
	if err := tx.Clauses(forUpdate()).Where("producto_id = ?", productoID).First(&inv).Error; err != nil {
		return decimal.Zero, nil, translate(err)
	}
	anterior := inv.Cantidad
	if anterior.Add(delta).IsNegative() {
		return anterior, &inv, ErrStockInsuficiente
	}

	// The row lock above already serializes writers; the WHERE guard keeps the
	// update itself from ever crossing zero.
	res := tx.Model(&model.Inventario{}).
		Where("id = ? AND cantidad + ? >= 0", inv.ID, delta).
		Update("cantidad", gorm.Expr("cantidad + ?", delta))
	if res.Error != nil {
		return anterior, nil, res.Error
	}
	if res.RowsAffected == 0 {
		return anterior, &inv, ErrStockInsuficiente
	}
	inv.Cantidad = anterior.Add(delta)
	return anterior, &inv, nil
}

func (r *inventarioRepo) ListBajoMinimo(ctx context.Context) ([]model.Inventario, error) {
	var invs []model.Inventario
	err := r.db.WithContext(ctx).
		Preload("Producto").
		Where("cantidad <= stock_minimo").
		Order("cantidad ASC").
		Find(&invs).Error
	return invs, err
}
