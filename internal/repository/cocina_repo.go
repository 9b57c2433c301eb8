package repository

import (
	"context"

	"comandapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CocinaRepository is the single store behind every kitchen display view.
type CocinaRepository interface {
	CreateTx(tx *gorm.DB, o *model.OrdenCocina) error
	// MaxSecuenciaTx devuelve la mayor secuencia usada por la mesa (0 si no hay).
	// Incluye órdenes entregadas: una secuencia nunca se reutiliza.
	MaxSecuenciaTx(tx *gorm.DB, mesaID uuid.UUID) (int, error)
	ListActivas(ctx context.Context) ([]model.OrdenCocina, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.OrdenCocina, error)
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoCocina) error
	UpdateEstadoPorDetalleTx(tx *gorm.DB, detalleID uuid.UUID, estado model.EstadoCocina) error
	UpdateUrgenciaTx(tx *gorm.DB, id uuid.UUID, motivo *string) error
	DeletePorDetalleTx(tx *gorm.DB, detalleID uuid.UUID) error
	EntregarPorFacturaTx(tx *gorm.DB, facturaID uuid.UUID) error
	DB() *gorm.DB
}

type cocinaRepo struct{ db *gorm.DB }

func NewCocinaRepository(db *gorm.DB) CocinaRepository { return &cocinaRepo{db: db} }

func (r *cocinaRepo) DB() *gorm.DB { return r.db }

func (r *cocinaRepo) CreateTx(tx *gorm.DB, o *model.OrdenCocina) error {
	return tx.Omit("Mesa", "Factura", "Detalle").Create(o).Error
}

func (r *cocinaRepo) MaxSecuenciaTx(tx *gorm.DB, mesaID uuid.UUID) (int, error) {
	var max int
	err := tx.Model(&model.OrdenCocina{}).
		Where("mesa_id = ?", mesaID).
		Select("COALESCE(MAX(secuencia), 0)").
		Scan(&max).Error
	return max, err
}

func (r *cocinaRepo) ListActivas(ctx context.Context) ([]model.OrdenCocina, error) {
	var ordenes []model.OrdenCocina
	err := r.db.WithContext(ctx).
		Preload("Mesa").
		Preload("Factura").
		Preload("Detalle").
		Where("estado <> ?", model.CocinaEntregado).
		Order("ordenada_en ASC, secuencia ASC, created_at ASC").
		Find(&ordenes).Error
	return ordenes, err
}

func (r *cocinaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.OrdenCocina, error) {
	var o model.OrdenCocina
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *cocinaRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoCocina) error {
	return tx.Model(&model.OrdenCocina{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *cocinaRepo) UpdateEstadoPorDetalleTx(tx *gorm.DB, detalleID uuid.UUID, estado model.EstadoCocina) error {
	return tx.Model(&model.OrdenCocina{}).Where("detalle_id = ?", detalleID).Update("estado", estado).Error
}

func (r *cocinaRepo) UpdateUrgenciaTx(tx *gorm.DB, id uuid.UUID, motivo *string) error {
	return tx.Model(&model.OrdenCocina{}).Where("id = ?", id).Updates(map[string]interface{}{
		"urgente":         true,
		"motivo_urgencia": motivo,
	}).Error
}

func (r *cocinaRepo) DeletePorDetalleTx(tx *gorm.DB, detalleID uuid.UUID) error {
	return tx.Where("detalle_id = ?", detalleID).Delete(&model.OrdenCocina{}).Error
}

func (r *cocinaRepo) EntregarPorFacturaTx(tx *gorm.DB, facturaID uuid.UUID) error {
	return tx.Model(&model.OrdenCocina{}).
		Where("factura_id = ? AND estado <> ?", facturaID, model.CocinaEntregado).
		Update("estado", model.CocinaEntregado).Error
}
