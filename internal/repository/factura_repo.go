package repository

import (
	"context"

	"comandapos/internal/dto"
	"comandapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FacturaRepository interface {
	CreateTx(tx *gorm.DB, f *model.Factura) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Factura, error)
	// LockTx lee la factura con FOR UPDATE (anulación concurrente).
	LockTx(tx *gorm.DB, id uuid.UUID) (*model.Factura, error)
	// UpdateTx guarda la cabecera; las líneas se escriben por separado.
	UpdateTx(tx *gorm.DB, f *model.Factura) error
	NextNumeroTx(tx *gorm.DB) (int64, error)
	List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error)

	CreateDetalleTx(tx *gorm.DB, d *model.FacturaDetalle) error
	UpdateDetalleTx(tx *gorm.DB, d *model.FacturaDetalle) error
	DeleteDetalleTx(tx *gorm.DB, id uuid.UUID) error
	ListDetallesTx(tx *gorm.DB, facturaID uuid.UUID) ([]model.FacturaDetalle, error)
	FindDetalleByID(ctx context.Context, id uuid.UUID) (*model.FacturaDetalle, error)
	UpdateEstadoCocinaDetalleTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoCocina) error
	UpdateEstadoCocinaFacturaTx(tx *gorm.DB, facturaID uuid.UUID, estado model.EstadoCocina) error

	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type facturaRepo struct{ db *gorm.DB }

func NewFacturaRepository(db *gorm.DB) FacturaRepository { return &facturaRepo{db: db} }

func (r *facturaRepo) DB() *gorm.DB { return r.db }

func detallesOrdenados(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }

func (r *facturaRepo) CreateTx(tx *gorm.DB, f *model.Factura) error {
	return translate(tx.Omit("Cliente").Create(f).Error)
}

func (r *facturaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *facturaRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	if err := tx.Preload("Detalles", detallesOrdenados).Preload("Cliente").First(&f, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (r *facturaRepo) LockTx(tx *gorm.DB, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	if err := tx.Clauses(forUpdate()).First(&f, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	detalles, err := r.ListDetallesTx(tx, id)
	if err != nil {
		return nil, err
	}
	f.Detalles = detalles
	return &f, nil
}

func (r *facturaRepo) UpdateTx(tx *gorm.DB, f *model.Factura) error {
	return tx.Omit("Detalles", "Cliente").Save(f).Error
}

func (r *facturaRepo) NextNumeroTx(tx *gorm.DB) (int64, error) {
	// Uses a PostgreSQL sequence for atomic invoice numbering
	var num int64
	err := tx.Raw("SELECT nextval('facturas_numero_seq')").Scan(&num).Error
	return num, err
}

func (r *facturaRepo) List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error) {
	var facturas []model.Factura
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Factura{})
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(created_at) = ?", filter.Fecha)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Detalles", detallesOrdenados).
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&facturas).Error
	return facturas, total, err
}

func (r *facturaRepo) CreateDetalleTx(tx *gorm.DB, d *model.FacturaDetalle) error {
	return tx.Create(d).Error
}

func (r *facturaRepo) UpdateDetalleTx(tx *gorm.DB, d *model.FacturaDetalle) error {
	return tx.Save(d).Error
}

func (r *facturaRepo) DeleteDetalleTx(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Delete(&model.FacturaDetalle{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *facturaRepo) ListDetallesTx(tx *gorm.DB, facturaID uuid.UUID) ([]model.FacturaDetalle, error) {
	var detalles []model.FacturaDetalle
	err := tx.Where("factura_id = ?", facturaID).Order("created_at ASC").Find(&detalles).Error
	return detalles, err
}

func (r *facturaRepo) FindDetalleByID(ctx context.Context, id uuid.UUID) (*model.FacturaDetalle, error) {
	var d model.FacturaDetalle
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *facturaRepo) UpdateEstadoCocinaDetalleTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoCocina) error {
	return tx.Model(&model.FacturaDetalle{}).Where("id = ?", id).Update("estado_cocina", estado).Error
}

func (r *facturaRepo) UpdateEstadoCocinaFacturaTx(tx *gorm.DB, facturaID uuid.UUID, estado model.EstadoCocina) error {
	return tx.Model(&model.FacturaDetalle{}).Where("factura_id = ?", facturaID).Update("estado_cocina", estado).Error
}
