package repository

import (
	"context"
	"time"

	"comandapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MesaRepository covers tables and their sessions. Session rows are only written
// inside a transaction that already holds the table row lock (LockTx).
type MesaRepository interface {
	Create(ctx context.Context, m *model.Mesa) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Mesa, error)
	FindByNumero(ctx context.Context, numero int) (*model.Mesa, error)
	List(ctx context.Context, soloActivas bool) ([]model.Mesa, error)
	Update(ctx context.Context, m *model.Mesa) error
	MaxOrdenVisual(ctx context.Context) (int, error)

	// LockTx lee la mesa con SELECT ... FOR UPDATE: serializa toda mutación de
	// sesión y la asignación de secuencias de cocina para esa mesa.
	LockTx(tx *gorm.DB, id uuid.UUID) (*model.Mesa, error)
	UpdateTx(tx *gorm.DB, m *model.Mesa) error
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoMesa) error
	UpdateSecuenciaTx(tx *gorm.DB, id uuid.UUID, secuencia int) error

	CreateSesionTx(tx *gorm.DB, s *model.SesionMesa) error
	FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionMesa, error)
	FindSesionTx(tx *gorm.DB, id uuid.UUID) (*model.SesionMesa, error)
	FindSesionByFacturaID(ctx context.Context, facturaID uuid.UUID) (*model.SesionMesa, error)
	FindSesionAbiertaTx(tx *gorm.DB, mesaID uuid.UUID) (*model.SesionMesa, error)
	ListSesionesAbiertas(ctx context.Context) ([]model.SesionMesa, error)
	CerrarSesionTx(tx *gorm.DB, id uuid.UUID, cerradaPor uuid.UUID, cerradaEn time.Time) error

	DB() *gorm.DB
}

type mesaRepo struct{ db *gorm.DB }

func NewMesaRepository(db *gorm.DB) MesaRepository { return &mesaRepo{db: db} }

func (r *mesaRepo) DB() *gorm.DB { return r.db }

func (r *mesaRepo) Create(ctx context.Context, m *model.Mesa) error {
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func (r *mesaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Mesa, error) {
	var m model.Mesa
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *mesaRepo) FindByNumero(ctx context.Context, numero int) (*model.Mesa, error) {
	var m model.Mesa
	if err := r.db.WithContext(ctx).Where("numero = ?", numero).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *mesaRepo) List(ctx context.Context, soloActivas bool) ([]model.Mesa, error) {
	var mesas []model.Mesa
	q := r.db.WithContext(ctx).Model(&model.Mesa{})
	if soloActivas {
		q = q.Where("activo = true")
	}
	err := q.Order("orden_visual ASC, numero ASC").Find(&mesas).Error
	return mesas, err
}

func (r *mesaRepo) Update(ctx context.Context, m *model.Mesa) error {
	return translate(r.db.WithContext(ctx).Save(m).Error)
}

func (r *mesaRepo) MaxOrdenVisual(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&model.Mesa{}).
		Select("COALESCE(MAX(orden_visual), 0)").Scan(&max).Error
	return max, err
}

func (r *mesaRepo) LockTx(tx *gorm.DB, id uuid.UUID) (*model.Mesa, error) {
	var m model.Mesa
	if err := tx.Clauses(forUpdate()).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *mesaRepo) UpdateTx(tx *gorm.DB, m *model.Mesa) error {
	return translate(tx.Save(m).Error)
}

func (r *mesaRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado model.EstadoMesa) error {
	return tx.Model(&model.Mesa{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *mesaRepo) UpdateSecuenciaTx(tx *gorm.DB, id uuid.UUID, secuencia int) error {
	return tx.Model(&model.Mesa{}).Where("id = ?", id).Update("ultima_secuencia", secuencia).Error
}

func (r *mesaRepo) CreateSesionTx(tx *gorm.DB, s *model.SesionMesa) error {
	// idx_sesiones_mesa_abierta rechaza una segunda sesión abierta (23505)
	return translate(tx.Omit("Mesa", "Factura").Create(s).Error)
}

func (r *mesaRepo) FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionMesa, error) {
	return r.findSesion(r.db.WithContext(ctx), id)
}

func (r *mesaRepo) FindSesionTx(tx *gorm.DB, id uuid.UUID) (*model.SesionMesa, error) {
	return r.findSesion(tx, id)
}

func (r *mesaRepo) FindSesionByFacturaID(ctx context.Context, facturaID uuid.UUID) (*model.SesionMesa, error) {
	var s model.SesionMesa
	if err := r.db.WithContext(ctx).Where("factura_id = ?", facturaID).First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *mesaRepo) findSesion(q *gorm.DB, id uuid.UUID) (*model.SesionMesa, error) {
	var s model.SesionMesa
	err := q.Preload("Mesa").
		Preload("Factura.Detalles", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&s, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *mesaRepo) FindSesionAbiertaTx(tx *gorm.DB, mesaID uuid.UUID) (*model.SesionMesa, error) {
	var s model.SesionMesa
	err := tx.Where("mesa_id = ? AND estado = ?", mesaID, model.SesionAbierta).First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *mesaRepo) ListSesionesAbiertas(ctx context.Context) ([]model.SesionMesa, error) {
	var sesiones []model.SesionMesa
	err := r.db.WithContext(ctx).
		Preload("Mesa").
		Preload("Factura.Detalles").
		Where("estado = ?", model.SesionAbierta).
		Order("abierta_en ASC").
		Find(&sesiones).Error
	return sesiones, err
}

func (r *mesaRepo) CerrarSesionTx(tx *gorm.DB, id uuid.UUID, cerradaPor uuid.UUID, cerradaEn time.Time) error {
	return tx.Model(&model.SesionMesa{}).Where("id = ?", id).Updates(map[string]interface{}{
		"estado":      model.SesionCerrada,
		"cerrada_por": cerradaPor,
		"cerrada_en":  cerradaEn,
	}).Error
}
