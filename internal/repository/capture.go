package repository

import (
	"context"

	"paypal-utils/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CaptureRepository interface {
	Create(ctx context.Context, tx *gorm.DB, capture *model.Capture) error
	Exists(ctx context.Context, captureID string) (bool, error)
	ListByOrderID(ctx context.Context, orderID string) ([]*model.Capture, error)
}

type captureRepositoryImpl struct {
	db *gorm.DB
}

func NewCaptureRepository(db *gorm.DB) CaptureRepository {
	return &captureRepositoryImpl{
		db: db,
	}
}

// Create ignores captures that were already recorded.
func (r *captureRepositoryImpl) Create(ctx context.Context, tx *gorm.DB, capture *model.Capture) error {
	return tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(capture).Error
}

func (r *captureRepositoryImpl) Exists(ctx context.Context, captureID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Capture{}).
		Where("capture_id = ?", captureID).
		Count(&count).Error

	return count > 0, err
}

func (r *captureRepositoryImpl) ListByOrderID(ctx context.Context, orderID string) ([]*model.Capture, error) {
	var captures []*model.Capture
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at").
		Find(&captures).Error

	if err != nil {
		return nil, err
	}

	return captures, nil
}
