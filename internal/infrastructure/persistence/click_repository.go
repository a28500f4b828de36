package persistence

import (
	"context"

	"github.com/garimpo/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClickRepository implements ClickRepository using GORM
type GormClickRepository struct {
	db *gorm.DB
}

// NewGormClickRepository creates a new GormClickRepository
func NewGormClickRepository(db *gorm.DB) *GormClickRepository {
	return &GormClickRepository{db: db}
}

// Save records one outbound click
func (r *GormClickRepository) Save(ctx context.Context, click *catalog.Click) error {
	return r.db.WithContext(ctx).Create(click).Error
}

// CountByProduct returns click counts grouped by product id
func (r *GormClickRepository) CountByProduct(ctx context.Context) (map[uuid.UUID]int64, error) {
	type row struct {
		ProductID uuid.UUID
		Total     int64
	}

	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&catalog.Click{}).
		Select("product_id, count(*) as total").
		Group("product_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, rw := range rows {
		counts[rw.ProductID] = rw.Total
	}
	return counts, nil
}

// CountForProduct returns the click count for one product
func (r *GormClickRepository) CountForProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Click{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormClickRepository implements ClickRepository
var _ catalog.ClickRepository = (*GormClickRepository)(nil)
