package catalog

import (
	"github.com/garimpo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Click records one outbound redirect through /r/:slug. Rows are write-only
// from the public surface; admins read them aggregated as per-product counts.
type Click struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Referrer  string    `gorm:"type:text"`
	UserAgent string    `gorm:"type:text"`
	ClientIP  string    `gorm:"type:varchar(64)"`
}

// TableName returns the table name for GORM
func (Click) TableName() string {
	return "clicks"
}

// NewClick records an outbound redirect for a product
func NewClick(productID uuid.UUID, referrer, userAgent, clientIP string) *Click {
	return &Click{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Referrer:   referrer,
		UserAgent:  userAgent,
		ClientIP:   clientIP,
	}
}
