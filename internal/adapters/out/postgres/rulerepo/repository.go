// Package rulerepo persists dispatch rule records. Rules are written once at
// startup and read back to build the in-memory rule table.
package rulerepo

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/rule"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RuleDTO is the database representation of a dispatch rule.
type RuleDTO struct {
	ID            int `gorm:"primaryKey"`
	CadenceMillis int64
}

// TableName overrides GORM's default naming to use "dispatch_rules".
func (RuleDTO) TableName() string {
	return "dispatch_rules"
}

// GormRuleRepository implements ports.RuleRepository using GORM.
type GormRuleRepository struct {
	db *gorm.DB
}

// NewGormRuleRepository creates a new GORM rule repository.
func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

// Seed upserts the given rules, replacing any existing rows with the same id.
func (r *GormRuleRepository) Seed(ctx context.Context, rules []rule.DispatchRule) error {
	if len(rules) == 0 {
		return nil
	}

	dtos := make([]RuleDTO, 0, len(rules))
	for _, dr := range rules {
		if err := dr.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, RuleDTO{
			ID:            dr.ID(),
			CadenceMillis: dr.Cadence().Milliseconds(),
		})
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&dtos).Error
}

// GetAll retrieves every dispatch rule.
func (r *GormRuleRepository) GetAll(ctx context.Context) ([]rule.DispatchRule, error) {
	var dtos []RuleDTO
	if err := r.db.WithContext(ctx).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	rules := make([]rule.DispatchRule, 0, len(dtos))
	for _, dto := range dtos {
		dr, err := rule.NewDispatchRule(dto.ID, time.Duration(dto.CadenceMillis)*time.Millisecond)
		if err != nil {
			return nil, err
		}
		rules = append(rules, dr)
	}

	return rules, nil
}
