package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Canonical intake factors. Keys arriving from the CRM form that are not
// listed here carry no weight and are ignored.
const (
	FactorMatterUrgency     = "matterUrgency"
	FactorBudgetRange       = "budgetRange"
	FactorReferralQuality   = "referralQuality"
	FactorResponseTime      = "responseTime"
	FactorPracticeAreaMatch = "practiceAreaMatch"
	FactorGeographicMatch   = "geographicMatch"
)

// Weights sum to exactly 1.0 so a complete all-100 submission scores 100.
var Weights = map[string]float64{
	FactorMatterUrgency:     0.20,
	FactorBudgetRange:       0.25,
	FactorReferralQuality:   0.20,
	FactorResponseTime:      0.10,
	FactorPracticeAreaMatch: 0.15,
	FactorGeographicMatch:   0.10,
}

type Lead struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"column:name" json:"name"`
	Email     string            `gorm:"column:email" json:"email"`
	Factors   datatypes.JSONMap `gorm:"column:factors" json:"factors"`
	Score     int               `gorm:"column:score" json:"score"`
	CreatedAt time.Time         `gorm:"column:created_at" json:"created_at"`
}

func (Lead) TableName() string {
	return "leads"
}
