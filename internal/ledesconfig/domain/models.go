package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Format string

const (
	FormatLEDES1998B Format = "LEDES1998B"
	FormatLEDES20    Format = "LEDES2.0"
	FormatLEDESXML   Format = "LEDESXML"
)

func (f Format) Valid() bool {
	switch f {
	case FormatLEDES1998B, FormatLEDES20, FormatLEDESXML:
		return true
	}
	return false
}

// UTBMS litigation task codes accepted as activity codes.
var ActivityCodes = map[string]struct{}{
	"L100": {}, "L110": {}, "L120": {}, "L130": {},
	"L140": {}, "L150": {}, "L160": {}, "L190": {},
	"L200": {}, "L210": {}, "L220": {}, "L230": {},
	"L240": {}, "L250": {}, "L260": {}, "L300": {},
	"L310": {}, "L320": {}, "L330": {}, "L340": {},
	"L350": {}, "L390": {}, "L400": {}, "L530": {},
}

// UTBMS expense codes E101 (copying) through E112 (court fees).
var ExpenseCodes = map[string]struct{}{
	"E101": {}, "E102": {}, "E103": {}, "E104": {},
	"E105": {}, "E106": {}, "E107": {}, "E108": {},
	"E109": {}, "E110": {}, "E111": {}, "E112": {},
}

// UTBMSMapping translates firm-internal codes to UTBMS codes. Entries not
// present fall back to the defaults when an invoice is rendered.
type UTBMSMapping struct {
	ActivityCodes       map[string]string `json:"activity_codes,omitempty"`
	ExpenseCodes        map[string]string `json:"expense_codes,omitempty"`
	DefaultActivityCode string            `json:"default_activity_code"`
	DefaultExpenseCode  string            `json:"default_expense_code"`
}

type Configuration struct {
	ID           string         `gorm:"primaryKey" json:"id"`
	ClientID     string         `gorm:"column:client_id;uniqueIndex:ux_ledes_configurations_client_id" json:"client_id"`
	ClientName   string         `gorm:"column:client_name" json:"client_name"`
	Format       string         `gorm:"column:format" json:"format"`
	UTBMSMapping datatypes.JSON `gorm:"column:utbms_mapping" json:"utbms_mapping"`
	IsActive     bool           `gorm:"column:is_active" json:"is_active"`
	CreatedAt    time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (Configuration) TableName() string {
	return "ledes_configurations"
}
