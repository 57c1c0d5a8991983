package catalog

import (
	"regexp"
	"strconv"

	"github.com/wms/backend/internal/domain/shared"
)

// cubicCmPerCubicFoot converts carton volume to the unit Amazon bills in.
const cubicCmPerCubicFoot = 28316.8

// defaultCartonCubicFeet is assumed when carton dimensions are missing or
// unparseable.
const defaultCartonCubicFeet = 1.5

var dimensionsPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*x\s*(\d+(?:\.\d+)?)\s*x\s*(\d+(?:\.\d+)?)`)

// Sku is a stock keeping unit handled by the 3PL.
type Sku struct {
	shared.BaseEntity
	SkuCode            string `gorm:"type:varchar(100);not null;uniqueIndex" json:"sku_code"`
	Description        string `gorm:"type:varchar(500)" json:"description,omitempty"`
	UnitsPerCarton     int    `gorm:"not null;default:1" json:"units_per_carton"`
	CartonDimensionsCm string `gorm:"type:varchar(100)" json:"carton_dimensions_cm,omitempty"`
	// StorageCartonsPerPallet is the default pallet build for this SKU, used
	// when no batch-specific configuration exists.
	StorageCartonsPerPallet  int  `gorm:"default:0" json:"storage_cartons_per_pallet,omitempty"`
	ShippingCartonsPerPallet int  `gorm:"default:0" json:"shipping_cartons_per_pallet,omitempty"`
	// No column default here: GORM would omit a zero-value false on insert
	// and the row would come back active. NewSku sets the flag explicitly.
	IsActive bool `gorm:"not null" json:"is_active"`
}

// TableName returns the table name for GORM
func (Sku) TableName() string {
	return "skus"
}

// NewSku creates a new SKU
func NewSku(skuCode, description string, unitsPerCarton int) (*Sku, error) {
	if skuCode == "" {
		return nil, shared.NewDomainError("INVALID_SKU_CODE", "SKU code cannot be empty")
	}
	if unitsPerCarton <= 0 {
		return nil, shared.NewDomainError("INVALID_UNITS_PER_CARTON", "Units per carton must be positive")
	}

	return &Sku{
		BaseEntity:     shared.NewBaseEntity(),
		SkuCode:        skuCode,
		Description:    description,
		UnitsPerCarton: unitsPerCarton,
		IsActive:       true,
	}, nil
}

// CartonCubicFeet returns the carton volume in cubic feet, parsed from the
// "LxWxH" centimeter dimension string. Falls back to 1.5 cubic feet when the
// dimensions are missing or malformed, with a 0.1 floor.
func (s *Sku) CartonCubicFeet() float64 {
	matches := dimensionsPattern.FindStringSubmatch(s.CartonDimensionsCm)
	if matches == nil {
		return defaultCartonCubicFeet
	}

	length, _ := strconv.ParseFloat(matches[1], 64)
	width, _ := strconv.ParseFloat(matches[2], 64)
	height, _ := strconv.ParseFloat(matches[3], 64)

	cubicFeet := length * width * height / cubicCmPerCubicFoot
	if cubicFeet < 0.1 {
		return 0.1
	}
	return cubicFeet
}
