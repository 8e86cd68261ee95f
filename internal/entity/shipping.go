package entity

import (
	"context"
	"errors"
)

var ErrCarrierNotFound = errors.New("carrier not found")

type Package struct {
	Country       string  `json:"country" validate:"required,len=2"`
	Postcode      string  `json:"postcode"`
	WeightKg      float64 `json:"weight_kg" validate:"gte=0"`
	SubtotalCents int     `json:"subtotal_cents" validate:"gte=0"`
}

type Rate struct {
	CarrierID string `json:"carrier_id"`
	Service   string `json:"service"`
	Label     string `json:"label"`
	CostCents int    `json:"cost_cents"`
	Days      int    `json:"days,omitempty"`
}

type Carrier interface {
	ID() string
	Name() string
	Rates(ctx context.Context, pkg Package) ([]Rate, error)
}
