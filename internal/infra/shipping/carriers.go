package shipping

import (
	"context"
	"strings"

	"github.com/xavierca1/woo-crm/internal/config"
	"github.com/xavierca1/woo-crm/internal/entity"
)

type carrierBase struct {
	id        string
	name      string
	countries []string
	days      int
}

func (c carrierBase) ID() string   { return c.id }
func (c carrierBase) Name() string { return c.name }

// serves reports whether the carrier ships to country. An empty list means
// everywhere.
func (c carrierBase) serves(country string) bool {
	if len(c.countries) == 0 {
		return true
	}
	for _, cc := range c.countries {
		if strings.EqualFold(cc, country) {
			return true
		}
	}
	return false
}

func (c carrierBase) rate(service string, cost int) []entity.Rate {
	return []entity.Rate{{CarrierID: c.id, Service: service, Label: c.name, CostCents: cost, Days: c.days}}
}

// FlatRate charges the same amount for every parcel.
type FlatRate struct {
	carrierBase
	CostCents int
}

func (c *FlatRate) Rates(_ context.Context, pkg entity.Package) ([]entity.Rate, error) {
	if !c.serves(pkg.Country) {
		return nil, nil
	}
	return c.rate("flat", c.CostCents), nil
}

// WeightTable charges by the first tier whose MaxKg covers the parcel.
// Parcels heavier than the last tier get no rate.
type WeightTable struct {
	carrierBase
	Tiers []config.WeightTier
}

func (c *WeightTable) Rates(_ context.Context, pkg entity.Package) ([]entity.Rate, error) {
	if !c.serves(pkg.Country) {
		return nil, nil
	}
	for _, t := range c.Tiers {
		if pkg.WeightKg <= t.MaxKg {
			return c.rate("weight", t.CostCents), nil
		}
	}
	return nil, nil
}

// FreeOver offers free shipping once the order subtotal reaches the threshold.
type FreeOver struct {
	carrierBase
	ThresholdCents int
}

func (c *FreeOver) Rates(_ context.Context, pkg entity.Package) ([]entity.Rate, error) {
	if !c.serves(pkg.Country) || pkg.SubtotalCents < c.ThresholdCents {
		return nil, nil
	}
	return c.rate("free", 0), nil
}
