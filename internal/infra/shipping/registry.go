package shipping

import (
	"fmt"
	"sort"
	"sync"

	"github.com/xavierca1/woo-crm/internal/config"
	"github.com/xavierca1/woo-crm/internal/entity"
)

// Registry holds the carriers available for quoting, keyed by ID.
type Registry struct {
	mu       sync.RWMutex
	carriers map[string]entity.Carrier
}

func NewRegistry() *Registry {
	return &Registry{carriers: make(map[string]entity.Carrier)}
}

// Register adds c, replacing any carrier with the same ID.
func (r *Registry) Register(c entity.Carrier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carriers[c.ID()] = c
}

func (r *Registry) Get(id string) (entity.Carrier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.carriers[id]
	if !ok {
		return nil, entity.ErrCarrierNotFound
	}
	return c, nil
}

// All returns the carriers sorted by ID.
func (r *Registry) All() []entity.Carrier {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Carrier, 0, len(r.carriers))
	for _, c := range r.carriers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// FromSpecs builds a registry from carrier definitions.
func FromSpecs(specs []config.CarrierSpec) (*Registry, error) {
	r := NewRegistry()
	for _, s := range specs {
		c, err := NewCarrier(s)
		if err != nil {
			return nil, err
		}
		r.Register(c)
	}
	return r, nil
}

func NewCarrier(s config.CarrierSpec) (entity.Carrier, error) {
	if s.ID == "" {
		return nil, fmt.Errorf("carrier without id")
	}
	base := carrierBase{id: s.ID, name: s.Name, countries: s.Countries, days: s.Days}
	if base.name == "" {
		base.name = s.ID
	}
	switch s.Kind {
	case "flat", "":
		return &FlatRate{carrierBase: base, CostCents: s.CostCents}, nil
	case "weight":
		if len(s.Tiers) == 0 {
			return nil, fmt.Errorf("carrier %s: weight table without tiers", s.ID)
		}
		tiers := append([]config.WeightTier(nil), s.Tiers...)
		sort.Slice(tiers, func(i, j int) bool { return tiers[i].MaxKg < tiers[j].MaxKg })
		return &WeightTable{carrierBase: base, Tiers: tiers}, nil
	case "free_over":
		return &FreeOver{carrierBase: base, ThresholdCents: s.Threshold}, nil
	}
	return nil, fmt.Errorf("carrier %s: unknown kind %q", s.ID, s.Kind)
}
