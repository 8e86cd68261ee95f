package usecase

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/xavierca1/woo-crm/internal/entity"
)

const QuoteCachePrefix = "shipping_quote:"

// quoteLookupTimeout bounds a shared carrier lookup once it no longer follows
// the caller's context.
const quoteLookupTimeout = 30 * time.Second

// QuoteService collects rates from every registered carrier and caches the
// combined answer per destination and parcel.
type QuoteService struct {
	Carriers CarrierSource
	Cache    CacheStore
	TTL      time.Duration
	Logger   *zap.Logger

	group singleflight.Group
}

func NewQuoteService(carriers CarrierSource, cache CacheStore, ttl time.Duration, logger *zap.Logger) *QuoteService {
	return &QuoteService{Carriers: carriers, Cache: cache, TTL: ttl, Logger: logger}
}

// QuoteKey is the cache key for pkg. Weight is rounded to grams.
func QuoteKey(pkg entity.Package) string {
	raw := fmt.Sprintf("%s|%s|%d|%d",
		strings.ToUpper(strings.TrimSpace(pkg.Country)),
		strings.ToUpper(strings.ReplaceAll(pkg.Postcode, " ", "")),
		int(pkg.WeightKg*1000+0.5),
		pkg.SubtotalCents,
	)
	sum := sha1.Sum([]byte(raw))
	return QuoteCachePrefix + hex.EncodeToString(sum[:])
}

func (s *QuoteService) Quote(ctx context.Context, pkg entity.Package) (*QuoteResult, error) {
	if errs := validateStruct(pkg); len(errs) > 0 {
		return nil, newValidationError(errs)
	}
	key := QuoteKey(pkg)

	if rates, ok := s.cached(ctx, key); ok {
		return &QuoteResult{Rates: rates, Cached: true}, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		// Shared by every waiter on key, so the first caller going away must
		// not cancel it for the rest.
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), quoteLookupTimeout)
		defer cancel()
		rates, err := s.collect(lctx, pkg)
		if err != nil {
			return nil, err
		}
		s.store(lctx, key, rates)
		return rates, nil
	})
	if err != nil {
		return nil, err
	}
	return &QuoteResult{Rates: v.([]entity.Rate)}, nil
}

func (s *QuoteService) cached(ctx context.Context, key string) ([]entity.Rate, bool) {
	if s.Cache == nil {
		return nil, false
	}
	data, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		s.Logger.Warn("quote cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var rates []entity.Rate
	if err := json.Unmarshal(data, &rates); err != nil {
		s.Logger.Warn("discarding corrupt quote cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return rates, true
}

func (s *QuoteService) store(ctx context.Context, key string, rates []entity.Rate) {
	if s.Cache == nil || s.TTL <= 0 {
		return
	}
	data, err := json.Marshal(rates)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, key, data, s.TTL); err != nil {
		s.Logger.Warn("quote cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// collect asks every carrier for rates. A failing carrier is skipped; when
// all of them fail nothing is cached.
func (s *QuoteService) collect(ctx context.Context, pkg entity.Package) ([]entity.Rate, error) {
	carriers := s.Carriers.All()
	rates := []entity.Rate{}
	failed := 0
	for _, c := range carriers {
		rs, err := c.Rates(ctx, pkg)
		if err != nil {
			failed++
			s.Logger.Warn("carrier quote failed", zap.String("carrier", c.ID()), zap.Error(err))
			continue
		}
		rates = append(rates, rs...)
	}
	if len(carriers) > 0 && failed == len(carriers) {
		return nil, &TechnicalError{Code: "QUOTE_FAILED", Message: "no carrier could quote the package"}
	}
	sort.SliceStable(rates, func(i, j int) bool {
		if rates[i].CostCents != rates[j].CostCents {
			return rates[i].CostCents < rates[j].CostCents
		}
		return rates[i].CarrierID < rates[j].CarrierID
	})
	return rates, nil
}

// Flush drops every cached quote.
func (s *QuoteService) Flush(ctx context.Context) (int, error) {
	if s.Cache == nil {
		return 0, nil
	}
	return s.Cache.DeletePrefix(ctx, QuoteCachePrefix)
}
