package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/xavierca1/woo-crm/internal/entity"
)

// MaxInterestsPerSubmission caps how many interests one submission can bump.
const MaxInterestsPerSubmission = 2

var ErrEmptyInterestKey = errors.New("interest key is required")

// InterestUpdater scores contact interests by keyword containment against a
// fixed dictionary. Weights only grow; there is no decay.
type InterestUpdater struct {
	Repo       entity.InterestRepositoryInterface
	dictionary map[string][]string
	keys       []string
}

func NewInterestUpdater(repo entity.InterestRepositoryInterface, dictionary map[string][]string) *InterestUpdater {
	keys := make([]string, 0, len(dictionary))
	lowered := make(map[string][]string, len(dictionary))
	for k, words := range dictionary {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		keys = append(keys, key)
		for _, w := range words {
			if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
				lowered[key] = append(lowered[key], w)
			}
		}
	}
	sort.Strings(keys)
	return &InterestUpdater{Repo: repo, dictionary: lowered, keys: keys}
}

// Match returns up to MaxInterestsPerSubmission interest keys whose keywords
// appear in text, in key order.
func (u *InterestUpdater) Match(text string) []string {
	text = strings.ToLower(text)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var matched []string
	for _, key := range u.keys {
		for _, w := range u.dictionary[key] {
			if strings.Contains(text, w) {
				matched = append(matched, key)
				break
			}
		}
		if len(matched) == MaxInterestsPerSubmission {
			break
		}
	}
	return matched
}

// AddInterest increments one interest. A non-positive delta counts as 1.
func (u *InterestUpdater) AddInterest(ctx context.Context, contactID, key string, delta int) (int, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return 0, ErrEmptyInterestKey
	}
	if delta <= 0 {
		delta = 1
	}
	return u.Repo.Add(ctx, contactID, key, delta)
}

// Apply bumps every interest matched in text by one and returns the keys.
func (u *InterestUpdater) Apply(ctx context.Context, contactID, text string) ([]string, error) {
	keys := u.Match(text)
	for _, key := range keys {
		if _, err := u.AddInterest(ctx, contactID, key, 1); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
