package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aniketri/real-insights-data/internal/application/usecase"
	"github.com/aniketri/real-insights-data/internal/domain/port"
)

func TestDashboardCacheKey(t *testing.T) {
	org := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	tests := []struct {
		name                 string
		propertyType, lender string
		fund                 string
		want                 string
	}{
		{"no filters", "", "", "", "dashboard:11111111-1111-1111-1111-111111111111:all:all:all"},
		{"escaped values", "Multi Family", "Bank:One", "", "dashboard:11111111-1111-1111-1111-111111111111:Multi+Family:Bank%3AOne:all"},
		{"literal all", "all", "", "", "dashboard:11111111-1111-1111-1111-111111111111:%61ll:all:all"},
		{"trimmed", "  Office ", "", "", "dashboard:11111111-1111-1111-1111-111111111111:Office:all:all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, usecase.DashboardCacheKey(org, tt.propertyType, tt.lender, tt.fund))
		})
	}
}

func TestLoansCacheKey_SearchIsCaseInsensitive(t *testing.T) {
	org := uuid.New()
	a := usecase.LoansCacheKey(org, port.LoanFilter{Search: "ABC", Limit: 25})
	b := usecase.LoansCacheKey(org, port.LoanFilter{Search: "abc", Limit: 25})
	c := usecase.LoansCacheKey(org, port.LoanFilter{Search: "abc", Offset: 25, Limit: 25})

	assert.Equal(t, a, b)
	assert.NotEqual(t, b, c)
}

func TestOrganizationCachePrefixes_CoverEveryKey(t *testing.T) {
	org := uuid.New()
	prefixes := usecase.OrganizationCachePrefixes(org)
	require.Len(t, prefixes, 3)

	keys := []string{
		usecase.DashboardCacheKey(org, "Office", "", ""),
		usecase.LoansCacheKey(org, port.LoanFilter{Limit: 25}),
		usecase.ScheduleCacheKey(org, uuid.New()),
	}
	for _, key := range keys {
		covered := false
		for _, p := range prefixes {
			if len(key) >= len(p) && key[:len(p)] == p {
				covered = true
			}
		}
		assert.True(t, covered, "key %q not covered", key)
	}

	other := usecase.DashboardCacheKey(uuid.New(), "", "", "")
	for _, p := range prefixes {
		assert.NotContains(t, other, p)
	}
}

func TestCacheInvalidator_OnlyTouchesOrganization(t *testing.T) {
	cache := newMapCache()
	cache.entries[usecase.DashboardCacheKey(testOrgID, "", "", "")] = []byte("{}")
	cache.entries[usecase.ScheduleCacheKey(testOrgID, uuid.New())] = []byte("{}")
	otherKey := usecase.DashboardCacheKey(otherOrgID, "", "", "")
	cache.entries[otherKey] = []byte("{}")

	usecase.NewCacheInvalidator(cache, discardLogger()).InvalidateOrganization(context.Background(), testOrgID)

	assert.Equal(t, []string{otherKey}, cache.keys())
	assert.Len(t, cache.invalidated, 3)
}
