package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aniketri/real-insights-data/internal/domain/port"
)

// Cache key kinds. Every key starts with "{kind}:{organizationID}:".
const (
	cacheKindDashboard = "dashboard"
	cacheKindLoans     = "loans"
	cacheKindSchedule  = "schedule"

	allSegment = "all"
)

var cacheKinds = []string{cacheKindDashboard, cacheKindLoans, cacheKindSchedule}

// keySegment escapes a filter value; an empty value matches everything.
// A literal "all" is escaped so it cannot collide with the wildcard.
func keySegment(s string) string {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return allSegment
	case allSegment:
		return "%61ll"
	}
	return url.QueryEscape(s)
}

func orgPrefix(kind string, orgID uuid.UUID) string {
	return kind + ":" + orgID.String() + ":"
}

// DashboardCacheKey is dashboard:{org}:{propertyType|all}:{lender|all}:{fund|all}.
func DashboardCacheKey(orgID uuid.UUID, propertyType, lender, fund string) string {
	return orgPrefix(cacheKindDashboard, orgID) +
		keySegment(propertyType) + ":" + keySegment(lender) + ":" + keySegment(fund)
}

// LoansCacheKey encodes every filter and the page. Search is case-insensitive
// and is lower-cased so equivalent queries share an entry.
func LoansCacheKey(orgID uuid.UUID, f port.LoanFilter) string {
	return orgPrefix(cacheKindLoans, orgID) + strings.Join([]string{
		keySegment(f.PropertyType),
		keySegment(f.Lender),
		keySegment(f.Fund),
		keySegment(f.Status),
		keySegment(strings.ToLower(f.Search)),
		strconv.Itoa(f.Offset),
		strconv.Itoa(f.Limit),
	}, ":")
}

// ScheduleCacheKey is schedule:{org}:{loanID}.
func ScheduleCacheKey(orgID, loanID uuid.UUID) string {
	return orgPrefix(cacheKindSchedule, orgID) + loanID.String()
}

// OrganizationCachePrefixes lists the prefixes covering every cached result of an organization.
func OrganizationCachePrefixes(orgID uuid.UUID) []string {
	prefixes := make([]string, 0, len(cacheKinds))
	for _, kind := range cacheKinds {
		prefixes = append(prefixes, orgPrefix(kind, orgID))
	}
	return prefixes
}

// memoize returns the cached value under key, or computes, stores and returns
// it. The boolean reports a cache hit. Undecodable entries count as misses.
func memoize[T any](
	ctx context.Context,
	cache port.ResultCache,
	logger *slog.Logger,
	key string,
	ttl time.Duration,
	compute func(context.Context) (T, error),
) (T, bool, error) {
	if raw, ok := cache.Get(ctx, key); ok {
		var v T
		err := json.Unmarshal(raw, &v)
		if err == nil {
			return v, true, nil
		}
		logger.WarnContext(ctx, "discarding undecodable cache entry", "key", key, "error", err)
	}

	v, err := compute(ctx)
	if err != nil {
		return v, false, err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		logger.WarnContext(ctx, "cache encode failed", "key", key, "error", err)
		return v, false, nil
	}
	cache.Put(ctx, key, raw, ttl)
	return v, false, nil
}

// ---------------------------------------------------------------------------
// CacheInvalidator
// ---------------------------------------------------------------------------

// CacheInvalidator drops an organization's cached dashboards, listings and
// schedules. Loan writes call it locally; the event consumer calls it for
// writes made by other instances.
type CacheInvalidator struct {
	cache  port.ResultCache
	logger *slog.Logger
}

// NewCacheInvalidator wires dependencies.
func NewCacheInvalidator(cache port.ResultCache, logger *slog.Logger) *CacheInvalidator {
	return &CacheInvalidator{cache: cache, logger: logger}
}

// InvalidateOrganization removes every cached result of the organization.
func (c *CacheInvalidator) InvalidateOrganization(ctx context.Context, orgID uuid.UUID) {
	for _, prefix := range OrganizationCachePrefixes(orgID) {
		c.cache.Invalidate(ctx, prefix)
	}
	c.logger.DebugContext(ctx, "organization cache invalidated", "organization_id", orgID)
}
