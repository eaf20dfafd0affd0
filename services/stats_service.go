package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"campus-events/config"
	"campus-events/models"
	"campus-events/utils"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// StatsService answers the organizer dashboard queries: approved-event
// counts over trailing/leading month windows, plus attendee and revenue
// totals. Read-only; zero matching events is a zero result, not an error.
// Results are cached in Redis for a short TTL; a cache failure degrades
// to a direct query.
type StatsService struct {
	app   core.App
	redis *redis.Client
	cfg   *config.Config
}

func NewStatsService(app core.App, redisClient *redis.Client, cfg *config.Config) *StatsService {
	return &StatsService{app: app, redis: redisClient, cfg: cfg}
}

// trailingWindow returns [now - months, now].
func trailingWindow(now time.Time, months int) (time.Time, time.Time) {
	return now.AddDate(0, -months, 0), now
}

// leadingWindow returns [now, now + months].
func leadingWindow(now time.Time, months int) (time.Time, time.Time) {
	return now, now.AddDate(0, months, 0)
}

// ApprovedEventCountTrailing counts the organizer's approved events dated
// within the trailing window (default 5 months).
func (s *StatsService) ApprovedEventCountTrailing(ctx context.Context, organizerID string) (int64, error) {
	from, to := trailingWindow(time.Now(), s.cfg.TrailingWindowMonths)
	return s.cachedCount(ctx, organizerID, "approved-trailing", from, to)
}

// ApprovedEventCountLeading counts the organizer's approved events dated
// within the leading window (default 3 months).
func (s *StatsService) ApprovedEventCountLeading(ctx context.Context, organizerID string) (int64, error) {
	from, to := leadingWindow(time.Now(), s.cfg.LeadingWindowMonths)
	return s.cachedCount(ctx, organizerID, "approved-leading", from, to)
}

// TotalAttendees sums attendees across the organizer's approved events in
// the trailing activity window (default 3 months).
func (s *StatsService) TotalAttendees(ctx context.Context, organizerID string) (int64, error) {
	key := s.cacheKey(organizerID, "attendees")

	var cached int64
	if hit := s.cacheGet(ctx, key, &cached); hit {
		return cached, nil
	}

	from, to := trailingWindow(time.Now(), s.cfg.ActivityWindowMonths)

	var total int64
	err := s.app.DB().NewQuery(`
		SELECT COALESCE(SUM(attendees), 0)
		FROM events
		WHERE organizer = {:organizer}
		  AND status = {:status}
		  AND date >= {:from} AND date <= {:to}
	`).Bind(s.windowParams(organizerID, from, to)).Row(&total)
	if err != nil {
		return 0, fmt.Errorf("sum attendees: %w", err)
	}

	s.cacheSet(ctx, key, total)
	return total, nil
}

// TotalRevenue sums attendees x price over the organizer's approved
// events in the trailing activity window. Summed with decimals so ticket
// prices never accumulate float drift.
func (s *StatsService) TotalRevenue(ctx context.Context, organizerID string) (float64, error) {
	key := s.cacheKey(organizerID, "revenue")

	var cached float64
	if hit := s.cacheGet(ctx, key, &cached); hit {
		return cached, nil
	}

	from, to := trailingWindow(time.Now(), s.cfg.ActivityWindowMonths)

	rows := []struct {
		Attendees int     `db:"attendees"`
		Price     float64 `db:"price"`
	}{}
	err := s.app.DB().NewQuery(`
		SELECT attendees, price
		FROM events
		WHERE organizer = {:organizer}
		  AND status = {:status}
		  AND date >= {:from} AND date <= {:to}
	`).Bind(s.windowParams(organizerID, from, to)).All(&rows)
	if err != nil {
		return 0, fmt.Errorf("sum revenue: %w", err)
	}

	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(decimal.NewFromFloat(row.Price).Mul(decimal.NewFromInt(int64(row.Attendees))))
	}

	revenue, _ := total.Float64()
	s.cacheSet(ctx, key, revenue)
	return revenue, nil
}

func (s *StatsService) cachedCount(ctx context.Context, organizerID, metric string, from, to time.Time) (int64, error) {
	key := s.cacheKey(organizerID, metric)

	var cached int64
	if hit := s.cacheGet(ctx, key, &cached); hit {
		return cached, nil
	}

	var count int64
	err := s.app.DB().NewQuery(`
		SELECT COUNT(*)
		FROM events
		WHERE organizer = {:organizer}
		  AND status = {:status}
		  AND date >= {:from} AND date <= {:to}
	`).Bind(s.windowParams(organizerID, from, to)).Row(&count)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}

	s.cacheSet(ctx, key, count)
	return count, nil
}

func (s *StatsService) windowParams(organizerID string, from, to time.Time) dbx.Params {
	return dbx.Params{
		"organizer": organizerID,
		"status":    string(models.EventStatusApproved),
		"from":      from.UTC().Format("2006-01-02 15:04:05.000Z"),
		"to":        to.UTC().Format("2006-01-02 15:04:05.000Z"),
	}
}

func (s *StatsService) cacheKey(organizerID, metric string) string {
	return fmt.Sprintf("stats:%s:%s", metric, organizerID)
}

func (s *StatsService) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.redis == nil {
		return false
	}
	hit, err := utils.GetCachedJSON(ctx, s.redis, key, dest)
	if err != nil {
		slog.Warn("stats cache read failed", "key", key, "error", err)
		return false
	}
	return hit
}

func (s *StatsService) cacheSet(ctx context.Context, key string, value any) {
	if s.redis == nil {
		return
	}
	if err := utils.CacheJSON(ctx, s.redis, key, value, s.cfg.StatsCacheTTL); err != nil {
		slog.Warn("stats cache write failed", "key", key, "error", err)
	}
}
