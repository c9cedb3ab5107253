package dashboard

import (
	"context"
	"sort"
	"time"

	"github-dashboard-api/internal/cache"
)

const (
	maxEventPages  = 3
	eventsPageSize = 100
	eventTimeFmt   = "2006-01-02T15:04:05Z"
)

// Streak returns the longest run of consecutive UTC days with qualifying
// activity among the user's recent events. A computed zero is cached like
// any other value; when the first events page cannot be fetched the zero
// is returned but not cached.
func (s *Service) Streak(ctx context.Context, name string) int {
	name = normalizeLogin(name)
	key := cache.StreakKey(name)

	if n, ok := s.cache.GetInt(ctx, key); ok {
		return n
	}

	dates, ok := s.activeDates(ctx, name)
	if !ok {
		return 0
	}
	n := LongestStreak(dates)

	s.cache.SetInt(ctx, key, n, cache.StreakTTL)
	s.notify(name, SectionStreak)
	return n
}

// activeDates gathers the dates of qualifying events from up to three
// pages. ok is false only when nothing could be fetched at all.
func (s *Service) activeDates(ctx context.Context, name string) (dates []time.Time, ok bool) {
	for page := 1; page <= maxEventPages; page++ {
		events, err := s.upstream.Events(ctx, name, page)
		if err != nil {
			s.logger.Warn("events page unavailable", "user", name, "page", page, "error", err)
			if page == 1 {
				return nil, false
			}
			break
		}
		for _, e := range events {
			if !e.CountsTowardsStreak() {
				continue
			}
			if e.CreatedAt == "" {
				s.logger.Warn("skipping event without timestamp", "user", name, "event_id", e.ID)
				continue
			}
			ts, err := time.Parse(eventTimeFmt, e.CreatedAt)
			if err != nil {
				s.logger.Warn("skipping event with unparsable timestamp",
					"user", name, "event_id", e.ID, "created_at", e.CreatedAt)
				continue
			}
			dates = append(dates, ts)
		}
		if len(events) < eventsPageSize {
			break
		}
	}
	return dates, true
}

// LongestStreak returns the longest run of consecutive calendar days (UTC)
// present in dates. Duplicates and time of day are ignored.
func LongestStreak(dates []time.Time) int {
	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		y, m, dd := d.UTC().Date()
		day := time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	if len(days) == 0 {
		return 0
	}

	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	longest, current := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, -1).Equal(days[i]) {
			current++
		} else {
			current = 1
		}
		if current > longest {
			longest = current
		}
	}
	return longest
}
