package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/secops-service/internal/domain"
	"github.com/spec-kit/secops-service/internal/repository"
)

// DashboardService computes the dashboard aggregate at read time.
type DashboardService struct {
	store repository.Store
	now   func() time.Time
}

// NewDashboardService builds the service. A nil clock means time.Now.
func NewDashboardService(store repository.Store, now func() time.Time) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{store: store, now: now}
}

// window is today [midnight, now] and yesterday [midnight-24h, midnight).
type window struct {
	yesterday time.Time
	midnight  time.Time
	now       time.Time
}

func newWindow(now time.Time) window {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return window{yesterday: midnight.Add(-24 * time.Hour), midnight: midnight, now: now}
}

// tally counts records matching pred and their created-today minus created-yesterday delta.
func tally[T any, P repository.EntityPtr[T]](items []T, w window, pred func(P) bool) (total, change int) {
	for i := range items {
		record := P(&items[i])
		if !pred(record) {
			continue
		}
		total++
		created := record.Metadata().CreatedAt
		switch {
		case !created.Before(w.midnight) && !created.After(w.now):
			change++
		case !created.Before(w.yesterday) && created.Before(w.midnight):
			change--
		}
	}
	return total, change
}

// Stats scans incidents, patrol reports, properties and accounts concurrently.
func (s *DashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	w := newWindow(s.now())
	stats := &domain.DashboardStats{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := s.store.Incidents().List(gctx)
		if err != nil {
			return translate("incidents", "", err)
		}
		stats.OpenIncidents, stats.IncidentChange = tally(items, w, func(r *domain.Incident) bool {
			return r.Status == domain.IncidentStatusOpen
		})
		return nil
	})
	g.Go(func() error {
		items, err := s.store.PatrolReports().List(gctx)
		if err != nil {
			return translate("patrol reports", "", err)
		}
		stats.ActivePatrols, stats.PatrolChange = tally(items, w, func(r *domain.PatrolReport) bool {
			return r.Status == domain.PatrolStatusInProgress
		})
		return nil
	})
	g.Go(func() error {
		items, err := s.store.Properties().List(gctx)
		if err != nil {
			return translate("properties", "", err)
		}
		stats.ActiveProperties, stats.PropertyChange = tally(items, w, func(r *domain.Property) bool {
			return r.Status == domain.PropertyStatusActive
		})
		return nil
	})
	g.Go(func() error {
		items, err := s.store.Accounts().List(gctx)
		if err != nil {
			return translate("staff", "", err)
		}
		stats.ActiveStaff, stats.StaffChange = tally(items, w, func(r *domain.Account) bool {
			return r.Active
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
