package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/models"
)

// ErrReportNotFound is returned for unknown or expired report IDs
var ErrReportNotFound = errors.New("report not found")

// ReportStore persists reports for a limited time
type ReportStore struct {
	store Store
	ttl   time.Duration
}

// NewReportStore keeps reports in store for ttl
func NewReportStore(store Store, ttl time.Duration) *ReportStore {
	return &ReportStore{store: store, ttl: ttl}
}

func reportKey(id uuid.UUID) string {
	return "report:" + id.String()
}

// Save writes report, replacing an earlier version with the same ID
func (r *ReportStore) Save(ctx context.Context, report *models.Report) error {
	if err := r.store.Set(ctx, reportKey(report.ID), report, r.ttl); err != nil {
		return fmt.Errorf("failed to save report %s: %w", report.ID, err)
	}
	return nil
}

// Get loads a report or returns ErrReportNotFound
func (r *ReportStore) Get(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := r.store.Get(ctx, reportKey(id), &report); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to load report %s: %w", id, err)
	}
	return &report, nil
}
