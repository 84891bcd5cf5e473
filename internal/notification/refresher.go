package notification

import (
	"context"
	"sync"
	"time"

	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/metrics"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/models"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CompanyLister lists the companies to refresh
type CompanyLister interface {
	CompanyIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Mailer delivers a digest of new high-priority reminders
type Mailer interface {
	SendDigest(to, company string, items []models.Notification) error
}

// Refresher recomputes every company's notifications on a cron schedule
// and keeps the latest snapshot for readers.
type Refresher struct {
	agg       *Aggregator
	companies CompanyLister
	mailer    Mailer
	digestTo  string
	log       *logrus.Logger
	now       func() time.Time

	cron *cron.Cron

	mu        sync.RWMutex
	snapshots map[uuid.UUID][]models.Notification
}

// NewRefresher creates a refresher. A nil mailer or empty digestTo disables digests.
func NewRefresher(agg *Aggregator, companies CompanyLister, mailer Mailer, digestTo string, log *logrus.Logger) *Refresher {
	return &Refresher{
		agg:       agg,
		companies: companies,
		mailer:    mailer,
		digestTo:  digestTo,
		log:       log,
		now:       time.Now,
		snapshots: make(map[uuid.UUID][]models.Notification),
	}
}

// Start runs one refresh immediately and then on every tick of spec
func (r *Refresher) Start(spec string) error {
	r.cron = cron.New(cron.WithLogger(cron.PrintfLogger(r.log)))
	if _, err := r.cron.AddFunc(spec, func() { r.Refresh(context.Background()) }); err != nil {
		return err
	}
	r.Refresh(context.Background())
	r.cron.Start()
	r.log.Infof("Notification refresh scheduled: %s", spec)
	return nil
}

// Stop stops the schedule and waits for a running refresh to finish
func (r *Refresher) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
}

// Refresh recomputes the snapshot of every listed company and of every company
// already held. A company that is no longer listed and has nothing left to
// report is dropped.
func (r *Refresher) Refresh(ctx context.Context) {
	ids, err := r.companies.CompanyIDs(ctx)
	if err != nil {
		r.log.Errorf("Failed to list companies: %v", err)
		return
	}
	listed := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		listed[id] = true
	}
	r.mu.RLock()
	for id := range r.snapshots {
		if !listed[id] {
			ids = append(ids, id)
		}
	}
	r.mu.RUnlock()

	now := r.now()
	for _, id := range ids {
		items := r.agg.Generate(ctx, id, now)
		if !listed[id] && len(items) == 0 {
			r.drop(id)
			continue
		}
		r.Store(id, items)
	}
	metrics.NotificationRefreshes.Inc()
}

// Store replaces a company's snapshot and mails high-priority items it did not hold
// before. The first snapshot of a company never triggers a digest.
func (r *Refresher) Store(companyID uuid.UUID, items []models.Notification) {
	r.mu.Lock()
	prev, known := r.snapshots[companyID]
	r.snapshots[companyID] = items
	r.mu.Unlock()

	counts := map[models.Priority]float64{models.PriorityHigh: 0, models.PriorityMedium: 0, models.PriorityLow: 0}
	for _, n := range items {
		counts[n.Priority]++
	}
	for p, c := range counts {
		metrics.Notifications.WithLabelValues(companyID.String(), string(p)).Set(c)
	}

	if !known || r.mailer == nil || r.digestTo == "" {
		return
	}
	fresh := newHighPriority(prev, items)
	if len(fresh) == 0 {
		return
	}
	if err := r.mailer.SendDigest(r.digestTo, companyID.String(), fresh); err != nil {
		r.log.WithField("company_id", companyID).Warnf("Digest not sent: %v", err)
	}
}

func (r *Refresher) drop(companyID uuid.UUID) {
	r.mu.Lock()
	delete(r.snapshots, companyID)
	r.mu.Unlock()
	for _, p := range []models.Priority{models.PriorityHigh, models.PriorityMedium, models.PriorityLow} {
		metrics.Notifications.DeleteLabelValues(companyID.String(), string(p))
	}
}

// Snapshot returns the latest notifications of a company
func (r *Refresher) Snapshot(companyID uuid.UUID) ([]models.Notification, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items, ok := r.snapshots[companyID]
	return items, ok
}

// Current returns the snapshot, computing one when none exists yet
func (r *Refresher) Current(ctx context.Context, companyID uuid.UUID) []models.Notification {
	if items, ok := r.Snapshot(companyID); ok {
		return items
	}
	items := r.agg.Generate(ctx, companyID, r.now())
	r.mu.Lock()
	r.snapshots[companyID] = items
	r.mu.Unlock()
	return items
}

func newHighPriority(prev, next []models.Notification) []models.Notification {
	known := make(map[string]bool, len(prev))
	for _, n := range prev {
		known[n.ID] = true
	}
	var out []models.Notification
	for _, n := range next {
		if n.Priority == models.PriorityHigh && !known[n.ID] {
			out = append(out, n)
		}
	}
	return out
}
