package services

import (
	"context"
	"log"
	"time"
)

// Tenant is an isolated club/organization scope.
type Tenant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ReminderStore provides the reads needed by the evening sweep.
type ReminderStore interface {
	ListTenants() ([]*Tenant, error)
	ListPlayersByTenant(tenantID string) ([]*Player, error)
	FindSubmission(playerID string, variant Variant, dayKey string) (*Submission, error)
	ListStaffEmailsByTenant(tenantID string) ([]string, error)
}

// MissingReport names one player and which of today's questionnaires are
// still absent.
type MissingReport struct {
	Player  *Player
	Missing []Variant
}

// Notifier delivers the per-tenant summary to its staff.
type Notifier interface {
	SendMissingSummary(ctx context.Context, to []string, tenantName, dayKey string, missing []MissingReport) error
}

type ReminderService struct {
	store    ReminderStore
	notifier Notifier
	now      func() time.Time
}

func NewReminderService(store ReminderStore, notifier Notifier) *ReminderService {
	return &ReminderService{
		store:    store,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run sweeps every tenant for active players missing today's wellness or
// RPE record and mails each tenant's staff a summary. Per-tenant failures
// are logged and skipped; the sweep itself never fails the scheduler.
// Returns the number of summaries sent.
func (s *ReminderService) Run(ctx context.Context, tz string) (int, error) {
	dayKey, _, err := LocalDay(s.now(), tz)
	if err != nil {
		return 0, err
	}
	tenants, err := s.store.ListTenants()
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, t := range tenants {
		missing, err := s.collectMissing(t.ID, dayKey)
		if err != nil {
			log.Printf("reminder: tenant %s: %v", t.ID, err)
			continue
		}
		if len(missing) == 0 {
			continue
		}
		staff, err := s.store.ListStaffEmailsByTenant(t.ID)
		if err != nil || len(staff) == 0 {
			if err != nil {
				log.Printf("reminder: staff emails for tenant %s: %v", t.ID, err)
			}
			continue
		}
		if err := s.notifier.SendMissingSummary(ctx, staff, t.Name, dayKey, missing); err != nil {
			log.Printf("reminder: notify tenant %s: %v", t.ID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *ReminderService) collectMissing(tenantID, dayKey string) ([]MissingReport, error) {
	players, err := s.store.ListPlayersByTenant(tenantID)
	if err != nil {
		return nil, err
	}
	var out []MissingReport
	for _, p := range players {
		if !p.Active {
			continue
		}
		var missing []Variant
		for _, v := range []Variant{VariantWellness, VariantRPE} {
			sub, err := s.store.FindSubmission(p.ID, v, dayKey)
			if err != nil {
				return nil, err
			}
			if sub == nil {
				missing = append(missing, v)
			}
		}
		if len(missing) > 0 {
			out = append(out, MissingReport{Player: p, Missing: missing})
		}
	}
	return out, nil
}
