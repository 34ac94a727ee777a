package services

import (
	"context"
	"testing"
	"time"
)

type stubReminderStore struct {
	tenants []*Tenant
	players map[string][]*Player
	subs    map[string]bool // playerID|variant|dayKey
	staff   map[string][]string
}

func (s *stubReminderStore) ListTenants() ([]*Tenant, error) { return s.tenants, nil }

func (s *stubReminderStore) ListPlayersByTenant(tid string) ([]*Player, error) {
	return s.players[tid], nil
}

func (s *stubReminderStore) FindSubmission(playerID string, variant Variant, dayKey string) (*Submission, error) {
	if s.subs[playerID+"|"+string(variant)+"|"+dayKey] {
		return &Submission{PlayerID: playerID, Variant: variant, DayKey: dayKey}, nil
	}
	return nil, nil
}

func (s *stubReminderStore) ListStaffEmailsByTenant(tid string) ([]string, error) {
	return s.staff[tid], nil
}

type stubNotifier struct {
	sent []struct {
		to      []string
		tenant  string
		dayKey  string
		missing []MissingReport
	}
}

func (n *stubNotifier) SendMissingSummary(_ context.Context, to []string, tenantName, dayKey string, missing []MissingReport) error {
	n.sent = append(n.sent, struct {
		to      []string
		tenant  string
		dayKey  string
		missing []MissingReport
	}{to, tenantName, dayKey, missing})
	return nil
}

func TestReminderRun(t *testing.T) {
	day := "2025-09-16"
	store := &stubReminderStore{
		tenants: []*Tenant{{ID: "T1", Name: "Club Uno"}, {ID: "T2", Name: "Club Dos"}},
		players: map[string][]*Player{
			"T1": {
				{ID: "P1", TenantID: "T1", Active: true},
				{ID: "P2", TenantID: "T1", Active: true},
				{ID: "P3", TenantID: "T1", Active: false},
			},
			"T2": {{ID: "P4", TenantID: "T2", Active: true}},
		},
		subs: map[string]bool{
			"P1|wellness|" + day: true,
			"P1|rpe|" + day:      true,
			"P4|wellness|" + day: true,
			"P4|rpe|" + day:      true,
		},
		staff: map[string][]string{"T1": {"coach@clubuno.com"}, "T2": {"coach@clubdos.com"}},
	}
	notifier := &stubNotifier{}
	svc := NewReminderService(store, notifier)
	svc.now = func() time.Time { return time.Date(2025, 9, 16, 21, 0, 0, 0, time.UTC) }

	sent, err := svc.Run(context.Background(), "UTC")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if sent != 1 {
		t.Fatalf("summaries sent = %d, want 1 (only T1 has laggards)", sent)
	}
	got := notifier.sent[0]
	if got.tenant != "Club Uno" || got.dayKey != day {
		t.Fatalf("unexpected summary header: %q %q", got.tenant, got.dayKey)
	}
	if len(got.missing) != 1 || got.missing[0].Player.ID != "P2" {
		t.Fatalf("unexpected missing set: %+v", got.missing)
	}
	if len(got.missing[0].Missing) != 2 {
		t.Fatalf("P2 should miss both variants, got %v", got.missing[0].Missing)
	}
}

func TestReminderSkipsTenantsWithoutStaff(t *testing.T) {
	store := &stubReminderStore{
		tenants: []*Tenant{{ID: "T1", Name: "Club Uno"}},
		players: map[string][]*Player{"T1": {{ID: "P1", TenantID: "T1", Active: true}}},
		subs:    map[string]bool{},
		staff:   map[string][]string{},
	}
	notifier := &stubNotifier{}
	svc := NewReminderService(store, notifier)

	sent, err := svc.Run(context.Background(), "UTC")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if sent != 0 || len(notifier.sent) != 0 {
		t.Fatalf("expected no summaries without staff recipients")
	}
}
