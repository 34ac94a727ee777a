package services

import (
	"testing"
	"time"
)

type stubSubmissionStore struct {
	players map[string]*Player
	subs    []*Submission
	creates int
	updates int
}

func newStubSubmissionStore(players ...*Player) *stubSubmissionStore {
	s := &stubSubmissionStore{players: map[string]*Player{}}
	for _, p := range players {
		s.players[p.ID] = p
	}
	return s
}

func (s *stubSubmissionStore) GetPlayer(id string) (*Player, error) {
	if p, ok := s.players[id]; ok {
		copy := *p
		return &copy, nil
	}
	return nil, nil
}

func (s *stubSubmissionStore) FindSubmission(playerID string, variant Variant, dayKey string) (*Submission, error) {
	for _, sub := range s.subs {
		if sub.PlayerID == playerID && sub.Variant == variant && sub.DayKey == dayKey {
			return sub, nil
		}
	}
	return nil, nil
}

func (s *stubSubmissionStore) CreateSubmission(sub *Submission) error {
	s.creates++
	s.subs = append(s.subs, sub)
	return nil
}

func (s *stubSubmissionStore) UpdateSubmission(sub *Submission) error {
	s.updates++
	return nil
}

const tzBuenosAires = "America/Argentina/Buenos_Aires"

func activePlayer(id, tenantID string) *Player {
	return &Player{ID: id, TenantID: tenantID, FirstName: "Ana", LastName: "Pérez", Active: true}
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestUpsertFirstSubmission(t *testing.T) {
	store := newStubSubmissionStore(activePlayer("P1", "T1"))
	svc := NewSubmissionService(store)
	// 01:30 UTC is still the previous evening in Buenos Aires (UTC-3).
	svc.now = fixedClock(time.Date(2025, 9, 17, 1, 30, 0, 0, time.UTC))
	svc.idGen = func() string { return "SUB1" }

	sub, err := svc.Upsert(UpsertRequest{
		PlayerID: "P1",
		TenantID: "T1",
		Variant:  VariantRPE,
		RPE:      &RPEScore{Level: 7},
		Timezone: tzBuenosAires,
	})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if sub.DayKey != "2025-09-16" || sub.LocalTime != "22:30" {
		t.Fatalf("local day = (%q,%q), want (2025-09-16,22:30)", sub.DayKey, sub.LocalTime)
	}
	if sub.RPE == nil || sub.RPE.Level != 7 {
		t.Fatalf("rpe payload not stored: %+v", sub.RPE)
	}
	if sub.TenantID != "T1" {
		t.Fatalf("tenant id = %q, want T1", sub.TenantID)
	}
	if store.creates != 1 || store.updates != 0 {
		t.Fatalf("writes = (%d creates, %d updates), want (1,0)", store.creates, store.updates)
	}
}

func TestUpsertSameDayEdit(t *testing.T) {
	store := newStubSubmissionStore(activePlayer("P1", "T1"))
	svc := NewSubmissionService(store)
	first := time.Date(2025, 9, 16, 20, 0, 0, 0, time.UTC)
	svc.now = fixedClock(first)

	created, err := svc.Upsert(UpsertRequest{
		PlayerID: "P1", TenantID: "T1", Variant: VariantRPE,
		RPE: &RPEScore{Level: 7}, Timezone: tzBuenosAires,
	})
	if err != nil {
		t.Fatalf("first Upsert returned error: %v", err)
	}

	second := first.Add(2 * time.Hour)
	svc.now = fixedClock(second)
	edited, err := svc.Upsert(UpsertRequest{
		PlayerID: "P1", TenantID: "T1", Variant: VariantRPE,
		RPE: &RPEScore{Level: 9, Comment: "tight hamstring"}, Timezone: tzBuenosAires,
	})
	if err != nil {
		t.Fatalf("second Upsert returned error: %v", err)
	}

	if len(store.subs) != 1 {
		t.Fatalf("stored records = %d, want 1", len(store.subs))
	}
	if edited.ID != created.ID {
		t.Fatalf("edit created a new record identity: %q vs %q", edited.ID, created.ID)
	}
	if edited.RPE.Level != 9 || edited.RPE.Comment != "tight hamstring" {
		t.Fatalf("second payload not visible: %+v", edited.RPE)
	}
	if !edited.CreatedAt.Equal(first) {
		t.Fatalf("CreatedAt changed on overwrite: %v", edited.CreatedAt)
	}
	if !edited.UpdatedAt.Equal(second) {
		t.Fatalf("UpdatedAt = %v, want %v", edited.UpdatedAt, second)
	}
	if store.creates != 1 || store.updates != 1 {
		t.Fatalf("writes = (%d creates, %d updates), want (1,1)", store.creates, store.updates)
	}
}

func TestUpsertDayBoundaryIsolation(t *testing.T) {
	store := newStubSubmissionStore(activePlayer("P1", "T1"))
	svc := NewSubmissionService(store)

	svc.now = fixedClock(time.Date(2025, 9, 16, 12, 0, 0, 0, time.UTC))
	d1, err := svc.Upsert(UpsertRequest{
		PlayerID: "P1", TenantID: "T1", Variant: VariantRPE,
		RPE: &RPEScore{Level: 5}, Timezone: "UTC",
	})
	if err != nil {
		t.Fatalf("day-1 Upsert returned error: %v", err)
	}

	svc.now = fixedClock(time.Date(2025, 9, 17, 12, 0, 0, 0, time.UTC))
	d2, err := svc.Upsert(UpsertRequest{
		PlayerID: "P1", TenantID: "T1", Variant: VariantRPE,
		RPE: &RPEScore{Level: 8}, Timezone: "UTC",
	})
	if err != nil {
		t.Fatalf("day-2 Upsert returned error: %v", err)
	}

	if len(store.subs) != 2 {
		t.Fatalf("stored records = %d, want 2", len(store.subs))
	}
	if d1.DayKey == d2.DayKey {
		t.Fatalf("expected distinct day keys, both %q", d1.DayKey)
	}
	if d1.RPE.Level != 5 {
		t.Fatalf("day-1 record mutated by day-2 upsert: %+v", d1.RPE)
	}
}

func TestUpsertTenantMismatch(t *testing.T) {
	store := newStubSubmissionStore(activePlayer("P1", "T1"))
	svc := NewSubmissionService(store)

	_, err := svc.Upsert(UpsertRequest{
		PlayerID: "P1", TenantID: "T2", Variant: VariantRPE,
		RPE: &RPEScore{Level: 5}, Timezone: "UTC",
	})
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorTenantMismatch {
		t.Fatalf("expected tenant mismatch, got %v", err)
	}
	if store.creates != 0 || store.updates != 0 {
		t.Fatalf("tenant mismatch must not write, got (%d,%d)", store.creates, store.updates)
	}
}

func TestUpsertInactivePlayer(t *testing.T) {
	p := activePlayer("P2", "T1")
	p.Active = false
	store := newStubSubmissionStore(p)
	svc := NewSubmissionService(store)

	_, err := svc.Upsert(UpsertRequest{
		PlayerID: "P2", TenantID: "T1", Variant: VariantWellness,
		Wellness: &WellnessScores{SleepQuality: 3, SleepHours: 3, Fatigue: 3, Soreness: 3, Stress: 3, Mood: 3},
		Timezone: "UTC",
	})
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorSubjectInactive {
		t.Fatalf("expected inactive error, got %v", err)
	}
	if store.creates != 0 {
		t.Fatalf("inactive player must not write")
	}
}

func TestUpsertUnknownPlayer(t *testing.T) {
	store := newStubSubmissionStore()
	svc := NewSubmissionService(store)

	_, err := svc.Upsert(UpsertRequest{
		PlayerID: "missing", TenantID: "T1", Variant: VariantRPE,
		RPE: &RPEScore{Level: 5}, Timezone: "UTC",
	})
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorSubjectNotFound {
		t.Fatalf("expected subject not found, got %v", err)
	}
}

func TestUpsertRPEBoundaries(t *testing.T) {
	for _, level := range []int{0, 11} {
		store := newStubSubmissionStore(activePlayer("P1", "T1"))
		svc := NewSubmissionService(store)
		_, err := svc.Upsert(UpsertRequest{
			PlayerID: "P1", TenantID: "T1", Variant: VariantRPE,
			RPE: &RPEScore{Level: level}, Timezone: "UTC",
		})
		se, ok := AsServiceError(err)
		if !ok || se.Code != ErrorValidation {
			t.Fatalf("level %d: expected validation error, got %v", level, err)
		}
		if store.creates != 0 {
			t.Fatalf("level %d: rejected payload must not write", level)
		}
	}
	for _, level := range []int{1, 10} {
		store := newStubSubmissionStore(activePlayer("P1", "T1"))
		svc := NewSubmissionService(store)
		if _, err := svc.Upsert(UpsertRequest{
			PlayerID: "P1", TenantID: "T1", Variant: VariantRPE,
			RPE: &RPEScore{Level: level}, Timezone: "UTC",
		}); err != nil {
			t.Fatalf("level %d: unexpected error %v", level, err)
		}
	}
}

func TestUpsertWellnessValidation(t *testing.T) {
	store := newStubSubmissionStore(activePlayer("P1", "T1"))
	svc := NewSubmissionService(store)

	_, err := svc.Upsert(UpsertRequest{
		PlayerID: "P1", TenantID: "T1", Variant: VariantWellness, Timezone: "UTC",
	})
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorValidation {
		t.Fatalf("expected validation error for missing payload, got %v", err)
	}

	_, err = svc.Upsert(UpsertRequest{
		PlayerID: "P1", TenantID: "T1", Variant: VariantWellness,
		Wellness: &WellnessScores{SleepQuality: 3, SleepHours: 6, Fatigue: 3, Soreness: 3, Stress: 3, Mood: 3},
		Timezone: "UTC",
	})
	se, ok = AsServiceError(err)
	if !ok || se.Code != ErrorValidation || se.Field != "sleep_hours" {
		t.Fatalf("expected sleep_hours validation error, got %v", err)
	}

	if _, err := svc.Upsert(UpsertRequest{
		PlayerID: "P1", TenantID: "T1", Variant: VariantWellness,
		Wellness: &WellnessScores{SleepQuality: 4, SleepHours: 3, Fatigue: 2, Soreness: 1, Stress: 5, Mood: 4},
		Timezone: "UTC",
	}); err != nil {
		t.Fatalf("in-range wellness rejected: %v", err)
	}
}

func TestUpsertRejectsMismatchedPayload(t *testing.T) {
	store := newStubSubmissionStore(activePlayer("P1", "T1"))
	svc := NewSubmissionService(store)

	_, err := svc.Upsert(UpsertRequest{
		PlayerID: "P1", TenantID: "T1", Variant: VariantRPE,
		Wellness: &WellnessScores{SleepQuality: 3, SleepHours: 3, Fatigue: 3, Soreness: 3, Stress: 3, Mood: 3},
		RPE:      &RPEScore{Level: 5},
		Timezone: "UTC",
	})
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorValidation {
		t.Fatalf("expected validation error for mismatched payload, got %v", err)
	}
}

func TestTodaySubmission(t *testing.T) {
	store := newStubSubmissionStore(activePlayer("P1", "T1"))
	svc := NewSubmissionService(store)
	svc.now = fixedClock(time.Date(2025, 9, 17, 1, 30, 0, 0, time.UTC))

	sub, err := svc.TodaySubmission("P1", VariantRPE, tzBuenosAires)
	if err != nil {
		t.Fatalf("TodaySubmission returned error: %v", err)
	}
	if sub != nil {
		t.Fatalf("expected no record yet, got %+v", sub)
	}

	if _, err := svc.Upsert(UpsertRequest{
		PlayerID: "P1", TenantID: "T1", Variant: VariantRPE,
		RPE: &RPEScore{Level: 6}, Timezone: tzBuenosAires,
	}); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	sub, err = svc.TodaySubmission("P1", VariantRPE, tzBuenosAires)
	if err != nil {
		t.Fatalf("TodaySubmission returned error: %v", err)
	}
	if sub == nil || sub.RPE.Level != 6 {
		t.Fatalf("expected today's record back, got %+v", sub)
	}
}
