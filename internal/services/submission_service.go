package services

import (
	"strings"
	"time"
)

// Variant is a daily questionnaire kind.
type Variant string

const (
	VariantWellness Variant = "wellness"
	VariantRPE      Variant = "rpe"
)

func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case VariantWellness:
		return VariantWellness, nil
	case VariantRPE:
		return VariantRPE, nil
	default:
		return "", NewInvalidError("unknown questionnaire variant " + s)
	}
}

// Player is a questionnaire subject scoped to one tenant.
type Player struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenant_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Active    bool   `json:"active"`
}

// WellnessScores are the morning questionnaire sub-scores, each 1..5.
type WellnessScores struct {
	SleepQuality int `json:"sleep_quality"`
	SleepHours   int `json:"sleep_hours"`
	Fatigue      int `json:"fatigue"`
	Soreness     int `json:"soreness"`
	Stress       int `json:"stress"`
	Mood         int `json:"mood"`
}

// RPEScore is a rating of perceived exertion on the 1..10 scale.
type RPEScore struct {
	Level   int    `json:"level"`
	Comment string `json:"comment,omitempty"`
}

// Submission is the daily record for one player and variant. DayKey plus
// PlayerID plus Variant form the natural key; CreatedAt never changes
// after the first write of the day.
type Submission struct {
	ID        string          `json:"id"`
	PlayerID  string          `json:"player_id"`
	TenantID  string          `json:"tenant_id"`
	Variant   Variant         `json:"variant"`
	DayKey    string          `json:"day_key"`
	LocalTime string          `json:"local_time"`
	Timezone  string          `json:"timezone"`
	Wellness  *WellnessScores `json:"wellness,omitempty"`
	RPE       *RPEScore       `json:"rpe,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SubmissionStore abstracts persistence for the daily submission workflow.
// FindSubmission resolves the natural key; storage itself enforces nothing.
type SubmissionStore interface {
	GetPlayer(id string) (*Player, error)
	FindSubmission(playerID string, variant Variant, dayKey string) (*Submission, error)
	CreateSubmission(sub *Submission) error
	UpdateSubmission(sub *Submission) error
}

// UpsertRequest carries one create-or-overwrite attempt. TenantID is the
// caller's resolved tenant, not a client-supplied claim about the player.
type UpsertRequest struct {
	PlayerID string
	TenantID string
	Variant  Variant
	Wellness *WellnessScores
	RPE      *RPEScore
	Timezone string
}

type SubmissionService struct {
	store SubmissionStore
	now   func() time.Time
	idGen func() string
}

func NewSubmissionService(store SubmissionStore) *SubmissionService {
	return &SubmissionService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: func() string { return shortID(12) },
	}
}

// TodaySubmission returns the unique record for (playerID, variant, today)
// where today is computed in tz, or nil when the day has no record yet.
func (s *SubmissionService) TodaySubmission(playerID string, variant Variant, tz string) (*Submission, error) {
	if strings.TrimSpace(playerID) == "" {
		return nil, NewInvalidError("player_id required")
	}
	dayKey, _, err := LocalDay(s.now(), tz)
	if err != nil {
		return nil, err
	}
	return s.store.FindSubmission(playerID, variant, dayKey)
}

// Upsert enforces at-most-one-record-per-player-per-local-day. An existing
// record for today is overwritten in place (CreatedAt preserved); otherwise
// a new record is created. Exactly one write happens on success.
//
// The find-then-write pair is not transactional: two concurrent upserts for
// the same player and day can both miss and both create. Callers are
// single-session by design; closing the race would need the backend's
// conditional write.
func (s *SubmissionService) Upsert(req UpsertRequest) (*Submission, error) {
	if strings.TrimSpace(req.PlayerID) == "" {
		return nil, NewInvalidError("player_id required")
	}
	if strings.TrimSpace(req.TenantID) == "" {
		return nil, NewForbiddenError("unauthorized")
	}

	p, err := s.store.GetPlayer(req.PlayerID)
	if err != nil {
		return nil, err
	}
	if err := CheckPlayerWritable(p, req.TenantID); err != nil {
		return nil, err
	}

	if err := validatePayload(req); err != nil {
		return nil, err
	}

	now := s.now()
	dayKey, localTime, err := LocalDay(now, req.Timezone)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.FindSubmission(req.PlayerID, req.Variant, dayKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Wellness = req.Wellness
		existing.RPE = req.RPE
		existing.LocalTime = localTime
		existing.Timezone = req.Timezone
		existing.UpdatedAt = now
		if err := s.store.UpdateSubmission(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	sub := &Submission{
		ID:        s.idGen(),
		PlayerID:  req.PlayerID,
		TenantID:  p.TenantID,
		Variant:   req.Variant,
		DayKey:    dayKey,
		LocalTime: localTime,
		Timezone:  req.Timezone,
		Wellness:  req.Wellness,
		RPE:       req.RPE,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateSubmission(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func validatePayload(req UpsertRequest) error {
	switch req.Variant {
	case VariantWellness:
		if req.RPE != nil {
			return NewValidationError("rpe", "rpe payload not allowed on wellness submission")
		}
		return validateWellness(req.Wellness)
	case VariantRPE:
		if req.Wellness != nil {
			return NewValidationError("wellness", "wellness payload not allowed on rpe submission")
		}
		return validateRPE(req.RPE)
	default:
		return NewInvalidError("unknown questionnaire variant " + string(req.Variant))
	}
}

func validateWellness(w *WellnessScores) error {
	if w == nil {
		return NewValidationError("wellness", "wellness scores required")
	}
	scores := []struct {
		field string
		value int
	}{
		{"sleep_quality", w.SleepQuality},
		{"sleep_hours", w.SleepHours},
		{"fatigue", w.Fatigue},
		{"soreness", w.Soreness},
		{"stress", w.Stress},
		{"mood", w.Mood},
	}
	for _, sc := range scores {
		if sc.value < 1 || sc.value > 5 {
			return NewValidationError(sc.field, sc.field+" must be between 1 and 5")
		}
	}
	return nil
}

func validateRPE(r *RPEScore) error {
	if r == nil {
		return NewValidationError("rpe", "rpe score required")
	}
	if r.Level < 1 || r.Level > 10 {
		return NewValidationError("level", "level must be between 1 and 10")
	}
	return nil
}
