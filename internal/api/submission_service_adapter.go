package api

import (
	"github.com/pulso-app/pulso/internal/models"
	"github.com/pulso-app/pulso/internal/services"
)

type submissionStoreAdapter struct {
	store Store
}

func newSubmissionStoreAdapter(store Store) services.SubmissionStore {
	return &submissionStoreAdapter{store: store}
}

func (a *submissionStoreAdapter) GetPlayer(id string) (*services.Player, error) {
	p, err := a.store.GetPlayer(id)
	if err != nil {
		return nil, err
	}
	return toServicePlayer(p), nil
}

func (a *submissionStoreAdapter) FindSubmission(playerID string, variant services.Variant, dayKey string) (*services.Submission, error) {
	sub, err := a.store.FindSubmission(playerID, string(variant), dayKey)
	if err != nil {
		return nil, err
	}
	return toServiceSubmission(sub), nil
}

func (a *submissionStoreAdapter) CreateSubmission(sub *services.Submission) error {
	return a.store.CreateSubmission(fromServiceSubmission(sub))
}

func (a *submissionStoreAdapter) UpdateSubmission(sub *services.Submission) error {
	return a.store.UpdateSubmission(fromServiceSubmission(sub))
}

func toServicePlayer(p *models.Player) *services.Player {
	if p == nil {
		return nil
	}
	return &services.Player{
		ID:        p.ID,
		TenantID:  p.TenantID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Active:    p.Active,
	}
}

func toServiceSubmission(sub *models.Submission) *services.Submission {
	if sub == nil {
		return nil
	}
	out := &services.Submission{
		ID:        sub.ID,
		PlayerID:  sub.PlayerID,
		TenantID:  sub.TenantID,
		Variant:   services.Variant(sub.Variant),
		DayKey:    sub.DayKey,
		LocalTime: sub.LocalTime,
		Timezone:  sub.Timezone,
		CreatedAt: sub.CreatedAt,
		UpdatedAt: sub.UpdatedAt,
	}
	if sub.Wellness != nil {
		out.Wellness = &services.WellnessScores{
			SleepQuality: sub.Wellness.SleepQuality,
			SleepHours:   sub.Wellness.SleepHours,
			Fatigue:      sub.Wellness.Fatigue,
			Soreness:     sub.Wellness.Soreness,
			Stress:       sub.Wellness.Stress,
			Mood:         sub.Wellness.Mood,
		}
	}
	if sub.RPE != nil {
		out.RPE = &services.RPEScore{Level: sub.RPE.Level, Comment: sub.RPE.Comment}
	}
	return out
}

func fromServiceSubmission(sub *services.Submission) *models.Submission {
	out := &models.Submission{
		ID:        sub.ID,
		PlayerID:  sub.PlayerID,
		TenantID:  sub.TenantID,
		Variant:   string(sub.Variant),
		DayKey:    sub.DayKey,
		LocalTime: sub.LocalTime,
		Timezone:  sub.Timezone,
		CreatedAt: sub.CreatedAt,
		UpdatedAt: sub.UpdatedAt,
	}
	if sub.Wellness != nil {
		out.Wellness = &models.Wellness{
			SleepQuality: sub.Wellness.SleepQuality,
			SleepHours:   sub.Wellness.SleepHours,
			Fatigue:      sub.Wellness.Fatigue,
			Soreness:     sub.Wellness.Soreness,
			Stress:       sub.Wellness.Stress,
			Mood:         sub.Wellness.Mood,
		}
	}
	if sub.RPE != nil {
		out.RPE = &models.RPE{Level: sub.RPE.Level, Comment: sub.RPE.Comment}
	}
	return out
}

var _ services.SubmissionStore = (*submissionStoreAdapter)(nil)
