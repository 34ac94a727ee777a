package api

import "github.com/pulso-app/pulso/internal/services"

type reminderStoreAdapter struct {
	store Store
}

// NewReminderStoreAdapter exposes the reminder reads over a Store; the
// scheduler in cmd/server wires it into the reminder service.
func NewReminderStoreAdapter(store Store) services.ReminderStore {
	return &reminderStoreAdapter{store: store}
}

func (a *reminderStoreAdapter) ListTenants() ([]*services.Tenant, error) {
	ts, err := a.store.ListTenants()
	if err != nil {
		return nil, err
	}
	out := make([]*services.Tenant, 0, len(ts))
	for _, t := range ts {
		out = append(out, &services.Tenant{ID: t.ID, Name: t.Name})
	}
	return out, nil
}

func (a *reminderStoreAdapter) ListPlayersByTenant(tenantID string) ([]*services.Player, error) {
	ps, err := a.store.ListPlayersByTenant(tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]*services.Player, 0, len(ps))
	for _, p := range ps {
		out = append(out, toServicePlayer(p))
	}
	return out, nil
}

func (a *reminderStoreAdapter) FindSubmission(playerID string, variant services.Variant, dayKey string) (*services.Submission, error) {
	sub, err := a.store.FindSubmission(playerID, string(variant), dayKey)
	if err != nil {
		return nil, err
	}
	return toServiceSubmission(sub), nil
}

func (a *reminderStoreAdapter) ListStaffEmailsByTenant(tenantID string) ([]string, error) {
	return a.store.ListStaffEmailsByTenant(tenantID)
}

var _ services.ReminderStore = (*reminderStoreAdapter)(nil)
