package api

import "github.com/pulso-app/pulso/internal/services"

type rosterStoreAdapter struct {
	store Store
}

func newRosterStoreAdapter(store Store) services.RosterStore {
	return &rosterStoreAdapter{store: store}
}

func (a *rosterStoreAdapter) GetPlayer(id string) (*services.Player, error) {
	p, err := a.store.GetPlayer(id)
	if err != nil {
		return nil, err
	}
	return toServicePlayer(p), nil
}

func (a *rosterStoreAdapter) ListPlayersByTenant(tenantID string) ([]*services.Player, error) {
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

var _ services.RosterStore = (*rosterStoreAdapter)(nil)
