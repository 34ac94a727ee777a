package api

import "github.com/pulso-app/pulso/internal/services"

type authStoreAdapter struct {
	store Store
}

func newAuthStoreAdapter(store Store) services.AuthStore {
	return &authStoreAdapter{store: store}
}

func (a *authStoreAdapter) FindStaffByEmail(email string) (*services.StaffUser, error) {
	u, err := a.store.FindStaffByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	return &services.StaffUser{ID: u.ID, Email: u.Email, PassHash: u.PassHash, TenantID: u.TenantID, Role: u.Role, CreatedAt: u.CreatedAt}, nil
}

var _ services.AuthStore = (*authStoreAdapter)(nil)
