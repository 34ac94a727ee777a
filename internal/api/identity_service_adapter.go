package api

import "github.com/pulso-app/pulso/internal/services"

type identityStoreAdapter struct {
	store Store
}

func newIdentityStoreAdapter(store Store) services.IdentityStore {
	return &identityStoreAdapter{store: store}
}

func (a *identityStoreAdapter) RoleBindingSources() []string {
	return a.store.RoleBindingSources()
}

func (a *identityStoreAdapter) FindRoleBindingByAuthID(source, authID string) (*services.RoleBinding, error) {
	b, err := a.store.FindRoleBindingByAuthID(source, authID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	return &services.RoleBinding{AuthID: b.AuthID, Email: b.Email, TenantID: b.TenantID, Role: b.Role}, nil
}

func (a *identityStoreAdapter) FindRoleBindingByEmail(source, email string) (*services.RoleBinding, error) {
	b, err := a.store.FindRoleBindingByEmail(source, email)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	return &services.RoleBinding{AuthID: b.AuthID, Email: b.Email, TenantID: b.TenantID, Role: b.Role}, nil
}

var _ services.IdentityStore = (*identityStoreAdapter)(nil)
