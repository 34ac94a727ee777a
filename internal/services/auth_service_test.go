package services

import (
	"testing"
	"time"
)

type authStubStore struct {
	users map[string]*StaffUser
}

func (s *authStubStore) FindStaffByEmail(email string) (*StaffUser, error) {
	if u, ok := s.users[email]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, nil
}

func testSigner(uid, tid string, role Role, email string, ttl time.Duration) (string, error) {
	return "token:" + uid + ":" + tid + ":" + string(role), nil
}

func authFixture(t *testing.T) (*authStubStore, *IdentityService) {
	t.Helper()
	hash, err := HashPassword("Secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	store := &authStubStore{users: map[string]*StaffUser{
		"ana@club.com": {ID: "U1", Email: "ana@club.com", PassHash: hash, TenantID: "T1"},
	}}
	ids := newStubIdentityStore("usuarios")
	ids.addByAuthID("usuarios", "U1", &RoleBinding{Role: "staff", TenantID: "T1"})
	return store, NewIdentityService(ids, testResolverConfig())
}

func TestLoginStampsRoleAndTenant(t *testing.T) {
	store, resolver := authFixture(t)
	svc := NewAuthService(store, resolver, testSigner)

	res, err := svc.Login("ana@club.com", "Secret123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.Role != RoleStaff || res.TenantID != "T1" {
		t.Fatalf("unexpected resolution in result: %+v", res)
	}
	if res.Token != "token:U1:T1:staff" {
		t.Fatalf("unexpected token %q", res.Token)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store, resolver := authFixture(t)
	svc := NewAuthService(store, resolver, testSigner)

	if _, err := svc.Login("ana@club.com", "wrong"); err == nil {
		t.Fatalf("expected error for wrong password")
	}
	if _, err := svc.Login("missing@club.com", "Secret123"); err == nil {
		t.Fatalf("expected error for unknown user")
	}
	_, err := svc.Login("", "")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorInvalid {
		t.Fatalf("expected invalid error for empty input, got %v", err)
	}
}

func TestLoginAdminHasNoTenant(t *testing.T) {
	hash, err := HashPassword("Secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	store := &authStubStore{users: map[string]*StaffUser{
		"admin@tenant-platform.example": {ID: "U9", Email: "admin@tenant-platform.example", PassHash: hash, TenantID: "T1"},
	}}
	resolver := NewIdentityService(newStubIdentityStore("usuarios"), testResolverConfig())
	svc := NewAuthService(store, resolver, testSigner)

	res, err := svc.Login("admin@tenant-platform.example", "Secret123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.Role != RoleAdmin || res.TenantID != "" {
		t.Fatalf("admin login must not be tenant-scoped: %+v", res)
	}
}
