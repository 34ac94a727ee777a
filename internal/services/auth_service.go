package services

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// StaffUser is a credentialed back-office account.
type StaffUser struct {
	ID        string
	Email     string
	PassHash  []byte
	TenantID  string
	Role      string
	CreatedAt time.Time
}

type AuthStore interface {
	FindStaffByEmail(email string) (*StaffUser, error)
}

// TokenSigner mints a session token carrying the resolved role and tenant.
type TokenSigner func(uid, tid string, role Role, email string, ttl time.Duration) (string, error)

type AuthService struct {
	store     AuthStore
	resolver  *IdentityService
	now       func() time.Time
	signToken TokenSigner
	tokenTTL  time.Duration
}

type AuthResult struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id,omitempty"`
	Role     Role   `json:"role"`
}

func NewAuthService(store AuthStore, resolver *IdentityService, signer TokenSigner) *AuthService {
	return &AuthService{
		store:     store,
		resolver:  resolver,
		now:       func() time.Time { return time.Now().UTC() },
		signToken: signer,
		tokenTTL:  30 * 24 * time.Hour,
	}
}

// Login verifies credentials, resolves the account's role and tenant, and
// issues a token stamped with both so pages can route without re-probing.
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email/password required")
	}
	u, err := s.store.FindStaffByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(u.PassHash, []byte(password)); err != nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	res, err := s.resolver.Resolve(Principal{AuthID: u.ID, Email: u.Email})
	if err != nil {
		return nil, err
	}
	tenantID := res.TenantID
	if tenantID == "" && res.Role != RoleAdmin {
		tenantID = u.TenantID
	}
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(u.ID, tenantID, res.Role, u.Email, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, UserID: u.ID, TenantID: tenantID, Role: res.Role}, nil
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

// HashPassword is used by seeding and account provisioning flows.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}
