package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

type ErrorCode string

const (
	ErrorInvalid          ErrorCode = "invalid"
	ErrorForbidden        ErrorCode = "forbidden"
	ErrorNotFound         ErrorCode = "not_found"
	ErrorConflict         ErrorCode = "conflict"
	ErrorUnauthorized     ErrorCode = "unauthorized"
	ErrorInvalidPrincipal ErrorCode = "invalid_principal"
	ErrorSubjectNotFound  ErrorCode = "subject_not_found"
	ErrorTenantMismatch   ErrorCode = "tenant_mismatch"
	ErrorSubjectInactive  ErrorCode = "subject_inactive"
	ErrorValidation       ErrorCode = "validation_failed"
	ErrorStorage          ErrorCode = "storage_unavailable"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
	Field   string // set for validation errors
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error      { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewForbiddenError(msg string) error    { return &ServiceError{Code: ErrorForbidden, Message: msg} }
func NewNotFoundError(msg string) error     { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error     { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

func NewInvalidPrincipalError(msg string) error {
	return &ServiceError{Code: ErrorInvalidPrincipal, Message: msg}
}

func NewSubjectNotFoundError(msg string) error {
	return &ServiceError{Code: ErrorSubjectNotFound, Message: msg}
}

func NewTenantMismatchError(msg string) error {
	return &ServiceError{Code: ErrorTenantMismatch, Message: msg}
}

func NewSubjectInactiveError(msg string) error {
	return &ServiceError{Code: ErrorSubjectInactive, Message: msg}
}

func NewValidationError(field, msg string) error {
	return &ServiceError{Code: ErrorValidation, Message: msg, Field: field}
}

func NewStorageError(msg string) error { return &ServiceError{Code: ErrorStorage, Message: msg} }

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// Role is the closed set of roles a principal can resolve to.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleStaff         Role = "staff"
	RoleQuestionnaire Role = "questionnaire"
	RolePlayer        Role = "player"
	RoleUnknown       Role = "unknown"
)

// Principal is the authenticated identity handed over by the auth
// collaborator. At least one of the two fields must be set.
type Principal struct {
	AuthID string
	Email  string
}

// Resolution is the outcome of role resolution. TenantID is set only for
// tenant-scoped roles that have one bound.
type Resolution struct {
	Role     Role   `json:"role"`
	TenantID string `json:"tenant_id,omitempty"`
}

// RoleBinding is a stored principal-to-role association. Role carries the
// raw stored value; normalization to the Role enum happens here.
type RoleBinding struct {
	AuthID   string
	Email    string
	TenantID string
	Role     string
}

// IdentityStore abstracts the role-binding collections. Sources returns
// the probe order; bindings for the same principal may exist under more
// than one source and the first hit wins.
type IdentityStore interface {
	RoleBindingSources() []string
	FindRoleBindingByAuthID(source, authID string) (*RoleBinding, error)
	FindRoleBindingByEmail(source, email string) (*RoleBinding, error)
}

// HeuristicRule classifies an email by substring when no binding exists.
type HeuristicRule struct {
	Pattern string
	Role    Role
}

// ResolverConfig is the rule set for resolution: the admin fast path and
// the ordered fallback heuristics. Rules are data, not code paths.
type ResolverConfig struct {
	AdminDomain string
	AdminMarker string
	Heuristics  []HeuristicRule
}

func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		AdminDomain: "pulso.app",
		AdminMarker: "admin",
		Heuristics: []HeuristicRule{
			{Pattern: "staff", Role: RoleStaff},
			{Pattern: "coach", Role: RoleStaff},
			{Pattern: "jugador", Role: RolePlayer},
			{Pattern: "player", Role: RolePlayer},
		},
	}
}

type IdentityService struct {
	store IdentityStore
	cfg   ResolverConfig
}

func NewIdentityService(store IdentityStore, cfg ResolverConfig) *IdentityService {
	return &IdentityService{store: store, cfg: cfg}
}

// Resolve maps a principal to a role and tenant scope. It is read-only and
// idempotent: repeated calls with unchanged storage yield the same result.
func (s *IdentityService) Resolve(p Principal) (*Resolution, error) {
	authID := strings.TrimSpace(p.AuthID)
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if authID == "" && email == "" {
		return nil, NewInvalidPrincipalError("auth id or email required")
	}

	// Admin fast path: no storage lookup at all.
	if s.isAdminEmail(email) {
		return &Resolution{Role: RoleAdmin}, nil
	}

	for _, source := range s.store.RoleBindingSources() {
		b := s.lookup(source, authID, email)
		if b == nil {
			continue
		}
		role := normalizeRole(b.Role)
		res := &Resolution{Role: role}
		switch role {
		case RoleStaff, RoleQuestionnaire, RolePlayer:
			res.TenantID = b.TenantID
		}
		return res, nil
	}

	for _, rule := range s.cfg.Heuristics {
		if rule.Pattern == "" {
			continue
		}
		if strings.Contains(email, strings.ToLower(rule.Pattern)) {
			return &Resolution{Role: rule.Role}, nil
		}
	}
	return &Resolution{Role: RoleUnknown}, nil
}

// lookup probes one source by auth id, then by email. A storage failure
// counts as no match in that source so resolution can keep going; a hard
// error here must never block navigation.
func (s *IdentityService) lookup(source, authID, email string) *RoleBinding {
	if authID != "" {
		if b, err := s.store.FindRoleBindingByAuthID(source, authID); err == nil && b != nil {
			return b
		}
	}
	if email != "" {
		if b, err := s.store.FindRoleBindingByEmail(source, email); err == nil && b != nil {
			return b
		}
	}
	return nil
}

func (s *IdentityService) isAdminEmail(email string) bool {
	if email == "" || s.cfg.AdminDomain == "" {
		return false
	}
	if !strings.HasSuffix(email, "@"+strings.ToLower(s.cfg.AdminDomain)) {
		return false
	}
	if s.cfg.AdminMarker == "" {
		return true
	}
	return strings.Contains(email, strings.ToLower(s.cfg.AdminMarker))
}

// normalizeRole maps the historical stored spellings onto the Role enum.
func normalizeRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin", "administrador":
		return RoleAdmin
	case "staff":
		return RoleStaff
	case "cuestionario", "questionnaire", "encuestador":
		return RoleQuestionnaire
	case "jugador", "player":
		return RolePlayer
	default:
		return RoleUnknown
	}
}

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
