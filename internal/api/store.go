package api

import (
	"strings"
	"sync"

	"github.com/pulso-app/pulso/internal/models"
)

// DefaultRoleBindingSources is the probe order for role bindings: the
// current staff collections first, then the two legacy operator spellings.
// Neither legacy collection is migrated; both stay probed.
var DefaultRoleBindingSources = []string{"usuarios", "staff", "cuestionario", "cuestionarios"}

type memoryStore struct {
	mu          sync.RWMutex
	sources     []string
	bindings    map[string][]*models.RoleBinding
	staffByMail map[string]*models.StaffUser
	tenants     map[string]*models.Tenant
	players     map[string]*models.Player
	submissions []*models.Submission
}

// NewMemoryStore returns an in-process Store used for dev mode and tests.
func NewMemoryStore() Store {
	return newMemoryStore()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		sources:     DefaultRoleBindingSources,
		bindings:    map[string][]*models.RoleBinding{},
		staffByMail: map[string]*models.StaffUser{},
		tenants:     map[string]*models.Tenant{},
		players:     map[string]*models.Player{},
	}
}

func (s *memoryStore) RoleBindingSources() []string { return s.sources }

func (s *memoryStore) FindRoleBindingByAuthID(source, authID string) (*models.RoleBinding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bindings[source] {
		if b.AuthID != "" && b.AuthID == authID {
			copy := *b
			return &copy, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) FindRoleBindingByEmail(source, email string) (*models.RoleBinding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bindings[source] {
		if b.Email != "" && strings.EqualFold(b.Email, email) {
			copy := *b
			return &copy, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) AddRoleBinding(source string, b *models.RoleBinding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *b
	s.bindings[source] = append(s.bindings[source], &copy)
	return nil
}

func (s *memoryStore) FindStaffByEmail(email string) (*models.StaffUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.staffByMail[strings.ToLower(email)]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, nil
}

func (s *memoryStore) AddStaffUser(u *models.StaffUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *u
	s.staffByMail[strings.ToLower(u.Email)] = &copy
	return nil
}

func (s *memoryStore) ListStaffEmailsByTenant(tenantID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, u := range s.staffByMail {
		if u.TenantID == tenantID {
			out = append(out, u.Email)
		}
	}
	return out, nil
}

func (s *memoryStore) AddTenant(t *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *t
	s.tenants[t.ID] = &copy
	return nil
}

func (s *memoryStore) ListTenants() ([]*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		copy := *t
		out = append(out, &copy)
	}
	return out, nil
}

func (s *memoryStore) AddPlayer(p *models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *p
	s.players[p.ID] = &copy
	return nil
}

func (s *memoryStore) GetPlayer(id string) (*models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.players[id]; ok {
		copy := *p
		return &copy, nil
	}
	return nil, nil
}

func (s *memoryStore) ListPlayersByTenant(tenantID string) ([]*models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Player
	for _, p := range s.players {
		if p.TenantID == tenantID {
			copy := *p
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (s *memoryStore) FindSubmission(playerID, variant, dayKey string) (*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.submissions {
		if sub.PlayerID == playerID && sub.Variant == variant && sub.DayKey == dayKey {
			copy := *sub
			return &copy, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) CreateSubmission(sub *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *sub
	s.submissions = append(s.submissions, &copy)
	return nil
}

func (s *memoryStore) UpdateSubmission(sub *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.submissions {
		if existing.ID == sub.ID {
			copy := *sub
			s.submissions[i] = &copy
			return nil
		}
	}
	return nil
}
