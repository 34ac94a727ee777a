package services

import (
	"sort"
	"strings"
)

// RosterStore abstracts player lookups for tenant-scoped listings.
type RosterStore interface {
	GetPlayer(id string) (*Player, error)
	ListPlayersByTenant(tenantID string) ([]*Player, error)
}

type RosterService struct {
	store RosterStore
}

func NewRosterService(store RosterStore) *RosterService {
	return &RosterService{store: store}
}

// ListPlayers returns the tenant's players, active only unless
// includeInactive is set, sorted by last then first name.
func (s *RosterService) ListPlayers(tenantID string, includeInactive bool) ([]*Player, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, NewForbiddenError("unauthorized")
	}
	players, err := s.store.ListPlayersByTenant(tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]*Player, 0, len(players))
	for _, p := range players {
		if !includeInactive && !p.Active {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

// GetPlayer loads one player after the tenant check.
func (s *RosterService) GetPlayer(tenantID, playerID string) (*Player, error) {
	if strings.TrimSpace(playerID) == "" {
		return nil, NewInvalidError("player_id required")
	}
	p, err := s.store.GetPlayer(playerID)
	if err != nil {
		return nil, err
	}
	if err := CheckPlayerTenant(p, tenantID); err != nil {
		return nil, err
	}
	return p, nil
}

// CheckPlayerTenant enforces the tenant isolation invariant for a loaded
// player: callers scoped to one tenant can never observe another's players.
func CheckPlayerTenant(p *Player, tenantID string) error {
	if p == nil {
		return NewSubjectNotFoundError("player not found")
	}
	if p.TenantID != tenantID {
		return NewTenantMismatchError("player belongs to another tenant")
	}
	return nil
}

// CheckPlayerWritable is the precondition chain for writes against a
// player: exists, same tenant, active. Order matters for error reporting.
func CheckPlayerWritable(p *Player, tenantID string) error {
	if err := CheckPlayerTenant(p, tenantID); err != nil {
		return err
	}
	if !p.Active {
		return NewSubjectInactiveError("player is inactive")
	}
	return nil
}
