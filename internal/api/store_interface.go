package api

import "github.com/pulso-app/pulso/internal/models"

// Store is the persistence boundary of the API layer. Both the in-process
// memory store and the Firestore adapter implement it; services consume
// narrow slices of it through the *_store_adapter types.
type Store interface {
	// Role bindings live under several historically-named collections.
	// RoleBindingSources returns the probe order.
	RoleBindingSources() []string
	FindRoleBindingByAuthID(source, authID string) (*models.RoleBinding, error)
	FindRoleBindingByEmail(source, email string) (*models.RoleBinding, error)
	AddRoleBinding(source string, b *models.RoleBinding) error

	FindStaffByEmail(email string) (*models.StaffUser, error)
	AddStaffUser(u *models.StaffUser) error
	ListStaffEmailsByTenant(tenantID string) ([]string, error)

	AddTenant(t *models.Tenant) error
	ListTenants() ([]*models.Tenant, error)

	AddPlayer(p *models.Player) error
	GetPlayer(id string) (*models.Player, error)
	ListPlayersByTenant(tenantID string) ([]*models.Player, error)

	FindSubmission(playerID, variant, dayKey string) (*models.Submission, error)
	CreateSubmission(sub *models.Submission) error
	UpdateSubmission(sub *models.Submission) error
}

var _ Store = (*memoryStore)(nil)
