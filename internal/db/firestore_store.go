package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pulso-app/pulso/internal/api"
	"github.com/pulso-app/pulso/internal/models"
	"github.com/pulso-app/pulso/internal/services"
)

const (
	tenantsCollection = "clientes"
	playersCollection = "jugadores"
	staffCollection   = "staff"
)

// submissionCollections maps a variant to its physical collection.
var submissionCollections = map[string]string{
	"wellness": "wellness",
	"rpe":      "rpe",
}

// FirestoreStore implements api.Store against Cloud Firestore. Documents
// written by earlier revisions of the product spell several fields
// differently (clienteId/clienteid for tenantId, rol for role, fecha for
// dayKey); all reads normalize those spellings so the rest of the code
// only ever sees the canonical names.
type FirestoreStore struct {
	client  *firestore.Client
	sources []string
}

func NewFirestoreStore(ctx context.Context, projectID, credentialsFile string) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &FirestoreStore{client: client, sources: api.DefaultRoleBindingSources}, nil
}

func (s *FirestoreStore) Close() error { return s.client.Close() }

func contextBg() context.Context { return context.Background() }

func (s *FirestoreStore) RoleBindingSources() []string { return s.sources }

func (s *FirestoreStore) FindRoleBindingByAuthID(source, authID string) (*models.RoleBinding, error) {
	return s.findBinding(source, "authId", authID)
}

func (s *FirestoreStore) FindRoleBindingByEmail(source, email string) (*models.RoleBinding, error) {
	return s.findBinding(source, "email", email)
}

func (s *FirestoreStore) findBinding(source, field, value string) (*models.RoleBinding, error) {
	if value == "" {
		return nil, nil
	}
	data, _, err := s.queryOne(s.client.Collection(source).Where(field, "==", value))
	if err != nil || data == nil {
		return nil, err
	}
	return bindingFromDoc(data), nil
}

func (s *FirestoreStore) AddRoleBinding(source string, b *models.RoleBinding) error {
	_, err := s.client.Collection(source).NewDoc().Set(contextBg(), b)
	return storageErr("add role binding", err)
}

func (s *FirestoreStore) FindStaffByEmail(email string) (*models.StaffUser, error) {
	data, id, err := s.queryOne(s.client.Collection(staffCollection).Where("email", "==", strings.ToLower(email)))
	if err != nil || data == nil {
		return nil, err
	}
	return staffFromDoc(id, data), nil
}

func (s *FirestoreStore) AddStaffUser(u *models.StaffUser) error {
	_, err := s.client.Collection(staffCollection).Doc(u.ID).Set(contextBg(), u)
	return storageErr("add staff user", err)
}

func (s *FirestoreStore) ListStaffEmailsByTenant(tenantID string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	// Legacy staff docs carry clienteId instead of tenantId.
	for _, field := range []string{"tenantId", "clienteId"} {
		iter := s.client.Collection(staffCollection).Where(field, "==", tenantID).Documents(contextBg())
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return nil, storageErr("list staff", err)
			}
			if email := stringField(doc.Data(), "email"); email != "" && !seen[email] {
				seen[email] = true
				out = append(out, email)
			}
		}
	}
	return out, nil
}

func (s *FirestoreStore) AddTenant(t *models.Tenant) error {
	_, err := s.client.Collection(tenantsCollection).Doc(t.ID).Set(contextBg(), t)
	return storageErr("add tenant", err)
}

func (s *FirestoreStore) ListTenants() ([]*models.Tenant, error) {
	iter := s.client.Collection(tenantsCollection).Documents(contextBg())
	var out []*models.Tenant
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, storageErr("list tenants", err)
		}
		data := doc.Data()
		out = append(out, &models.Tenant{
			ID:        doc.Ref.ID,
			Name:      stringField(data, "name", "nombre"),
			CreatedAt: timeField(data, "createdAt"),
		})
	}
	return out, nil
}

func (s *FirestoreStore) AddPlayer(p *models.Player) error {
	_, err := s.client.Collection(playersCollection).Doc(p.ID).Set(contextBg(), p)
	return storageErr("add player", err)
}

func (s *FirestoreStore) GetPlayer(id string) (*models.Player, error) {
	doc, err := s.client.Collection(playersCollection).Doc(id).Get(contextBg())
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get player", err)
	}
	return playerFromDoc(doc.Ref.ID, doc.Data()), nil
}

func (s *FirestoreStore) ListPlayersByTenant(tenantID string) ([]*models.Player, error) {
	var out []*models.Player
	seen := map[string]bool{}
	for _, field := range []string{"tenantId", "clienteId", "clienteid"} {
		iter := s.client.Collection(playersCollection).Where(field, "==", tenantID).Documents(contextBg())
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return nil, storageErr("list players", err)
			}
			if seen[doc.Ref.ID] {
				continue
			}
			seen[doc.Ref.ID] = true
			out = append(out, playerFromDoc(doc.Ref.ID, doc.Data()))
		}
	}
	return out, nil
}

func (s *FirestoreStore) FindSubmission(playerID, variant, dayKey string) (*models.Submission, error) {
	col, ok := submissionCollections[variant]
	if !ok {
		return nil, nil
	}
	// Probe the canonical day-key field first, then the legacy spelling.
	for _, dayField := range []string{"dayKey", "fecha"} {
		data, id, err := s.queryOne(s.client.Collection(col).
			Where("playerId", "==", playerID).
			Where(dayField, "==", dayKey))
		if err != nil {
			return nil, err
		}
		if data != nil {
			return submissionFromDoc(id, variant, data), nil
		}
	}
	return nil, nil
}

func (s *FirestoreStore) CreateSubmission(sub *models.Submission) error {
	col, ok := submissionCollections[sub.Variant]
	if !ok {
		return services.NewStorageError("no collection for variant " + sub.Variant)
	}
	_, err := s.client.Collection(col).Doc(sub.ID).Set(contextBg(), sub)
	return storageErr("create submission", err)
}

func (s *FirestoreStore) UpdateSubmission(sub *models.Submission) error {
	// Overwrite of the same document identity; CreatedAt is carried in sub.
	return s.CreateSubmission(sub)
}

// queryOne runs a limit-1 query and returns the first document's data and
// id, or nil when the query is empty.
func (s *FirestoreStore) queryOne(q firestore.Query) (map[string]interface{}, string, error) {
	iter := q.Limit(1).Documents(contextBg())
	defer iter.Stop()
	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", storageErr("query", err)
	}
	return doc.Data(), doc.Ref.ID, nil
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return services.NewStorageError(op + ": " + err.Error())
}

func bindingFromDoc(data map[string]interface{}) *models.RoleBinding {
	return &models.RoleBinding{
		AuthID:    stringField(data, "authId", "uid"),
		Email:     stringField(data, "email", "correo"),
		TenantID:  stringField(data, "tenantId", "clienteId", "clienteid"),
		Role:      stringField(data, "role", "rol"),
		CreatedAt: timeField(data, "createdAt"),
	}
}

func staffFromDoc(id string, data map[string]interface{}) *models.StaffUser {
	u := &models.StaffUser{
		ID:        id,
		Email:     stringField(data, "email"),
		TenantID:  stringField(data, "tenantId", "clienteId", "clienteid"),
		Role:      stringField(data, "role", "rol"),
		CreatedAt: timeField(data, "createdAt"),
	}
	if raw, ok := data["passHash"].([]byte); ok {
		u.PassHash = raw
	}
	return u
}

func playerFromDoc(id string, data map[string]interface{}) *models.Player {
	p := &models.Player{
		ID:        id,
		TenantID:  stringField(data, "tenantId", "clienteId", "clienteid"),
		FirstName: stringField(data, "firstName", "nombre"),
		LastName:  stringField(data, "lastName", "apellido"),
		Email:     stringField(data, "email"),
		CreatedAt: timeField(data, "createdAt"),
	}
	// Docs that predate the active flag are treated as active.
	p.Active = boolField(data, true, "active", "activo")
	return p
}

func submissionFromDoc(id, variant string, data map[string]interface{}) *models.Submission {
	sub := &models.Submission{
		ID:        id,
		PlayerID:  stringField(data, "playerId", "jugadorId"),
		TenantID:  stringField(data, "tenantId", "clienteId", "clienteid"),
		Variant:   variant,
		DayKey:    stringField(data, "dayKey", "fecha"),
		LocalTime: stringField(data, "localTime", "hora"),
		Timezone:  stringField(data, "timezone"),
		CreatedAt: timeField(data, "createdAt"),
		UpdatedAt: timeField(data, "updatedAt"),
	}
	if m, ok := data["wellness"].(map[string]interface{}); ok {
		sub.Wellness = &models.Wellness{
			SleepQuality: intField(m, "sleepQuality"),
			SleepHours:   intField(m, "sleepHours"),
			Fatigue:      intField(m, "fatigue"),
			Soreness:     intField(m, "soreness"),
			Stress:       intField(m, "stress"),
			Mood:         intField(m, "mood"),
		}
	}
	if m, ok := data["rpe"].(map[string]interface{}); ok {
		sub.RPE = &models.RPE{
			Level:   intField(m, "level", "nivel"),
			Comment: stringField(m, "comment", "comentario"),
		}
	}
	return sub
}

func stringField(data map[string]interface{}, names ...string) string {
	for _, n := range names {
		if v, ok := data[n].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func boolField(data map[string]interface{}, def bool, names ...string) bool {
	for _, n := range names {
		if v, ok := data[n].(bool); ok {
			return v
		}
	}
	return def
}

func intField(data map[string]interface{}, names ...string) int {
	for _, n := range names {
		switch v := data[n].(type) {
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return 0
}

func timeField(data map[string]interface{}, name string) time.Time {
	if v, ok := data[name].(time.Time); ok {
		return v
	}
	return time.Time{}
}

var _ api.Store = (*FirestoreStore)(nil)
