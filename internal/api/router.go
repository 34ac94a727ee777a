package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulso-app/pulso/internal/middleware"
	"github.com/pulso-app/pulso/internal/models"
	"github.com/pulso-app/pulso/internal/services"
	"github.com/pulso-app/pulso/internal/utils"
)

type Router struct {
	store       Store
	identity    *services.IdentityService
	auth        *services.AuthService
	submissions *services.SubmissionService
	roster      *services.RosterService
}

func NewRouter(store Store, cfg services.ResolverConfig) *Router {
	identity := services.NewIdentityService(newIdentityStoreAdapter(store), cfg)
	signer := func(uid, tid string, role services.Role, email string, ttl time.Duration) (string, error) {
		return middleware.SignToken(uid, tid, string(role), email, ttl)
	}
	return &Router{
		store:       store,
		identity:    identity,
		auth:        services.NewAuthService(newAuthStoreAdapter(store), identity, signer),
		submissions: services.NewSubmissionService(newSubmissionStoreAdapter(store)),
		roster:      services.NewRosterService(newRosterStoreAdapter(store)),
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/login", rt.handleLogin)     // POST
	mux.HandleFunc("/api/auth/resolve", rt.handleResolve) // POST
	mux.Handle("/api/players", middleware.RequireAuth(http.HandlerFunc(rt.handlePlayers)))
	mux.Handle("/api/submissions/", middleware.RequireAuth(http.HandlerFunc(rt.handleSubmissions)))
	mux.HandleFunc("/api/seed", rt.handleSeed) // POST, dev only
}

// POST /api/auth/login — credential login; the token carries the resolved
// role and tenant so pages route without a second resolution.
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Login(req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// POST /api/auth/resolve — role resolution for principals authenticated by
// the external identity provider. Called by the login redirect.
func (rt *Router) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		AuthID string `json:"auth_id"`
		Email  string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.identity.Resolve(services.Principal{AuthID: req.AuthID, Email: req.Email})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// GET /api/players?include_inactive=1 — roster scoped to the caller's
// tenant. Admins pass tenant_id explicitly since they are not scoped.
func (rt *Router) handlePlayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	tenantID, err := rt.callerTenant(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	includeInactive := r.URL.Query().Get("include_inactive") == "1"
	players, err := rt.roster.ListPlayers(tenantID, includeInactive)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"players": players})
}

// GET  /api/submissions/{variant}/today?player_id=&tz=
// POST /api/submissions/{variant}
func (rt *Router) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/submissions/")
	parts := strings.Split(rest, "/")
	variant, err := services.ParseVariant(parts[0])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	tenantID, err := rt.callerTenant(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	switch {
	case r.Method == http.MethodGet && len(parts) == 2 && parts[1] == "today":
		rt.handleToday(w, r, tenantID, variant)
	case r.Method == http.MethodPost && len(parts) == 1:
		rt.handleUpsert(w, r, tenantID, variant)
	default:
		http.NotFound(w, r)
	}
}

func (rt *Router) handleToday(w http.ResponseWriter, r *http.Request, tenantID string, variant services.Variant) {
	playerID := r.URL.Query().Get("player_id")
	tz := r.URL.Query().Get("tz")
	// Tenant isolation applies to reads too.
	if _, err := rt.roster.GetPlayer(tenantID, playerID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	sub, err := rt.submissions.TodaySubmission(playerID, variant, tz)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"submission": sub})
}

func (rt *Router) handleUpsert(w http.ResponseWriter, r *http.Request, tenantID string, variant services.Variant) {
	var req struct {
		PlayerID string                   `json:"player_id"`
		Timezone string                   `json:"tz"`
		Wellness *services.WellnessScores `json:"wellness,omitempty"`
		RPE      *services.RPEScore       `json:"rpe,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sub, err := rt.submissions.Upsert(services.UpsertRequest{
		PlayerID: req.PlayerID,
		TenantID: tenantID,
		Variant:  variant,
		Wellness: req.Wellness,
		RPE:      req.RPE,
		Timezone: req.Timezone,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, sub)
}

// POST /api/seed — create a demo tenant with players and a staff login.
// Only available when PULSO_DEV_SEED is set.
func (rt *Router) handleSeed(w http.ResponseWriter, r *http.Request) {
	if utils.SafeEnv("PULSO_DEV_SEED", "") == "" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	now := time.Now().UTC()
	tenant := &models.Tenant{ID: "DEMO", Name: "Club Demo", CreatedAt: now}
	_ = rt.store.AddTenant(tenant)

	hash, err := services.HashPassword("demo1234")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	staff := &models.StaffUser{ID: shortID(8), Email: "staff@clubdemo.com", PassHash: hash, TenantID: tenant.ID, Role: "staff", CreatedAt: now}
	_ = rt.store.AddStaffUser(staff)
	_ = rt.store.AddRoleBinding("usuarios", &models.RoleBinding{AuthID: staff.ID, Email: staff.Email, TenantID: tenant.ID, Role: "staff", CreatedAt: now})

	players := []*models.Player{
		{ID: shortID(8), TenantID: tenant.ID, FirstName: "Ana", LastName: "Gómez", Active: true, CreatedAt: now},
		{ID: shortID(8), TenantID: tenant.ID, FirstName: "Luis", LastName: "Acosta", Active: true, CreatedAt: now},
		{ID: shortID(8), TenantID: tenant.ID, FirstName: "Marta", LastName: "Ríos", Active: false, CreatedAt: now},
	}
	for _, p := range players {
		_ = rt.store.AddPlayer(p)
	}
	writeJSON(w, map[string]any{"ok": true, "tenant_id": tenant.ID, "staff_email": staff.Email, "players": players})
}

// callerTenant resolves the tenant scope for the request. Tenant-scoped
// roles use their claim; admins name a tenant explicitly; everyone else is
// denied.
func (rt *Router) callerTenant(r *http.Request) (string, error) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return "", services.NewUnauthorizedError("unauthorized")
	}
	switch services.Role(claims.Role) {
	case services.RoleAdmin:
		tid := r.URL.Query().Get("tenant_id")
		if tid == "" {
			return "", services.NewInvalidError("tenant_id required for admin requests")
		}
		return tid, nil
	case services.RoleStaff, services.RoleQuestionnaire:
		if claims.TID == "" {
			return "", services.NewForbiddenError("no tenant bound")
		}
		return claims.TID, nil
	default:
		return "", services.NewForbiddenError("forbidden")
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	se, ok := services.AsServiceError(err)
	if !ok {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	status := http.StatusInternalServerError
	switch se.Code {
	case services.ErrorInvalid, services.ErrorInvalidPrincipal, services.ErrorValidation:
		status = http.StatusBadRequest
	case services.ErrorUnauthorized:
		status = http.StatusUnauthorized
	case services.ErrorForbidden, services.ErrorTenantMismatch:
		status = http.StatusForbidden
	case services.ErrorNotFound, services.ErrorSubjectNotFound:
		status = http.StatusNotFound
	case services.ErrorConflict, services.ErrorSubjectInactive:
		status = http.StatusConflict
	case services.ErrorStorage:
		status = http.StatusServiceUnavailable
	}
	msg := se.Message
	locale := middleware.LocaleFromContext(r.Context())
	switch se.Code {
	case services.ErrorUnauthorized:
		msg = utils.T(locale, "error.unauthorized")
	case services.ErrorForbidden:
		msg = utils.T(locale, "error.forbidden")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"error": msg, "code": se.Code}
	if se.Field != "" {
		body["field"] = se.Field
	}
	_ = json.NewEncoder(w).Encode(body)
}

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
