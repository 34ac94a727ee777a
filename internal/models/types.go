package models

import "time"

// RoleBinding associates an authenticated principal with a role and,
// for non-admin roles, the tenant it is scoped to. Bindings survive in
// more than one historically-named collection; the store adapter probes
// them in a fixed order and normalizes legacy field spellings on read.
type RoleBinding struct {
	AuthID    string    `firestore:"authId"`
	Email     string    `firestore:"email"`
	TenantID  string    `firestore:"tenantId"`
	Role      string    `firestore:"role"` // raw stored value; normalized by the resolver
	CreatedAt time.Time `firestore:"createdAt"`
}

// Player is a questionnaire subject owned by exactly one tenant.
type Player struct {
	ID        string    `firestore:"-"`
	TenantID  string    `firestore:"tenantId"`
	FirstName string    `firestore:"firstName"`
	LastName  string    `firestore:"lastName"`
	Email     string    `firestore:"email"`
	Active    bool      `firestore:"active"`
	CreatedAt time.Time `firestore:"createdAt"`
}

// Submission is one daily questionnaire record. At most one exists per
// (PlayerID, Variant, DayKey); the constraint is enforced by the
// submission service, not by storage.
type Submission struct {
	ID        string    `firestore:"-"`
	PlayerID  string    `firestore:"playerId"`
	TenantID  string    `firestore:"tenantId"`
	Variant   string    `firestore:"variant"`
	DayKey    string    `firestore:"dayKey"` // YYYY-MM-DD in the submitter's zone
	LocalTime string    `firestore:"localTime"`
	Timezone  string    `firestore:"timezone"`
	Wellness  *Wellness `firestore:"wellness,omitempty"`
	RPE       *RPE      `firestore:"rpe,omitempty"`
	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// Wellness holds the morning questionnaire sub-scores, each on a 1..5 scale.
type Wellness struct {
	SleepQuality int `firestore:"sleepQuality"`
	SleepHours   int `firestore:"sleepHours"`
	Fatigue      int `firestore:"fatigue"`
	Soreness     int `firestore:"soreness"`
	Stress       int `firestore:"stress"`
	Mood         int `firestore:"mood"`
}

// RPE holds a session rating of perceived exertion on the 1..10 scale.
type RPE struct {
	Level   int    `firestore:"level"`
	Comment string `firestore:"comment,omitempty"`
}

// StaffUser is a credentialed back-office account.
type StaffUser struct {
	ID        string    `firestore:"-"`
	Email     string    `firestore:"email"`
	PassHash  []byte    `firestore:"passHash"`
	TenantID  string    `firestore:"tenantId"`
	Role      string    `firestore:"role"`
	CreatedAt time.Time `firestore:"createdAt"`
}

// Tenant is an isolated club/organization scope.
type Tenant struct {
	ID        string    `firestore:"-"`
	Name      string    `firestore:"name"`
	CreatedAt time.Time `firestore:"createdAt"`
}
