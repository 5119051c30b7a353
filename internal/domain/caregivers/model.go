package caregivers

import "time"

type Scope string

const (
	ScopeBabyRead          Scope = "baby:read"
	ScopeBabyEdit          Scope = "baby:edit"
	ScopeVaccinesRead      Scope = "vaccines:read"
	ScopeVaccinesWrite     Scope = "vaccines:write"
	ScopeMeasurementsRead  Scope = "measurements:read"
	ScopeMeasurementsWrite Scope = "measurements:write"
)

// DefaultScopes aplica cuando el owner invita sin indicar scopes: sólo lectura.
var DefaultScopes = []Scope{ScopeBabyRead, ScopeVaccinesRead, ScopeMeasurementsRead}

var knownScopes = map[Scope]struct{}{
	ScopeBabyRead:          {},
	ScopeBabyEdit:          {},
	ScopeVaccinesRead:      {},
	ScopeVaccinesWrite:     {},
	ScopeMeasurementsRead:  {},
	ScopeMeasurementsWrite: {},
}

type Status string

const (
	StatusInvited Status = "invited"
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
)

// Grant comparte un bebé con otra cuenta (co-parent, abuela, niñera).
type Grant struct {
	ID     string
	BabyID string

	OwnerUserID     string // quien comparte
	CaregiverUserID string // quien recibe

	Scopes []Scope
	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// HasScope valida si el grant incluye un scope.
func (g Grant) HasScope(scope Scope) bool {
	for _, s := range g.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// live = todavía cuenta (invitado o activo).
func (g Grant) live() bool {
	return g.Status == StatusInvited || g.Status == StatusActive
}
