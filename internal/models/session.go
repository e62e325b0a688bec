package models

// SessionIdentity is the per-login session document. The field set mirrors
// the browser portal's persisted keys one-for-one: the real identity, an
// optional admin "view as" overlay, and the view-role toggle. It has no
// expiry and is cleared only by explicit logout or exit actions.
type SessionIdentity struct {
	UserID   string   `json:"user_id"`
	RealRole UserRole `json:"user_role"`
	UserName string   `json:"user_name"`
	Title    string   `json:"user_title"`

	// Simulation overlay, set by an admin "view portal as" action.
	SimulatedID   string   `json:"simulated_id,omitempty"`
	SimulatedRole UserRole `json:"simulated_role,omitempty"`
	SimulatedName string   `json:"simulated_name,omitempty"`

	// ViewRole drives page rendering only. It never widens data access:
	// financial fetches stay gated on RealRole.
	ViewRole UserRole `json:"view_role"`

	// Generation increments whenever the session must be rebuilt client
	// side (the exit-simulation "full reload").
	Generation int64 `json:"generation"`
}

// Simulating reports whether an admin is viewing as a specific user.
func (s *SessionIdentity) Simulating() bool {
	return s.SimulatedID != ""
}

// BaseRole is the role of whoever the session is physically acting as:
// the simulated user's role while simulating, the real role otherwise.
func (s *SessionIdentity) BaseRole() UserRole {
	if s.Simulating() {
		return s.SimulatedRole
	}
	return s.RealRole
}

// EffectiveID is the identity used for data scoping (e.g. whose grades a
// results page shows).
func (s *SessionIdentity) EffectiveID() string {
	if s.Simulating() {
		return s.SimulatedID
	}
	return s.UserID
}

// DisplayName is the name shown in the portal header.
func (s *SessionIdentity) DisplayName() string {
	if s.Simulating() && s.SimulatedName != "" {
		return s.SimulatedName
	}
	if s.UserName != "" {
		return s.UserName
	}
	return "User"
}

// EffectiveViewRole falls back to the base role when no toggle was applied.
func (s *SessionIdentity) EffectiveViewRole() UserRole {
	if s.ViewRole != "" {
		return s.ViewRole
	}
	return s.BaseRole()
}
