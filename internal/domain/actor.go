package domain

// Role is the caller role set by the gateway
type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// Actor identifies who performs an operation
type Actor struct {
	UserID int64
	Role   Role
}

// IsAdmin returns true if the actor manages the salon
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccess returns true if the actor may read or change the appointment:
// admins see everything, clients only their own records
func (a Actor) CanAccess(appointment *Appointment) bool {
	if a.IsAdmin() {
		return true
	}
	return appointment.ClientID != nil && *appointment.ClientID == a.UserID
}
