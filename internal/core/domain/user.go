package domain

// User is a hospital staff member who can authenticate and act on the
// accounting API. Authorization beyond authentication is out of scope.
type User struct {
	UserID       string `json:"userID"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}
