package models

// Admin "inherits" from Profile via embedding. The distinguishing field is Role.
type Admin struct {
	Profile
}

// NewAdmin creates an admin profile with Role preset to "admin".
func NewAdmin(id, fullName, email string) *Admin {
	return &Admin{Profile: Profile{ID: id, FullName: fullName, Email: email, Role: RoleAdmin}}
}
