package model

// User is the signed-in account.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	ID    int    `json:"id"`
}

// UserPatch carries the profile fields to change.
type UserPatch struct {
	Name  *string
	Email *string
}

// Apply merges the patch into a copy of u.
func (u User) Apply(p UserPatch) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	return u
}

// Credentials are what a user types on the login screen.
type Credentials struct {
	Username string
	Password string
}

// Session is an authenticated user plus the token that proves it.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Registration is the sign-up form.
type Registration struct {
	Name     string
	Email    string
	Username string
	Password string
	Confirm  string
}
