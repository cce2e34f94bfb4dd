package entities

import "strings"

// UserIdentity is the authenticated caller, as reported by the auth
// collaborator. It is carried on the request context and used to stamp
// audit fields.
type UserIdentity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Username derives the display name used for createdBy/updatedBy: the local
// part of the email, or "anonymous" when no email is known.
func (u UserIdentity) Username() string {
	if u.Email == "" {
		return "anonymous"
	}
	local, _, _ := strings.Cut(u.Email, "@")
	if local == "" {
		return "anonymous"
	}
	return local
}
