// Package profile holds the client's non-authoritative mirror of the
// current user record. The mirror is display data only: it is refreshed
// opportunistically from successful authenticated calls and is never
// consulted when authorising a request.
package profile

import "time"

// User mirrors the backend's user serializer. Fields absent from a
// response are left at their zero value.
type User struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	DateJoined time.Time `json:"date_joined"`
}

// FullName joins the first and last name, tolerating either being empty.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
