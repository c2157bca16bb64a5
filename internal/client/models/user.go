// Package models defines the client-side data records exchanged with the
// Infokelas portal API. These mirror the backend's JSON shapes; optional
// fields stay empty when the backend omits them.
package models

// User is the cached profile snapshot stored next to the bearer token.
// It is a read model, not authoritative: it can go stale until the profile
// is re-fetched or the backend returns an updated snapshot.
type User struct {
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name"`
	NIM       string `json:"nim,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Merge overlays non-empty fields of other onto u and returns the result.
// Used after a profile update, where the backend may return only the fields
// it changed.
func (u User) Merge(other User) User {
	if other.ID != 0 {
		u.ID = other.ID
	}
	if other.Name != "" {
		u.Name = other.Name
	}
	if other.NIM != "" {
		u.NIM = other.NIM
	}
	if other.Email != "" {
		u.Email = other.Email
	}
	if other.Phone != "" {
		u.Phone = other.Phone
	}
	if other.AvatarURL != "" {
		u.AvatarURL = other.AvatarURL
	}
	return u
}
