package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge_OverlaysOnlyProvidedFields(t *testing.T) {
	base := User{ID: 1, Name: "Budi", NIM: "A12345", Email: "budi@example.com", Phone: "0812"}

	got := base.Merge(User{Name: "Budi Santoso", AvatarURL: "/avatars/me.png"})

	assert.Equal(t, User{
		ID:        1,
		Name:      "Budi Santoso",
		NIM:       "A12345",
		Email:     "budi@example.com",
		Phone:     "0812",
		AvatarURL: "/avatars/me.png",
	}, got)
}

func TestMerge_EmptyOtherIsIdentity(t *testing.T) {
	base := User{ID: 1, Name: "Budi", NIM: "A12345"}
	assert.Equal(t, base, base.Merge(User{}))
}
