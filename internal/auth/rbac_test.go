package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeRole(t *testing.T) {
	require.Equal(t, RoleAdmin, NormalizeRole("admin"))
	require.Equal(t, RoleAdmin, NormalizeRole(" ADMIN "))
	require.Equal(t, RoleClub, NormalizeRole("club"))
	require.Equal(t, RoleStudent, NormalizeRole("student"))
	require.Equal(t, RoleStudent, NormalizeRole(""))
	require.Equal(t, RoleStudent, NormalizeRole("superuser"))
}

func TestIsValidRole(t *testing.T) {
	require.True(t, IsValidRole("student"))
	require.True(t, IsValidRole("Club"))
	require.True(t, IsValidRole("admin"))
	require.False(t, IsValidRole(""))
	require.False(t, IsValidRole("faculty"))
}

func TestHasRole(t *testing.T) {
	require.True(t, HasRole("club", RoleClub, RoleAdmin))
	require.True(t, HasRole("admin", RoleClub, RoleAdmin))
	require.False(t, HasRole("student", RoleClub, RoleAdmin))
	require.False(t, HasRole("admin"))
}

func TestIsAdmin(t *testing.T) {
	require.True(t, IsAdmin("admin"))
	require.False(t, IsAdmin("club"))
	require.False(t, IsAdmin("student"))
}
