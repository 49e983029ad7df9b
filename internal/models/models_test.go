package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_AtLeast(t *testing.T) {
	assert.True(t, RoleSuperAdmin.AtLeast(RoleAdmin))
	assert.True(t, RoleAdmin.AtLeast(RoleAdmin))
	assert.True(t, RoleAdmin.AtLeast(RoleUser))
	assert.False(t, RoleUser.AtLeast(RoleAdmin))
	assert.False(t, RoleAdmin.AtLeast(RoleSuperAdmin))
	assert.False(t, Role("GUEST").AtLeast(RoleAdmin))
}

func TestUser_Label(t *testing.T) {
	assert.Equal(t, "Ann (@ann)", User{ID: "1", Name: "Ann", Handle: "ann"}.Label())
	assert.Equal(t, "1", User{ID: "1"}.Label())
}

func TestPayload_Decode(t *testing.T) {
	kcal := 1800.0
	p := Payload{Purpose: WizardMacros, TargetUserID: "42", Calories: &kcal, WorkoutLines: []string{"a"}}

	got := DecodePayload(p.Encode())
	require.NotNil(t, got.Calories)
	assert.Equal(t, PayloadVersion, got.Version)
	assert.Equal(t, WizardMacros, got.Purpose)
	assert.Equal(t, 1800.0, *got.Calories)
	assert.Equal(t, []string{"a"}, got.WorkoutLines)

	for _, legacy := range []string{"", "kcal=1800|protein=120", "{broken", `{"v":99,"calories":1}`} {
		got := DecodePayload(legacy)
		assert.Equal(t, Payload{Version: PayloadVersion}, got, legacy)
	}
}
