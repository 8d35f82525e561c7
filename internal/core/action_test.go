package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction_KnownValues(t *testing.T) {
	for _, a := range Actions() {
		got, err := ParseAction(string(a))
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	assert.Len(t, Actions(), 7)
}

func TestParseEntity_KnownValues(t *testing.T) {
	for _, e := range Entities() {
		got, err := ParseEntity(string(e))
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}
	assert.Len(t, Entities(), 3)
}

func TestParseAction_RejectsUnknown(t *testing.T) {
	for _, s := range []string{"", "create", "ARCHIVE", "CREATE "} {
		_, err := ParseAction(s)
		require.Error(t, err, s)
		assert.True(t, errors.Is(err, ErrInvalidEnumValue))

		var ev *InvalidEnumValueError
		require.ErrorAs(t, err, &ev)
		assert.Equal(t, "action", ev.Kind)
		assert.Equal(t, s, ev.Value)
	}
}

func TestEntityValidate_RejectsUnknown(t *testing.T) {
	err := Entity("ASSET").Validate()
	require.ErrorIs(t, err, ErrInvalidEnumValue)
	assert.Equal(t, `invalid entity "ASSET"`, err.Error())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleSPC.Valid())
	assert.False(t, Role("admin").Valid())
}

func TestNewUploadName(t *testing.T) {
	name := NewUploadName("brochure final.pdf")
	assert.True(t, strings.HasSuffix(name, "-brochure-final.pdf"), name)

	name = NewUploadName(`C:\Users\me\logo.png`)
	assert.True(t, strings.HasSuffix(name, "-logo.png"), name)
	assert.NotContains(t, name, "\\")

	name = NewUploadName("../../etc/passwd")
	assert.True(t, strings.HasSuffix(name, "-passwd"), name)
	assert.NotContains(t, name, "/")

	assert.NotEqual(t, NewUploadName("a.txt"), NewUploadName("a.txt"))
}
