package identity

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testSource() Source {
	return Source{
		ID:           uuid.New(),
		Username:     "jdoe",
		Email:        "jdoe@example.com",
		PasswordHash: "$2a$10$hash",
		RoleNames:    []string{"ROLE_LECTURER", "ROLE_STUDENT"},
	}
}

func TestBuild(t *testing.T) {
	src := testSource()
	id := Build(src)

	assert.Equal(t, src.ID, id.ID())
	assert.Equal(t, "jdoe", id.Username())
	assert.Equal(t, "jdoe@example.com", id.Email())
	assert.Equal(t, "$2a$10$hash", id.PasswordHash())
	assert.Equal(t, []string{"ROLE_LECTURER", "ROLE_STUDENT"}, id.Authorities())

	t.Run("AuthoritiesAreCopied", func(t *testing.T) {
		src.RoleNames[0] = "ROLE_ADMIN"
		assert.Equal(t, "ROLE_LECTURER", id.Authorities()[0])

		got := id.Authorities()
		got[0] = "ROLE_ADMIN"
		assert.False(t, id.HasAuthority("ROLE_ADMIN"))
	})

	t.Run("NoRoles", func(t *testing.T) {
		empty := Build(Source{ID: uuid.New(), Username: "nobody"})
		assert.Empty(t, empty.Authorities())
	})
}

func TestStatusPredicates(t *testing.T) {
	id := Build(testSource())

	assert.True(t, id.IsAccountNonExpired())
	assert.True(t, id.IsAccountNonLocked())
	assert.True(t, id.IsCredentialsNonExpired())
	assert.True(t, id.IsEnabled())
}

func TestEquals(t *testing.T) {
	src := testSource()
	id := Build(src)

	t.Run("Self", func(t *testing.T) {
		assert.True(t, id.Equals(id))
	})

	t.Run("SameIDDifferentFields", func(t *testing.T) {
		other := Build(Source{ID: src.ID, Username: "someone-else"})
		assert.True(t, id.Equals(other))
		assert.True(t, id.Equals(*other))
	})

	t.Run("DifferentID", func(t *testing.T) {
		other := src
		other.ID = uuid.New()
		assert.False(t, id.Equals(Build(other)))
	})

	t.Run("Nil", func(t *testing.T) {
		assert.False(t, id.Equals(nil))
		var none *Identity
		assert.False(t, id.Equals(none))
	})

	t.Run("NilReceiver", func(t *testing.T) {
		var none *Identity
		assert.NotPanics(t, func() {
			assert.False(t, none.Equals(id))
			assert.False(t, none.Equals(none))
			assert.False(t, none.Equals(nil))
		})
	})

	t.Run("OtherType", func(t *testing.T) {
		assert.False(t, id.Equals("jdoe"))
		assert.False(t, id.Equals(src))
	})
}

func TestHasAuthority(t *testing.T) {
	id := Build(testSource())

	assert.True(t, id.HasAuthority("ROLE_STUDENT"))
	assert.False(t, id.HasAuthority("ROLE_ADMIN"))
}

func TestLogValueOmitsHash(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("loaded", "identity", Build(testSource()))

	assert.Contains(t, buf.String(), "jdoe")
	assert.NotContains(t, buf.String(), "$2a$10$hash")
}
