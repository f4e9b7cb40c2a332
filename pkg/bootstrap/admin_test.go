package bootstrap

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-account/pkg/account"
	"github.com/tendant/simple-account/pkg/config"
	"github.com/tendant/simple-account/pkg/login"
	"github.com/tendant/simple-account/pkg/role"
)

func setupAccountService(t *testing.T) *account.AccountService {
	t.Helper()

	txManager, closeFn, err := OpenTxManager(context.Background(), config.Config{
		PersistenceConfig: config.PersistenceConfig{Type: "memory"},
	})
	require.NoError(t, err)
	t.Cleanup(closeFn)

	return account.NewAccountService(txManager, &login.BcryptV1Hasher{})
}

func TestBootstrapAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesAdmin", func(t *testing.T) {
		svc := setupAccountService(t)

		result, err := BootstrapAdmin(ctx, AdminBootstrapConfig{AdminUsername: "admin", AdminEmail: "admin@example.com", AccountService: svc})
		require.NoError(t, err)
		assert.True(t, result.UserCreated)
		assert.Equal(t, []role.Name{role.Admin, role.Lecturer, role.Student}, result.Account.RoleNames())

		var out bytes.Buffer
		PrintBootstrapResult(&out, result)
		assert.Contains(t, out.String(), "ROLE_ADMIN, ROLE_LECTURER, ROLE_STUDENT")
		assert.NotContains(t, out.String(), result.Account.PasswordHash)
	})

	t.Run("SkipsExisting", func(t *testing.T) {
		svc := setupAccountService(t)

		_, err := BootstrapAdmin(ctx, AdminBootstrapConfig{AdminUsername: "admin", AccountService: svc})
		require.NoError(t, err)

		result, err := BootstrapAdmin(ctx, AdminBootstrapConfig{AdminUsername: "admin", AccountService: svc})
		require.NoError(t, err)
		assert.False(t, result.UserCreated)
		assert.Equal(t, "admin", result.Account.Username)

		var out bytes.Buffer
		PrintBootstrapResult(&out, result)
		assert.Empty(t, out.String())
	})

	t.Run("NoUsername", func(t *testing.T) {
		result, err := BootstrapAdmin(ctx, AdminBootstrapConfig{})
		require.NoError(t, err)
		assert.False(t, result.UserCreated)
	})

	t.Run("MissingService", func(t *testing.T) {
		_, err := BootstrapAdmin(ctx, AdminBootstrapConfig{AdminUsername: "admin"})
		assert.Error(t, err)
	})
}

func TestOpenTxManager_UnsupportedPersistence(t *testing.T) {
	_, _, err := OpenTxManager(context.Background(), config.Config{
		PersistenceConfig: config.PersistenceConfig{Type: "redis"},
	})
	assert.Error(t, err)
}
