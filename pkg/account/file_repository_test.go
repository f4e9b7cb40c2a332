package account

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-account/pkg/login"
	"github.com/tendant/simple-account/pkg/profile"
	"github.com/tendant/simple-account/pkg/role"
)

func setupTempDir(t *testing.T) string {
	tempDir := filepath.Join(os.TempDir(), "account-test-"+uuid.New().String())
	t.Cleanup(func() {
		os.RemoveAll(tempDir)
	})
	return tempDir
}

func TestFileAccountRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFileAccountRepository(setupTempDir(t))
	require.NoError(t, err)

	saved, err := repo.Save(ctx, Account{Username: "jdoe", Email: "jdoe@example.com", Roles: rolesNamed(role.Student)})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)

	t.Run("ByID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, saved, found)
	})

	t.Run("ByUsername", func(t *testing.T) {
		found, err := repo.FindByUsername(ctx, "jdoe")
		require.NoError(t, err)
		assert.Equal(t, saved.ID, found.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := repo.FindByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrAccountNotFound)
		ok, err := repo.ExistsByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		_, err := repo.Save(ctx, Account{Username: "jdoe", Email: "other@example.com"})
		assert.ErrorIs(t, err, ErrAccountExists)
	})

	t.Run("EmptyEmailsDoNotCollide", func(t *testing.T) {
		_, err := repo.Save(ctx, Account{Username: "a"})
		require.NoError(t, err)
		_, err = repo.Save(ctx, Account{Username: "b"})
		require.NoError(t, err)
	})

	t.Run("ReturnedCopyIsDetached", func(t *testing.T) {
		found, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		found.Roles[0].Name = role.Admin

		again, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, role.Student, again.Roles[0].Name)
	})
}

func TestFileTxManager_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dataDir := setupTempDir(t)

	txManager, err := NewTxManager("file", RepositoryConfig{DataDir: dataDir})
	require.NoError(t, err)
	svc := NewAccountService(txManager, &login.BcryptV1Hasher{})

	created, err := svc.CreateAccount(ctx, Account{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Roles:    rolesNamed(role.Lecturer),
		Profile:  &profile.Profile{FirstName: "John", LastName: "Doe"},
	})
	require.NoError(t, err)

	for _, name := range []string{accountsFileName, "roles.json", "profiles.json"} {
		assert.FileExists(t, filepath.Join(dataDir, name))
	}

	reopened, err := NewTxManager("file", RepositoryConfig{DataDir: dataDir})
	require.NoError(t, err)
	svc = NewAccountService(reopened, &login.BcryptV1Hasher{})

	got, ok, err := svc.GetUserByUsername(ctx, "jdoe")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, []role.Name{role.Lecturer, role.Student}, got.RoleNames())
	require.NotNil(t, got.Profile)
	assert.Equal(t, "John", got.Profile.FirstName)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))

	// the existing role records are reused after reopening
	second, err := svc.CreateAccount(ctx, Account{Username: "other", Roles: rolesNamed(role.Student)})
	require.NoError(t, err)
	assert.Equal(t, created.Roles[1].ID, second.Roles[0].ID)
}

func TestFileTxManager_FailedCreateIsUndone(t *testing.T) {
	ctx := context.Background()
	dataDir := setupTempDir(t)

	txManager, err := NewTxManager("file", RepositoryConfig{DataDir: dataDir})
	require.NoError(t, err)
	svc := NewAccountService(txManager, &login.BcryptV1Hasher{})

	_, err = svc.CreateAccount(ctx, Account{Username: "dup"})
	require.NoError(t, err)

	_, err = svc.CreateAccount(ctx, Account{
		Username: "dup",
		Roles:    rolesNamed(role.Admin),
		Profile:  &profile.Profile{FirstName: "Orphan"},
	})
	require.Error(t, err)

	// reopen so the assertions read what reached disk
	reopened, err := NewAccountRepositories("file", RepositoryConfig{DataDir: dataDir})
	require.NoError(t, err)

	profiles, err := reopened.Profiles.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, profiles)

	roles, err := reopened.Roles.FindRoles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []role.Name{role.Student}, role.Names(roles))
}

func TestFileAccountRepository_Delete(t *testing.T) {
	ctx := context.Background()
	dataDir := setupTempDir(t)
	repo, err := NewFileAccountRepository(dataDir)
	require.NoError(t, err)

	saved, err := repo.Save(ctx, Account{Username: "jdoe"})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, saved.ID))
	require.NoError(t, repo.Delete(ctx, uuid.New()))

	reopened, err := NewFileAccountRepository(dataDir)
	require.NoError(t, err)
	_, err = reopened.FindByID(ctx, saved.ID)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestNewTxManager(t *testing.T) {
	t.Run("Memory", func(t *testing.T) {
		m, err := NewTxManager("memory", RepositoryConfig{})
		require.NoError(t, err)
		assert.IsType(t, &LockingTxManager{}, m)
	})

	t.Run("FileRequiresDataDir", func(t *testing.T) {
		_, err := NewTxManager("file", RepositoryConfig{})
		assert.Error(t, err)
	})

	t.Run("PostgresRequiresDB", func(t *testing.T) {
		_, err := NewTxManager("postgres", RepositoryConfig{})
		assert.Error(t, err)
	})

	t.Run("Unsupported", func(t *testing.T) {
		_, err := NewTxManager("mongo", RepositoryConfig{})
		assert.Error(t, err)
	})
}
