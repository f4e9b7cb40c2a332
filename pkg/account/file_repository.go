package account

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

const accountsFileName = "accounts.json"

// fileAccountData represents all account data stored in the file
type fileAccountData struct {
	Accounts map[uuid.UUID]Account `json:"accounts"` // keyed by account ID
}

// FileAccountRepository implements AccountRepository using file-based storage.
// Profile and intake are stored embedded in each account record.
type FileAccountRepository struct {
	dataDir string
	data    *fileAccountData
	mutex   sync.RWMutex
}

// NewFileAccountRepository creates a new file-based account repository
func NewFileAccountRepository(dataDir string) (*FileAccountRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	repo := &FileAccountRepository{
		dataDir: dataDir,
		data: &fileAccountData{
			Accounts: make(map[uuid.UUID]Account),
		},
	}

	if err := repo.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return repo, nil
}

// Save creates or replaces an account and persists the file
func (r *FileAccountRepository) Save(ctx context.Context, a Account) (Account, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if conflicts(r.data.Accounts, a) {
		return Account{}, ErrAccountExists
	}

	previous, existed := r.data.Accounts[a.ID]
	r.data.Accounts[a.ID] = cloneAccount(a)

	if err := r.save(); err != nil {
		// Rollback
		if existed {
			r.data.Accounts[a.ID] = previous
		} else {
			delete(r.data.Accounts, a.ID)
		}
		return Account{}, fmt.Errorf("failed to save: %w", err)
	}

	return cloneAccount(a), nil
}

func (r *FileAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (Account, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	a, ok := r.data.Accounts[id]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *FileAccountRepository) FindByUsername(ctx context.Context, username string) (Account, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, a := range r.data.Accounts {
		if a.Username == username {
			return cloneAccount(a), nil
		}
	}
	return Account{}, ErrAccountNotFound
}

func (r *FileAccountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	if err == ErrAccountNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *FileAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, a := range r.data.Accounts {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// Delete removes the account and persists the file; a missing ID is not an error
func (r *FileAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	previous, existed := r.data.Accounts[id]
	if !existed {
		return nil
	}
	delete(r.data.Accounts, id)

	if err := r.save(); err != nil {
		r.data.Accounts[id] = previous
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

// load reads account data from file
func (r *FileAccountRepository) load() error {
	filePath := filepath.Join(r.dataDir, accountsFileName)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, r.data); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}
	if r.data.Accounts == nil {
		r.data.Accounts = make(map[uuid.UUID]Account)
	}
	return nil
}

// save writes account data to file atomically
func (r *FileAccountRepository) save() error {
	data, err := json.MarshalIndent(r.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	tempFile := filepath.Join(r.dataDir, accountsFileName+".tmp")
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempFile, filepath.Join(r.dataDir, accountsFileName)); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
