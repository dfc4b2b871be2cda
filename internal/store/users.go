package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/treehouse-books/treehouse-server/internal/domain"
)

// normalizeUsername lowercases for case-insensitive uniqueness.
func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// normalizeEmail lowercases for case-insensitive uniqueness.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser stores a new user, enforcing username and email uniqueness via
// secondary index keys maintained in the same transaction.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(userPrefix + user.ID)
	usernameKey := []byte(userUsernameIdx + normalizeUsername(user.Username))
	emailKey := []byte(userEmailIdx + normalizeEmail(user.Email))

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(usernameKey); err == nil {
			return ErrUsernameTaken
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to check username index: %w", err)
		}

		if _, err := txn.Get(emailKey); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to check email index: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("failed to set user: %w", err)
		}
		if err := txn.Set(usernameKey, []byte(user.ID)); err != nil {
			return fmt.Errorf("failed to set username index: %w", err)
		}
		if err := txn.Set(emailKey, []byte(user.ID)); err != nil {
			return fmt.Errorf("failed to set email index: %w", err)
		}
		return nil
	})
}

// GetUser retrieves a user by ID.
// Returns ErrUserNotFound if the user does not exist.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user domain.User
	err := s.get([]byte(userPrefix+id), &user)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByUsername looks a user up through the username index.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getUserByIndex(ctx, userUsernameIdx+normalizeUsername(username))
}

// GetUserByEmail looks a user up through the email index.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUserByIndex(ctx, userEmailIdx+normalizeEmail(email))
}

func (s *Store) getUserByIndex(ctx context.Context, indexKey string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user domain.User
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(indexKey))
		if err != nil {
			return err
		}

		var id []byte
		if id, err = item.ValueCopy(nil); err != nil {
			return fmt.Errorf("failed to read index value: %w", err)
		}

		item, err = txn.Get([]byte(userPrefix + string(id)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by index: %w", err)
	}
	return &user, nil
}

// UpdateUser overwrites an existing user document. Username and email are
// treated as immutable; the secondary indexes are not rewritten here.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(userPrefix + user.ID)
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		} else if err != nil {
			return fmt.Errorf("failed to check existing user: %w", err)
		}
		return txn.Set(key, data)
	})
}

// MutateUser applies fn to the user inside a single write transaction.
// Used for points awards so concurrent awards don't drop history entries.
func (s *Store) MutateUser(ctx context.Context, id string, fn func(*domain.User) error) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := []byte(userPrefix + id)
	var user domain.User

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}

		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		}); err != nil {
			return fmt.Errorf("failed to unmarshal user: %w", err)
		}

		if err := fn(&user); err != nil {
			return err
		}

		data, err := json.Marshal(&user)
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all users. Intended for the admin dashboard and the
// points leaderboard; the user base of a single reading room stays small.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return listPrefix[domain.User](s, userPrefix)
}
