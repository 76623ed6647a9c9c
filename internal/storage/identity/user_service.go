package identity

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/maruel/ksid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bizcanvas/bizcanvas/internal/jsonldb"
)

var (
	errUserIDRequired   = errors.New("id is required")
	errEmailRequired    = errors.New("email is required")
	errEmailPwdRequired = errors.New("email and password are required")
	errUserExists       = errors.New("user already exists")
	errUserNotFound     = errors.New("user not found")
	errInvalidCreds     = errors.New("invalid credentials")
)

// UserService handles user management and authentication.
type UserService struct {
	table   *jsonldb.Table[*userStorage]
	byEmail *jsonldb.UniqueIndex[string, *userStorage]
}

// NewUserService creates a new user service.
func NewUserService(rootDir string) (*UserService, error) {
	dbDir := filepath.Join(rootDir, "db")
	if err := os.MkdirAll(dbDir, 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	table, err := jsonldb.NewTable[*userStorage](filepath.Join(dbDir, "users.jsonl"))
	if err != nil {
		return nil, err
	}

	return &UserService{
		table:   table,
		byEmail: jsonldb.NewUniqueIndex(table, func(u *userStorage) string { return u.Email }),
	}, nil
}

type userStorage struct {
	User
	PasswordHash string `json:"password_hash" jsonschema:"description=Bcrypt-hashed password"`
}

func (u *userStorage) Clone() *userStorage {
	c := *u
	return &c
}

// GetID returns the userStorage's ID.
func (u *userStorage) GetID() ksid.ID {
	return u.ID
}

// Validate checks that the userStorage is valid.
func (u *userStorage) Validate() error {
	if u.ID.IsZero() {
		return errUserIDRequired
	}
	if u.Email == "" {
		return errEmailRequired
	}
	return nil
}

// Create creates a new user.
func (s *UserService) Create(email, password, name string) (*User, error) {
	if email == "" || password == "" {
		return nil, errEmailPwdRequired
	}

	if stored := s.byEmail.Get(email); stored != nil {
		return nil, errUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	stored := &userStorage{
		User: User{
			ID:       ksid.NewID(),
			Email:    email,
			Name:     name,
			Created:  now,
			Modified: now,
		},
		PasswordHash: string(hash),
	}

	if err := s.table.Append(stored); err != nil {
		return nil, err
	}

	user := stored.User
	return &user, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(id ksid.ID) (*User, error) {
	if id.IsZero() {
		return nil, errUserIDRequired
	}
	stored := s.table.Get(id)
	if stored == nil {
		return nil, errUserNotFound
	}
	user := stored.User
	return &user, nil
}

// GetByEmail retrieves a user by email.
func (s *UserService) GetByEmail(email string) (*User, error) {
	stored := s.byEmail.Get(email)
	if stored == nil {
		return nil, errUserNotFound
	}
	user := stored.User
	return &user, nil
}

// Authenticate verifies user credentials.
func (s *UserService) Authenticate(email, password string) (*User, error) {
	stored := s.byEmail.Get(email)
	if stored == nil {
		return nil, errInvalidCreds
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCreds
	}
	user := stored.User
	return &user, nil
}

// Len returns the number of registered users.
func (s *UserService) Len() int {
	return s.table.Len()
}

// Iter iterates over all users.
func (s *UserService) Iter() iter.Seq[*User] {
	return func(yield func(*User) bool) {
		for stored := range s.table.Iter(0) {
			user := stored.User
			if !yield(&user) {
				return
			}
		}
	}
}
