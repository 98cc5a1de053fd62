package devserver

import (
	"errors"
	"strings"
	"sync"

	"github.com/MrEthical07/goBlog/password"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
)

// User is a registered account. Only the hash of the password is kept.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
}

// Users is an in-memory account table.
type Users struct {
	hasher *password.Hasher

	mu     sync.RWMutex
	byName map[string]User
	nextID int64

	// dummyHash keeps timing similar for unknown usernames.
	dummyHash string
}

func NewUsers(hasher *password.Hasher) (*Users, error) {
	dummy, err := hasher.Hash("dummy-password-for-timing")
	if err != nil {
		return nil, err
	}
	return &Users{
		hasher:    hasher,
		byName:    make(map[string]User),
		nextID:    1,
		dummyHash: dummy,
	}, nil
}

// Add registers a user and returns it with its assigned id.
func (u *Users) Add(username, email, pw string) (User, error) {
	hash, err := u.hasher.Hash(pw)
	if err != nil {
		return User{}, err
	}

	key := strings.ToLower(strings.TrimSpace(username))

	u.mu.Lock()
	defer u.mu.Unlock()

	if _, ok := u.byName[key]; ok {
		return User{}, ErrUserExists
	}
	user := User{
		ID:           u.nextID,
		Username:     strings.TrimSpace(username),
		Email:        email,
		PasswordHash: hash,
	}
	u.byName[key] = user
	u.nextID++
	return user, nil
}

// Authenticate returns the user when pw matches.
func (u *Users) Authenticate(username, pw string) (User, error) {
	u.mu.RLock()
	user, ok := u.byName[strings.ToLower(strings.TrimSpace(username))]
	u.mu.RUnlock()

	hash := user.PasswordHash
	if !ok {
		hash = u.dummyHash
	}
	match, err := u.hasher.Verify(pw, hash)
	if err != nil && !errors.Is(err, password.ErrPasswordTooLong) {
		return User{}, err
	}
	if !ok || !match {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Lookup returns the user by username.
func (u *Users) Lookup(username string) (User, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	user, ok := u.byName[strings.ToLower(username)]
	return user, ok
}
