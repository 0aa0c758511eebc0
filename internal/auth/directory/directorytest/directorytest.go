// Package directorytest provides an in-memory directory.Client for tests.
package directorytest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aussiebroadwan/gatekeep/internal/auth/directory"
	"github.com/aussiebroadwan/gatekeep/internal/auth/domain"
)

type account struct {
	identity domain.Identity
	password string
}

// Directory is a concurrency-safe fake. Passwords are kept in clear text.
type Directory struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]*account
	failures map[string]error
	calls    map[string]int
	lastSeen map[int64]int
}

var _ directory.Client = (*Directory)(nil)

func New() *Directory {
	return &Directory{
		nextID:   1,
		accounts: map[int64]*account{},
		failures: map[string]error{},
		calls:    map[string]int{},
		lastSeen: map[int64]int{},
	}
}

// Add seeds an account and returns it with its assigned id.
func (d *Directory) Add(id domain.Identity, password string) domain.Identity {
	d.mu.Lock()
	defer d.mu.Unlock()

	id.UserID = d.nextID
	d.nextID++
	if id.Role == "" {
		id.Role = domain.RoleUser
	}
	d.accounts[id.UserID] = &account{identity: id, password: password}
	return id
}

// SetRole changes an account's role in place.
func (d *Directory) SetRole(userID int64, role string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if a, ok := d.accounts[userID]; ok {
		a.identity.Role = role
	}
}

// Remove drops an account.
func (d *Directory) Remove(userID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.accounts, userID)
}

// Fail makes every later call to method return err. A nil err clears it.
func (d *Directory) Fail(method string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.failures, method)
		return
	}
	d.failures[method] = err
}

// Calls reports how many times method was invoked.
func (d *Directory) Calls(method string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[method]
}

// LastLoginUpdates reports how many times UpdateLastLogin ran for userID.
func (d *Directory) LastLoginUpdates(userID int64) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastSeen[userID]
}

// Exists reports whether an account with userID is present.
func (d *Directory) Exists(userID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.accounts[userID]
	return ok
}

// enter records the call and returns the injected failure, if any. The
// caller must hold d.mu.
func (d *Directory) enter(method string) error {
	d.calls[method]++
	return d.failures[method]
}

func (d *Directory) find(match func(domain.Identity) bool) (*account, bool) {
	for _, a := range d.accounts {
		if match(a.identity) {
			return a, true
		}
	}
	return nil, false
}

func byUsername(name string) func(domain.Identity) bool {
	return func(id domain.Identity) bool { return id.Username == name }
}

func byEmail(email string) func(domain.Identity) bool {
	return func(id domain.Identity) bool { return strings.EqualFold(id.Email, email) }
}

func (d *Directory) FindByUsername(_ context.Context, username string) (domain.Identity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.enter("FindByUsername"); err != nil {
		return domain.Identity{}, err
	}
	if a, ok := d.find(byUsername(username)); ok {
		return a.identity, nil
	}
	return domain.Identity{}, fmt.Errorf("%w: %s", directory.ErrNotFound, username)
}

func (d *Directory) FindByEmail(_ context.Context, email string) (domain.Identity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.enter("FindByEmail"); err != nil {
		return domain.Identity{}, err
	}
	if a, ok := d.find(byEmail(email)); ok {
		return a.identity, nil
	}
	return domain.Identity{}, fmt.Errorf("%w: %s", directory.ErrNotFound, email)
}

func (d *Directory) Authenticate(_ context.Context, usernameOrEmail, password string, usingEmail bool) (domain.Identity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.enter("Authenticate"); err != nil {
		return domain.Identity{}, err
	}

	match := byUsername(usernameOrEmail)
	if usingEmail {
		match = byEmail(usernameOrEmail)
	}
	a, ok := d.find(match)
	if !ok {
		return domain.Identity{}, directory.ErrNotFound
	}
	if a.password != password {
		return domain.Identity{}, directory.ErrInvalidCredentials
	}
	return a.identity, nil
}

func (d *Directory) CreateUser(_ context.Context, reg domain.Registration, role string) (domain.Identity, error) {
	d.mu.Lock()
	if err := d.enter("CreateUser"); err != nil {
		d.mu.Unlock()
		return domain.Identity{}, err
	}
	_, taken := d.find(func(id domain.Identity) bool {
		return id.Username == reg.Username || strings.EqualFold(id.Email, reg.Email)
	})
	d.mu.Unlock()
	if taken {
		return domain.Identity{}, directory.ErrAlreadyExists
	}

	return d.Add(domain.Identity{
		Username:  reg.Username,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Email:     reg.Email,
		Role:      role,
	}, reg.Password), nil
}

func (d *Directory) UpdatePassword(_ context.Context, userID int64, current, next string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.enter("UpdatePassword"); err != nil {
		return false, err
	}
	a, ok := d.accounts[userID]
	if !ok {
		return false, directory.ErrNotFound
	}
	if current != "" && a.password != current {
		return false, nil
	}
	a.password = next
	return true, nil
}

func (d *Directory) UsernameExists(_ context.Context, username string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.enter("UsernameExists"); err != nil {
		return false, err
	}
	_, ok := d.find(byUsername(username))
	return ok, nil
}

func (d *Directory) EmailExists(_ context.Context, email string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.enter("EmailExists"); err != nil {
		return false, err
	}
	_, ok := d.find(byEmail(email))
	return ok, nil
}

func (d *Directory) UpdateLastLogin(_ context.Context, userID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.enter("UpdateLastLogin"); err != nil {
		return err
	}
	if _, ok := d.accounts[userID]; !ok {
		return directory.ErrNotFound
	}
	d.lastSeen[userID]++
	return nil
}

func (d *Directory) GetUserInfo(_ context.Context, userID int64) (domain.Identity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.enter("GetUserInfo"); err != nil {
		return domain.Identity{}, err
	}
	a, ok := d.accounts[userID]
	if !ok {
		return domain.Identity{}, directory.ErrNotFound
	}
	return a.identity, nil
}

func (d *Directory) GetUserProfile(_ context.Context, userID int64) (domain.Profile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.enter("GetUserProfile"); err != nil {
		return domain.Profile{}, err
	}
	a, ok := d.accounts[userID]
	if !ok {
		return domain.Profile{}, directory.ErrNotFound
	}
	return domain.Profile{Identity: a.identity, Status: "ACTIVE"}, nil
}

func (d *Directory) DeleteUser(_ context.Context, userID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.enter("DeleteUser"); err != nil {
		return err
	}
	if _, ok := d.accounts[userID]; !ok {
		return directory.ErrNotFound
	}
	delete(d.accounts, userID)
	return nil
}
