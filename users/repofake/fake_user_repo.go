package fakeuserrepo

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/villa-booking/internal/errors"
	"github.com/jrsteele09/villa-booking/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users     map[int64]*users.User
	usernames map[string]int64 // username to user id
	nextID    int64
	lock      sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:     make(map[int64]*users.User),
		usernames: make(map[string]int64),
	}
}

func (ur *FakeUserRepo) Upsert(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if user.ID == 0 {
		if id, ok := ur.usernames[user.Username]; ok {
			user.ID = id
		} else {
			ur.nextID++
			user.ID = ur.nextID
		}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	copied := *user
	ur.users[user.ID] = &copied
	ur.usernames[user.Username] = user.ID
	return nil
}

func (ur *FakeUserRepo) GetByUsername(_ context.Context, username string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.usernames[username]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *ur.users[id]
	return &copied, nil
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id int64) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (ur *FakeUserRepo) TouchLastLogin(_ context.Context, id int64) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	now := time.Now()
	user.LastLogin = &now
	return nil
}
