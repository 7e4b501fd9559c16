package users

import "context"

type UserRepo interface {
	Upsert(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	TouchLastLogin(ctx context.Context, id int64) error
}
