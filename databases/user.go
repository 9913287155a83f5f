package databases

import (
	"context"
	"fmt"

	"github.com/linesmerrill/lexmatch-api/models"
)

// UserDatabase contains the methods to look up demo personas
type UserDatabase interface {
	FindOne(ctx context.Context, userID string) (*models.User, error)
	FindByRole(ctx context.Context, role models.Role) (*models.User, error)
}

type userDatabase struct {
	users []models.User
}

// NewUserDatabase initializes the persona registry
func NewUserDatabase(users ...models.User) UserDatabase {
	return &userDatabase{users: append([]models.User{}, users...)}
}

func (u *userDatabase) FindOne(ctx context.Context, userID string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, user := range u.users {
		if user.ID == userID {
			out := user
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
}

// FindByRole returns the first persona registered for role
func (u *userDatabase) FindByRole(ctx context.Context, role models.Role) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, user := range u.users {
		if user.Role == role {
			out := user
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: role %s", ErrUserNotFound, role)
}
