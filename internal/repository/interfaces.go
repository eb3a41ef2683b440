package repository

import (
	"context"
	"time"

	"github.com/avdeyev/contacts-service/internal/domain"
)

// UserRepository defines methods for user operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	SetVerified(ctx context.Context, email string) error
	UpdateAvatar(ctx context.Context, id int64, avatarURL string) error
}

// ContactRepository defines methods for contact operations
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	GetByID(ctx context.Context, id int64) (*domain.Contact, error)
	List(ctx context.Context, offset, limit int) ([]domain.Contact, error)
	Update(ctx context.Context, id int64, patch domain.ContactPatch) (*domain.Contact, error)
	Delete(ctx context.Context, id int64) (*domain.Contact, error)
	Search(ctx context.Context, filter domain.ContactFilter) ([]domain.Contact, error)
	UpcomingBirthdays(ctx context.Context, today time.Time, days int) ([]domain.Contact, error)
}
