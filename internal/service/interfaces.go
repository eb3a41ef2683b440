package service

import (
	"context"
	"io"

	"github.com/avdeyev/contacts-service/internal/domain"
	"github.com/avdeyev/contacts-service/internal/dto"
)

// AuthService defines methods for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	CurrentUser(ctx context.Context, accessToken string) (*domain.User, error)
	VerifyEmail(ctx context.Context, token string) error
	UpdateAvatar(ctx context.Context, userID int64, filename, contentType string, file io.Reader) (string, error)
}

// ContactService defines methods for contact operations
type ContactService interface {
	Create(ctx context.Context, req *dto.CreateContactRequest) (*domain.Contact, error)
	Get(ctx context.Context, id int64) (*domain.Contact, error)
	List(ctx context.Context, offset, limit int) ([]domain.Contact, error)
	Update(ctx context.Context, id int64, patch domain.ContactPatch) (*domain.Contact, error)
	Delete(ctx context.Context, id int64) (*domain.Contact, error)
	Search(ctx context.Context, filter domain.ContactFilter) ([]domain.Contact, error)
	UpcomingBirthdays(ctx context.Context) ([]domain.Contact, error)
}

// AvatarStorage uploads an avatar object and returns its public URL
type AvatarStorage interface {
	Upload(ctx context.Context, objectName, contentType string, r io.Reader) (string, error)
}
