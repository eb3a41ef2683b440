package service

import (
	"context"
	"time"

	"github.com/avdeyev/contacts-service/internal/domain"
	"github.com/avdeyev/contacts-service/internal/dto"
	"github.com/avdeyev/contacts-service/internal/repository"
)

// birthdayWindowDays is the length of the upcoming-birthdays window. The
// window is inclusive on both ends: today plus the next seven days.
const birthdayWindowDays = 7

// contactService implements ContactService interface
type contactService struct {
	contactRepo repository.ContactRepository
	now         func() time.Time
}

// NewContactService creates a new contact service
func NewContactService(contactRepo repository.ContactRepository) ContactService {
	return &contactService{
		contactRepo: contactRepo,
		now:         time.Now,
	}
}

// NewContactServiceWithClock creates a contact service with a fixed time
// source. Used by tests to pin the birthday window.
func NewContactServiceWithClock(contactRepo repository.ContactRepository, now func() time.Time) ContactService {
	return &contactService{
		contactRepo: contactRepo,
		now:         now,
	}
}

// Create validates nothing beyond binding; uniqueness of email and phone is
// the storage layer's concern and surfaces as a duplicate sentinel.
func (s *contactService) Create(ctx context.Context, req *dto.CreateContactRequest) (*domain.Contact, error) {
	contact := &domain.Contact{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Birthday:       req.Birthday,
		AdditionalInfo: req.AdditionalInfo,
	}

	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, err
	}

	return contact, nil
}

// Get retrieves a contact by ID
func (s *contactService) Get(ctx context.Context, id int64) (*domain.Contact, error) {
	return s.contactRepo.GetByID(ctx, id)
}

// List returns contacts in insertion order. Negative values are clamped to
// zero; an offset past the end or a zero limit yields an empty slice.
func (s *contactService) List(ctx context.Context, offset, limit int) ([]domain.Contact, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return []domain.Contact{}, nil
	}

	return s.contactRepo.List(ctx, offset, limit)
}

// Update applies a partial update; an empty patch returns the row unchanged
func (s *contactService) Update(ctx context.Context, id int64, patch domain.ContactPatch) (*domain.Contact, error) {
	return s.contactRepo.Update(ctx, id, patch)
}

// Delete removes a contact and returns its prior state
func (s *contactService) Delete(ctx context.Context, id int64) (*domain.Contact, error) {
	return s.contactRepo.Delete(ctx, id)
}

// Search finds contacts by case-insensitive substring filters combined with AND
func (s *contactService) Search(ctx context.Context, filter domain.ContactFilter) ([]domain.Contact, error) {
	return s.contactRepo.Search(ctx, filter)
}

// UpcomingBirthdays returns contacts whose birthday recurs within the next
// week, counting from the service clock's current day.
func (s *contactService) UpcomingBirthdays(ctx context.Context) ([]domain.Contact, error) {
	return s.contactRepo.UpcomingBirthdays(ctx, s.now(), birthdayWindowDays)
}
