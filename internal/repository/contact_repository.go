package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avdeyev/contacts-service/internal/domain"
	"github.com/avdeyev/contacts-service/pkg/database"
	"github.com/lib/pq"
)

const contactColumns = "id, first_name, last_name, email, phone_number, birthday, additional_info"

// contactRepository implements ContactRepository interface
type contactRepository struct {
	db *database.Postgres
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *database.Postgres) ContactRepository {
	return &contactRepository{db: db}
}

// Create inserts a new contact and fills in the assigned id. Unique
// violations on email and phone number map to the matching sentinel.
func (r *contactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	query := `
		INSERT INTO contacts (first_name, last_name, email, phone_number, birthday, additional_info)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.DB.QueryRowxContext(ctx, query,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.PhoneNumber,
		contact.Birthday,
		contact.AdditionalInfo,
	).Scan(&contact.ID)

	if err != nil {
		return mapContactConstraint(err, contact.Email, contact.PhoneNumber)
	}

	return nil
}

// GetByID retrieves a contact by ID
func (r *contactRepository) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	query := fmt.Sprintf(`SELECT %s FROM contacts WHERE id = $1`, contactColumns)

	contact := &domain.Contact{}
	err := r.db.DB.GetContext(ctx, contact, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("contact with id %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get contact by id: %w", err)
	}

	return contact, nil
}

// List returns contacts in insertion order. An offset past the end yields
// an empty slice, never an error.
func (r *contactRepository) List(ctx context.Context, offset, limit int) ([]domain.Contact, error) {
	query := fmt.Sprintf(`SELECT %s FROM contacts ORDER BY id LIMIT $1 OFFSET $2`, contactColumns)

	contacts := []domain.Contact{}
	err := r.db.DB.SelectContext(ctx, &contacts, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	return contacts, nil
}

// Update overwrites only the fields present in the patch and returns the
// resulting row. An empty patch reads the row back unchanged.
func (r *contactRepository) Update(ctx context.Context, id int64, patch domain.ContactPatch) (*domain.Contact, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	var setClauses []string
	var args []interface{}

	addClause := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.FirstName != nil {
		addClause("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		addClause("last_name", *patch.LastName)
	}
	if patch.Email != nil {
		addClause("email", *patch.Email)
	}
	if patch.PhoneNumber != nil {
		addClause("phone_number", *patch.PhoneNumber)
	}
	if patch.Birthday != nil {
		addClause("birthday", *patch.Birthday)
	}
	if patch.AdditionalInfo != nil {
		addClause("additional_info", *patch.AdditionalInfo)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE contacts SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), len(args), contactColumns,
	)

	contact := &domain.Contact{}
	err := r.db.DB.QueryRowxContext(ctx, query, args...).StructScan(contact)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("contact with id %d not found: %w", id, ErrNotFound)
		}
		var email, phone string
		if patch.Email != nil {
			email = *patch.Email
		}
		if patch.PhoneNumber != nil {
			phone = *patch.PhoneNumber
		}
		return nil, mapContactConstraint(err, email, phone)
	}

	return contact, nil
}

// Delete removes a contact and returns its prior state for confirmation
func (r *contactRepository) Delete(ctx context.Context, id int64) (*domain.Contact, error) {
	query := fmt.Sprintf(`DELETE FROM contacts WHERE id = $1 RETURNING %s`, contactColumns)

	contact := &domain.Contact{}
	err := r.db.DB.QueryRowxContext(ctx, query, id).StructScan(contact)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("contact with id %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to delete contact: %w", err)
	}

	return contact, nil
}

// Search returns contacts matching every supplied filter as a
// case-insensitive substring. No filters means all contacts.
func (r *contactRepository) Search(ctx context.Context, filter domain.ContactFilter) ([]domain.Contact, error) {
	var conditions []string
	var args []interface{}

	addCondition := func(column, value string) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s ILIKE '%%' || $%d || '%%'", column, len(args)))
	}

	if filter.Name != "" {
		addCondition("first_name", filter.Name)
	}
	if filter.Surname != "" {
		addCondition("last_name", filter.Surname)
	}
	if filter.Email != "" {
		addCondition("email", filter.Email)
	}

	query := fmt.Sprintf(`SELECT %s FROM contacts`, contactColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	contacts := []domain.Contact{}
	err := r.db.DB.SelectContext(ctx, &contacts, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}

	return contacts, nil
}

// UpcomingBirthdays returns contacts whose birthday's month and day fall
// inside the inclusive window [today, today+days], regardless of the birth
// year. The window is expanded to a set of "MM-DD" keys so year boundaries
// need no special handling.
func (r *contactRepository) UpcomingBirthdays(ctx context.Context, today time.Time, days int) ([]domain.Contact, error) {
	keys := make([]string, 0, days+1)
	for i := 0; i <= days; i++ {
		keys = append(keys, today.AddDate(0, 0, i).Format("01-02"))
	}

	query := fmt.Sprintf(
		`SELECT %s FROM contacts WHERE to_char(birthday, 'MM-DD') = ANY($1) ORDER BY id`,
		contactColumns,
	)

	contacts := []domain.Contact{}
	err := r.db.DB.SelectContext(ctx, &contacts, query, pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming birthdays: %w", err)
	}

	return contacts, nil
}

// mapContactConstraint turns a pq unique violation into the sentinel for
// the offending column.
func mapContactConstraint(err error, email, phone string) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		if strings.Contains(pqErr.Constraint, "phone") {
			return fmt.Errorf("contact with phone %s already exists: %w", phone, ErrDuplicatePhone)
		}
		return fmt.Errorf("contact with email %s already exists: %w", email, ErrDuplicateEmail)
	}
	return fmt.Errorf("failed to write contact: %w", err)
}
