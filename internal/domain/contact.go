package domain

// Contact represents a person in the address book. Email and phone number
// are unique across all contacts; the id is assigned by storage on insert.
type Contact struct {
	ID             int64   `json:"id" db:"id"`
	FirstName      string  `json:"first_name" db:"first_name"`
	LastName       string  `json:"last_name" db:"last_name"`
	Email          string  `json:"email" db:"email"`
	PhoneNumber    string  `json:"phone_number" db:"phone_number"`
	Birthday       Date    `json:"birthday" db:"birthday"`
	AdditionalInfo *string `json:"additional_info,omitempty" db:"additional_info"`
}

// ContactPatch carries a partial update. Nil fields are left untouched.
type ContactPatch struct {
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	Email          *string `json:"email,omitempty"`
	PhoneNumber    *string `json:"phone_number,omitempty"`
	Birthday       *Date   `json:"birthday,omitempty"`
	AdditionalInfo *string `json:"additional_info,omitempty"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (p ContactPatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil &&
		p.PhoneNumber == nil && p.Birthday == nil && p.AdditionalInfo == nil
}

// ContactFilter holds the optional search criteria. Each non-empty field is
// a case-insensitive substring match, combined with AND.
type ContactFilter struct {
	Name    string
	Surname string
	Email   string
}
