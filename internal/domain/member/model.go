package member

import (
	"strings"
	"unicode/utf8"

	"artcor/internal/domain/failure"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
	MaxRoleLength = 100
)

// Member is a tracked individual who may attend events.
// INVARIANT: ID is positive and never changes after creation
type Member struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// New builds a Member from raw form values, trimming and validating them.
// PRE: id > 0
// POST: Returns a trimmed, valid Member or a *failure.ValidationError
func New(id int, name, role string) (Member, error) {
	m := Member{
		ID:   id,
		Name: strings.TrimSpace(name),
		Role: strings.TrimSpace(role),
	}
	if err := m.Validate(); err != nil {
		return Member{}, err
	}
	return m, nil
}

// Draft trims and validates form values before an id is allocated.
// PRE: none
// POST: Returns a Member with ID 0 and valid fields, or a *failure.ValidationError
func Draft(name, role string) (Member, error) {
	m := Member{
		Name: strings.TrimSpace(name),
		Role: strings.TrimSpace(role),
	}
	if err := m.validateFields(); err != nil {
		return Member{}, err
	}
	return m, nil
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name and Role must not be empty after trimming
func (m *Member) Validate() error {
	if m.ID <= 0 {
		return failure.Invalid("member id", "must be positive")
	}
	return m.validateFields()
}

func (m *Member) validateFields() error {
	if strings.TrimSpace(m.Name) == "" {
		return failure.Invalid("member name", "cannot be empty")
	}
	if utf8.RuneCountInString(m.Name) > MaxNameLength {
		return failure.Invalid("member name", "cannot exceed 100 characters")
	}
	if strings.TrimSpace(m.Role) == "" {
		return failure.Invalid("member role", "cannot be empty")
	}
	if utf8.RuneCountInString(m.Role) > MaxRoleLength {
		return failure.Invalid("member role", "cannot exceed 100 characters")
	}
	return nil
}

// Rename replaces name and role in place, keeping the id.
// PRE: Member is valid
// POST: On success Name/Role hold the trimmed values; on error the member is unchanged
func (m *Member) Rename(name, role string) error {
	next, err := New(m.ID, name, role)
	if err != nil {
		return err
	}
	*m = next
	return nil
}

// SameName reports whether name matches this member's name case-insensitively.
// INVARIANT: Member is not mutated
func (m *Member) SameName(name string) bool {
	return strings.EqualFold(m.Name, strings.TrimSpace(name))
}
