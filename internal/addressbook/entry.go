package addressbook

import (
	"strings"

	"github.com/dukerupert/addressbook/internal/domain"
	"github.com/go-playground/validator/v10"
)

// User-facing messages for rejected submissions.
const (
	MsgNoSelection       = "No address selected, try to select an address or find one if you haven't"
	MsgSelectionNotFound = "Selected address not found"
	MsgNamesMandatory    = "First name and last name fields mandatory!"
)

// Person carries the names attached to a selected address.
type Person struct {
	FirstName string `validate:"notblank"`
	LastName  string `validate:"notblank"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validate rejects a person missing either name.
func (p Person) Validate() error {
	if err := validate.Struct(p); err != nil {
		return domain.WrapError(err, domain.EINVALID, "addressbook.person", MsgNamesMandatory)
	}
	return nil
}

// NewEntry resolves selectedID against the current candidates and attaches
// person to it. Checks run in order: a selection must exist, it must match
// a candidate, and both names must be present.
func NewEntry(candidates []domain.Address, selectedID string, person Person) (domain.PersonAddress, error) {
	const op = "addressbook.entry"

	if selectedID == "" || len(candidates) == 0 {
		return domain.PersonAddress{}, domain.Invalid(op, MsgNoSelection)
	}

	var (
		found domain.Address
		ok    bool
	)
	for _, c := range candidates {
		if c.ID == selectedID {
			found, ok = c, true
			break
		}
	}
	if !ok {
		return domain.PersonAddress{}, domain.NotFound(op, MsgSelectionNotFound)
	}

	if err := person.Validate(); err != nil {
		return domain.PersonAddress{}, err
	}

	return domain.PersonAddress{
		Address:   found,
		FirstName: strings.TrimSpace(person.FirstName),
		LastName:  strings.TrimSpace(person.LastName),
	}, nil
}
