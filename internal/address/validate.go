package address

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/dukerupert/addressbook/internal/domain"
)

const minPostcodeLength = 4

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Validate checks a lookup submission before any synthesis is attempted.
// Rules are applied in order and the first failure wins. It returns nil
// when both fields are acceptable.
func Validate(postcode, houseNumber string) error {
	const op = "address.validate"

	if postcode == "" || houseNumber == "" {
		return &domain.Error{Code: domain.EINVALID, Op: op, Message: MsgFieldsMandatory, Err: ErrMissingField}
	}

	if utf8.RuneCountInString(postcode) < minPostcodeLength {
		return &domain.Error{Code: domain.EINVALID, Op: op, Message: MsgPostcodeTooShort, Err: ErrPostcodeTooShort}
	}

	if err := validateNumericField(op, postcode, FieldPostcode); err != nil {
		return err
	}

	return validateNumericField(op, houseNumber, FieldStreetNumber)
}

func validateNumericField(op, value, fieldName string) error {
	if isStrictlyNumeric(value) {
		return nil
	}
	return &domain.Error{
		Code:    domain.EINVALID,
		Op:      op,
		Message: fmt.Sprintf(msgNonNumeric, fieldName),
		Err:     ErrNonNumericField,
	}
}

// isStrictlyNumeric reports whether value is an unsigned run of ASCII digits.
// A sign is never a digit, so anything matching is non negative.
func isStrictlyNumeric(value string) bool {
	return digitsOnly.MatchString(value)
}
