package address

import "errors"

// User-facing messages. Downstream consumers match on these strings, so
// they must not change.
const (
	MsgFieldsMandatory  = "Postcode and street number fields mandatory!"
	MsgPostcodeTooShort = "Postcode must be at least 4 digits!"
	MsgNoResults        = "No results found!"
	MsgFetchFailed      = "Failed to fetch addresses. Please try again."

	msgNonNumeric = "%s must be all digits and non negative!"
)

// Field names interpolated into the non-numeric message.
const (
	FieldPostcode     = "Postcode"
	FieldStreetNumber = "Street Number"
)

// Error kinds, wrapped by the *domain.Error values this package returns.
var (
	ErrMissingField     = errors.New("missing field")
	ErrPostcodeTooShort = errors.New("postcode too short")
	ErrNonNumericField  = errors.New("non-numeric field")
	ErrNoResults        = errors.New("no results")
	ErrTransport        = errors.New("transport failure")
)
