package address

//go:generate mockgen -source=address.go -destination=mocks/finder_mock.go -package=mocks Finder

import (
	"context"

	"github.com/dukerupert/addressbook/internal/domain"
)

// Finder looks up candidate addresses for a postcode and house number.
// Implementations: Service (in-process synthesis) and Client (remote endpoint).
type Finder interface {
	// Find returns at least one address, or a *domain.Error describing why
	// no lookup result could be produced.
	Find(ctx context.Context, postcode, houseNumber string) ([]domain.Address, error)
}

// Request is a single lookup submission, as read from the getAddresses
// query string.
type Request struct {
	Postcode    string
	HouseNumber string
}

// Response is the wire body of the getAddresses endpoint.
type Response struct {
	Status       string           `json:"status"`
	Details      []domain.Address `json:"details,omitempty"`
	ErrorMessage string           `json:"errormessage,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// OK builds a success body.
func OK(details []domain.Address) Response {
	return Response{Status: StatusOK, Details: details}
}

// Failed builds an error body carrying the user-facing message of err.
func Failed(err error) Response {
	return Response{Status: StatusError, ErrorMessage: domain.ErrorMessage(err)}
}
