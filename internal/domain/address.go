package domain

import "fmt"

// Address is a candidate address returned by the lookup endpoint.
// Records are immutable once synthesized.
type Address struct {
	ID          string  `json:"id"`
	Street      string  `json:"street"`
	HouseNumber string  `json:"houseNumber"`
	Postcode    string  `json:"postcode"`
	City        string  `json:"city"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// Line formats the address as a single display line.
func (a Address) Line() string {
	return fmt.Sprintf("%s %s, %s %s", a.Street, a.HouseNumber, a.Postcode, a.City)
}

// PersonAddress is an address book entry: a looked-up address plus the
// person it belongs to.
type PersonAddress struct {
	Address
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// FullName joins first and last name.
func (p PersonAddress) FullName() string {
	return p.FirstName + " " + p.LastName
}
