// Package form holds the page's form field state as a single name to value
// mapping updated through one operation.
package form

import (
	"maps"
	"net/url"
)

// Field names used by the page forms.
const (
	PostCode        = "postCode"
	HouseNumber     = "houseNumber"
	FirstName       = "firstName"
	LastName        = "lastName"
	SelectedAddress = "selectedAddress"
)

// Names lists every known field in display order.
var Names = []string{PostCode, HouseNumber, FirstName, LastName, SelectedAddress}

// Fields maps a field name to its current value.
type Fields map[string]string

// New returns a Fields with every known field set to "".
func New() Fields {
	f := make(Fields, len(Names))
	f.Reset()
	return f
}

// Set updates one field. Unknown names are ignored and reported with false.
func (f Fields) Set(name, value string) bool {
	if _, ok := f[name]; !ok {
		return false
	}
	f[name] = value
	return true
}

// Get returns the value of name, or "" when unset.
func (f Fields) Get(name string) string {
	return f[name]
}

// Apply sets every known field present in values.
func (f Fields) Apply(values url.Values) {
	for _, name := range Names {
		if values.Has(name) {
			f.Set(name, values.Get(name))
		}
	}
}

// Reset clears every known field.
func (f Fields) Reset() {
	for _, name := range Names {
		f[name] = ""
	}
}

func (f Fields) Clone() Fields {
	return maps.Clone(f)
}
