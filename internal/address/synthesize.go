package address

import (
	"math"
	"strconv"

	"github.com/dukerupert/addressbook/internal/domain"
	"github.com/google/uuid"
)

// SynthesizeFunc produces candidate addresses for a validated submission.
type SynthesizeFunc func(postcode, houseNumber string) []domain.Address

var (
	streetNames    = []string{"Kerk", "Molen", "Dorps", "School", "Stations", "Linden", "Beuken", "Wilgen"}
	streetSuffixes = []string{"straat", "laan", "weg"}
	cities         = []string{"Amsterdam", "Haarlem", "Leiden", "Den Haag", "Rotterdam", "Utrecht", "Arnhem", "Eindhoven", "Groningen", "Zwolle"}

	idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("addressbook/mock-address"))
)

const (
	// Digit folding keeps arbitrarily long digit strings in range.
	foldModulus = 1_000_000_007

	// Bounding box the synthetic coordinates are placed in.
	latBase, latSpan = 50.75, 2800
	lonBase, lonSpan = 3.36, 3870

	coordinateScale = 1e6
)

// Synthesize derives mock addresses from a validated postcode and house
// number. It is pure: identical input gives identical records with the same
// IDs in the same order.
//
// One record is produced per street suffix. The street base name and city
// come from the postcode's value; postcode and house number are carried
// through unchanged. A postcode or house number of all zeros has no
// plausible address and yields an empty result.
func Synthesize(postcode, houseNumber string) []domain.Address {
	pc, ok := fold(postcode)
	if !ok {
		return nil
	}
	hn, ok := fold(houseNumber)
	if !ok {
		return nil
	}

	base := streetNames[pc%uint64(len(streetNames))]
	city := cities[(pc/100)%uint64(len(cities))]
	lat := latBase + float64(pc%latSpan)/1000
	lon := lonBase + float64((pc*7+hn)%lonSpan)/1000

	addresses := make([]domain.Address, 0, len(streetSuffixes))
	for i, suffix := range streetSuffixes {
		addresses = append(addresses, domain.Address{
			ID:          addressID(postcode, houseNumber, i),
			Street:      base + suffix,
			HouseNumber: houseNumber,
			Postcode:    postcode,
			City:        city,
			Lat:         round(lat + float64(i)*0.0005),
			Lon:         round(lon + float64(i)*0.0008),
		})
	}

	return addresses
}

// fold reduces a digit string to a bounded value. ok is false for empty,
// non-digit or all-zero input.
func fold(digits string) (value uint64, ok bool) {
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
		if r != '0' {
			ok = true
		}
		value = (value*10 + uint64(r-'0')) % foldModulus
	}
	return value, ok
}

func addressID(postcode, houseNumber string, index int) string {
	name := postcode + "/" + houseNumber + "/" + strconv.Itoa(index)
	return uuid.NewSHA1(idNamespace, []byte(name)).String()
}

func round(v float64) float64 {
	return math.Round(v*coordinateScale) / coordinateScale
}
