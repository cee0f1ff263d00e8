// Package domain holds the broadcast bounded context's core types.
// PropertyRecord is owned by the surrounding back-office; this subsystem
// treats it as read-only input and never queries a data store for it.
package domain

import "strings"

// PropertyType enumerates the deal types the desk wholesales.
type PropertyType string

const (
	TypeSFR         PropertyType = "SFR"
	TypeDuplex      PropertyType = "Duplex"
	TypeTriplex     PropertyType = "Triplex"
	TypeFourplex    PropertyType = "Fourplex"
	TypeMultifamily PropertyType = "Multifamily"
	TypeCondo       PropertyType = "Condo"
	TypeTownhouse   PropertyType = "Townhouse"
	TypeMobile      PropertyType = "Mobile"
	TypeLand        PropertyType = "Land"
)

// Status enumerates a deal's disposition state.
type Status string

const (
	StatusAvailable Status = "available"
	StatusPending   Status = "pending"
	StatusSold      Status = "sold"
)

// PropertyRecord is one deal as selected by an operator for a broadcast.
// AskingPrice is always present; every other numeric field may be zero or
// absent and must render as omitted rather than as "0".
type PropertyRecord struct {
	ID            string
	Address       string
	City          string
	State         string
	Zip           string
	County        string
	AskingPrice   int64  // whole dollars
	ARV           *int64 // after-repair value, whole dollars
	Bedrooms      int
	Bathrooms     float64 // half-steps allowed
	SquareFootage *int
	PropertyType  PropertyType
	Status        Status
	ImageURL      string
}

// FullAddress renders "street, city, ST zip" with absent parts skipped.
func (p PropertyRecord) FullAddress() string {
	parts := make([]string, 0, 3)
	if s := strings.TrimSpace(p.Address); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(p.City); s != "" {
		parts = append(parts, s)
	}
	tail := strings.TrimSpace(strings.TrimSpace(p.State) + " " + strings.TrimSpace(p.Zip))
	if tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}

// ShortAddress renders "street, city" for compact contexts (collage
// overlays, bullet lines).
func (p PropertyRecord) ShortAddress() string {
	street := strings.TrimSpace(p.Address)
	city := strings.TrimSpace(p.City)
	switch {
	case street != "" && city != "":
		return street + ", " + city
	case street != "":
		return street
	default:
		return city
	}
}
