// Package intent defines the closed set of shopping intents a query can carry.
package intent

import (
	"fmt"
	"strings"
)

// Intent is a product-category hint derived from the query.
type Intent string

// Supported intents. General is the default when no rule fires.
const (
	General   Intent = "GENERAL"
	Gaming    Intent = "GAMING"
	Office    Intent = "OFFICE"
	Phone     Intent = "PHONE"
	Tablet    Intent = "TABLET"
	Accessory Intent = "ACCESSORY"
	Laptop    Intent = "LAPTOP"
	Camera    Intent = "CAMERA"
	Battery   Intent = "BATTERY"
	Display   Intent = "DISPLAY"
	Storage   Intent = "STORAGE"
	Business  Intent = "BUSINESS"
)

// All lists every intent in declaration order.
var All = []Intent{
	General, Gaming, Office, Phone, Tablet, Accessory,
	Laptop, Camera, Battery, Display, Storage, Business,
}

// IsValid checks if the intent is one of the supported values.
func (i Intent) IsValid() bool {
	for _, v := range All {
		if i == v {
			return true
		}
	}
	return false
}

// Label is the lower-case form used in customer-facing messages.
func (i Intent) Label() string {
	return strings.ToLower(string(i))
}

// Parse converts a case-insensitive name into an Intent.
func Parse(s string) (Intent, error) {
	i := Intent(strings.ToUpper(strings.TrimSpace(s)))
	if !i.IsValid() {
		return "", fmt.Errorf("unknown intent %q", s)
	}
	return i, nil
}
