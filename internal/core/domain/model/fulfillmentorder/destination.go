package fulfillmentorder

// Destination is an immutable snapshot of where the fulfilled goods go.
// It is copied from the order's shipping address at routing time so later
// address edits do not change work already handed to a location. All fields
// are optional; digital goods ship nowhere.
type Destination struct {
	name         string
	address1     string
	address2     string
	city         string
	provinceCode string
	countryCode  string
	zip          string
	phone        string
}

// NewDestination builds a destination snapshot.
func NewDestination(name, address1, address2, city, provinceCode, countryCode, zip, phone string) Destination {
	return Destination{
		name:         name,
		address1:     address1,
		address2:     address2,
		city:         city,
		provinceCode: provinceCode,
		countryCode:  countryCode,
		zip:          zip,
		phone:        phone,
	}
}

// Name returns the recipient name.
func (d Destination) Name() string { return d.name }

// Address1 returns the first address line.
func (d Destination) Address1() string { return d.address1 }

// Address2 returns the second address line.
func (d Destination) Address2() string { return d.address2 }

// City returns the city.
func (d Destination) City() string { return d.city }

// ProvinceCode returns the province or state code.
func (d Destination) ProvinceCode() string { return d.provinceCode }

// CountryCode returns the ISO country code.
func (d Destination) CountryCode() string { return d.countryCode }

// Zip returns the postal code.
func (d Destination) Zip() string { return d.zip }

// Phone returns the contact phone number.
func (d Destination) Phone() string { return d.phone }

// IsEmpty reports whether no destination was captured.
func (d Destination) IsEmpty() bool {
	return d == Destination{}
}

// IsEqual compares two destination snapshots field by field.
func (d Destination) IsEqual(other Destination) bool {
	return d == other
}
