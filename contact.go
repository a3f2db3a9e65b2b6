package vcard

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/idna"
)

// IDNAProfile is the [*idna.Profile] used to convert email address
// domains between their ASCII and Unicode representations.
//
// This defaults to [idna.Lookup] but you can use any [*idna.Profile] you like.
var IDNAProfile = idna.Lookup

// Contact is the structured in-memory representation of one vCard.
// A zero Contact is ready to use: all string fields are empty, all
// collections are nil. The reader populates a Contact incrementally,
// one property at a time; a malformed property is skipped with a
// recorded warning and never rolls back fields that were already set.
type Contact struct {
	// Identification
	FormattedName   string
	FamilyName      string
	GivenName       string
	AdditionalNames string
	NamePrefix      string
	NameSuffix      string
	DisplayName     string
	Nicknames       []string

	// Organizational
	Organization string
	Department   string
	Title        string
	Role         string

	// Geographical
	TimeZone  string
	Latitude  *float64
	Longitude *float64

	// Dates. A zero time means the field is unset.
	BirthDate    time.Time
	RevisionDate time.Time
	Anniversary  time.Time

	// Administrative
	ProductID            string
	UniqueID             string
	Mailer               string
	AccessClassification string
	Gender               Gender

	// Vendor extensions (X-MS-*)
	Manager   string
	Assistant string
	Spouse    string
	IMAddress string

	// Collections
	DeliveryAddresses []*DeliveryAddress
	DeliveryLabels    []*DeliveryLabel
	Phones            []*Phone
	EmailAddresses    []*EmailAddress
	Websites          []*Website
	Certificates      []*Certificate
	Photos            []*Photo
	Notes             []string
	Sources           []string
	Categories        []string
}

// NewContact returns an empty contact.
func NewContact() *Contact {
	return &Contact{}
}

// AssignUID sets a random UUID as the unique identifier when the
// contact does not have one yet, and returns the identifier.
func (c *Contact) AssignUID() string {
	if c.UniqueID == "" {
		c.UniqueID = uuid.NewString()
	}
	return c.UniqueID
}

// FirstPhone returns the first phone whose type contains all bits of
// mask, or nil. A zero mask matches the first phone of any type.
func (c *Contact) FirstPhone(mask PhoneType) *Phone {
	for _, p := range c.Phones {
		if p.Type&mask == mask {
			return p
		}
	}
	return nil
}

// PreferredEmail returns the first email address marked PREF, falling
// back to the first address, or nil when there are none.
func (c *Contact) PreferredEmail() *EmailAddress {
	for _, e := range c.EmailAddresses {
		if e.Preferred {
			return e
		}
	}
	if len(c.EmailAddresses) > 0 {
		return c.EmailAddresses[0]
	}
	return nil
}

// DeliveryAddress is a structured postal address. The post box and
// extended address positions of the ADR property are not retained.
type DeliveryAddress struct {
	Street     string
	City       string
	Region     string
	PostalCode string
	Country    string
	Type       DeliveryAddressType
}

// IsEmpty reports whether all retained address components are blank.
func (a *DeliveryAddress) IsEmpty() bool {
	return strings.TrimSpace(a.Street) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.Region) == "" &&
		strings.TrimSpace(a.PostalCode) == "" &&
		strings.TrimSpace(a.Country) == ""
}

// DeliveryLabel is the pre-formatted textual rendering of a postal
// address.
type DeliveryLabel struct {
	Text string
	Type DeliveryAddressType
}

// Phone is one telephone number and its classification bits.
type Phone struct {
	Number string
	Type   PhoneType
}

// IsPreferred reports whether the PREF bit is set.
func (p *Phone) IsPreferred() bool {
	return p.Type&PhonePreferred != 0
}

// EmailAddress is one email address, its originating-network
// classification and the preferred marker.
type EmailAddress struct {
	Address   string
	Type      EmailAddressType
	Preferred bool

	parts         []string
	asciiDomain   string
	unicodeDomain string
}

// split an user@domain address into user and domain.
// Includes the input address as third array element to quickly check if splitting must be re-done
func splitAddress(addr string) []string {
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return []string{addr, "", addr}
	}
	return []string{addr[:at], addr[at+1:], addr}
}

func (e *EmailAddress) initParts() {
	if len(e.parts) != 3 || e.parts[2] != e.Address {
		e.parts = splitAddress(e.Address)
		e.asciiDomain = ""
		e.unicodeDomain = ""
	}
}

// Local returns the part of the address in front of the @ symbol.
// If the address does not include an @ the whole address gets returned.
func (e *EmailAddress) Local() string {
	e.initParts()
	return e.parts[0]
}

// Domain returns the part of the address after the @ symbol. It is returned as-is without any validation.
// If the address does not include an @ an empty string gets returned.
func (e *EmailAddress) Domain() string {
	e.initParts()
	return e.parts[1]
}

// AsciiDomain returns Domain interpreted and converted as the ASCII representation.
// If Domain cannot be converted (e.g. invalid UTF-8 data), the unchanged Domain value gets returned.
func (e *EmailAddress) AsciiDomain() string {
	domain := e.Domain()
	if domain == "" {
		return ""
	}
	if e.asciiDomain != "" {
		return e.asciiDomain
	}
	asciiDomain, err := IDNAProfile.ToASCII(domain)
	if err != nil {
		e.asciiDomain = domain
		return domain
	}
	e.asciiDomain = asciiDomain
	return asciiDomain
}

// UnicodeDomain returns Domain interpreted and converted as the UTF-8 representation.
// If Domain cannot be converted (e.g. invalid UTF-8 data), the unchanged Domain value gets returned.
func (e *EmailAddress) UnicodeDomain() string {
	domain := e.Domain()
	if domain == "" {
		return ""
	}
	if e.unicodeDomain != "" {
		return e.unicodeDomain
	}
	unicodeDomain, err := IDNAProfile.ToUnicode(domain)
	if err != nil {
		e.unicodeDomain = domain
		return domain
	}
	e.unicodeDomain = unicodeDomain
	return unicodeDomain
}

// Website is one URL associated with the contact.
type Website struct {
	URL  string
	Type WebsiteType
}

// Certificate is a public key or certificate attached to the contact,
// e.g. an X509 certificate from a KEY property.
type Certificate struct {
	KeyType string
	Data    []byte
}

// Photo is either an embedded image or a reference to one.
type Photo struct {
	URL  string
	Data []byte
}

// IsEmbedded reports whether the image bytes are stored inline.
func (p *Photo) IsEmbedded() bool {
	return len(p.Data) > 0
}
