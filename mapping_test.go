package vcard

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readContact(t *testing.T, input string) (*Contact, *Reader) {
	t.Helper()
	c := NewContact()
	r := NewReader(strings.NewReader(input))
	require.NoError(t, r.ReadAll(c))
	return c, r
}

func TestReadAllScenario(t *testing.T) {
	t.Parallel()
	c, r := readContact(t, "BEGIN:VCARD\nN:Doe;John;;;\nFN:John Doe\nEMAIL;TYPE=INTERNET,PREF:john@example.com\nEND:VCARD\n")
	assert.Equal(t, "Doe", c.FamilyName)
	assert.Equal(t, "John", c.GivenName)
	assert.Equal(t, "John Doe", c.FormattedName)
	require.Len(t, c.EmailAddresses, 1)
	email := c.EmailAddresses[0]
	assert.Equal(t, "john@example.com", email.Address)
	assert.Equal(t, EmailInternet, email.Type)
	assert.True(t, email.Preferred)
	assert.Empty(t, r.Warnings())
}

func TestAddressTypeUnion(t *testing.T) {
	t.Parallel()
	// legacy bare flags and repeated TYPE values all contribute
	c, _ := readContact(t, "ADR;HOME;TYPE=WORK,POSTAL:;;Main St;City;ST;00000;US\n")
	require.Len(t, c.DeliveryAddresses, 1)
	a := c.DeliveryAddresses[0]
	assert.Equal(t, "Main St", a.Street)
	assert.Equal(t, "City", a.City)
	assert.Equal(t, "ST", a.Region)
	assert.Equal(t, "00000", a.PostalCode)
	assert.Equal(t, "US", a.Country)
	assert.Equal(t, AddressHome|AddressWork|AddressPostal, a.Type)
}

func TestEscapedSemicolonStaysInComponent(t *testing.T) {
	t.Parallel()
	c, _ := readContact(t, `ADR:;;Main\;St;Springfield;;;`+"\n")
	require.Len(t, c.DeliveryAddresses, 1)
	assert.Equal(t, "Main;St", c.DeliveryAddresses[0].Street)
	assert.Equal(t, "Springfield", c.DeliveryAddresses[0].City)

	c, _ = readContact(t, `N:Doe\;Jr;John;;;`+"\n")
	assert.Equal(t, "Doe;Jr", c.FamilyName)
	assert.Equal(t, "John", c.GivenName)

	c, _ = readContact(t, `ORG:ACME\; Inc.;Research`+"\n")
	assert.Equal(t, "ACME; Inc.", c.Organization)
	assert.Equal(t, "Research", c.Department)
}

func TestEmptyAddressSuppressed(t *testing.T) {
	t.Parallel()
	c, _ := readContact(t, "ADR:;;;;;;;\nADR;HOME:\n")
	assert.Empty(t, c.DeliveryAddresses)
}

func TestUnknownPropertyTolerance(t *testing.T) {
	t.Parallel()
	c, r := readContact(t, "FN:John Doe\nX-UNKNOWN-PROP:value\nTITLE:Engineer\n")
	assert.Equal(t, "John Doe", c.FormattedName)
	assert.Equal(t, "Engineer", c.Title)
	assert.Empty(t, r.Warnings())
}

func TestBlankLineTolerance(t *testing.T) {
	t.Parallel()
	c, r := readContact(t, "FN:John Doe\n\nTITLE:Engineer\n")
	assert.Equal(t, "John Doe", c.FormattedName)
	assert.Equal(t, "Engineer", c.Title)
	assert.NotEmpty(t, r.Warnings())
}

func TestEndSentinelStopsReading(t *testing.T) {
	t.Parallel()
	c, _ := readContact(t, "BEGIN:VCARD\nFN:First\nEND:VCARD\nFN:Second\n")
	assert.Equal(t, "First", c.FormattedName)
}

func TestNameComponents(t *testing.T) {
	t.Parallel()
	c, _ := readContact(t, "N:Stevenson;John;Philip,Paul;Dr.;Jr.\n")
	assert.Equal(t, "Stevenson", c.FamilyName)
	assert.Equal(t, "John", c.GivenName)
	assert.Equal(t, "Philip,Paul", c.AdditionalNames)
	assert.Equal(t, "Dr.", c.NamePrefix)
	assert.Equal(t, "Jr.", c.NameSuffix)

	// trailing components may be absent
	c, _ = readContact(t, "N:Doe;John\n")
	assert.Equal(t, "Doe", c.FamilyName)
	assert.Equal(t, "John", c.GivenName)
	assert.Empty(t, c.AdditionalNames)
}

func TestPhoneTypes(t *testing.T) {
	t.Parallel()
	c, _ := readContact(t, "TEL;WORK;FAX:+1 555 0100\nTEL;TYPE=CELL,PREF:+1 555 0101\nX-MS-TEL;ASSISTANT:+1 555 0102\nTEL;HOME:\n")
	require.Len(t, c.Phones, 3)
	assert.Equal(t, PhoneWorkFax, c.Phones[0].Type)
	assert.Equal(t, "+1 555 0100", c.Phones[0].Number)
	assert.Equal(t, PhoneCellular|PhonePreferred, c.Phones[1].Type)
	assert.Equal(t, PhoneAssistant, c.Phones[2].Type)
}

func TestEmailTypeUnion(t *testing.T) {
	t.Parallel()
	// repeated TYPE subproperties union like ADR and TEL do
	c, _ := readContact(t, "EMAIL;TYPE=INTERNET;TYPE=X400:a@example.com\n")
	require.Len(t, c.EmailAddresses, 1)
	assert.Equal(t, EmailInternet|EmailX400, c.EmailAddresses[0].Type)
}

func TestGeographicPosition(t *testing.T) {
	t.Parallel()
	c, _ := readContact(t, "GEO:37.386013;-122.082932\n")
	require.NotNil(t, c.Latitude)
	require.NotNil(t, c.Longitude)
	assert.InDelta(t, 37.386013, *c.Latitude, 1e-9)
	assert.InDelta(t, -122.082932, *c.Longitude, 1e-9)

	// both halves must parse or neither coordinate is set
	c, _ = readContact(t, "GEO:37.386013;not-a-float\n")
	assert.Nil(t, c.Latitude)
	assert.Nil(t, c.Longitude)
}

func TestBirthDate(t *testing.T) {
	t.Parallel()
	c, _ := readContact(t, "BDAY:1980-06-15\n")
	assert.Equal(t, time.Date(1980, 6, 15, 0, 0, 0, 0, time.UTC), c.BirthDate)

	// compact fallback form
	c, _ = readContact(t, "BDAY:19800615\n")
	assert.Equal(t, time.Date(1980, 6, 15, 0, 0, 0, 0, time.UTC), c.BirthDate)

	// unparseable dates leave the field unset
	c, _ = readContact(t, "BDAY:someday\n")
	assert.True(t, c.BirthDate.IsZero())
}

func TestRevisionDate(t *testing.T) {
	t.Parallel()
	c, _ := readContact(t, "REV:20061002T120000Z\n")
	assert.Equal(t, time.Date(2006, 10, 2, 12, 0, 0, 0, time.UTC), c.RevisionDate)
}

func TestGender(t *testing.T) {
	t.Parallel()
	c, _ := readContact(t, "X-WAB-GENDER:1\n")
	assert.Equal(t, GenderFemale, c.Gender)
	c, _ = readContact(t, "X-WAB-GENDER:2\n")
	assert.Equal(t, GenderMale, c.Gender)
	c, _ = readContact(t, "X-WAB-GENDER:7\n")
	assert.Equal(t, GenderUnknown, c.Gender)
}

func TestCertificate(t *testing.T) {
	t.Parallel()
	c, _ := readContact(t, "KEY;X509;ENCODING=BASE64:QUJD\n")
	require.Len(t, c.Certificates, 1)
	assert.Equal(t, "X509", c.Certificates[0].KeyType)
	assert.Equal(t, []byte("ABC"), c.Certificates[0].Data)
}

func TestPhoto(t *testing.T) {
	t.Parallel()
	c, _ := readContact(t, "PHOTO;VALUE=URI:http://example.com/me.png\nPHOTO;ENCODING=BASE64:QUJD\nX-MS-CARDPICTURE;ENCODING=BASE64:REVG\n")
	require.Len(t, c.Photos, 3)
	assert.Equal(t, "http://example.com/me.png", c.Photos[0].URL)
	assert.False(t, c.Photos[0].IsEmbedded())
	assert.Equal(t, []byte("ABC"), c.Photos[1].Data)
	assert.Equal(t, []byte("DEF"), c.Photos[2].Data)
}

func TestOrganization(t *testing.T) {
	t.Parallel()
	c, _ := readContact(t, "ORG:ACME Inc.;Research\n")
	assert.Equal(t, "ACME Inc.", c.Organization)
	assert.Equal(t, "Research", c.Department)

	c, _ = readContact(t, "ORG:Solo\n")
	assert.Equal(t, "Solo", c.Organization)
	assert.Empty(t, c.Department)
}

func TestNicknamesAndCategories(t *testing.T) {
	t.Parallel()
	c, _ := readContact(t, "NICKNAME:Jim, Jimmy\nCATEGORIES:Friends,Work, Golf\n")
	assert.Equal(t, []string{"Jim", "Jimmy"}, c.Nicknames)
	assert.Equal(t, []string{"Friends", "Work", "Golf"}, c.Categories)
}

func TestDeliveryLabel(t *testing.T) {
	t.Parallel()
	c, _ := readContact(t, "LABEL;HOME;ENCODING=QUOTED-PRINTABLE:123 Main St=0D=0ASpringfield\n")
	require.Len(t, c.DeliveryLabels, 1)
	assert.Equal(t, "123 Main St\r\nSpringfield", c.DeliveryLabels[0].Text)
	assert.Equal(t, AddressHome, c.DeliveryLabels[0].Type)
}

func TestWebsites(t *testing.T) {
	t.Parallel()
	c, _ := readContact(t, "URL;WORK:http://work.example.com\nURL:http://example.com\n")
	require.Len(t, c.Websites, 2)
	assert.Equal(t, WebsiteWork, c.Websites[0].Type)
	assert.Equal(t, WebsiteType(0), c.Websites[1].Type)
}

func TestScalarsAndVendorExtensions(t *testing.T) {
	t.Parallel()
	c, _ := readContact(t, strings.Join([]string{
		"NAME:Johnny",
		"TITLE:Engineer",
		"ROLE:Executive",
		"MAILER:ACME Mail",
		"PRODID:-//ACME//Test//EN",
		"UID:some-unique-id",
		"TZ:-05:00",
		"CLASS:PRIVATE",
		"NOTE:First note",
		"NOTE:Second note",
		"SOURCE:http://example.com/card.vcf",
		"X-MS-ANNIVERSARY:2001-05-20",
		"X-MS-IMADDRESS:john@chat.example.com",
		"X-MS-MANAGER:Big Boss",
		"X-MS-ASSISTANT:Jane Helper",
		"X-MS-SPOUSE:Mary Doe",
		"",
	}, "\n"))
	assert.Equal(t, "Johnny", c.DisplayName)
	assert.Equal(t, "Engineer", c.Title)
	assert.Equal(t, "Executive", c.Role)
	assert.Equal(t, "ACME Mail", c.Mailer)
	assert.Equal(t, "-//ACME//Test//EN", c.ProductID)
	assert.Equal(t, "some-unique-id", c.UniqueID)
	assert.Equal(t, "-05:00", c.TimeZone)
	assert.Equal(t, "PRIVATE", c.AccessClassification)
	assert.Equal(t, []string{"First note", "Second note"}, c.Notes)
	assert.Equal(t, []string{"http://example.com/card.vcf"}, c.Sources)
	assert.Equal(t, time.Date(2001, 5, 20, 0, 0, 0, 0, time.UTC), c.Anniversary)
	assert.Equal(t, "john@chat.example.com", c.IMAddress)
	assert.Equal(t, "Big Boss", c.Manager)
	assert.Equal(t, "Jane Helper", c.Assistant)
	assert.Equal(t, "Mary Doe", c.Spouse)
}

func TestReadOne(t *testing.T) {
	t.Parallel()
	c := NewContact()
	r := NewReader(strings.NewReader(""))
	p, err := NewProperty("FN", Text("John Doe"))
	require.NoError(t, err)
	require.NoError(t, r.ReadOne(c, p))
	assert.Equal(t, "John Doe", c.FormattedName)

	// date payloads built by the writer are applied directly
	rev := time.Date(2006, 10, 2, 12, 0, 0, 0, time.UTC)
	p, err = NewProperty("REV", Date(rev))
	require.NoError(t, err)
	require.NoError(t, r.ReadOne(c, p))
	assert.Equal(t, rev, c.RevisionDate)

	assert.ErrorIs(t, r.ReadOne(nil, p), ErrNilContact)
	assert.ErrorIs(t, r.ReadOne(c, nil), ErrNilProperty)
	assert.ErrorIs(t, r.ReadOne(c, &Property{}), ErrEmptyName)
}
