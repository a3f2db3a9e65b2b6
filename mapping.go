package vcard

import (
	"strconv"
	"strings"
	"time"
)

// propertyHandlers dispatches a parsed property by uppercased name to
// its field interpreter. A lookup table keeps the dispatch open for
// extension without a long branch chain.
var propertyHandlers = map[string]func(*Contact, *Property){
	"ADR":              readDeliveryAddress,
	"BDAY":             readBirthDate,
	"CATEGORIES":       readCategories,
	"CLASS":            readAccessClassification,
	"EMAIL":            readEmail,
	"FN":               readFormattedName,
	"GEO":              readGeographicPosition,
	"KEY":              readCertificate,
	"LABEL":            readDeliveryLabel,
	"MAILER":           readMailer,
	"N":                readName,
	"NAME":             readDisplayName,
	"NICKNAME":         readNicknames,
	"NOTE":             readNote,
	"ORG":              readOrganization,
	"PHOTO":            readPhoto,
	"PRODID":           readProductID,
	"REV":              readRevisionDate,
	"ROLE":             readRole,
	"SOURCE":           readSource,
	"TEL":              readPhone,
	"TITLE":            readTitle,
	"TZ":               readTimeZone,
	"UID":              readUniqueID,
	"URL":              readWebsite,
	"X-MS-ANNIVERSARY": readAnniversary,
	"X-MS-ASSISTANT":   readAssistant,
	"X-MS-CARDPICTURE": readPhoto,
	"X-MS-IMADDRESS":   readIMAddress,
	"X-MS-MANAGER":     readManager,
	"X-MS-SPOUSE":      readSpouse,
	"X-MS-TEL":         readPhone,
	"X-WAB-GENDER":     readGender,
}

// ReadAll parses properties until END:VCARD or end of stream and
// accumulates them into c. The terminal sentinel is not dispatched.
// Warnings collected along the way are available via [Reader.Warnings].
func (r *Reader) ReadAll(c *Contact) error {
	if c == nil {
		return ErrNilContact
	}
	for {
		p, err := r.ReadProperty()
		if err != nil {
			return err
		}
		if p == nil {
			return nil
		}
		if strings.EqualFold(p.Name, "END") && strings.EqualFold(p.text(), "VCARD") {
			return nil
		}
		dispatchProperty(c, p)
	}
}

// ReadOne applies a single already-parsed property to c. Properties
// with unrecognized names are silently ignored.
func (r *Reader) ReadOne(c *Contact, p *Property) error {
	if c == nil {
		return ErrNilContact
	}
	if p == nil {
		return ErrNilProperty
	}
	if p.Name == "" {
		return ErrEmptyName
	}
	dispatchProperty(c, p)
	return nil
}

func dispatchProperty(c *Contact, p *Property) {
	if h, ok := propertyHandlers[strings.ToUpper(p.Name)]; ok {
		h(c, p)
	}
	// an unrecognized property name is not an error
}

// component returns the i-th semicolon-separated component, or the
// empty string when the component is absent.
func component(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

// typeTokens calls apply for every comma-split value of every TYPE
// subproperty and for every bare subproperty name. The RFC permits
// repeated TYPE subproperties; all occurrences contribute.
func typeTokens(p *Property, apply func(tok string)) {
	for _, s := range p.Subproperties {
		if strings.EqualFold(s.Name, "TYPE") && s.Value != "" {
			for _, tok := range strings.Split(s.Value, ",") {
				apply(strings.ToUpper(strings.TrimSpace(tok)))
			}
			continue
		}
		if s.Value == "" {
			apply(strings.ToUpper(s.Name))
		}
	}
}

func deliveryAddressTypeOf(p *Property) DeliveryAddressType {
	var t DeliveryAddressType
	typeTokens(p, func(tok string) {
		if v, ok := deliveryAddressTypeNames[tok]; ok {
			t |= v
		}
	})
	return t
}

func readDeliveryAddress(c *Contact, p *Property) {
	parts := p.components()
	// positions 0 and 1 (post box, extended address) are parsed but
	// not retained
	addr := &DeliveryAddress{
		Street:     component(parts, 2),
		City:       component(parts, 3),
		Region:     component(parts, 4),
		PostalCode: component(parts, 5),
		Country:    component(parts, 6),
		Type:       deliveryAddressTypeOf(p),
	}
	if addr.IsEmpty() {
		return
	}
	c.DeliveryAddresses = append(c.DeliveryAddresses, addr)
}

func readDeliveryLabel(c *Contact, p *Property) {
	text := p.text()
	if strings.TrimSpace(text) == "" {
		return
	}
	c.DeliveryLabels = append(c.DeliveryLabels, &DeliveryLabel{
		Text: text,
		Type: deliveryAddressTypeOf(p),
	})
}

func readPhone(c *Contact, p *Property) {
	number := p.text()
	if number == "" {
		return
	}
	phone := &Phone{Number: number}
	typeTokens(p, func(tok string) {
		if v, ok := phoneTypeNames[tok]; ok {
			phone.Type |= v
		}
	})
	c.Phones = append(c.Phones, phone)
}

func readEmail(c *Contact, p *Property) {
	address := p.text()
	if address == "" {
		return
	}
	email := &EmailAddress{Address: address}
	typeTokens(p, func(tok string) {
		if tok == "PREF" {
			email.Preferred = true
			return
		}
		if v, ok := emailTypeNames[tok]; ok {
			email.Type |= v
		}
	})
	c.EmailAddresses = append(c.EmailAddresses, email)
}

func readName(c *Contact, p *Property) {
	parts := p.components()
	if len(parts) > 0 {
		c.FamilyName = parts[0]
	}
	if len(parts) > 1 {
		c.GivenName = parts[1]
	}
	if len(parts) > 2 {
		c.AdditionalNames = parts[2]
	}
	if len(parts) > 3 {
		c.NamePrefix = parts[3]
	}
	if len(parts) > 4 {
		c.NameSuffix = parts[4]
	}
}

func readFormattedName(c *Contact, p *Property) { c.FormattedName = p.text() }
func readDisplayName(c *Contact, p *Property)  { c.DisplayName = p.text() }
func readTitle(c *Contact, p *Property)        { c.Title = p.text() }
func readRole(c *Contact, p *Property)         { c.Role = p.text() }
func readMailer(c *Contact, p *Property)       { c.Mailer = p.text() }
func readProductID(c *Contact, p *Property)    { c.ProductID = p.text() }
func readUniqueID(c *Contact, p *Property)     { c.UniqueID = p.text() }
func readTimeZone(c *Contact, p *Property)     { c.TimeZone = p.text() }
func readManager(c *Contact, p *Property)      { c.Manager = p.text() }
func readAssistant(c *Contact, p *Property)    { c.Assistant = p.text() }
func readSpouse(c *Contact, p *Property)       { c.Spouse = p.text() }
func readIMAddress(c *Contact, p *Property)    { c.IMAddress = p.text() }

func readAccessClassification(c *Contact, p *Property) {
	c.AccessClassification = p.text()
}

func readNicknames(c *Contact, p *Property) {
	for _, nick := range strings.Split(p.text(), ",") {
		if nick = strings.TrimSpace(nick); nick != "" {
			c.Nicknames = append(c.Nicknames, nick)
		}
	}
}

func readCategories(c *Contact, p *Property) {
	for _, cat := range strings.Split(p.text(), ",") {
		if cat = strings.TrimSpace(cat); cat != "" {
			c.Categories = append(c.Categories, cat)
		}
	}
}

func readNote(c *Contact, p *Property) {
	if text := p.text(); text != "" {
		c.Notes = append(c.Notes, text)
	}
}

func readSource(c *Contact, p *Property) {
	if text := p.text(); text != "" {
		c.Sources = append(c.Sources, text)
	}
}

func readOrganization(c *Contact, p *Property) {
	parts := p.components()
	c.Organization = component(parts, 0)
	if len(parts) > 1 {
		c.Department = parts[1]
	}
}

func readWebsite(c *Contact, p *Property) {
	u := p.text()
	if u == "" {
		return
	}
	site := &Website{URL: u}
	typeTokens(p, func(tok string) {
		switch tok {
		case "WORK":
			site.Type |= WebsiteWork
		case "HOME", "PERSONAL":
			site.Type |= WebsitePersonal
		}
	})
	c.Websites = append(c.Websites, site)
}

// dateOf interprets the payload of a date-carrying property. A Date
// payload is taken as-is, a textual one is parsed best-effort with a
// final compact 20060102 fallback. ok is false when nothing parsed;
// the field then stays unset, which is not an error.
func dateOf(p *Property) (time.Time, bool) {
	if d, ok := p.Value.(Date); ok {
		return time.Time(d), true
	}
	s := strings.TrimSpace(p.text())
	if t, ok := ParseDateBestEffort(s); ok {
		return t, true
	}
	if t, err := time.Parse("20060102", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func readBirthDate(c *Contact, p *Property) {
	if t, ok := dateOf(p); ok {
		c.BirthDate = t
	}
}

func readRevisionDate(c *Contact, p *Property) {
	if t, ok := dateOf(p); ok {
		c.RevisionDate = t
	}
}

func readAnniversary(c *Contact, p *Property) {
	if t, ok := dateOf(p); ok {
		c.Anniversary = t
	}
}

func readGeographicPosition(c *Contact, p *Property) {
	parts := p.components()
	if len(parts) != 2 {
		return
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLon != nil {
		// both halves must parse or neither coordinate is set
		return
	}
	c.Latitude = &lat
	c.Longitude = &lon
}

func readCertificate(c *Contact, p *Property) {
	data := p.bytes()
	if len(data) == 0 {
		return
	}
	keyType := ""
	if p.HasFlag("X509") {
		keyType = "X509"
	}
	c.Certificates = append(c.Certificates, &Certificate{KeyType: keyType, Data: data})
}

func readPhoto(c *Contact, p *Property) {
	if strings.EqualFold(p.SubpropertyValue("VALUE"), "URI") {
		if u := p.text(); u != "" {
			c.Photos = append(c.Photos, &Photo{URL: u})
		}
		return
	}
	if data := p.bytes(); len(data) > 0 {
		c.Photos = append(c.Photos, &Photo{Data: data})
	}
}

func readGender(c *Contact, p *Property) {
	switch strings.TrimSpace(p.text()) {
	case "1":
		c.Gender = GenderFemale
	case "2":
		c.Gender = GenderMale
	}
	// anything else leaves the gender unset
}
