package vcard

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/text/transform"

	"github.com/contactkit/vcard/vcardutil"
)

// Writer serializes contacts to vCard text. A Writer holds its own
// configuration and no shared state, so independent Writers can be
// used concurrently.
type Writer struct {
	opts options
}

// NewWriter returns a Writer configured by opts.
func NewWriter(opts ...Option) *Writer {
	o := options{
		embedLocalImages: true,
		fetchTimeout:     10 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Writer{opts: o}
}

func (w *Writer) escapeSet() string {
	if w.opts.compatibilityEscaping {
		return CompatibilityEscapeSet
	}
	return RFCEscapeSet
}

// WriteTo builds the property sequence for c and serializes it to out.
func (w *Writer) WriteTo(c *Contact, out io.Writer) error {
	props, err := w.Write(c)
	if err != nil {
		return err
	}
	return w.Serialize(props, out)
}

// Write builds the ordered property sequence representing c. The
// emission order is fixed; collections contribute zero or more
// properties each.
func (w *Writer) Write(c *Contact) ([]*Property, error) {
	if c == nil {
		return nil, ErrNilContact
	}
	var props []*Property
	add := func(p *Property) {
		if p != nil {
			props = append(props, p)
		}
	}

	add(newProp("BEGIN", Text("VCARD")))
	add(newProp("VERSION", Text("2.1")))
	if c.DisplayName != "" {
		add(newProp("NAME", Text(c.DisplayName)))
	}
	for _, s := range c.Sources {
		add(newProp("SOURCE", Text(s)))
	}
	add(newProp("N", MultiValue{
		Parts: []string{c.FamilyName, c.GivenName, c.AdditionalNames, c.NamePrefix, c.NameSuffix},
		Sep:   ';',
	}))
	if c.FormattedName != "" {
		add(newProp("FN", Text(c.FormattedName)))
	}
	for _, a := range c.DeliveryAddresses {
		add(buildDeliveryAddress(a))
	}
	if !c.BirthDate.IsZero() {
		add(newProp("BDAY", Text(c.BirthDate.Format("2006-01-02"))))
	}
	if len(c.Categories) > 0 {
		add(newProp("CATEGORIES", MultiValue{Parts: c.Categories, Sep: ','}))
	}
	if c.AccessClassification != "" {
		add(newProp("CLASS", Text(c.AccessClassification)))
	}
	for _, e := range c.EmailAddresses {
		add(buildEmail(e))
	}
	if c.Latitude != nil && c.Longitude != nil {
		add(newProp("GEO", Text(fmt.Sprintf("%v;%v", *c.Latitude, *c.Longitude))))
	}
	for _, cert := range c.Certificates {
		add(buildCertificate(cert))
	}
	for _, l := range c.DeliveryLabels {
		add(buildDeliveryLabel(l))
	}
	if c.Mailer != "" {
		add(newProp("MAILER", Text(c.Mailer)))
	}
	if len(c.Nicknames) > 0 {
		add(newProp("NICKNAME", MultiValue{Parts: c.Nicknames, Sep: ','}))
	}
	for _, n := range c.Notes {
		add(newProp("NOTE", Text(n)))
	}
	add(buildOrganization(c))
	for _, ph := range c.Photos {
		add(w.buildPhoto(ph))
	}
	if id := w.productID(c); id != "" {
		add(newProp("PRODID", Text(id)))
	}
	if !c.RevisionDate.IsZero() {
		add(newProp("REV", Date(c.RevisionDate)))
	}
	if c.Role != "" {
		add(newProp("ROLE", Text(c.Role)))
	}
	for _, p := range c.Phones {
		add(buildPhone(p))
	}
	if c.Title != "" {
		add(newProp("TITLE", Text(c.Title)))
	}
	if c.TimeZone != "" {
		add(newProp("TZ", Text(c.TimeZone)))
	}
	if c.UniqueID != "" {
		add(newProp("UID", Text(c.UniqueID)))
	}
	for _, site := range c.Websites {
		add(buildWebsite(site))
	}
	switch c.Gender {
	case GenderFemale:
		add(newProp("X-WAB-GENDER", Text("1")))
	case GenderMale:
		add(newProp("X-WAB-GENDER", Text("2")))
	}
	if !c.Anniversary.IsZero() {
		add(newProp("X-MS-ANNIVERSARY", Text(c.Anniversary.Format("2006-01-02"))))
	}
	if c.IMAddress != "" {
		add(newProp("X-MS-IMADDRESS", Text(c.IMAddress)))
	}
	if c.Manager != "" {
		add(newProp("X-MS-MANAGER", Text(c.Manager)))
	}
	if c.Assistant != "" {
		add(newProp("X-MS-ASSISTANT", Text(c.Assistant)))
	}
	if c.Spouse != "" {
		add(newProp("X-MS-SPOUSE", Text(c.Spouse)))
	}
	add(newProp("END", Text("VCARD")))
	return props, nil
}

func (w *Writer) productID(c *Contact) string {
	if c.ProductID != "" {
		return c.ProductID
	}
	return w.opts.productID
}

func addFlags[T ~uint8 | ~uint16 | ~uint32](p *Property, t T, flags []flagName[T]) {
	for _, f := range flags {
		if t&f.mask != 0 {
			p.AddFlag(f.name)
		}
	}
}

func buildDeliveryAddress(a *DeliveryAddress) *Property {
	// the post box and extended address positions are always empty
	p := newProp("ADR", MultiValue{
		Parts: []string{"", "", a.Street, a.City, a.Region, a.PostalCode, a.Country},
		Sep:   ';',
	})
	addFlags(p, a.Type, deliveryAddressTypeFlags)
	return p
}

func buildDeliveryLabel(l *DeliveryLabel) *Property {
	p := newProp("LABEL", Text(l.Text))
	addFlags(p, l.Type, deliveryAddressTypeFlags)
	// labels routinely contain line breaks, so they are written
	// quoted-printable
	p.AddSubproperty("ENCODING", "QUOTED-PRINTABLE")
	return p
}

func buildPhone(ph *Phone) *Property {
	p := newProp("TEL", Text(ph.Number))
	addFlags(p, ph.Type, phoneTypeFlags)
	return p
}

func buildEmail(e *EmailAddress) *Property {
	p := newProp("EMAIL", Text(e.Address))
	if e.Type == 0 {
		// an untyped address is assumed to be an SMTP one
		p.AddFlag("INTERNET")
	} else {
		addFlags(p, e.Type, emailTypeFlags)
	}
	if e.Preferred {
		p.AddFlag("PREF")
	}
	return p
}

func buildCertificate(cert *Certificate) *Property {
	if len(cert.Data) == 0 {
		return nil
	}
	p := newProp("KEY", Bytes(cert.Data))
	if cert.KeyType != "" {
		p.AddFlag(cert.KeyType)
	}
	return p
}

func buildOrganization(c *Contact) *Property {
	if c.Organization == "" && c.Department == "" {
		return nil
	}
	if c.Department == "" {
		return newProp("ORG", Text(c.Organization))
	}
	return newProp("ORG", MultiValue{Parts: []string{c.Organization, c.Department}, Sep: ';'})
}

func buildWebsite(site *Website) *Property {
	if site.URL == "" {
		return nil
	}
	p := newProp("URL", Text(site.URL))
	if site.Type&WebsiteWork != 0 {
		p.AddFlag("WORK")
	}
	return p
}

// buildPhoto embeds the image bytes when they are available or can be
// fetched under the configured embedding policy; otherwise the photo
// is written as a VALUE=URI link. A failed fetch falls back to the
// link rather than failing the write.
func (w *Writer) buildPhoto(ph *Photo) *Property {
	if ph.IsEmbedded() {
		return newProp("PHOTO", Bytes(ph.Data))
	}
	if ph.URL == "" {
		return nil
	}
	if data, ok := w.fetchImage(ph.URL); ok {
		return newProp("PHOTO", Bytes(data))
	}
	p := newProp("PHOTO", Text(ph.URL))
	p.AddSubproperty("VALUE", "URI")
	return p
}

func (w *Writer) fetchImage(ref string) ([]byte, bool) {
	u, err := url.Parse(ref)
	scheme := ""
	if err == nil {
		scheme = strings.ToLower(u.Scheme)
	}
	switch scheme {
	case "http", "https":
		if !w.opts.embedRemoteImages {
			return nil, false
		}
		client := w.opts.httpClient
		if client == nil {
			client = http.DefaultClient
		}
		ctx, cancel := context.WithTimeout(context.Background(), w.opts.fetchTimeout)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, false
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, false
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, false
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, false
		}
		return data, true
	case "file":
		if !w.opts.embedLocalImages {
			return nil, false
		}
		data, err := os.ReadFile(u.Path)
		if err != nil {
			return nil, false
		}
		return data, true
	case "":
		// a bare path counts as a local file reference
		if !w.opts.embedLocalImages {
			return nil, false
		}
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, false
		}
		return data, true
	}
	return nil, false
}

// Serialize writes props as CRLF-terminated NAME:VALUE lines to out.
func (w *Writer) Serialize(props []*Property, out io.Writer) error {
	if out == nil {
		return ErrNilStream
	}
	bw := bufio.NewWriter(out)
	for _, p := range props {
		if p == nil {
			continue
		}
		line, err := w.serializeProperty(p)
		if err != nil {
			return err
		}
		if w.opts.lineFolding {
			folded, _, err := transform.String(&vcardutil.FoldingTransformer{}, line)
			if err != nil {
				return err
			}
			line = folded
		}
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if _, err := bw.WriteString("\r\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// serializeProperty renders one property as a single unfolded line.
// The wire encoding follows the payload shape: Bytes forces BASE64,
// MultiValue parts are escaped and joined, Text is escaped unless the
// property already carries ENCODING=QUOTED-PRINTABLE.
func (w *Writer) serializeProperty(p *Property) (string, error) {
	if p.Name == "" {
		return "", ErrEmptyName
	}
	var b strings.Builder
	if p.Group != "" {
		b.WriteString(p.Group)
		b.WriteByte('.')
	}
	b.WriteString(p.Name)
	for _, s := range p.Subproperties {
		b.WriteByte(';')
		b.WriteString(s.Name)
		if s.Value != "" {
			b.WriteByte('=')
			b.WriteString(s.Value)
		}
	}
	set := w.escapeSet()
	switch v := p.Value.(type) {
	case Bytes:
		b.WriteString(";ENCODING=BASE64:")
		b.WriteString(EncodeBase64(v))
	case MultiValue:
		b.WriteByte(':')
		sep := v.Sep
		if sep == 0 {
			sep = ';'
		}
		for i, part := range v.Parts {
			if i > 0 {
				b.WriteByte(sep)
			}
			b.WriteString(EncodeEscaped(part, set))
		}
	case Date:
		b.WriteByte(':')
		b.WriteString(time.Time(v).UTC().Format(timestampLayout))
	case Text:
		b.WriteByte(':')
		if strings.EqualFold(p.SubpropertyValue("ENCODING"), "QUOTED-PRINTABLE") {
			b.WriteString(EncodeQuotedPrintable(string(v)))
		} else {
			b.WriteString(EncodeEscaped(string(v), set))
		}
	case nil:
		b.WriteByte(':')
	default:
		b.WriteByte(':')
		b.WriteString(EncodeEscaped(fmt.Sprint(v), set))
	}
	return b.String(), nil
}
