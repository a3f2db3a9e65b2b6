// Package vcard implements a round-trip codec for the vCard 2.1/3.0
// personal contact information text format.
package vcard

import "strings"

// DeliveryAddressType classifies a postal address or delivery label.
// Multiple classifications can be set using a bitmask.
type DeliveryAddressType uint16

const (
	AddressDomestic      DeliveryAddressType = 1 << 0 // DOM
	AddressInternational DeliveryAddressType = 1 << 1 // INTL
	AddressPostal        DeliveryAddressType = 1 << 2 // POSTAL
	AddressParcel        DeliveryAddressType = 1 << 3 // PARCEL
	AddressHome          DeliveryAddressType = 1 << 4 // HOME
	AddressWork          DeliveryAddressType = 1 << 5 // WORK
	AddressPreferred     DeliveryAddressType = 1 << 6 // PREF
)

// PhoneType classifies a telephone number.
// Multiple classifications can be set using a bitmask.
type PhoneType uint32

const (
	PhoneBBS       PhoneType = 1 << 0  // BBS
	PhoneCar       PhoneType = 1 << 1  // CAR
	PhoneCellular  PhoneType = 1 << 2  // CELL
	PhoneFax       PhoneType = 1 << 3  // FAX
	PhoneHome      PhoneType = 1 << 4  // HOME
	PhoneISDN      PhoneType = 1 << 5  // ISDN
	PhoneMessaging PhoneType = 1 << 6  // MSG
	PhoneModem     PhoneType = 1 << 7  // MODEM
	PhonePager     PhoneType = 1 << 8  // PAGER
	PhonePreferred PhoneType = 1 << 9  // PREF
	PhoneVideo     PhoneType = 1 << 10 // VIDEO
	PhoneVoice     PhoneType = 1 << 11 // VOICE
	PhoneWork      PhoneType = 1 << 12 // WORK

	// Vendor extensions seen in Outlook/WAB generated cards.
	PhoneCompany   PhoneType = 1 << 13 // COMPANY
	PhoneCallback  PhoneType = 1 << 14 // CALLBACK
	PhoneRadio     PhoneType = 1 << 15 // RADIO
	PhoneAssistant PhoneType = 1 << 16 // ASSISTANT
	PhoneTTYTDD    PhoneType = 1 << 17 // TTYTDD
)

// Composite phone classifications. These are derived bit combinations
// for convenience; membership tests must use a bitwise AND, never
// equality.
const (
	PhoneWorkFax   = PhoneWork | PhoneFax
	PhoneWorkVoice = PhoneWork | PhoneVoice
	PhoneHomeVoice = PhoneHome | PhoneVoice
)

// EmailAddressType classifies an email address by the originating
// network or service. Multiple classifications can be set using a
// bitmask.
type EmailAddressType uint16

const (
	EmailInternet   EmailAddressType = 1 << 0  // INTERNET (SMTP)
	EmailAOL        EmailAddressType = 1 << 1  // AOL
	EmailAppleLink  EmailAddressType = 1 << 2  // APPLELINK
	EmailATTMail    EmailAddressType = 1 << 3  // ATTMAIL
	EmailCompuServe EmailAddressType = 1 << 4  // CIS
	EmailEWorld     EmailAddressType = 1 << 5  // EWORLD
	EmailIBMMail    EmailAddressType = 1 << 6  // IBMMAIL
	EmailMCIMail    EmailAddressType = 1 << 7  // MCIMAIL
	EmailPowerShare EmailAddressType = 1 << 8  // POWERSHARE
	EmailProdigy    EmailAddressType = 1 << 9  // PRODIGY
	EmailTelex      EmailAddressType = 1 << 10 // TLX
	EmailX400       EmailAddressType = 1 << 11 // X400
)

// WebsiteType classifies a web site URL.
type WebsiteType uint8

const (
	WebsitePersonal WebsiteType = 1 << 0
	WebsiteWork     WebsiteType = 1 << 1
)

// Gender is the sex recorded by the X-WAB-GENDER vendor extension.
type Gender int

const (
	GenderUnknown Gender = iota
	GenderFemale
	GenderMale
)

type flagName[T ~uint8 | ~uint16 | ~uint32] struct {
	mask T
	name string
}

// The ordered flag tables below double as the writer's emission order
// and, via the derived maps, the reader's recognition vocabulary.

var deliveryAddressTypeFlags = []flagName[DeliveryAddressType]{
	{AddressDomestic, "DOM"},
	{AddressInternational, "INTL"},
	{AddressPostal, "POSTAL"},
	{AddressParcel, "PARCEL"},
	{AddressHome, "HOME"},
	{AddressWork, "WORK"},
	{AddressPreferred, "PREF"},
}

var phoneTypeFlags = []flagName[PhoneType]{
	{PhoneBBS, "BBS"},
	{PhoneCar, "CAR"},
	{PhoneCellular, "CELL"},
	{PhoneFax, "FAX"},
	{PhoneHome, "HOME"},
	{PhoneISDN, "ISDN"},
	{PhoneMessaging, "MSG"},
	{PhoneModem, "MODEM"},
	{PhonePager, "PAGER"},
	{PhonePreferred, "PREF"},
	{PhoneVideo, "VIDEO"},
	{PhoneVoice, "VOICE"},
	{PhoneWork, "WORK"},
	{PhoneCompany, "COMPANY"},
	{PhoneCallback, "CALLBACK"},
	{PhoneRadio, "RADIO"},
	{PhoneAssistant, "ASSISTANT"},
	{PhoneTTYTDD, "TTYTDD"},
}

var emailTypeFlags = []flagName[EmailAddressType]{
	{EmailInternet, "INTERNET"},
	{EmailAOL, "AOL"},
	{EmailAppleLink, "APPLELINK"},
	{EmailATTMail, "ATTMAIL"},
	{EmailCompuServe, "CIS"},
	{EmailEWorld, "EWORLD"},
	{EmailIBMMail, "IBMMAIL"},
	{EmailMCIMail, "MCIMAIL"},
	{EmailPowerShare, "POWERSHARE"},
	{EmailProdigy, "PRODIGY"},
	{EmailTelex, "TLX"},
	{EmailX400, "X400"},
}

func namesOf[T ~uint8 | ~uint16 | ~uint32](flags []flagName[T]) map[string]T {
	m := make(map[string]T, len(flags))
	for _, f := range flags {
		m[f.name] = f.mask
	}
	return m
}

var deliveryAddressTypeNames = namesOf(deliveryAddressTypeFlags)
var phoneTypeNames = namesOf(phoneTypeFlags)
var emailTypeNames = namesOf(emailTypeFlags)

func flagString[T ~uint8 | ~uint16 | ~uint32](v T, flags []flagName[T]) string {
	var out []string
	for _, f := range flags {
		if v&f.mask != 0 {
			out = append(out, f.name)
		}
	}
	return strings.Join(out, ",")
}

// String returns the vCard vocabulary names of the set bits joined by
// commas, e.g. "HOME,WORK".
func (t DeliveryAddressType) String() string {
	return flagString(t, deliveryAddressTypeFlags)
}

func (t PhoneType) String() string {
	return flagString(t, phoneTypeFlags)
}

func (t EmailAddressType) String() string {
	return flagString(t, emailTypeFlags)
}

func (t WebsiteType) String() string {
	var out []string
	if t&WebsitePersonal != 0 {
		out = append(out, "PERSONAL")
	}
	if t&WebsiteWork != 0 {
		out = append(out, "WORK")
	}
	return strings.Join(out, ",")
}
