package vcard

import (
	"net/http"
	"time"
)

type options struct {
	embedLocalImages      bool
	embedRemoteImages     bool
	compatibilityEscaping bool
	lineFolding           bool
	productID             string
	httpClient            *http.Client
	fetchTimeout          time.Duration
}

// Option can be used to configure a [Writer].
type Option func(*options)

// WithEmbedLocalImages controls whether photos referencing a local
// file are read and embedded as BASE64 data during a write. The
// default is true. A photo whose file cannot be read is written as a
// VALUE=URI link instead.
func WithEmbedLocalImages(embed bool) Option {
	return func(o *options) {
		o.embedLocalImages = embed
	}
}

// WithEmbedRemoteImages controls whether photos referencing an http or
// https URL are fetched and embedded as BASE64 data during a write.
// The default is false. A photo whose fetch fails is written as a
// VALUE=URI link instead.
func WithEmbedRemoteImages(embed bool) Option {
	return func(o *options) {
		o.embedRemoteImages = embed
	}
}

// WithCompatibilityEscaping omits the comma from the escape set when
// writing text values. At least one popular mail client does not
// unescape commas; enable this when the output is destined for it.
func WithCompatibilityEscaping(compat bool) Option {
	return func(o *options) {
		o.compatibilityEscaping = compat
	}
}

// WithLineFolding folds serialized lines wider than 75 bytes with RFC
// continuation lines. The default is to write each property on one
// line regardless of length.
func WithLineFolding(fold bool) Option {
	return func(o *options) {
		o.lineFolding = fold
	}
}

// WithProductID sets the identifier emitted in the PRODID property for
// contacts that do not carry their own product identifier.
func WithProductID(id string) Option {
	return func(o *options) {
		o.productID = id
	}
}

// WithHTTPClient sets the [http.Client] used to fetch remote photos.
// The default is [http.DefaultClient].
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithFetchTimeout bounds one remote photo fetch during a write so a
// slow server cannot block the write indefinitely.
// The default is a timeout of 10 seconds.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.fetchTimeout = timeout
	}
}
