package lnurl

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Metadata mime types with a meaning in the pay protocol.
const (
	MimeTextPlain      = "text/plain"
	MimeTextLongDesc   = "text/long-desc"
	MimeTextIdentifier = "text/identifier"
	MimeTextEmail      = "text/email"
	MimeImagePNG       = "image/png;base64"
	MimeImageJPEG      = "image/jpeg;base64"

	imagePrefix = "image/"
)

// MetadataEntry is a single [mime-type, content] pair.
type MetadataEntry struct {
	MimeType string
	Content  string
}

// Metadata is the metadata of a pay request. It keeps the raw string since
// the invoice description hash commits to it byte for byte.
type Metadata struct {
	raw     string
	entries []MetadataEntry
}

// ParseMetadata parses the JSON encoded metadata string of a pay request.
// It must be an array of [mime-type, content] string pairs with at least
// one text/plain entry.
func ParseMetadata(raw string) (*Metadata, error) {
	var pairs [][]string
	if err := json.Unmarshal([]byte(raw), &pairs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}

	var (
		entries  = make([]MetadataEntry, 0, len(pairs))
		hasPlain bool
	)
	for i, pair := range pairs {
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: entry %d has %d elements, "+
				"expected 2", ErrInvalidMetadata, i, len(pair))
		}

		if pair[0] == MimeTextPlain {
			hasPlain = true
		}

		entries = append(entries, MetadataEntry{
			MimeType: pair[0],
			Content:  pair[1],
		})
	}

	if !hasPlain {
		return nil, fmt.Errorf("%w: missing %s entry",
			ErrInvalidMetadata, MimeTextPlain)
	}

	return &Metadata{
		raw:     raw,
		entries: entries,
	}, nil
}

// NewMetadata builds metadata from entries.
func NewMetadata(entries ...MetadataEntry) (*Metadata, error) {
	pairs := make([][2]string, 0, len(entries))
	for _, e := range entries {
		pairs = append(pairs, [2]string{e.MimeType, e.Content})
	}

	raw, err := json.Marshal(pairs)
	if err != nil {
		return nil, err
	}

	return ParseMetadata(string(raw))
}

// Raw returns the metadata string as received.
func (m *Metadata) Raw() string {
	return m.raw
}

// Entries returns a copy of all entries in order.
func (m *Metadata) Entries() []MetadataEntry {
	entries := make([]MetadataEntry, len(m.entries))
	copy(entries, m.entries)

	return entries
}

// Text returns the content of the first text/plain entry.
func (m *Metadata) Text() string {
	return m.first(MimeTextPlain)
}

// LongDesc returns the LUD-20 long description, if any.
func (m *Metadata) LongDesc() string {
	return m.first(MimeTextLongDesc)
}

// Identifier returns the LUD-16 internet identifier, if any.
func (m *Metadata) Identifier() string {
	return m.first(MimeTextIdentifier)
}

// Email returns the LUD-16 email identifier, if any.
func (m *Metadata) Email() string {
	return m.first(MimeTextEmail)
}

// Images returns all image entries.
func (m *Metadata) Images() []MetadataEntry {
	var images []MetadataEntry
	for _, e := range m.entries {
		if strings.HasPrefix(e.MimeType, imagePrefix) {
			images = append(images, e)
		}
	}

	return images
}

// Hash returns the hex encoded sha256 of the raw metadata, which is the
// description hash of invoices paying the request.
func (m *Metadata) Hash() string {
	h := m.DescriptionHash()
	return hex.EncodeToString(h[:])
}

// DescriptionHash returns the sha256 of the raw metadata.
func (m *Metadata) DescriptionHash() [32]byte {
	return sha256.Sum256([]byte(m.raw))
}

func (m *Metadata) first(mime string) string {
	for _, e := range m.entries {
		if e.MimeType == mime {
			return e.Content
		}
	}

	return ""
}

// MarshalJSON encodes the metadata as a JSON string, as the protocol
// requires.
func (m *Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.raw)
}
