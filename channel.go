package lnurl

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcec"
)

const (
	keyURI   = "uri"
	keyAlias = "alias"
)

// NodeURI is a lightning node address of the form pubkey@host:port.
type NodeURI struct {
	PubKey *btcec.PublicKey
	Host   string
	Port   uint16
}

// ParseNodeURI parses a pubkey@host:port node address.
func ParseNodeURI(uri string) (*NodeURI, error) {
	parts := strings.Split(uri, "@")
	if len(parts) != 2 {
		return nil, fmt.Errorf("node uri %q is not pubkey@host:port",
			uri)
	}

	keyBytes, err := hex.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid node pubkey: %w", err)
	}

	pubKey, err := btcec.ParsePubKey(keyBytes, btcec.S256())
	if err != nil {
		return nil, fmt.Errorf("invalid node pubkey: %w", err)
	}

	host, port, err := net.SplitHostPort(parts[1])
	if err != nil {
		return nil, err
	}
	if host == "" {
		return nil, fmt.Errorf("node uri %q has no host", uri)
	}

	p, err := strconv.ParseUint(port, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid port %q", port)
	}

	return &NodeURI{
		PubKey: pubKey,
		Host:   host,
		Port:   uint16(p),
	}, nil
}

// String returns the uri as pubkey@host:port.
func (n *NodeURI) String() string {
	return fmt.Sprintf("%x@%s", n.PubKey.SerializeCompressed(),
		net.JoinHostPort(n.Host, strconv.Itoa(int(n.Port))))
}

func (f fields) nodeURI(key string) (*NodeURI, error) {
	s, err := f.requiredStr(key)
	if err != nil {
		return nil, err
	}

	uri, err := ParseNodeURI(s)
	if err != nil {
		return nil, newValidationError(err, key)
	}

	return uri, nil
}

// ChannelResponse is the first response of LNURL-channel (LUD-02).
type ChannelResponse struct {
	URI      *NodeURI
	Callback *URL
	K1       string
}

func parseChannelResponse(f fields, c *Codec) (*ChannelResponse, error) {
	var (
		ch  ChannelResponse
		err error
	)

	if ch.URI, err = f.nodeURI(keyURI); err != nil {
		return nil, err
	}
	if ch.Callback, err = f.requiredURL(keyCallback, c); err != nil {
		return nil, err
	}
	if ch.K1, err = f.requiredStr(keyK1); err != nil {
		return nil, err
	}

	if err := ch.Validate(); err != nil {
		return nil, err
	}

	return &ch, nil
}

func (c *ChannelResponse) Kind() ResponseKind { return KindChannel }
func (c *ChannelResponse) Tag() Tag           { return TagChannelRequest }
func (c *ChannelResponse) OK() bool           { return true }

// Validate checks the field invariants of the response.
func (c *ChannelResponse) Validate() error {
	switch {
	case c.URI == nil:
		return newValidationError(errMissing, keyURI)
	case c.Callback == nil:
		return newValidationError(errMissing, keyCallback)
	case c.Callback.IsLUD17():
		return newValidationError(ErrInvalidURL, keyCallback)
	case c.K1 == "":
		return newValidationError(errMissing, keyK1)
	}

	return nil
}

func (c *ChannelResponse) toMap() map[string]interface{} {
	return map[string]interface{}{
		keyTag:      string(TagChannelRequest),
		keyURI:      c.URI.String(),
		keyCallback: c.Callback.String(),
		keyK1:       c.K1,
	}
}

// MarshalJSON encodes the response with camelCase keys.
func (c *ChannelResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.toMap())
}

// HostedChannelResponse is the response of LNURL-hosted-channel (LUD-07).
type HostedChannelResponse struct {
	URI   *NodeURI
	K1    string
	Alias string
}

func parseHostedChannelResponse(f fields) (*HostedChannelResponse, error) {
	var (
		h   HostedChannelResponse
		err error
	)

	if h.URI, err = f.nodeURI(keyURI); err != nil {
		return nil, err
	}
	if h.K1, err = f.requiredStr(keyK1); err != nil {
		return nil, err
	}
	if h.Alias, _, err = f.str(keyAlias); err != nil {
		return nil, err
	}

	if err := h.Validate(); err != nil {
		return nil, err
	}

	return &h, nil
}

func (h *HostedChannelResponse) Kind() ResponseKind { return KindHostedChannel }
func (h *HostedChannelResponse) Tag() Tag           { return TagHostedChannelRequest }
func (h *HostedChannelResponse) OK() bool           { return true }

// Validate checks the field invariants of the response.
func (h *HostedChannelResponse) Validate() error {
	switch {
	case h.URI == nil:
		return newValidationError(errMissing, keyURI)
	case h.K1 == "":
		return newValidationError(errMissing, keyK1)
	}

	return nil
}

func (h *HostedChannelResponse) toMap() map[string]interface{} {
	m := map[string]interface{}{
		keyTag: string(TagHostedChannelRequest),
		keyURI: h.URI.String(),
		keyK1:  h.K1,
	}
	if h.Alias != "" {
		m[keyAlias] = h.Alias
	}

	return m
}

// MarshalJSON encodes the response with camelCase keys.
func (h *HostedChannelResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.toMap())
}
