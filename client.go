package lnurl

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/lightningnetwork/lnd/zpay32"
)

const (
	// DefaultUserAgent is sent with every request unless overridden.
	DefaultUserAgent = "lnurl-go"

	// DefaultTimeout bounds every request unless overridden.
	DefaultTimeout = 5 * time.Second

	// maxBodySize is the largest response body we read.
	maxBodySize = 1 << 20
)

var (
	// ErrRequest is returned when a service could not be reached or
	// answered with something other than an LNURL response.
	ErrRequest = errors.New("lnurl request failed")

	// ErrNotExecutable is returned by Execute for responses that have no
	// follow up request.
	ErrNotExecutable = errors.New("lnurl response can't be executed")

	// ErrServiceError is returned when a service answers a callback with
	// an error response.
	ErrServiceError = errors.New("service returned an error")

	// ErrInvalidInvoice is returned when an invoice doesn't match the
	// request it was returned for.
	ErrInvalidInvoice = errors.New("invalid invoice")
)

// InvoiceDecoder decodes a BOLT11 invoice.
type InvoiceDecoder func(invoice string) (*zpay32.Invoice, error)

// ClientConfig configures a Client. Zero values are replaced by defaults.
type ClientConfig struct {
	// URLConfig is used to validate every URL the client sees.
	URLConfig *Config

	UserAgent string
	Timeout   time.Duration

	// InsecureSkipVerify disables TLS certificate checks.
	InsecureSkipVerify bool

	// Net is the network invoices are decoded for.
	Net *chaincfg.Params

	// DecodeInvoice overrides zpay32 invoice decoding.
	DecodeInvoice InvoiceDecoder

	// HTTPClient overrides the client built from Timeout and
	// InsecureSkipVerify.
	HTTPClient *http.Client
}

// Client talks to LNURL services.
type Client struct {
	cfg   ClientConfig
	codec *Codec
	http  *http.Client
}

// NewClient returns a client for cfg. A nil cfg uses the defaults.
func NewClient(cfg *ClientConfig) *Client {
	var c ClientConfig
	if cfg != nil {
		c = *cfg
	}

	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Net == nil {
		c.Net = &chaincfg.MainNetParams
	}
	if c.DecodeInvoice == nil {
		net := c.Net
		c.DecodeInvoice = func(invoice string) (*zpay32.Invoice, error) {
			return zpay32.Decode(invoice, net)
		}
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: c.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: c.InsecureSkipVerify, // nolint:gosec
				},
			},
		}
	}

	return &Client{
		cfg:   c,
		codec: NewCodec(c.URLConfig),
		http:  httpClient,
	}
}

// Codec returns the codec the client validates URLs with.
func (c *Client) Codec() *Codec {
	return c.codec
}

// Get fetches u and parses the body as an LNURL response.
func (c *Client) Get(ctx context.Context, u *URL) (Response, error) {
	return c.get(ctx, u.String())
}

func (c *Client) get(ctx context.Context, rawURL string) (Response, error) {
	log.Debugf("GET %v", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: could not read response body: %v",
			ErrRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Services often explain the failure in an error response.
		if r, err := c.codec.ParseResponse(body); err == nil && !r.OK() {
			return nil, fmt.Errorf("%w: %s returned %d: %s",
				ErrRequest, req.URL.Host, resp.StatusCode,
				r.(*ErrorResponse).Reason)
		}

		return nil, fmt.Errorf("%w: %s returned %d", ErrRequest,
			req.URL.Host, resp.StatusCode)
	}

	r, err := c.codec.ParseResponse(body)
	if err != nil {
		log.Debugf("Invalid response from %v: %v", req.URL.Host, err)
		return nil, err
	}

	return r, nil
}

// callback fetches u with params added to its query.
func (c *Client) callback(ctx context.Context, u *URL,
	params map[string]string) (Response, error) {

	parsed := *u.parsed
	q := parsed.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	parsed.RawQuery = q.Encode()

	return c.get(ctx, parsed.String())
}

// Handle resolves a lightning address, LNURL or LUD-17 URL into the
// service's first response. Login and fast withdraw links are answered
// from the URL itself without a request.
func (c *Client) Handle(ctx context.Context, lightning string) (Response,
	error) {

	lightning = clean(lightning)

	if isLnAddress(lightning) {
		addr, err := ParseLnAddress(lightning, c.codec.Config())
		if err != nil {
			return nil, err
		}

		return c.Get(ctx, addr.URL)
	}

	l, err := c.codec.Parse(lightning)
	if err != nil {
		return nil, err
	}

	switch {
	case l.IsLogin():
		return AuthResponseFromURL(l)

	case l.IsFastWithdraw():
		query := l.URL().QueryParams()
		data := make(map[string]interface{}, len(query))
		for k, v := range query {
			data[k] = v
		}

		return c.codec.FromDict(data)
	}

	return c.Get(ctx, l.CallbackURL())
}

func isLnAddress(s string) bool {
	return strings.Contains(s, "@") && !strings.Contains(s, "://")
}

// Execute handles lightning and runs the follow up request with value:
// an amount in millisatoshis for pay requests, an invoice for withdraw
// requests and a hex encoded seed for logins.
func (c *Client) Execute(ctx context.Context, lightning,
	value string) (Response, error) {

	res, err := c.Handle(ctx, lightning)
	if err != nil {
		return nil, err
	}

	switch r := res.(type) {
	case *PayResponse:
		msat, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", value,
				err)
		}

		return c.ExecutePayRequest(
			ctx, r, lnwire.MilliSatoshi(msat), "",
		)

	case *WithdrawResponse:
		return c.ExecuteWithdraw(ctx, r, value)

	case *AuthResponse:
		seed, err := hex.DecodeString(value)
		if err != nil {
			return nil, fmt.Errorf("invalid seed: %w", err)
		}

		return c.ExecuteLogin(ctx, r, seed)
	}

	return nil, fmt.Errorf("%w: %v", ErrNotExecutable, res.Kind())
}

// ExecutePayRequest requests an invoice for amt from a pay request and
// checks it before returning it. The invoice is not paid.
func (c *Client) ExecutePayRequest(ctx context.Context, p *PayResponse,
	amt lnwire.MilliSatoshi, comment string) (*PayActionResponse, error) {

	if !p.IsValidAmount(amt) {
		return nil, fmt.Errorf("amount %v not in range %v - %v", amt,
			p.MinSendable, p.MaxSendable)
	}

	params := map[string]string{
		"amount": strconv.FormatUint(uint64(amt), 10),
	}
	if comment != "" {
		n := utf8.RuneCountInString(comment)
		if uint64(n) > p.CommentAllowed {
			return nil, fmt.Errorf("comment of %d characters, "+
				"service allows %d", n, p.CommentAllowed)
		}
		params["comment"] = comment
	}

	res, err := c.callback(ctx, p.Callback, params)
	if err != nil {
		return nil, err
	}

	action, ok := res.(*PayActionResponse)
	if !ok {
		return nil, unexpected(res, KindPayAction)
	}

	inv, err := c.cfg.DecodeInvoice(action.PR)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInvoice, err)
	}

	if inv.MilliSat == nil || *inv.MilliSat != amt {
		return nil, fmt.Errorf("%w: %s returned an invoice for "+
			"%v, expected %v", ErrInvalidInvoice,
			p.Callback.Host(), invoiceAmount(inv), amt)
	}

	hash := p.Metadata.DescriptionHash()
	if inv.DescriptionHash == nil ||
		!bytes.Equal(inv.DescriptionHash[:], hash[:]) {

		return nil, fmt.Errorf("%w: description hash does not match "+
			"the metadata", ErrInvalidInvoice)
	}

	log.Infof("Received invoice for %v from %v", amt, p.Callback.Host())

	return action, nil
}

// ExecuteWithdraw asks the service to pay invoice. An invoice without an
// amount is checked as a request for the minimum.
func (c *Client) ExecuteWithdraw(ctx context.Context, w *WithdrawResponse,
	invoice string) (Response, error) {

	inv, err := c.cfg.DecodeInvoice(invoice)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInvoice, err)
	}

	amt := w.MinWithdrawable
	if inv.MilliSat != nil && *inv.MilliSat != 0 {
		amt = *inv.MilliSat
	}

	if !w.IsValidAmount(amt) {
		return nil, fmt.Errorf("amount %v not in range %v - %v", amt,
			w.MinWithdrawable, w.MaxWithdrawable)
	}

	res, err := c.callback(ctx, w.Callback, map[string]string{
		keyK1: w.K1,
		keyPR: invoice,
	})
	if err != nil {
		return nil, err
	}

	return checkStatus(res)
}

// ExecuteLogin signs the auth challenge with the linking key derived from
// seed for the callback's domain.
func (c *Client) ExecuteLogin(ctx context.Context, a *AuthResponse,
	seed []byte) (Response, error) {

	linkingKey, err := DeriveLinkingKey(seed, a.Callback.Host())
	if err != nil {
		return nil, fmt.Errorf("could not derive linking key: %w", err)
	}

	key, sig, err := SignChallenge(a.K1, linkingKey)
	if err != nil {
		return nil, err
	}

	res, err := c.callback(ctx, a.Callback, map[string]string{
		"key": key,
		"sig": sig,
	})
	if err != nil {
		return nil, err
	}

	return checkStatus(res)
}

// checkStatus turns an error response into an error.
func checkStatus(res Response) (Response, error) {
	if e, ok := res.(*ErrorResponse); ok {
		return nil, fmt.Errorf("%w: %s", ErrServiceError, e.Reason)
	}

	return res, nil
}

func unexpected(res Response, want ResponseKind) error {
	if e, ok := res.(*ErrorResponse); ok {
		return fmt.Errorf("%w: %s", ErrServiceError, e.Reason)
	}

	return fmt.Errorf("%w: expected %v response, got %v",
		ErrUnknownResponse, want, res.Kind())
}

func invoiceAmount(inv *zpay32.Invoice) string {
	if inv.MilliSat == nil {
		return "no amount"
	}

	return inv.MilliSat.String()
}
