package lnurl

import (
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/btcsuite/btcutil"
	"github.com/lightningnetwork/lnd/lnwire"
)

const (
	keyK1                 = "k1"
	keyMinWithdrawable    = "minWithdrawable"
	keyMaxWithdrawable    = "maxWithdrawable"
	keyDefaultDescription = "defaultDescription"
	keyBalanceCheck       = "balanceCheck"
	keyCurrentBalance     = "currentBalance"
	keyPayLink            = "payLink"
)

// WithdrawResponse is the first response of LNURL-withdraw (LUD-03).
type WithdrawResponse struct {
	Callback           *URL
	K1                 string
	MinWithdrawable    lnwire.MilliSatoshi
	MaxWithdrawable    lnwire.MilliSatoshi
	DefaultDescription string

	// BalanceCheck and CurrentBalance make the link reusable (LUD-14).
	BalanceCheck   *URL
	CurrentBalance *lnwire.MilliSatoshi

	// PayLink is an LNURL-pay link or lightning address to top up the
	// balance (LUD-19).
	PayLink string
}

// NewWithdrawResponse builds and validates a withdraw response.
func NewWithdrawResponse(callback *URL, k1 string, minWithdrawable,
	maxWithdrawable lnwire.MilliSatoshi,
	defaultDescription string) (*WithdrawResponse, error) {

	w := &WithdrawResponse{
		Callback:           callback,
		K1:                 k1,
		MinWithdrawable:    minWithdrawable,
		MaxWithdrawable:    maxWithdrawable,
		DefaultDescription: defaultDescription,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	return w, nil
}

func parseWithdrawResponse(f fields, c *Codec) (*WithdrawResponse, error) {
	var (
		w   WithdrawResponse
		err error
	)

	if w.Callback, err = f.requiredURL(keyCallback, c); err != nil {
		return nil, err
	}
	if w.K1, err = f.requiredStr(keyK1); err != nil {
		return nil, err
	}
	if w.MinWithdrawable, err = f.requiredMsat(keyMinWithdrawable); err != nil {
		return nil, err
	}
	if w.MaxWithdrawable, err = f.requiredMsat(keyMaxWithdrawable); err != nil {
		return nil, err
	}
	w.DefaultDescription, _, err = f.str(keyDefaultDescription)
	if err != nil {
		return nil, err
	}
	if w.BalanceCheck, err = f.url(keyBalanceCheck, c); err != nil {
		return nil, err
	}

	balance, ok, err := f.uint(keyCurrentBalance)
	if err != nil {
		return nil, err
	}
	if ok {
		msat := lnwire.MilliSatoshi(balance)
		w.CurrentBalance = &msat
	}

	if w.PayLink, _, err = f.str(keyPayLink); err != nil {
		return nil, err
	}
	if w.PayLink != "" && !validPayLink(w.PayLink, c.Config()) {
		return nil, newValidationError(
			errors.New("not an lnurl or lightning address"),
			keyPayLink,
		)
	}

	if err := w.Validate(); err != nil {
		return nil, err
	}

	return &w, nil
}

// validPayLink reports whether s is an LNURL, in any form, or a lightning
// address.
func validPayLink(s string, cfg *Config) bool {
	if strings.Contains(s, "@") {
		_, err := ParseLnAddress(s, cfg)
		return err == nil
	}

	_, err := NewCodec(cfg).Parse(s)
	return err == nil
}

func (w *WithdrawResponse) Kind() ResponseKind { return KindWithdraw }
func (w *WithdrawResponse) Tag() Tag           { return TagWithdrawRequest }
func (w *WithdrawResponse) OK() bool           { return true }

// Validate checks the field invariants of the response.
func (w *WithdrawResponse) Validate() error {
	if w.Callback == nil {
		return newValidationError(errMissing, keyCallback)
	}
	if w.Callback.IsLUD17() {
		return newValidationError(ErrInvalidURL, keyCallback)
	}
	if w.K1 == "" {
		return newValidationError(errMissing, keyK1)
	}
	if w.PayLink != "" && !validPayLink(w.PayLink, nil) {
		return newValidationError(
			errors.New("not an lnurl or lightning address"),
			keyPayLink,
		)
	}

	return validateRange(
		w.MinWithdrawable, w.MaxWithdrawable, keyMinWithdrawable,
		keyMaxWithdrawable,
	)
}

// MinSats returns MinWithdrawable in satoshis, rounded up.
func (w *WithdrawResponse) MinSats() btcutil.Amount {
	return ceilSats(w.MinWithdrawable)
}

// MaxSats returns MaxWithdrawable in satoshis, rounded down.
func (w *WithdrawResponse) MaxSats() btcutil.Amount {
	return w.MaxWithdrawable.ToSatoshis()
}

// IsValidAmount reports whether amt is within the withdrawable range.
func (w *WithdrawResponse) IsValidAmount(amt lnwire.MilliSatoshi) bool {
	return w.MinWithdrawable <= amt && amt <= w.MaxWithdrawable
}

// FastWithdrawQuery returns the query string that turns a service URL into
// a LUD-08 fast withdraw link for this response.
func (w *WithdrawResponse) FastWithdrawQuery() string {
	q := url.Values{}
	q.Set(keyTag, string(TagWithdrawRequest))
	q.Set(keyK1, w.K1)
	q.Set(keyMinWithdrawable, strconv.FormatUint(
		uint64(w.MinWithdrawable), 10,
	))
	q.Set(keyMaxWithdrawable, strconv.FormatUint(
		uint64(w.MaxWithdrawable), 10,
	))
	q.Set(keyDefaultDescription, w.DefaultDescription)
	q.Set(keyCallback, w.Callback.String())

	return q.Encode()
}

func (w *WithdrawResponse) toMap() map[string]interface{} {
	m := map[string]interface{}{
		keyTag:                string(TagWithdrawRequest),
		keyCallback:           w.Callback.String(),
		keyK1:                 w.K1,
		keyMinWithdrawable:    uint64(w.MinWithdrawable),
		keyMaxWithdrawable:    uint64(w.MaxWithdrawable),
		keyDefaultDescription: w.DefaultDescription,
	}
	if w.BalanceCheck != nil {
		m[keyBalanceCheck] = w.BalanceCheck.String()
	}
	if w.CurrentBalance != nil {
		m[keyCurrentBalance] = uint64(*w.CurrentBalance)
	}
	if w.PayLink != "" {
		m[keyPayLink] = w.PayLink
	}

	return m
}

// MarshalJSON encodes the response with camelCase keys.
func (w *WithdrawResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.toMap())
}
