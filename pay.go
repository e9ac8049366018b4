package lnurl

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/btcsuite/btcutil"
	"github.com/ellemouton/lnurl/bech32"
	"github.com/lightningnetwork/lnd/lnwire"
)

const (
	keyCallback       = "callback"
	keyMinSendable    = "minSendable"
	keyMaxSendable    = "maxSendable"
	keyMetadata       = "metadata"
	keyCommentAllowed = "commentAllowed"
	keyPayerData      = "payerData"
	keyAllowsNostr    = "allowsNostr"
	keyNostrPubkey    = "nostrPubkey"
	keySuccessAction  = "successAction"
	keyRoutes         = "routes"
	keyDisposable     = "disposable"
	keyVerify         = "verify"
	keyPreimage       = "preimage"

	// maxActionText is the longest message or description a success
	// action may carry.
	maxActionText = 144

	minCiphertextLength = 24
	maxCiphertextLength = 4096
	ivLength            = 24
)

var (
	errNotPositive = errors.New("must be greater than zero")
	errMinOverMax  = errors.New("minimum is greater than maximum")
)

// PayResponse is the first response of LNURL-pay (LUD-06).
type PayResponse struct {
	// Callback is the URL the wallet requests an invoice from.
	Callback *URL

	// MinSendable is the smallest amount the service accepts.
	MinSendable lnwire.MilliSatoshi

	// MaxSendable is the largest amount the service accepts.
	MaxSendable lnwire.MilliSatoshi

	// Metadata describes the payment. Its hash must be the description
	// hash of the invoice.
	Metadata *Metadata

	// CommentAllowed is the longest comment the service accepts, zero
	// when comments are not supported (LUD-12).
	CommentAllowed uint64

	// PayerData lists the payer identity fields the service wants
	// (LUD-18).
	PayerData *PayerDataOptions

	// AllowsNostr and NostrPubkey advertise zap support (NIP-57).
	AllowsNostr bool
	NostrPubkey string
}

// NewPayResponse builds and validates a pay response.
func NewPayResponse(callback *URL, minSendable,
	maxSendable lnwire.MilliSatoshi, metadata *Metadata) (*PayResponse,
	error) {

	p := &PayResponse{
		Callback:    callback,
		MinSendable: minSendable,
		MaxSendable: maxSendable,
		Metadata:    metadata,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

func parsePayResponse(f fields, c *Codec) (*PayResponse, error) {
	var (
		p   PayResponse
		err error
	)

	if p.Callback, err = f.requiredURL(keyCallback, c); err != nil {
		return nil, err
	}
	if p.MinSendable, err = f.requiredMsat(keyMinSendable); err != nil {
		return nil, err
	}
	if p.MaxSendable, err = f.requiredMsat(keyMaxSendable); err != nil {
		return nil, err
	}
	if p.Metadata, err = parseMetadataField(f); err != nil {
		return nil, err
	}
	if p.CommentAllowed, _, err = f.uint(keyCommentAllowed); err != nil {
		return nil, err
	}
	if p.AllowsNostr, _, err = f.boolean(keyAllowsNostr); err != nil {
		return nil, err
	}
	if p.NostrPubkey, _, err = f.str(keyNostrPubkey); err != nil {
		return nil, err
	}

	payerData, err := f.object(keyPayerData)
	if err != nil {
		return nil, err
	}
	if payerData != nil {
		p.PayerData, err = parsePayerDataOptions(payerData)
		if err != nil {
			return nil, prefixFields(err, keyPayerData)
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// parseMetadataField reads the metadata, normally a JSON encoded string.
// Some services send the array itself, which is re-encoded.
func parseMetadataField(f fields) (*Metadata, error) {
	if !f.has(keyMetadata) {
		return nil, newValidationError(errMissing, keyMetadata)
	}

	var raw string
	switch v := f[keyMetadata].(type) {
	case string:
		raw = v

	case []interface{}:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, newValidationError(err, keyMetadata)
		}
		raw = string(b)

	default:
		return nil, newValidationError(
			typeError("string", v), keyMetadata,
		)
	}

	m, err := ParseMetadata(raw)
	if err != nil {
		return nil, newValidationError(err, keyMetadata)
	}

	return m, nil
}

func (p *PayResponse) Kind() ResponseKind { return KindPay }
func (p *PayResponse) Tag() Tag           { return TagPayRequest }
func (p *PayResponse) OK() bool           { return true }

// Validate checks the field invariants of the response.
func (p *PayResponse) Validate() error {
	if p.Callback == nil {
		return newValidationError(errMissing, keyCallback)
	}
	if p.Callback.IsLUD17() {
		return newValidationError(
			fmt.Errorf("%w: callback can't use a LUD-17 scheme",
				ErrInvalidURL), keyCallback,
		)
	}
	if p.Metadata == nil {
		return newValidationError(errMissing, keyMetadata)
	}

	if err := validateRange(
		p.MinSendable, p.MaxSendable, keyMinSendable, keyMaxSendable,
	); err != nil {
		return err
	}

	if p.AllowsNostr && !isHexBytes(p.NostrPubkey, 32) {
		return newValidationError(
			errors.New("zaps need a 32 byte hex nostr pubkey"),
			keyAllowsNostr, keyNostrPubkey,
		)
	}

	if p.PayerData != nil {
		if err := p.PayerData.validate(); err != nil {
			return err
		}
	}

	return nil
}

// validateRange checks that min and max are positive and ordered.
func validateRange(min, max lnwire.MilliSatoshi, minKey,
	maxKey string) error {

	if min == 0 {
		return newValidationError(errNotPositive, minKey)
	}
	if max == 0 {
		return newValidationError(errNotPositive, maxKey)
	}
	if min > max {
		return newValidationError(errMinOverMax, minKey, maxKey)
	}

	return nil
}

// MinSats returns MinSendable in satoshis, rounded up.
func (p *PayResponse) MinSats() btcutil.Amount {
	return ceilSats(p.MinSendable)
}

// MaxSats returns MaxSendable in satoshis, rounded down.
func (p *PayResponse) MaxSats() btcutil.Amount {
	return p.MaxSendable.ToSatoshis()
}

// IsValidAmount reports whether amt is within the sendable range.
func (p *PayResponse) IsValidAmount(amt lnwire.MilliSatoshi) bool {
	return p.MinSendable <= amt && amt <= p.MaxSendable
}

func ceilSats(amt lnwire.MilliSatoshi) btcutil.Amount {
	return btcutil.Amount((amt + 999) / 1000)
}

func (p *PayResponse) toMap() map[string]interface{} {
	m := map[string]interface{}{
		keyTag:         string(TagPayRequest),
		keyCallback:    p.Callback.String(),
		keyMinSendable: uint64(p.MinSendable),
		keyMaxSendable: uint64(p.MaxSendable),
		keyMetadata:    p.Metadata.Raw(),
	}
	if p.CommentAllowed > 0 {
		m[keyCommentAllowed] = p.CommentAllowed
	}
	if p.PayerData != nil {
		m[keyPayerData] = p.PayerData.toMap()
	}
	if p.AllowsNostr {
		m[keyAllowsNostr] = true
	}
	if p.NostrPubkey != "" {
		m[keyNostrPubkey] = p.NostrPubkey
	}

	return m
}

// MarshalJSON encodes the response with camelCase keys.
func (p *PayResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.toMap())
}

// PayerDataOption is a requested payer identity field (LUD-18).
type PayerDataOption struct {
	Mandatory bool
}

// PayerDataAuthOption requests an LNURL-auth signature of K1 from the
// payer.
type PayerDataAuthOption struct {
	Mandatory bool
	K1        string
}

// PayerDataExtra is a service specific payer field.
type PayerDataExtra struct {
	Name  string
	Field PayerDataOption
}

// PayerDataOptions lists the payer identity fields a service asks for.
type PayerDataOptions struct {
	Name       *PayerDataOption
	Pubkey     *PayerDataOption
	Identifier *PayerDataOption
	Email      *PayerDataOption
	Auth       *PayerDataAuthOption
	Extras     []PayerDataExtra
}

var payerDataKeys = []string{"name", "pubkey", "identifier", "email"}

// parsePayerDataOptions reads the payerData object. Field names in errors
// are relative to it.
func parsePayerDataOptions(f fields) (*PayerDataOptions, error) {
	var (
		opts    PayerDataOptions
		targets = []**PayerDataOption{
			&opts.Name, &opts.Pubkey, &opts.Identifier, &opts.Email,
		}
	)

	for i, key := range payerDataKeys {
		opt, err := parsePayerDataOption(f, key)
		if err != nil {
			return nil, err
		}
		*targets[i] = opt
	}

	auth, err := f.object("auth")
	if err != nil {
		return nil, err
	}
	if auth != nil {
		mandatory, _, err := auth.boolean("mandatory")
		if err != nil {
			return nil, prefixFields(err, "auth")
		}
		k1, err := auth.requiredStr("k1")
		if err != nil {
			return nil, prefixFields(err, "auth")
		}

		opts.Auth = &PayerDataAuthOption{
			Mandatory: mandatory,
			K1:        k1,
		}
	}

	extras, err := f.array("extras")
	if err != nil {
		return nil, err
	}
	for _, e := range extras {
		m, ok := e.(map[string]interface{})
		if !ok {
			return nil, newValidationError(
				typeError("object", e), "extras",
			)
		}

		extra := fields(m)
		name, err := extra.requiredStr("name")
		if err != nil {
			return nil, prefixFields(err, "extras")
		}
		field, err := parsePayerDataOption(extra, "field")
		if err != nil {
			return nil, prefixFields(err, "extras")
		}
		if field == nil {
			return nil, newValidationError(errMissing, "extras.field")
		}

		opts.Extras = append(opts.Extras, PayerDataExtra{
			Name:  name,
			Field: *field,
		})
	}

	return &opts, nil
}

func parsePayerDataOption(f fields, key string) (*PayerDataOption, error) {
	obj, err := f.object(key)
	if err != nil || obj == nil {
		return nil, err
	}

	mandatory, _, err := obj.boolean("mandatory")
	if err != nil {
		return nil, prefixFields(err, key)
	}

	return &PayerDataOption{Mandatory: mandatory}, nil
}

// prefixFields qualifies the field names of a *ValidationError with the
// object they were read from.
func prefixFields(err error, prefix string) error {
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		return err
	}

	prefixed := make([]string, len(vErr.Fields))
	for i, f := range vErr.Fields {
		prefixed[i] = prefix + "." + f
	}

	return newValidationError(vErr.Err, prefixed...)
}

func (o *PayerDataOptions) validate() error {
	if o.Auth != nil && o.Auth.K1 == "" {
		return newValidationError(errMissing, keyPayerData+".auth.k1")
	}
	for _, e := range o.Extras {
		if e.Name == "" {
			return newValidationError(
				errMissing, keyPayerData+".extras.name",
			)
		}
	}

	return nil
}

func (o *PayerDataOptions) toMap() map[string]interface{} {
	m := make(map[string]interface{})
	for i, opt := range []*PayerDataOption{
		o.Name, o.Pubkey, o.Identifier, o.Email,
	} {
		if opt != nil {
			m[payerDataKeys[i]] = opt.toMap()
		}
	}
	if o.Auth != nil {
		m["auth"] = map[string]interface{}{
			"mandatory": o.Auth.Mandatory,
			"k1":        o.Auth.K1,
		}
	}
	if len(o.Extras) > 0 {
		extras := make([]interface{}, 0, len(o.Extras))
		for _, e := range o.Extras {
			extras = append(extras, map[string]interface{}{
				"name":  e.Name,
				"field": e.Field.toMap(),
			})
		}
		m["extras"] = extras
	}

	return m
}

func (o *PayerDataOption) toMap() map[string]interface{} {
	return map[string]interface{}{
		"mandatory": o.Mandatory,
	}
}

// RouteHop is a hop of a private route hint in a pay action response.
type RouteHop struct {
	NodeID        string
	ChannelUpdate string
}

// PayActionResponse is the invoice response of LNURL-pay.
type PayActionResponse struct {
	// PR is the bech32 encoded invoice.
	PR string

	// SuccessAction is shown to the user once the invoice is paid
	// (LUD-09).
	SuccessAction *SuccessAction

	// Routes is always empty in practice.
	Routes [][]RouteHop

	// Disposable, when set to false, allows the wallet to store the pay
	// link (LUD-11). A missing value means true.
	Disposable *bool

	// Verify is the URL to check the payment status at (LUD-21).
	Verify *URL
}

// NewPayActionResponse builds and validates a pay action response.
func NewPayActionResponse(pr string,
	action *SuccessAction) (*PayActionResponse, error) {

	p := &PayActionResponse{
		PR:            pr,
		SuccessAction: action,
		Routes:        [][]RouteHop{},
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

func parsePayActionResponse(f fields, c *Codec) (*PayActionResponse,
	error) {

	var (
		p   = PayActionResponse{Routes: [][]RouteHop{}}
		err error
	)

	if p.PR, err = f.requiredStr(keyPR); err != nil {
		return nil, err
	}

	action, err := f.object(keySuccessAction)
	if err != nil {
		return nil, err
	}
	if action != nil {
		p.SuccessAction, err = parseSuccessAction(action, c)
		if err != nil {
			return nil, prefixFields(err, keySuccessAction)
		}
	}

	routes, err := f.array(keyRoutes)
	if err != nil {
		return nil, err
	}
	for _, r := range routes {
		route, err := parseRoute(r)
		if err != nil {
			return nil, err
		}
		p.Routes = append(p.Routes, route)
	}

	disposable, ok, err := f.boolean(keyDisposable)
	if err != nil {
		return nil, err
	}
	if ok {
		p.Disposable = &disposable
	}

	if p.Verify, err = f.url(keyVerify, c); err != nil {
		return nil, err
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

func parseRoute(v interface{}) ([]RouteHop, error) {
	hops, ok := v.([]interface{})
	if !ok {
		return nil, newValidationError(typeError("array", v), keyRoutes)
	}

	route := make([]RouteHop, 0, len(hops))
	for _, h := range hops {
		m, ok := h.(map[string]interface{})
		if !ok {
			return nil, newValidationError(
				typeError("object", h), keyRoutes,
			)
		}

		hop := fields(m)
		nodeID, err := hop.requiredStr("nodeId")
		if err != nil {
			return nil, prefixFields(err, keyRoutes)
		}
		update, err := hop.requiredStr("channelUpdate")
		if err != nil {
			return nil, prefixFields(err, keyRoutes)
		}

		route = append(route, RouteHop{
			NodeID:        nodeID,
			ChannelUpdate: update,
		})
	}

	return route, nil
}

func (p *PayActionResponse) Kind() ResponseKind { return KindPayAction }
func (p *PayActionResponse) Tag() Tag           { return "" }
func (p *PayActionResponse) OK() bool           { return true }

// Validate checks the field invariants of the response.
func (p *PayActionResponse) Validate() error {
	if err := validateInvoice(p.PR); err != nil {
		return newValidationError(err, keyPR)
	}

	if p.SuccessAction != nil {
		if err := p.SuccessAction.Validate(); err != nil {
			return prefixFields(err, keySuccessAction)
		}
	}

	return nil
}

// IsDisposable reports whether the pay link must not be stored.
func (p *PayActionResponse) IsDisposable() bool {
	return p.Disposable == nil || *p.Disposable
}

// validateInvoice checks that pr is a bech32 string with a lightning hrp.
// The invoice itself is not decoded here.
func validateInvoice(pr string) error {
	hrp, _, err := bech32.DecodeNoLimit(pr)
	if err != nil {
		return err
	}

	if !strings.HasPrefix(hrp, "ln") {
		return fmt.Errorf("hrp %q is not a lightning invoice", hrp)
	}

	return nil
}

func (p *PayActionResponse) toMap() map[string]interface{} {
	routes := make([]interface{}, 0, len(p.Routes))
	for _, route := range p.Routes {
		hops := make([]interface{}, 0, len(route))
		for _, hop := range route {
			hops = append(hops, map[string]interface{}{
				"nodeId":        hop.NodeID,
				"channelUpdate": hop.ChannelUpdate,
			})
		}
		routes = append(routes, hops)
	}

	m := map[string]interface{}{
		keyPR:     p.PR,
		keyRoutes: routes,
	}
	if p.SuccessAction != nil {
		m[keySuccessAction] = p.SuccessAction.toMap()
	}
	if p.Disposable != nil {
		m[keyDisposable] = *p.Disposable
	}
	if p.Verify != nil {
		m[keyVerify] = p.Verify.String()
	}

	return m
}

// MarshalJSON encodes the response with camelCase keys.
func (p *PayActionResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.toMap())
}

// SuccessAction is shown by the wallet after a successful payment. Which
// fields are set depends on Tag.
type SuccessAction struct {
	Tag SuccessActionTag

	// Message is the text of a message action.
	Message string

	// Description accompanies url and aes actions.
	Description string

	// URL is the link of a url action.
	URL *URL

	// Ciphertext and IV hold the base64 encoded encrypted message of an
	// aes action (LUD-10).
	Ciphertext string
	IV         string
}

// NewMessageAction returns a message success action.
func NewMessageAction(message string) (*SuccessAction, error) {
	a := &SuccessAction{
		Tag:     SuccessActionMessage,
		Message: message,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	return a, nil
}

// NewURLAction returns a url success action.
func NewURLAction(u *URL, description string) (*SuccessAction, error) {
	a := &SuccessAction{
		Tag:         SuccessActionURL,
		URL:         u,
		Description: description,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	return a, nil
}

func parseSuccessAction(f fields, c *Codec) (*SuccessAction, error) {
	tag, err := f.requiredStr(keyTag)
	if err != nil {
		return nil, err
	}

	a := SuccessAction{Tag: SuccessActionTag(tag)}
	switch a.Tag {
	case SuccessActionMessage:
		a.Message, err = f.requiredStr("message")

	case SuccessActionURL:
		if a.Description, err = f.requiredStr("description"); err != nil {
			break
		}
		a.URL, err = f.requiredURL("url", c)

	case SuccessActionAES:
		if a.Description, err = f.requiredStr("description"); err != nil {
			break
		}
		if a.Ciphertext, err = f.requiredStr("ciphertext"); err != nil {
			break
		}
		a.IV, err = f.requiredStr("iv")
	}
	if err != nil {
		return nil, err
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}

	return &a, nil
}

// Validate checks the fields required by the action's tag.
func (a *SuccessAction) Validate() error {
	switch a.Tag {
	case SuccessActionMessage:
		return checkActionText(a.Message, "message")

	case SuccessActionURL:
		if a.URL == nil {
			return newValidationError(errMissing, "url")
		}
		return checkActionText(a.Description, "description")

	case SuccessActionAES:
		if err := checkActionText(a.Description, "description"); err != nil {
			return err
		}

		n := len(a.Ciphertext)
		if n < minCiphertextLength || n > maxCiphertextLength {
			return newValidationError(fmt.Errorf("length %d not "+
				"in [%d, %d]", n, minCiphertextLength,
				maxCiphertextLength), "ciphertext")
		}
		if _, err := base64.StdEncoding.DecodeString(a.Ciphertext); err != nil {
			return newValidationError(err, "ciphertext")
		}

		iv, err := base64.StdEncoding.DecodeString(a.IV)
		if err != nil || len(a.IV) != ivLength || len(iv) != ivSize {
			return newValidationError(
				errors.New("expected a base64 encoded 16 byte iv"),
				"iv",
			)
		}

		return nil

	default:
		return newValidationError(
			fmt.Errorf("unknown success action %q", a.Tag), keyTag,
		)
	}
}

func checkActionText(s, key string) error {
	if n := utf8.RuneCountInString(s); n > maxActionText {
		return newValidationError(fmt.Errorf("%d characters, at most "+
			"%d allowed", n, maxActionText), key)
	}

	return nil
}

func (a *SuccessAction) toMap() map[string]interface{} {
	m := map[string]interface{}{
		keyTag: string(a.Tag),
	}

	switch a.Tag {
	case SuccessActionMessage:
		m["message"] = a.Message

	case SuccessActionURL:
		m["description"] = a.Description
		m["url"] = a.URL.String()

	case SuccessActionAES:
		m["description"] = a.Description
		m["ciphertext"] = a.Ciphertext
		m["iv"] = a.IV
	}

	return m
}

// VerifyResponse is the payment status returned by a LUD-21 verify URL.
type VerifyResponse struct {
	PR       string
	Settled  bool
	Preimage string
}

func parseVerifyResponse(f fields) (*VerifyResponse, error) {
	var (
		v   VerifyResponse
		ok  bool
		err error
	)

	if v.PR, err = f.requiredStr(keyPR); err != nil {
		return nil, err
	}
	if v.Settled, ok, err = f.boolean(keySettled); err != nil {
		return nil, err
	} else if !ok {
		return nil, newValidationError(errMissing, keySettled)
	}
	if v.Preimage, _, err = f.str(keyPreimage); err != nil {
		return nil, err
	}

	if err := v.Validate(); err != nil {
		return nil, err
	}

	return &v, nil
}

func (v *VerifyResponse) Kind() ResponseKind { return KindVerify }
func (v *VerifyResponse) Tag() Tag           { return "" }
func (v *VerifyResponse) OK() bool           { return true }

// Validate checks the field invariants of the response.
func (v *VerifyResponse) Validate() error {
	if err := validateInvoice(v.PR); err != nil {
		return newValidationError(err, keyPR)
	}

	if v.Preimage != "" && !isHexBytes(v.Preimage, 32) {
		return newValidationError(
			errors.New("expected a 32 byte hex preimage"),
			keyPreimage,
		)
	}

	return nil
}

func (v *VerifyResponse) toMap() map[string]interface{} {
	m := map[string]interface{}{
		keyStatus:  string(StatusOK),
		keyPR:      v.PR,
		keySettled: v.Settled,
	}
	if v.Preimage != "" {
		m[keyPreimage] = v.Preimage
	}

	return m
}

// MarshalJSON encodes the response with camelCase keys.
func (v *VerifyResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.toMap())
}
