package lnurl

import (
	"encoding/json"
	"testing"

	"github.com/btcsuite/btcutil"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/stretchr/testify/require"
)

const (
	// testInvoice is the donation invoice from the BOLT-11 examples.
	testInvoice = "lnbc1pvjluezpp5qqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqqqsy" +
		"qcyq5rqwzqfqypqdpl2pkx2ctnv5sxxmmwwd5kgetjypeh2ursdae8g6twvus8" +
		"g6rfwvs8qun0dfjkxaq8rkx3yf5tcsyz3d73gafnh3cax9rn449d9p5uxz9ezh" +
		"hypd0elx87sjle52x86fux2ypatgddc6k63n7erqz25le42c4u4ecky03ylcqc" +
		"a784w"

	testNodeKey = "02c3b844b8104f0c1b15c507774c9ba7fc609f58f343b9b149122" +
		"e944dd20c9362"

	testPayJSON = `{
		"tag": "payRequest",
		"callback": "https://service.io/pay/cb",
		"minSendable": 1500,
		"maxSendable": "2500",
		"metadata": "[[\"text/plain\",\"hi\"]]",
		"commentAllowed": 32
	}`
)

func mustParse(t *testing.T, body string) Response {
	t.Helper()

	r, err := ParseResponse([]byte(body))
	require.NoError(t, err)

	return r
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		data map[string]interface{}
		kind ResponseKind
		err  error
	}{
		{
			name: "error",
			data: map[string]interface{}{"status": "ERROR"},
			kind: KindError,
		},
		{
			name: "lowercase error",
			data: map[string]interface{}{"status": "error"},
			kind: KindError,
		},
		{
			name: "error wins over tag",
			data: map[string]interface{}{
				"status": "ERROR", "tag": "payRequest",
			},
			kind: KindError,
		},
		{
			name: "tag wins over ok status",
			data: map[string]interface{}{
				"status": "OK", "tag": "withdrawRequest",
			},
			kind: KindWithdraw,
		},
		{
			name: "pay",
			data: map[string]interface{}{"tag": "payRequest"},
			kind: KindPay,
		},
		{
			name: "channel",
			data: map[string]interface{}{"tag": "channelRequest"},
			kind: KindChannel,
		},
		{
			name: "hosted channel",
			data: map[string]interface{}{
				"tag": "hostedChannelRequest",
			},
			kind: KindHostedChannel,
		},
		{
			name: "login",
			data: map[string]interface{}{"tag": "login"},
			kind: KindAuth,
		},
		{
			name: "pay action",
			data: map[string]interface{}{"pr": "x", "routes": nil},
			kind: KindPayAction,
		},
		{
			name: "verify",
			data: map[string]interface{}{
				"status": "OK", "pr": "x", "settled": true,
			},
			kind: KindVerify,
		},
		{
			name: "ok",
			data: map[string]interface{}{"status": "ok"},
			kind: KindSuccess,
		},
		{
			name: "tags are case sensitive",
			data: map[string]interface{}{"tag": "PAYREQUEST"},
			err:  ErrUnknownResponse,
		},
		{
			name: "unknown tag",
			data: map[string]interface{}{"tag": "swapRequest"},
			err:  ErrUnknownResponse,
		},
		{
			name: "non string tag",
			data: map[string]interface{}{"tag": 1},
			err:  ErrUnknownResponse,
		},
		{
			name: "nothing",
			data: map[string]interface{}{"callback": "x"},
			err:  ErrUnknownResponse,
		},
		{
			name: "unknown status",
			data: map[string]interface{}{"status": "PENDING"},
			err:  ErrUnknownResponse,
		},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			kind, err := Classify(test.data)
			if test.err != nil {
				require.ErrorIs(t, err, test.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.kind, kind)
		})
	}
}

func TestErrorResponse(t *testing.T) {
	r := mustParse(t, `{"status":"ERROR","reason":"x"}`)
	require.Equal(t, &ErrorResponse{Reason: "x"}, r)
	require.False(t, r.OK())
	require.Equal(t, KindError, r.Kind())
	require.Empty(t, r.Tag())

	_, err := ParseResponse([]byte(`{"status":"ERROR"}`))
	require.ErrorIs(t, err, ErrInvalidResponse)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, []string{"reason"}, vErr.Fields)
}

func TestSuccessResponse(t *testing.T) {
	r := mustParse(t, `{"status":"OK"}`)
	require.Equal(t, &SuccessResponse{}, r)
	require.True(t, r.OK())
}

func TestWithdrawResponse(t *testing.T) {
	r := mustParse(t, `{"tag":"withdrawRequest",`+
		`"callback":"https://a.com/cb","k1":"deadbeef",`+
		`"minWithdrawable":1000,"maxWithdrawable":2000,`+
		`"defaultDescription":"d"}`)

	w, ok := r.(*WithdrawResponse)
	require.True(t, ok)
	require.Equal(t, TagWithdrawRequest, w.Tag())
	require.True(t, w.OK())
	require.Equal(t, "https://a.com/cb", w.Callback.String())
	require.Equal(t, "deadbeef", w.K1)
	require.Equal(t, lnwire.MilliSatoshi(1000), w.MinWithdrawable)
	require.Equal(t, lnwire.MilliSatoshi(2000), w.MaxWithdrawable)
	require.Equal(t, "d", w.DefaultDescription)
	require.Nil(t, w.BalanceCheck)
	require.Nil(t, w.CurrentBalance)

	require.Equal(t, btcutil.Amount(1), w.MinSats())
	require.Equal(t, btcutil.Amount(2), w.MaxSats())
	require.True(t, w.IsValidAmount(1000))
	require.True(t, w.IsValidAmount(2000))
	require.False(t, w.IsValidAmount(999))
	require.False(t, w.IsValidAmount(2001))
}

func TestWithdrawMinOverMax(t *testing.T) {
	_, err := ParseResponse([]byte(`{"tag":"withdrawRequest",` +
		`"callback":"https://a.com/cb","k1":"deadbeef",` +
		`"minWithdrawable":2000,"maxWithdrawable":1000,` +
		`"defaultDescription":"d"}`))
	require.ErrorIs(t, err, ErrInvalidResponse)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, []string{"minWithdrawable", "maxWithdrawable"},
		vErr.Fields)

	callback, err := ParseCallbackURL("https://a.com/cb", nil)
	require.NoError(t, err)

	_, err = NewWithdrawResponse(callback, "deadbeef", 2000, 1000, "d")
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestWithdrawExtensions(t *testing.T) {
	r := mustParse(t, `{"tag":"withdrawRequest",`+
		`"callback":"https://a.com/cb","k1":"deadbeef",`+
		`"min_withdrawable":"1000","max_withdrawable":"2000",`+
		`"balance_check":"https://a.com/balance",`+
		`"current_balance":0,`+
		`"pay_link":"lnurlp://a.com/pay"}`)

	w := r.(*WithdrawResponse)
	require.Empty(t, w.DefaultDescription)
	require.Equal(t, "https://a.com/balance", w.BalanceCheck.String())
	require.NotNil(t, w.CurrentBalance)
	require.Zero(t, *w.CurrentBalance)
	require.Equal(t, "lnurlp://a.com/pay", w.PayLink)

	_, err := ParseResponse([]byte(`{"tag":"withdrawRequest",` +
		`"callback":"https://a.com/cb","k1":"deadbeef",` +
		`"minWithdrawable":1000,"maxWithdrawable":2000,` +
		`"payLink":"not a link"}`))
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestFastWithdrawQuery(t *testing.T) {
	callback, err := ParseCallbackURL("https://a.com/cb?id=1", nil)
	require.NoError(t, err)

	w, err := NewWithdrawResponse(callback, "deadbeef", 1000, 2000, "a b")
	require.NoError(t, err)

	l, err := Parse("https://a.com/withdraw?" + w.FastWithdrawQuery())
	require.NoError(t, err)
	require.True(t, l.IsFastWithdraw())

	q := l.URL().QueryParams()
	require.Equal(t, "https://a.com/cb?id=1", q["callback"])
	require.Equal(t, "a b", q["defaultDescription"])
}

func TestPayResponse(t *testing.T) {
	p, ok := mustParse(t, testPayJSON).(*PayResponse)
	require.True(t, ok)

	require.Equal(t, TagPayRequest, p.Tag())
	require.True(t, p.OK())
	require.Equal(t, "https://service.io/pay/cb", p.Callback.String())
	require.Equal(t, lnwire.MilliSatoshi(1500), p.MinSendable)
	require.Equal(t, lnwire.MilliSatoshi(2500), p.MaxSendable)
	require.Equal(t, "hi", p.Metadata.Text())
	require.Equal(t, uint64(32), p.CommentAllowed)

	// Sats round inwards.
	require.Equal(t, btcutil.Amount(2), p.MinSats())
	require.Equal(t, btcutil.Amount(2), p.MaxSats())
	require.True(t, p.IsValidAmount(1500))
	require.False(t, p.IsValidAmount(2501))
}

func TestPayResponseSnakeCase(t *testing.T) {
	r := mustParse(t, `{
		"tag": "payRequest",
		"callback": "https://service.io/pay/cb",
		"min_sendable": 1500,
		"max_sendable": 2500,
		"metadata": "[[\"text/plain\",\"hi\"]]",
		"comment_allowed": 32
	}`)
	require.Equal(t, mustParse(t, testPayJSON), r)
}

func TestPayResponseMetadataArray(t *testing.T) {
	r := mustParse(t, `{"tag":"payRequest",`+
		`"callback":"https://service.io/cb",`+
		`"minSendable":1,"maxSendable":2,`+
		`"metadata":[["text/plain","hi"]]}`)
	require.Equal(t, "hi", r.(*PayResponse).Metadata.Text())
}

func TestPayResponseInvalid(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{
			name: "http callback",
			body: `{"tag":"payRequest","callback":"http://service.io/cb",` +
				`"minSendable":1,"maxSendable":2,` +
				`"metadata":"[[\"text/plain\",\"hi\"]]"}`,
			fields: []string{"callback"},
		},
		{
			name: "lud17 callback",
			body: `{"tag":"payRequest","callback":"lnurlp://service.io/cb",` +
				`"minSendable":1,"maxSendable":2,` +
				`"metadata":"[[\"text/plain\",\"hi\"]]"}`,
			fields: []string{"callback"},
		},
		{
			name: "missing callback",
			body: `{"tag":"payRequest",` +
				`"minSendable":1,"maxSendable":2,` +
				`"metadata":"[[\"text/plain\",\"hi\"]]"}`,
			fields: []string{"callback"},
		},
		{
			name: "zero min",
			body: `{"tag":"payRequest","callback":"https://service.io/cb",` +
				`"minSendable":0,"maxSendable":2,` +
				`"metadata":"[[\"text/plain\",\"hi\"]]"}`,
			fields: []string{"minSendable"},
		},
		{
			name: "negative max",
			body: `{"tag":"payRequest","callback":"https://service.io/cb",` +
				`"minSendable":1,"maxSendable":-2,` +
				`"metadata":"[[\"text/plain\",\"hi\"]]"}`,
			fields: []string{"maxSendable"},
		},
		{
			name: "fractional amount",
			body: `{"tag":"payRequest","callback":"https://service.io/cb",` +
				`"minSendable":1.5,"maxSendable":2,` +
				`"metadata":"[[\"text/plain\",\"hi\"]]"}`,
			fields: []string{"minSendable"},
		},
		{
			name: "non numeric string",
			body: `{"tag":"payRequest","callback":"https://service.io/cb",` +
				`"minSendable":"lots","maxSendable":2,` +
				`"metadata":"[[\"text/plain\",\"hi\"]]"}`,
			fields: []string{"minSendable"},
		},
		{
			name: "min over max",
			body: `{"tag":"payRequest","callback":"https://service.io/cb",` +
				`"minSendable":3,"maxSendable":2,` +
				`"metadata":"[[\"text/plain\",\"hi\"]]"}`,
			fields: []string{"minSendable", "maxSendable"},
		},
		{
			name: "no text metadata",
			body: `{"tag":"payRequest","callback":"https://service.io/cb",` +
				`"minSendable":1,"maxSendable":2,` +
				`"metadata":"[[\"image/png;base64\",\"AAA\"]]"}`,
			fields: []string{"metadata"},
		},
		{
			name: "zaps without pubkey",
			body: `{"tag":"payRequest","callback":"https://service.io/cb",` +
				`"minSendable":1,"maxSendable":2,"allowsNostr":true,` +
				`"metadata":"[[\"text/plain\",\"hi\"]]"}`,
			fields: []string{"allowsNostr", "nostrPubkey"},
		},
		{
			name: "payer data auth without k1",
			body: `{"tag":"payRequest","callback":"https://service.io/cb",` +
				`"minSendable":1,"maxSendable":2,` +
				`"payerData":{"auth":{"mandatory":true}},` +
				`"metadata":"[[\"text/plain\",\"hi\"]]"}`,
			fields: []string{"payerData.auth.k1"},
		},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			_, err := ParseResponse([]byte(test.body))
			require.ErrorIs(t, err, ErrInvalidResponse)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			require.Equal(t, test.fields, vErr.Fields)
		})
	}
}

func TestPayActionResponse(t *testing.T) {
	r := mustParse(t, `{"pr":"`+testInvoice+`","routes":[],`+
		`"successAction":{"tag":"message","message":"thanks"},`+
		`"disposable":false,"verify":"https://service.io/verify/1"}`)

	p, ok := r.(*PayActionResponse)
	require.True(t, ok)
	require.Equal(t, testInvoice, p.PR)
	require.Equal(t, SuccessActionMessage, p.SuccessAction.Tag)
	require.Equal(t, "thanks", p.SuccessAction.Message)
	require.Empty(t, p.Routes)
	require.False(t, p.IsDisposable())
	require.Equal(t, "https://service.io/verify/1", p.Verify.String())

	// A missing disposable flag means the link is disposable.
	r = mustParse(t, `{"pr":"`+testInvoice+`"}`)
	require.True(t, r.(*PayActionResponse).IsDisposable())

	_, err := ParseResponse([]byte(`{"pr":"lnbc1notaninvoice","routes":[]}`))
	require.ErrorIs(t, err, ErrInvalidResponse)

	_, err = ParseResponse([]byte(`{"pr":"` + testInvoice + `",` +
		`"successAction":{"tag":"video"}}`))
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestSuccessActionValidation(t *testing.T) {
	long := string(make([]byte, maxActionText+1))

	_, err := NewMessageAction(long)
	require.ErrorIs(t, err, ErrInvalidResponse)

	u, err := ParseCallbackURL("https://service.io/order/1", nil)
	require.NoError(t, err)

	a, err := NewURLAction(u, "your order")
	require.NoError(t, err)
	require.Equal(t, SuccessActionURL, a.Tag)

	_, err = NewURLAction(nil, "your order")
	require.ErrorIs(t, err, ErrInvalidResponse)

	aes := &SuccessAction{
		Tag:         SuccessActionAES,
		Description: "secret",
		Ciphertext:  "AAAAAAAAAAAAAAAAAAAAAA==",
		IV:          "AAAA",
	}
	require.ErrorIs(t, aes.Validate(), ErrInvalidResponse)

	aes.IV = "AAAAAAAAAAAAAAAAAAAAAA=="
	require.NoError(t, aes.Validate())

	aes.Ciphertext = "AAAA"
	require.ErrorIs(t, aes.Validate(), ErrInvalidResponse)
}

func TestVerifyResponse(t *testing.T) {
	r := mustParse(t, `{"status":"OK","settled":true,`+
		`"preimage":"`+testK1+`","pr":"`+testInvoice+`"}`)

	v, ok := r.(*VerifyResponse)
	require.True(t, ok)
	require.True(t, v.Settled)
	require.Equal(t, testK1, v.Preimage)

	_, err := ParseResponse([]byte(`{"status":"OK","settled":true,` +
		`"preimage":"abcd","pr":"` + testInvoice + `"}`))
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestChannelResponses(t *testing.T) {
	r := mustParse(t, `{"tag":"channelRequest",`+
		`"uri":"`+testNodeKey+`@1.2.3.4:9735",`+
		`"callback":"https://service.io/channel","k1":"abc"}`)

	c, ok := r.(*ChannelResponse)
	require.True(t, ok)
	require.Equal(t, TagChannelRequest, c.Tag())
	require.Equal(t, "1.2.3.4", c.URI.Host)
	require.Equal(t, uint16(9735), c.URI.Port)
	require.Equal(t, testNodeKey+"@1.2.3.4:9735", c.URI.String())

	r = mustParse(t, `{"tag":"hostedChannelRequest",`+
		`"uri":"`+testNodeKey+`@[::1]:9735","k1":"abc","alias":"node"}`)

	h, ok := r.(*HostedChannelResponse)
	require.True(t, ok)
	require.Equal(t, "::1", h.URI.Host)
	require.Equal(t, "node", h.Alias)
	require.Equal(t, testNodeKey+"@[::1]:9735", h.URI.String())

	for _, uri := range []string{
		"1.2.3.4:9735",
		testNodeKey + "@1.2.3.4",
		testNodeKey + "@1.2.3.4:port",
		"02abcd@1.2.3.4:9735",
		testNodeKey + "@a@1.2.3.4:9735",
	} {
		_, err := ParseResponse([]byte(`{"tag":"hostedChannelRequest",` +
			`"uri":"` + uri + `","k1":"abc"}`))
		require.ErrorIs(t, err, ErrInvalidResponse, uri)
	}
}

func TestAuthResponse(t *testing.T) {
	r := mustParse(t, `{"tag":"login","callback":"https://service.io/auth",`+
		`"k1":"`+testK1+`","action":"register"}`)

	a, ok := r.(*AuthResponse)
	require.True(t, ok)
	require.Equal(t, AuthActionRegister, a.Action)

	for _, body := range []string{
		`{"tag":"login","callback":"https://service.io/auth","k1":"abc"}`,
		`{"tag":"login","callback":"https://service.io/auth",` +
			`"k1":"` + testK1 + `","action":"delete"}`,
	} {
		_, err := ParseResponse([]byte(body))
		require.ErrorIs(t, err, ErrInvalidResponse)
	}
}

func TestAuthResponseFromURL(t *testing.T) {
	l, err := Parse("keyauth://service.io/auth?tag=login&k1=" + testK1 +
		"&action=login")
	require.NoError(t, err)

	a, err := AuthResponseFromURL(l)
	require.NoError(t, err)
	require.Equal(t, testK1, a.K1)
	require.Equal(t, AuthActionLogin, a.Action)
	require.Equal(t, "https://service.io/auth?tag=login&k1="+testK1+
		"&action=login", a.Callback.String())

	l, err = Parse("https://service.io/pay")
	require.NoError(t, err)

	_, err = AuthResponseFromURL(l)
	require.ErrorIs(t, err, ErrInvalidLnurl)
}

func TestParseResponseNotJSON(t *testing.T) {
	for _, body := range []string{"", "<html>", "[]", `"ok"`} {
		_, err := ParseResponse([]byte(body))
		require.ErrorIs(t, err, ErrUnknownResponse, body)
	}
}

// testResponses returns one response of each kind with every optional field
// set.
func testResponses(t *testing.T) []Response {
	t.Helper()

	bodies := []string{
		`{"status":"ERROR","reason":"boom"}`,
		`{"status":"OK"}`,
		`{"tag":"payRequest","callback":"https://service.io/cb?id=1",` +
			`"minSendable":1000,"maxSendable":2000,` +
			`"metadata":"[[\"text/plain\",\"hi\"],[\"image/png;base64\",\"AAA\"]]",` +
			`"commentAllowed":10,"allowsNostr":true,` +
			`"nostrPubkey":"` + testK1 + `",` +
			`"payerData":{"name":{"mandatory":false},` +
			`"pubkey":{"mandatory":true},` +
			`"auth":{"mandatory":false,"k1":"` + testK1 + `"},` +
			`"extras":[{"name":"shipping","field":{"mandatory":true}}]}}`,
		`{"pr":"` + testInvoice + `",` +
			`"routes":[[{"nodeId":"` + testNodeKey + `","channelUpdate":"00"}]],` +
			`"successAction":{"tag":"aes","description":"secret",` +
			`"ciphertext":"AAAAAAAAAAAAAAAAAAAAAA==",` +
			`"iv":"AAAAAAAAAAAAAAAAAAAAAA=="},` +
			`"disposable":true,"verify":"https://service.io/v"}`,
		`{"pr":"` + testInvoice + `","successAction":` +
			`{"tag":"url","description":"d","url":"https://service.io/o"}}`,
		`{"status":"OK","pr":"` + testInvoice + `","settled":false}`,
		`{"tag":"withdrawRequest","callback":"https://a.com/cb",` +
			`"k1":"deadbeef","minWithdrawable":1000,` +
			`"maxWithdrawable":2000,"defaultDescription":"d",` +
			`"balanceCheck":"https://a.com/b","currentBalance":5,` +
			`"payLink":"alice@a.com"}`,
		`{"tag":"channelRequest","uri":"` + testNodeKey + `@1.2.3.4:9735",` +
			`"callback":"https://service.io/channel","k1":"abc"}`,
		`{"tag":"hostedChannelRequest",` +
			`"uri":"` + testNodeKey + `@host.io:9735","k1":"abc",` +
			`"alias":"node"}`,
		`{"tag":"login","callback":"https://service.io/auth",` +
			`"k1":"` + testK1 + `","action":"link"}`,
	}

	responses := make([]Response, 0, len(bodies))
	for _, body := range bodies {
		responses = append(responses, mustParse(t, body))
	}

	return responses
}

// TestSerializationSymmetry checks that responses survive a round trip in
// both key styles.
func TestSerializationSymmetry(t *testing.T) {
	for _, resp := range testResponses(t) {
		for _, style := range []KeyStyle{CamelCase, SnakeCase} {
			b, err := Marshal(resp, style)
			require.NoError(t, err)

			parsed, err := ParseResponse(b)
			require.NoError(t, err, string(b))
			require.Equal(t, resp, parsed, string(b))

			// FromDict accepts the map form directly.
			fromMap, err := FromDict(ToMap(resp, style))
			require.NoError(t, err)
			require.Equal(t, resp, fromMap)
		}

		// MarshalJSON matches the camelCase form.
		b, err := json.Marshal(resp)
		require.NoError(t, err)

		camel, err := Marshal(resp, CamelCase)
		require.NoError(t, err)
		require.JSONEq(t, string(camel), string(b))
	}
}

func TestKeyStyles(t *testing.T) {
	p := mustParse(t, testPayJSON)

	camel := ToMap(p, CamelCase)
	require.Contains(t, camel, "minSendable")
	require.Contains(t, camel, "commentAllowed")

	snake := ToMap(p, SnakeCase)
	require.Contains(t, snake, "min_sendable")
	require.Contains(t, snake, "comment_allowed")
	require.NotContains(t, snake, "minSendable")

	require.Equal(t, "min_sendable", snakeKey("minSendable"))
	require.Equal(t, "k1", snakeKey("k1"))
	require.Equal(t, "node_id", snakeKey("nodeId"))
	require.Equal(t, "minSendable", camelKey("min_sendable"))
	require.Equal(t, "nodeId", camelKey("node_id"))
	require.Equal(t, "tag", camelKey("tag"))
}

// TestCamelKeyWins pins which spelling is used when both are sent.
func TestCamelKeyWins(t *testing.T) {
	r := mustParse(t, `{"tag":"withdrawRequest",`+
		`"callback":"https://a.com/cb","k1":"deadbeef",`+
		`"minWithdrawable":1000,"min_withdrawable":1500,`+
		`"maxWithdrawable":2000}`)

	require.Equal(t, lnwire.MilliSatoshi(1000),
		r.(*WithdrawResponse).MinWithdrawable)
}

func TestResponseKindString(t *testing.T) {
	require.Equal(t, "pay", KindPay.String())
	require.Equal(t, "payAction", KindPayAction.String())
	require.Equal(t, "unknown(42)", ResponseKind(42).String())
}
