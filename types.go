package lnurl

import "fmt"

// Tag is the type of an LNURL response, sent in its "tag" field.
type Tag string

const (
	// TagLogin is an LNURL-auth request (LUD-04).
	TagLogin Tag = "login"

	// TagChannelRequest is an LNURL-channel request (LUD-02).
	TagChannelRequest Tag = "channelRequest"

	// TagHostedChannelRequest is an LNURL-hosted-channel request (LUD-07).
	TagHostedChannelRequest Tag = "hostedChannelRequest"

	// TagPayRequest is an LNURL-pay request (LUD-06).
	TagPayRequest Tag = "payRequest"

	// TagWithdrawRequest is an LNURL-withdraw request (LUD-03).
	TagWithdrawRequest Tag = "withdrawRequest"
)

// Status is the value of the "status" field of plain success and error
// responses.
type Status string

const (
	StatusOK    Status = "OK"
	StatusError Status = "ERROR"
)

// ResponseKind identifies the concrete type of a Response.
type ResponseKind uint8

const (
	KindError ResponseKind = iota
	KindSuccess
	KindPay
	KindPayAction
	KindVerify
	KindWithdraw
	KindChannel
	KindHostedChannel
	KindAuth
)

func (k ResponseKind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindSuccess:
		return "success"
	case KindPay:
		return "pay"
	case KindPayAction:
		return "payAction"
	case KindVerify:
		return "verify"
	case KindWithdraw:
		return "withdraw"
	case KindChannel:
		return "channel"
	case KindHostedChannel:
		return "hostedChannel"
	case KindAuth:
		return "auth"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// SuccessActionTag is the type of a pay success action (LUD-09, LUD-10).
type SuccessActionTag string

const (
	SuccessActionMessage SuccessActionTag = "message"
	SuccessActionURL     SuccessActionTag = "url"
	SuccessActionAES     SuccessActionTag = "aes"
)

// AuthAction is the optional action of an LNURL-auth request.
type AuthAction string

const (
	AuthActionRegister AuthAction = "register"
	AuthActionLogin    AuthAction = "login"
	AuthActionLink     AuthAction = "link"
	AuthActionAuth     AuthAction = "auth"
)

func (a AuthAction) valid() bool {
	switch a {
	case AuthActionRegister, AuthActionLogin, AuthActionLink,
		AuthActionAuth:

		return true
	}

	return false
}
