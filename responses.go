package lnurl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	keyTag     = "tag"
	keyStatus  = "status"
	keyReason  = "reason"
	keyPR      = "pr"
	keySettled = "settled"
)

// Response is one of the LNURL responses: *PayResponse, *PayActionResponse,
// *VerifyResponse, *WithdrawResponse, *ChannelResponse,
// *HostedChannelResponse, *AuthResponse, *SuccessResponse or
// *ErrorResponse.
type Response interface {
	// Kind returns the concrete response type.
	Kind() ResponseKind

	// Tag returns the response tag, empty for responses without one.
	Tag() Tag

	// OK is false only for error responses.
	OK() bool

	// Validate checks the field invariants of the response.
	Validate() error

	// toMap returns the wire form with camelCase keys.
	toMap() map[string]interface{}
}

// Classify decides which response type data holds without validating it.
// An error status wins over everything else, then the tag, then the
// presence of a payment request, then an OK status.
func Classify(data map[string]interface{}) (ResponseKind, error) {
	return classify(fields(normalizeKeys(data)))
}

func classify(f fields) (ResponseKind, error) {
	status, _ := f[keyStatus].(string)
	if strings.EqualFold(status, string(StatusError)) {
		return KindError, nil
	}

	if f.has(keyTag) {
		tag, ok := f[keyTag].(string)
		if !ok {
			return 0, fmt.Errorf("%w: tag is a %T", ErrUnknownResponse,
				f[keyTag])
		}

		switch Tag(tag) {
		case TagPayRequest:
			return KindPay, nil
		case TagWithdrawRequest:
			return KindWithdraw, nil
		case TagChannelRequest:
			return KindChannel, nil
		case TagHostedChannelRequest:
			return KindHostedChannel, nil
		case TagLogin:
			return KindAuth, nil
		}

		return 0, fmt.Errorf("%w: unknown tag %q", ErrUnknownResponse,
			tag)
	}

	if f.has(keyPR) {
		if f.has(keySettled) {
			return KindVerify, nil
		}

		return KindPayAction, nil
	}

	if strings.EqualFold(status, string(StatusOK)) {
		return KindSuccess, nil
	}

	return 0, fmt.Errorf("%w: no tag or status", ErrUnknownResponse)
}

// FromDict classifies and validates a decoded JSON object. Keys may be
// camelCase or snake_case.
func (c *Codec) FromDict(data map[string]interface{}) (Response, error) {
	f := fields(normalizeKeys(data))

	kind, err := classify(f)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindError:
		return parseErrorResponse(f)
	case KindSuccess:
		return &SuccessResponse{}, nil
	case KindPay:
		return parsePayResponse(f, c)
	case KindPayAction:
		return parsePayActionResponse(f, c)
	case KindVerify:
		return parseVerifyResponse(f)
	case KindWithdraw:
		return parseWithdrawResponse(f, c)
	case KindChannel:
		return parseChannelResponse(f, c)
	case KindHostedChannel:
		return parseHostedChannelResponse(f)
	case KindAuth:
		return parseAuthResponse(f, c)
	}

	return nil, fmt.Errorf("%w: %v", ErrUnknownResponse, kind)
}

// ParseResponse decodes a JSON response body and passes it to FromDict.
func (c *Codec) ParseResponse(body []byte) (Response, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var data map[string]interface{}
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownResponse, err)
	}

	return c.FromDict(data)
}

// FromDict classifies and validates data with the default configuration.
func FromDict(data map[string]interface{}) (Response, error) {
	return NewCodec(nil).FromDict(data)
}

// ParseResponse parses a JSON response body with the default
// configuration.
func ParseResponse(body []byte) (Response, error) {
	return NewCodec(nil).ParseResponse(body)
}

// ToMap returns the wire form of resp with keys spelled in style.
func ToMap(resp Response, style KeyStyle) map[string]interface{} {
	return styleKeys(resp.toMap(), style)
}

// Marshal encodes resp as JSON with keys spelled in style.
func Marshal(resp Response, style KeyStyle) ([]byte, error) {
	return json.Marshal(ToMap(resp, style))
}

// ErrorResponse is returned by a service when a request failed.
type ErrorResponse struct {
	Reason string
}

// NewErrorResponse returns an error response carrying reason.
func NewErrorResponse(reason string) *ErrorResponse {
	return &ErrorResponse{Reason: reason}
}

func parseErrorResponse(f fields) (*ErrorResponse, error) {
	reason, err := f.requiredStr(keyReason)
	if err != nil {
		return nil, err
	}

	return &ErrorResponse{Reason: reason}, nil
}

func (e *ErrorResponse) Kind() ResponseKind { return KindError }
func (e *ErrorResponse) Tag() Tag           { return "" }
func (e *ErrorResponse) OK() bool           { return false }
func (e *ErrorResponse) Validate() error    { return nil }

func (e *ErrorResponse) toMap() map[string]interface{} {
	return map[string]interface{}{
		keyStatus: string(StatusError),
		keyReason: e.Reason,
	}
}

// MarshalJSON encodes the response with camelCase keys.
func (e *ErrorResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.toMap())
}

// SuccessResponse is the plain {"status": "OK"} response.
type SuccessResponse struct{}

func (s *SuccessResponse) Kind() ResponseKind { return KindSuccess }
func (s *SuccessResponse) Tag() Tag           { return "" }
func (s *SuccessResponse) OK() bool           { return true }
func (s *SuccessResponse) Validate() error    { return nil }

func (s *SuccessResponse) toMap() map[string]interface{} {
	return map[string]interface{}{
		keyStatus: string(StatusOK),
	}
}

// MarshalJSON encodes the response with camelCase keys.
func (s *SuccessResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.toMap())
}
