package lnurl

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcutil/hdkeychain"
)

const (
	keyAction = "action"

	// authPurpose is the hardened BIP-32 purpose of LNURL-auth keys
	// (LUD-05).
	authPurpose = hdkeychain.HardenedKeyStart + 138

	k1Length = 32
)

var errK1 = errors.New("expected a 32 byte hex k1")

// AuthResponse is an LNURL-auth request (LUD-04). Services don't send it,
// it is read from the query of a login LNURL.
type AuthResponse struct {
	Callback *URL
	K1       string
	Action   AuthAction
}

// AuthResponseFromURL reads an auth request from a login LNURL.
func AuthResponseFromURL(l *Lnurl) (*AuthResponse, error) {
	if !l.IsLogin() {
		return nil, fmt.Errorf("%w: not a login url", ErrInvalidLnurl)
	}

	q := l.URL().QueryParams()
	a := &AuthResponse{
		Callback: l.CallbackURL(),
		K1:       q[keyK1],
		Action:   AuthAction(q[keyAction]),
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	return a, nil
}

func parseAuthResponse(f fields, c *Codec) (*AuthResponse, error) {
	var (
		a   AuthResponse
		err error
	)

	if a.Callback, err = f.requiredURL(keyCallback, c); err != nil {
		return nil, err
	}
	if a.K1, err = f.requiredStr(keyK1); err != nil {
		return nil, err
	}

	action, _, err := f.str(keyAction)
	if err != nil {
		return nil, err
	}
	a.Action = AuthAction(action)

	if err := a.Validate(); err != nil {
		return nil, err
	}

	return &a, nil
}

func (a *AuthResponse) Kind() ResponseKind { return KindAuth }
func (a *AuthResponse) Tag() Tag           { return TagLogin }
func (a *AuthResponse) OK() bool           { return true }

// Validate checks the field invariants of the response.
func (a *AuthResponse) Validate() error {
	switch {
	case a.Callback == nil:
		return newValidationError(errMissing, keyCallback)

	case a.Callback.IsLUD17():
		return newValidationError(ErrInvalidURL, keyCallback)

	case !isHexBytes(a.K1, k1Length):
		return newValidationError(errK1, keyK1)

	case a.Action != "" && !a.Action.valid():
		return newValidationError(
			fmt.Errorf("unknown action %q", a.Action), keyAction,
		)
	}

	return nil
}

func (a *AuthResponse) toMap() map[string]interface{} {
	m := map[string]interface{}{
		keyTag:      string(TagLogin),
		keyCallback: a.Callback.String(),
		keyK1:       a.K1,
	}
	if a.Action != "" {
		m[keyAction] = string(a.Action)
	}

	return m
}

// MarshalJSON encodes the response with camelCase keys.
func (a *AuthResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.toMap())
}

// LinkingPath is the non-purpose part of a linking key derivation path.
type LinkingPath [4]uint32

// String returns the full path, e.g. m/138'/1/2/3/4.
func (p LinkingPath) String() string {
	return fmt.Sprintf("m/138'/%d/%d/%d/%d", p[0], p[1], p[2], p[3])
}

// DerivationPath returns the linking key path for domain: the first 16
// bytes of HMAC-SHA256(hashingKey, domain) read as four big-endian
// integers.
func DerivationPath(hashingKey []byte, domain string) LinkingPath {
	mac := hmac.New(sha256.New, hashingKey)
	mac.Write([]byte(domain))
	sum := mac.Sum(nil)

	var path LinkingPath
	for i := range path {
		path[i] = binary.BigEndian.Uint32(sum[i*4:])
	}

	return path
}

// DeriveLinkingKey derives the LNURL-auth linking key of domain from a
// wallet seed (LUD-05).
func DeriveLinkingKey(seed []byte, domain string) (*btcec.PrivateKey,
	error) {

	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, err
	}

	purpose, err := master.Derive(authPurpose)
	if err != nil {
		return nil, err
	}

	hashing, err := purpose.Derive(0)
	if err != nil {
		return nil, err
	}

	hashingKey, err := hashing.ECPrivKey()
	if err != nil {
		return nil, err
	}

	key := purpose
	for _, i := range DerivationPath(hashingKey.Serialize(), domain) {
		key, err = key.Derive(i)
		if err != nil {
			return nil, err
		}
	}

	return key.ECPrivKey()
}

// DeriveLinkingKeyFromSignature derives the linking key of domain from a
// deterministic signature of the LUD-13 canonical phrase.
func DeriveLinkingKeyFromSignature(sig []byte,
	domain string) *btcec.PrivateKey {

	hashingKey := sha256.Sum256(sig)

	mac := hmac.New(sha256.New, hashingKey[:])
	mac.Write([]byte(domain))

	priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), mac.Sum(nil))

	return priv
}

// SignChallenge signs k1 with the linking key and returns the hex encoded
// compressed public key and DER signature the service expects.
func SignChallenge(k1 string, linkingKey *btcec.PrivateKey) (string,
	string, error) {

	challenge, err := hex.DecodeString(k1)
	if err != nil || len(challenge) != k1Length {
		return "", "", errK1
	}

	sig, err := linkingKey.Sign(challenge)
	if err != nil {
		return "", "", err
	}

	return hex.EncodeToString(linkingKey.PubKey().SerializeCompressed()),
		hex.EncodeToString(sig.Serialize()), nil
}

// VerifyChallenge reports whether sig is a valid signature of k1 by key,
// all hex encoded.
func VerifyChallenge(k1, key, sig string) bool {
	challenge, err := hex.DecodeString(k1)
	if err != nil {
		return false
	}

	keyBytes, err := hex.DecodeString(key)
	if err != nil {
		return false
	}

	sigBytes, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}

	pubKey, err := btcec.ParsePubKey(keyBytes, btcec.S256())
	if err != nil {
		return false
	}

	signature, err := btcec.ParseDERSignature(sigBytes, btcec.S256())
	if err != nil {
		return false
	}

	return signature.Verify(challenge, pubKey)
}
