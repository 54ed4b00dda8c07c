// Package totp implements RFC 6238 time-based one-time passwords for the
// two-factor authentication step: shared-secret generation, otpauth://
// provisioning URIs, QR code rendering, and code verification within a
// clock-skew window.
package totp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

const (
	// SecretLength is the raw shared-secret size in bytes.
	SecretLength = 20

	// Digits is the length of a generated code.
	Digits = 6

	// Period is the time-step size in seconds. Must match whatever the
	// registration-time provisioning URI advertises.
	Period = 30

	// DefaultWindow is the default clock-skew tolerance in time steps on
	// each side of the current step.
	DefaultWindow = 1
)

// b32 is the unpadded base32 alphabet used by authenticator apps.
var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// Secret is the result of generating a new shared secret at registration.
// Both fields are returned to the user exactly once and never again.
type Secret struct {
	// Base32 is the unpadded base32 encoding of the raw secret, suitable
	// for manual entry into an authenticator app.
	Base32 string

	// ProvisioningURI is the otpauth:// URI embeddable in a QR code.
	ProvisioningURI string
}

// Engine generates and verifies TOTP codes. The issuer is embedded in every
// provisioning URI so authenticator apps can disambiguate accounts.
//
// No replay-window state is tracked across calls — every verification is
// independently evaluated against the current time, so a valid code can be
// reused within its window.
type Engine struct {
	issuer string
}

// NewEngine constructs an [Engine] labelling provisioning URIs with the given
// issuer (typically the application name).
func NewEngine(issuer string) *Engine {
	return &Engine{issuer: issuer}
}

// GenerateSecret produces a new random shared secret and its provisioning
// URI, scoped with the given account label (typically the user's email).
//
// The URI advertises SHA1, 6 digits and a 30-second period — the parameters
// [VerifyCode] evaluates against.
func (e *Engine) GenerateSecret(account string) (Secret, error) {
	raw := make([]byte, SecretLength)
	if _, err := rand.Read(raw); err != nil {
		return Secret{}, fmt.Errorf("error generating totp secret: %w", err)
	}

	encoded := b32.EncodeToString(raw)

	return Secret{
		Base32:          encoded,
		ProvisioningURI: e.provisioningURI(encoded, account),
	}, nil
}

// provisioningURI builds an otpauth://totp/ URI for the given secret and
// account label.
func (e *Engine) provisioningURI(secretBase32, account string) string {
	label := url.PathEscape(fmt.Sprintf("%s (%s)", e.issuer, account))

	v := url.Values{}
	v.Set("secret", secretBase32)
	v.Set("issuer", e.issuer)
	v.Set("period", strconv.Itoa(Period))
	v.Set("digits", strconv.Itoa(Digits))
	v.Set("algorithm", "SHA1")

	return "otpauth://totp/" + label + "?" + v.Encode()
}

// VerifyCode reports whether the submitted code is valid for the given
// base32-encoded secret at the current time, tolerating the given number of
// time steps of clock skew on each side.
//
// Codes that are not exactly six ASCII digits are rejected before any
// cryptographic work. Comparison against candidate codes is constant-time.
func (e *Engine) VerifyCode(secretBase32, code string, window int) (bool, error) {
	return e.verifyCodeAt(secretBase32, code, window, time.Now())
}

// verifyCodeAt is the clock-injected core of [Engine.VerifyCode].
func (e *Engine) verifyCodeAt(secretBase32, code string, window int, now time.Time) (bool, error) {
	if !IsCodeShaped(code) {
		return false, nil
	}

	secret, err := b32.DecodeString(secretBase32)
	if err != nil {
		return false, fmt.Errorf("error decoding totp secret: %w", err)
	}
	if len(secret) == 0 {
		return false, fmt.Errorf("empty totp secret")
	}

	baseCounter := now.Unix() / Period
	for step := -window; step <= window; step++ {
		counter := baseCounter + int64(step)
		if counter < 0 {
			continue
		}

		candidate := hotpCode(secret, counter)
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(code)) == 1 {
			return true, nil
		}
	}

	return false, nil
}

// IsCodeShaped reports whether code is exactly [Digits] ASCII digits.
func IsCodeShaped(code string) bool {
	if len(code) != Digits {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// hotpCode computes the RFC 4226 HOTP value for the given counter using
// HMAC-SHA1 and dynamic truncation.
func hotpCode(secret []byte, counter int64) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))

	mac := hmac.New(sha1.New, secret)
	_, _ = mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	bin := (int(sum[offset])&0x7f)<<24 |
		(int(sum[offset+1])&0xff)<<16 |
		(int(sum[offset+2])&0xff)<<8 |
		(int(sum[offset+3]) & 0xff)

	mod := 1
	for i := 0; i < Digits; i++ {
		mod *= 10
	}

	return fmt.Sprintf("%0*d", Digits, bin%mod)
}
