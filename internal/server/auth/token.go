package auth

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/triptales/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload carried by a session token. Field order defines the
// wire layout of the encoded body.
type Claims struct {
	UserID   int64  `json:"uid"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Expiry   int64  `json:"exp"`
}

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.Expiry, 0)), nil
}

func (c Claims) GetIssuedAt() (*jwt.NumericDate, error)  { return nil, nil }
func (c Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c Claims) GetIssuer() (string, error)              { return "", nil }
func (c Claims) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

func (c Claims) GetSubject() (string, error) {
	return strconv.FormatInt(c.UserID, 10), nil
}

// TokenCodec issues and verifies session tokens of the form
// base64url(json claims) "." hex(hmac-sha256(secret, body)).
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type TokenOption func(*TokenCodec)

// WithClock replaces the wall clock used for issuing and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(c *TokenCodec) { c.now = now }
}

func NewTokenCodec(secret string, ttl time.Duration, opts ...TokenOption) *TokenCodec {
	c := &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *TokenCodec) TTL() time.Duration { return c.ttl }

func (c *TokenCodec) Issue(userID int64, email, fullName, role string) (string, error) {
	claims := Claims{
		UserID:   userID,
		Email:    email,
		FullName: fullName,
		Role:     role,
		Expiry:   c.now().Unix() + int64(c.ttl/time.Second),
	}

	raw, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("encode claims: %w", err)
	}

	body := base64.RawURLEncoding.EncodeToString(raw)
	sig, err := c.sign(body)
	if err != nil {
		return "", err
	}

	return body + "." + sig, nil
}

func (c *TokenCodec) sign(body string) (string, error) {
	sig, err := jwt.SigningMethodHS256.Sign(body, c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return hex.EncodeToString(sig), nil
}

// Verify checks the signature first, then decodes the payload, then checks
// expiry. A token is accepted strictly before its exp second.
func (c *TokenCodec) Verify(token string) (*Claims, error) {
	body, sigHex, ok := strings.Cut(token, ".")
	if !ok {
		return nil, common.ErrInvalidSignature
	}

	// Only canonical lowercase hex is accepted so that every distinct
	// signature string maps to a distinct byte sequence.
	sig, err := hex.DecodeString(sigHex)
	if err != nil || hex.EncodeToString(sig) != sigHex {
		return nil, common.ErrInvalidSignature
	}

	if err := jwt.SigningMethodHS256.Verify(body, sig, c.secret); err != nil {
		return nil, common.ErrInvalidSignature
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(body, "="))
	if err != nil {
		return nil, common.ErrInvalidPayload
	}

	var claims Claims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, common.ErrInvalidPayload
	}

	v := jwt.NewValidator(jwt.WithTimeFunc(c.now))
	if err := v.Validate(claims); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidPayload
	}

	return &claims, nil
}
