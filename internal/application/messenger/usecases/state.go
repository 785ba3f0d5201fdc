package usecases

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// State is the continuation data carried through the Facebook redirect.
type State struct {
	Domain      string `json:"domain"`
	LicenseKey  string `json:"licenseKey"`
	RedirectURI string `json:"redirect_uri,omitempty"`
}

// StateCodec turns a State into the opaque `state` query value and back.
type StateCodec interface {
	Encode(s State) (string, error)
	Decode(raw string) (State, error)
}

var errUndecodableState = errors.New("state is not valid base64 JSON")

// Base64JSONCodec is the unsigned wire format the WordPress plugin already
// depends on: standard base64 of the JSON object.
type Base64JSONCodec struct{}

func (Base64JSONCodec) Encode(s State) (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode state: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decode accepts padded and unpadded, standard and URL-safe alphabets. A
// '+' turned into a space by form decoding is restored.
func (Base64JSONCodec) Decode(raw string) (State, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), " ", "+")
	if raw == "" {
		return State{}, errUndecodableState
	}

	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	}
	for _, enc := range encodings {
		data, err := enc.DecodeString(raw)
		if err != nil {
			continue
		}
		var s State
		if err := json.Unmarshal(data, &s); err != nil {
			return State{}, fmt.Errorf("%w: %v", errUndecodableState, err)
		}
		return s, nil
	}
	return State{}, errUndecodableState
}

// SignedStateCodec issues the state as an HS256 JWT so a callback cannot be
// forged for another site. Plugins treat the value as opaque.
type SignedStateCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

const stateIssuer = "ns-ai-search-console/connect"

type stateClaims struct {
	State
	jwt.RegisteredClaims
}

func NewSignedStateCodec(secret string, ttl time.Duration) *SignedStateCodec {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &SignedStateCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (c *SignedStateCodec) Encode(s State) (string, error) {
	now := c.now()
	claims := stateClaims{
		State: s,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    stateIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign state: %w", err)
	}
	return signed, nil
}

func (c *SignedStateCodec) Decode(raw string) (State, error) {
	var claims stateClaims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(stateIssuer),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return State{}, fmt.Errorf("invalid signed state: %w", err)
	}
	return claims.State, nil
}
