package user

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/trezcool/brightacademy/core"
)

var (
	tokenSalt = []byte("brightacademy.core.user.token")
	b32       = base32.StdEncoding.WithPadding(base32.NoPadding)

	// errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// TokenGenerator makes and checks single use password reset tokens.
// A token is bound to the user's password hash and last login, so it stops working once either changes.
type TokenGenerator struct {
	key     [32]byte
	timeout time.Duration
}

func NewTokenGenerator(conf *core.Config) *TokenGenerator {
	return &TokenGenerator{
		key:     sha256.Sum256(append(append([]byte{}, tokenSalt...), conf.SecretKey...)),
		timeout: conf.PasswordResetTimeoutDelta,
	}
}

// EncodeUID base64 encodes the User ID for use in URLs.
func EncodeUID(usr User) string {
	return base64.RawURLEncoding.EncodeToString([]byte(usr.ID))
}

func DecodeUID(uid string) (string, error) {
	id, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return "", ErrInvalidToken
	}
	return string(id), nil
}

func (g *TokenGenerator) MakeToken(usr User) string {
	return g.makeToken(usr, daysSince2001(core.NowFunc()))
}

func (g *TokenGenerator) Verify(usr User, token string) error {
	parts := strings.SplitN(token, "-", 2)
	if len(parts) < 2 {
		return ErrInvalidToken
	}
	data, err := b32.DecodeString(parts[0])
	if err != nil {
		return ErrInvalidToken
	}
	ts, err := strconv.Atoi(string(data))
	if err != nil {
		return ErrInvalidToken
	}

	if subtle.ConstantTimeCompare([]byte(g.makeToken(usr, ts)), []byte(token)) == 0 {
		return ErrInvalidToken
	}
	if daysSince2001(core.NowFunc())-ts > int(g.timeout/(24*time.Hour)) {
		return ErrTokenExpired
	}
	return nil
}

func (g *TokenGenerator) makeToken(usr User, ts int) string {
	var val bytes.Buffer
	val.WriteString(usr.ID)
	val.Write(usr.PasswordHash)
	if !usr.LastLogin.IsZero() {
		val.WriteString(usr.LastLogin.UTC().Format(time.RFC3339Nano))
	}
	val.WriteString(strconv.Itoa(ts))

	h := hmac.New(sha256.New, g.key[:])
	_, _ = h.Write(val.Bytes())
	return b32.EncodeToString([]byte(strconv.Itoa(ts))) + "-" + base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func daysSince2001(t time.Time) int {
	ref := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(math.Ceil(t.Sub(ref).Hours() / 24))
}
