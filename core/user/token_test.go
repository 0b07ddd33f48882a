package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/brightacademy/core"
)

func TestTokenGenerator(t *testing.T) {
	conf := &core.Config{SecretKey: "s3cr3t", PasswordResetTimeoutDelta: 3 * 24 * time.Hour}
	gen := NewTokenGenerator(conf)

	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	core.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { core.NowFunc = time.Now })

	usr := User{ID: "5b1c", PasswordHash: []byte("hash")}
	token := gen.MakeToken(usr)
	require.NoError(t, gen.Verify(usr, token))

	t.Run("uid round trip", func(t *testing.T) {
		id, err := DecodeUID(EncodeUID(usr))
		require.NoError(t, err)
		assert.Equal(t, usr.ID, id)

		_, err = DecodeUID("%%%")
		assert.Equal(t, ErrInvalidToken, err)
	})

	tests := []struct {
		name  string
		usr   User
		token string
		gen   *TokenGenerator
		now   time.Time
		want  error
	}{
		{name: "within timeout", usr: usr, token: token, now: now.Add(72 * time.Hour)},
		{name: "expired", usr: usr, token: token, now: now.Add(96 * time.Hour), want: ErrTokenExpired},
		{name: "empty", usr: usr, want: ErrInvalidToken},
		{name: "tampered", usr: usr, token: token + "x", want: ErrInvalidToken},
		{name: "other user", usr: User{ID: "9f0e", PasswordHash: []byte("hash")}, token: token, want: ErrInvalidToken},
		{name: "password changed", usr: User{ID: "5b1c", PasswordHash: []byte("new")}, token: token, want: ErrInvalidToken},
		{name: "logged in since", usr: User{ID: "5b1c", PasswordHash: []byte("hash"), LastLogin: now}, token: token, want: ErrInvalidToken},
		{
			name: "other secret", usr: usr, token: token, want: ErrInvalidToken,
			gen: NewTokenGenerator(&core.Config{SecretKey: "other", PasswordResetTimeoutDelta: conf.PasswordResetTimeoutDelta}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.now.IsZero() {
				core.NowFunc = func() time.Time { return tt.now }
				defer func() { core.NowFunc = func() time.Time { return now } }()
			}
			g := gen
			if tt.gen != nil {
				g = tt.gen
			}
			assert.Equal(t, tt.want, g.Verify(tt.usr, tt.token))
		})
	}
}
