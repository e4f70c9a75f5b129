package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	uid := uuid.New()

	raw, issued, err := issuer.Issue(uid, "Manager", "m@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := issuer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Manager", claims.EffectiveRole())
	assert.Equal(t, issued.ID, claims.ID)

	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uid, got)
}

func TestParse_WrongSecret(t *testing.T) {
	raw, _, err := NewIssuer("a", time.Hour).Issue(uuid.New(), "Admin", "")
	require.NoError(t, err)

	_, err = NewIssuer("b", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParse_Expired(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute)
	start := time.Now()
	issuer.now = func() time.Time { return start }
	raw, _, err := issuer.Issue(uuid.New(), "Admin", "")
	require.NoError(t, err)

	issuer.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = issuer.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParse_RejectsNonHMAC(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"role": "Admin"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewIssuer("secret", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestEffectiveRole_Fallbacks(t *testing.T) {
	assert.Equal(t, "Staff", (&Claims{RoleName: "Staff"}).EffectiveRole())
	assert.Equal(t, "Viewer", (&Claims{Roles: []string{"Viewer", "Admin"}}).EffectiveRole())
	assert.Equal(t, "Admin", (&Claims{Role: "Admin", RoleName: "Staff"}).EffectiveRole())
	assert.Empty(t, (&Claims{}).EffectiveRole())
}

func TestRemaining(t *testing.T) {
	now := time.Now()
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}}
	assert.InDelta(t, time.Hour.Seconds(), c.Remaining(now).Seconds(), 1)
	assert.Zero(t, c.Remaining(now.Add(2*time.Hour)))
	assert.Zero(t, (&Claims{}).Remaining(now))
}
