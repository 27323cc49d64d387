package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siagacs/siaga-admin/internal/authz"
)

func TestSession_TokenRoundTrip(t *testing.T) {
	s := New(NewMemoryStore(), nil)

	_, ok := s.Token()
	assert.False(t, ok)
	assert.False(t, s.IsAuthenticated())

	require.NoError(t, s.SetToken("eyJ.abc.def"))
	token, ok := s.Token()
	require.True(t, ok)
	assert.Equal(t, "eyJ.abc.def", token)
	assert.True(t, s.IsAuthenticated())

	require.NoError(t, s.Clear())
	token, ok = s.Token()
	assert.False(t, ok)
	assert.Empty(t, token)
}

func TestSession_ClearDropsUser(t *testing.T) {
	s := New(NewMemoryStore(), nil)
	require.NoError(t, s.SetToken("tok"))
	s.SetUser(&User{ID: 1, Name: "Ana", Permissions: []string{"SATPAM_VIEW"}})

	require.NotNil(t, s.User())
	assert.True(t, s.Permissions().CanView(authz.FeatureSatpam))

	require.NoError(t, s.Clear())
	assert.Nil(t, s.User())
	assert.True(t, s.Permissions().Empty())
}

func TestSession_TokenChangeDropsUser(t *testing.T) {
	s := New(NewMemoryStore(), nil)
	require.NoError(t, s.SetToken("first"))
	s.SetUser(&User{ID: 1})

	require.NoError(t, s.SetToken("first"))
	assert.NotNil(t, s.User(), "same token keeps the profile")

	require.NoError(t, s.SetToken("second"))
	assert.Nil(t, s.User(), "new token must not inherit the old profile")
}

func TestSession_SetEmptyTokenClears(t *testing.T) {
	s := New(NewMemoryStore(), nil)
	require.NoError(t, s.SetToken("tok"))
	require.NoError(t, s.SetToken(""))
	assert.False(t, s.IsAuthenticated())
}

func TestSession_UserIsCopied(t *testing.T) {
	s := New(NewMemoryStore(), nil)
	u := &User{ID: 7, Permissions: []string{"SHIFT_VIEW"}}
	s.SetUser(u)

	u.Permissions[0] = "ADMIN_MANAGE"
	got := s.User()
	require.NotNil(t, got)
	assert.Equal(t, []string{"SHIFT_VIEW"}, got.Permissions)

	got.Permissions[0] = "ADMIN_MANAGE"
	assert.False(t, s.Permissions().CanManage(authz.FeatureAdmin))
}

func TestSession_ConcurrentClear(t *testing.T) {
	s := New(NewMemoryStore(), nil)
	require.NoError(t, s.SetToken("tok"))
	s.SetUser(&User{ID: 1})

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Clear()
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
}

type failingStore struct{ err error }

func (f failingStore) Get(string) (string, error) { return "", f.err }
func (f failingStore) Put(string, string) error { return f.err }
func (f failingStore) Delete(string) error { return f.err }

func TestSession_StoreFailures(t *testing.T) {
	boom := errors.New("disk full")
	s := New(failingStore{err: boom}, nil)

	_, ok := s.Token()
	assert.False(t, ok, "unreadable store counts as signed out")
	assert.ErrorIs(t, s.SetToken("tok"), boom)
	assert.ErrorIs(t, s.Clear(), boom)
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()

	_, err := m.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Put("k", "v"))
	v, err := m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Delete("k"))
	require.NoError(t, m.Delete("k"))
	assert.Equal(t, 0, m.Len())
}

func TestInspectToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 42,
		"iss": "siaga-cs",
		"exp": exp.Unix(),
	}).SignedString([]byte("unused-by-inspection"))
	require.NoError(t, err)

	info, ok := InspectToken(signed)
	require.True(t, ok)
	assert.Equal(t, "42", info.Subject)
	assert.Equal(t, "siaga-cs", info.Issuer)
	require.NotNil(t, info.ExpiresAt)
	assert.True(t, exp.Equal(*info.ExpiresAt))
	assert.False(t, info.Expired(time.Now()))
	assert.True(t, info.Expired(exp.Add(time.Minute)))

	_, ok = InspectToken("opaque-session-token")
	assert.False(t, ok)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("token-a")
	assert.Len(t, a, 12)
	assert.Equal(t, a, Fingerprint("token-a"))
	assert.NotEqual(t, a, Fingerprint("token-b"))
	assert.NotContains(t, a, "token")
	assert.Empty(t, Fingerprint(""))
}
