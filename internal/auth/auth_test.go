package auth

import (
	"testing"
	"time"

	"github.com/lepinkainen/libris/internal/errors"
	"github.com/lepinkainen/libris/internal/library"
	"github.com/lepinkainen/libris/internal/recordstore"
	"github.com/lepinkainen/libris/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = func() time.Time { return time.Date(2025, 5, 10, 9, 30, 0, 0, time.Local) }

func newTestAuthenticator(t *testing.T, opts Options) (*Authenticator, *recordstore.Store[library.Member]) {
	t.Helper()

	orig := hashCost
	hashCost = bcrypt.MinCost
	t.Cleanup(func() { hashCost = orig })

	env := testutil.NewTestEnv(t)
	members, err := recordstore.New(env.Path("data", "members.csv"), library.MemberCodec, recordstore.Options{})
	require.NoError(t, err)

	if opts.Now == nil {
		opts.Now = fixedNow
	}
	if opts.AttemptWindow == 0 {
		opts.AttemptWindow = -1
	}
	return New(members, opts), members
}

func TestHashPassword(t *testing.T) {
	orig := hashCost
	hashCost = bcrypt.MinCost
	t.Cleanup(func() { hashCost = orig })

	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)
	assert.True(t, CheckPassword(hash, "secret"))
	assert.False(t, CheckPassword(hash, "Secret"))

	// salted: same password, different hash
	again, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)

	assert.False(t, CheckPassword("not-a-hash", "secret"))
}

func TestRegisterAssignsSequentialIDs(t *testing.T) {
	a, members := newTestAuthenticator(t, Options{})

	created, err := a.EnsureAdmin("library123")
	require.NoError(t, err)
	require.True(t, created)

	first, err := a.Register("Ada Lovelace", "pw1", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "1001", first.MemberID)
	assert.Equal(t, "2025-05-10", first.JoinDate)
	assert.True(t, CheckPassword(first.PasswordHash, "pw1"))

	second, err := a.Register("Alan Turing", "pw2", "alan@example.com")
	require.NoError(t, err)
	assert.Equal(t, "1002", second.MemberID)

	all, err := members.ReadAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"admin", "1001", "1002"}, []string{all[0].MemberID, all[1].MemberID, all[2].MemberID})
}

func TestRegisterCustomStartID(t *testing.T) {
	a, _ := newTestAuthenticator(t, Options{StartID: 5000})

	m, err := a.Register("Grace Hopper", "pw", "grace@example.com")
	require.NoError(t, err)
	assert.Equal(t, "5000", m.MemberID)
}

func TestRegisterValidation(t *testing.T) {
	a, _ := newTestAuthenticator(t, Options{})

	_, err := a.Register("  ", "pw", "x@example.com")
	require.Error(t, err)

	_, err = a.Register("Name", "", "x@example.com")
	require.Error(t, err)
}

func TestLogin(t *testing.T) {
	a, _ := newTestAuthenticator(t, Options{})

	m, err := a.Register("Ada Lovelace", "pw1", "ada@example.com")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		s, err := a.Login(m.MemberID, "pw1", RoleMember)
		require.NoError(t, err)
		assert.Equal(t, &Session{UserID: "1001", Role: RoleMember, Name: "Ada Lovelace"}, s)
		assert.True(t, s.HasRole(RoleMember))
		assert.False(t, s.HasRole(RoleLibrarian))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := a.Login(m.MemberID, "nope", RoleMember)
		require.Error(t, err)
		assert.True(t, errors.IsAuthError(err))
		assert.Equal(t, "incorrect password", err.Error())
	})

	t.Run("unknown member", func(t *testing.T) {
		_, err := a.Login("9999", "pw1", RoleMember)
		require.Error(t, err)
		assert.True(t, errors.IsAuthError(err))
		assert.Equal(t, "member ID not found", err.Error())
	})
}

func TestLoginLibrarian(t *testing.T) {
	a, _ := newTestAuthenticator(t, Options{})

	_, err := a.LoginLibrarian("library123")
	require.Error(t, err, "no admin account yet")

	_, err = a.EnsureAdmin("library123")
	require.NoError(t, err)

	s, err := a.LoginLibrarian("library123")
	require.NoError(t, err)
	assert.True(t, s.HasRole(RoleLibrarian))
	assert.Equal(t, "Library Administrator", s.Name)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	a, members := newTestAuthenticator(t, Options{})

	created, err := a.EnsureAdmin("first")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = a.EnsureAdmin("second")
	require.NoError(t, err)
	assert.False(t, created)

	all, err := members.ReadAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, CheckPassword(all[0].PasswordHash, "first"))
}

func TestLoginThrottle(t *testing.T) {
	a, _ := newTestAuthenticator(t, Options{MaxAttempts: 2, AttemptWindow: time.Hour})

	_, err := a.Register("Ada Lovelace", "pw1", "ada@example.com")
	require.NoError(t, err)

	_, err = a.Login("1001", "bad", RoleMember)
	require.Error(t, err)
	_, err = a.Login("1001", "bad", RoleMember)
	require.Error(t, err)

	// even the right password is refused until the window refills
	_, err = a.Login("1001", "pw1", RoleMember)
	require.Error(t, err)
	assert.True(t, errors.IsAuthError(err))
	assert.Contains(t, err.Error(), "too many login attempts")
}

func TestSessionLogout(t *testing.T) {
	s := &Session{UserID: "1001", Role: RoleMember, Name: "Ada"}
	require.True(t, s.IsAuthenticated())

	s.Logout()
	assert.False(t, s.IsAuthenticated())
	assert.False(t, s.HasRole(RoleMember))

	var nilSession *Session
	assert.False(t, nilSession.IsAuthenticated())
	nilSession.Logout()
}
