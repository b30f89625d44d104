// Package auth registers members and authenticates librarian and member logins.
package auth

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lepinkainen/libris/internal/errors"
	"github.com/lepinkainen/libris/internal/library"
	"github.com/lepinkainen/libris/internal/ratelimit"
	"github.com/lepinkainen/libris/internal/recordstore"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultStartID is the first member ID handed out.
	DefaultStartID = 1001
	// DefaultMaxAttempts is the login burst allowed before throttling.
	DefaultMaxAttempts = 5
	// DefaultAttemptWindow is how often one more login attempt is allowed once throttled.
	DefaultAttemptWindow = 30 * time.Second
)

var hashCost = bcrypt.DefaultCost

// HashPassword returns a salted bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Options configures an Authenticator.
type Options struct {
	StartID       int
	MaxAttempts   int
	AttemptWindow time.Duration
	Now           func() time.Time
}

// Authenticator registers and logs in members stored in a member record store.
type Authenticator struct {
	members *recordstore.Store[library.Member]
	limiter *ratelimit.Limiter
	startID int
	now     func() time.Time
}

// New creates an Authenticator. Zero option values fall back to the defaults;
// a negative AttemptWindow disables login throttling.
func New(members *recordstore.Store[library.Member], opts Options) *Authenticator {
	if opts.StartID <= 0 {
		opts.StartID = DefaultStartID
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.AttemptWindow == 0 {
		opts.AttemptWindow = DefaultAttemptWindow
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Authenticator{
		members: members,
		limiter: ratelimit.New("login", opts.AttemptWindow, opts.MaxAttempts),
		startID: opts.StartID,
		now:     opts.Now,
	}
}

// Register creates a member with the next free numeric ID and a hashed password.
func (a *Authenticator) Register(name, password, email string) (library.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return library.Member{}, fmt.Errorf("member name is required")
	}
	if password == "" {
		return library.Member{}, fmt.Errorf("password is required")
	}

	members, err := a.members.ReadAll()
	if err != nil {
		return library.Member{}, fmt.Errorf("failed to read members: %w", err)
	}

	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.MemberID
	}

	hash, err := HashPassword(password)
	if err != nil {
		return library.Member{}, err
	}

	member := library.Member{
		MemberID:     library.NextID(ids, a.startID),
		Name:         name,
		PasswordHash: hash,
		Email:        strings.TrimSpace(email),
		JoinDate:     library.FormatDate(a.now()),
	}

	if err := a.members.Append(member); err != nil {
		return library.Member{}, fmt.Errorf("failed to save member: %w", err)
	}

	slog.Info("Registered member", "member_id", member.MemberID, "name", member.Name)
	return member, nil
}

// Login checks memberID and password and returns a session with the given role.
func (a *Authenticator) Login(memberID, password string, role Role) (*Session, error) {
	if !a.limiter.Allow() {
		slog.Warn("Login throttled", "limiter", a.limiter.Name(), "member_id", memberID)
		return nil, errors.NewAuthError("too many login attempts, try again later")
	}

	member, found, err := a.members.Find(library.MemberID, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up member: %w", err)
	}
	if !found {
		slog.Warn("Login failed", "member_id", memberID, "reason", "unknown member")
		return nil, errors.NewAuthError("member ID not found")
	}

	if !CheckPassword(member.PasswordHash, password) {
		slog.Warn("Login failed", "member_id", memberID, "reason", "wrong password")
		return nil, errors.NewAuthError("incorrect password")
	}

	slog.Debug("Login succeeded", "member_id", memberID, "role", role)
	return &Session{UserID: member.MemberID, Role: role, Name: member.Name}, nil
}

// LoginLibrarian authenticates the built-in admin account.
func (a *Authenticator) LoginLibrarian(password string) (*Session, error) {
	return a.Login(library.AdminID, password, RoleLibrarian)
}

// EnsureAdmin creates the librarian account with password if it does not
// exist yet. It reports whether the account was created.
func (a *Authenticator) EnsureAdmin(password string) (bool, error) {
	_, found, err := a.members.Find(library.MemberID, library.AdminID)
	if err != nil {
		return false, fmt.Errorf("failed to look up admin account: %w", err)
	}
	if found {
		return false, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}

	admin := library.Member{
		MemberID:     library.AdminID,
		Name:         "Library Administrator",
		PasswordHash: hash,
		Email:        "admin@library.com",
		JoinDate:     library.FormatDate(a.now()),
	}
	if err := a.members.Append(admin); err != nil {
		return false, fmt.Errorf("failed to create admin account: %w", err)
	}

	slog.Info("Created librarian account", "member_id", library.AdminID)
	return true, nil
}
