package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cyberblog/internal/db"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// GateModeSecret 使用单一共享口令解锁后台。
	GateModeSecret = "secret"
	// GateModeAccount 使用邮箱密码账号登录后台。
	GateModeAccount = "account"

	// DefaultAdminSecret 是未配置口令时的回退值，安全检查会将其标记为弱口令。
	DefaultAdminSecret = "chen1234"

	minPasswordLength = 6
)

var (
	ErrInvalidSecret    = errors.New("invalid admin secret")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrUserNotFound     = errors.New("account not found")
	ErrWrongPassword    = errors.New("wrong password")
	ErrTooManyRequests  = errors.New("too many failed attempts")
	ErrEmailInUse       = errors.New("email already in use")
	ErrWeakPassword     = errors.New("password is too weak")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrRegisterDisabled = errors.New("registration is not supported by this gate")
	ErrRegisterClosed   = errors.New("registration is closed once an account exists")
)

// Credentials 是登录表单提交的凭据。共享口令模式只读取 Secret。
type Credentials struct {
	Email    string
	Password string
	Secret   string
}

// Identity describes who holds the admin capability.
type Identity struct {
	Email string
}

// Gate 决定一次登录是否授予管理员能力。
type Gate interface {
	Mode() string
	Login(ctx context.Context, creds Credentials) (Identity, error)
	Logout(ctx context.Context, identity Identity) error
}

// Registrar is implemented by gates that can create admin accounts.
type Registrar interface {
	Register(ctx context.Context, email, password, confirm string) (Identity, error)
	RegistrationOpen(ctx context.Context) (bool, error)
}

// SecretGate 将候选口令与配置中的共享口令做明文比较。
// 口令随配置下发，只能作为界面上的开关，不构成安全边界。
type SecretGate struct {
	secret      string
	usesDefault bool
}

// NewSecretGate creates a SecretGate; an empty secret falls back to DefaultAdminSecret.
func NewSecretGate(secret string) *SecretGate {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return &SecretGate{secret: DefaultAdminSecret, usesDefault: true}
	}
	return &SecretGate{secret: trimmed, usesDefault: trimmed == DefaultAdminSecret}
}

// Mode implements Gate.
func (g *SecretGate) Mode() string { return GateModeSecret }

// UsesDefault reports whether the gate runs on the built-in fallback secret.
func (g *SecretGate) UsesDefault() bool { return g.usesDefault }

// Login implements Gate.
func (g *SecretGate) Login(_ context.Context, creds Credentials) (Identity, error) {
	candidate := creds.Secret
	if candidate == "" {
		candidate = creds.Password
	}
	if subtle.ConstantTimeCompare([]byte(candidate), []byte(g.secret)) != 1 {
		logger.Infow("访问拒绝 // ACCESS DENIED", "mode", GateModeSecret)
		return Identity{}, ErrInvalidSecret
	}
	logger.Infow("管理员权限已授予 // ADMIN ACCESS GRANTED", "mode", GateModeSecret)
	return Identity{}, nil
}

// Logout implements Gate; the shared secret has no server side session.
func (g *SecretGate) Logout(context.Context, Identity) error { return nil }

type failureWindow struct {
	count       int
	lockedUntil time.Time
}

// AccountGate 基于 bcrypt 账号的后台登录，连续失败会被临时锁定。
type AccountGate struct {
	db  *gorm.DB
	now func() time.Time

	MaxFailures int
	Lockout     time.Duration

	mu       sync.Mutex
	failures map[string]*failureWindow
}

// NewAccountGate creates an AccountGate backed by the accounts table.
func NewAccountGate(gdb *gorm.DB) *AccountGate {
	return &AccountGate{
		db:          gdb,
		now:         time.Now,
		MaxFailures: 5,
		Lockout:     time.Minute,
		failures:    make(map[string]*failureWindow),
	}
}

// Mode implements Gate.
func (g *AccountGate) Mode() string { return GateModeAccount }

// Login implements Gate.
func (g *AccountGate) Login(ctx context.Context, creds Credentials) (Identity, error) {
	email, err := normalizeEmail(creds.Email)
	if err != nil {
		return Identity{}, err
	}

	if g.locked(email) {
		return Identity{}, ErrTooManyRequests
	}

	var account db.Account
	if err := g.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			g.recordFailure(email)
			return Identity{}, ErrUserNotFound
		}
		return Identity{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(creds.Password)); err != nil {
		g.recordFailure(email)
		logger.Infow("登录失败", "email", email, "error", ErrWrongPassword)
		return Identity{}, ErrWrongPassword
	}

	g.reset(email)
	logger.Infow("管理员登录成功", "email", email)
	return Identity{Email: email}, nil
}

// Logout implements Gate.
func (g *AccountGate) Logout(_ context.Context, identity Identity) error {
	logger.Infow("管理员已登出", "email", identity.Email)
	return nil
}

// Register 创建新的管理员账号。
func (g *AccountGate) Register(ctx context.Context, email, password, confirm string) (Identity, error) {
	if password != confirm {
		return Identity{}, ErrPasswordMismatch
	}
	if len([]rune(password)) < minPasswordLength {
		return Identity{}, ErrWeakPassword
	}

	normalized, err := normalizeEmail(email)
	if err != nil {
		return Identity{}, err
	}

	var existing int64
	if err := g.db.WithContext(ctx).Model(&db.Account{}).Where("email = ?", normalized).Count(&existing).Error; err != nil {
		return Identity{}, err
	}
	if existing > 0 {
		return Identity{}, ErrEmailInUse
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, err
	}

	if err := g.db.WithContext(ctx).Create(&db.Account{Email: normalized, PasswordHash: string(hashed)}).Error; err != nil {
		return Identity{}, err
	}

	logger.Infow("管理员账号已创建", "email", normalized)
	return Identity{Email: normalized}, nil
}

// RegistrationOpen 仅在尚无任何账号时返回 true，之后新账号只能由已登录的管理员添加。
func (g *AccountGate) RegistrationOpen(ctx context.Context) (bool, error) {
	total, err := g.CountAccounts(ctx)
	if err != nil {
		return false, err
	}
	return total == 0, nil
}

// CountAccounts returns the number of registered admin accounts.
func (g *AccountGate) CountAccounts(ctx context.Context) (int64, error) {
	var total int64
	if err := g.db.WithContext(ctx).Model(&db.Account{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (g *AccountGate) locked(email string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	window, ok := g.failures[email]
	if !ok {
		return false
	}
	if window.lockedUntil.IsZero() {
		return false
	}
	if g.now().Before(window.lockedUntil) {
		return true
	}
	delete(g.failures, email)
	return false
}

func (g *AccountGate) recordFailure(email string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	window, ok := g.failures[email]
	if !ok {
		window = &failureWindow{}
		g.failures[email] = window
	}
	window.count++
	if g.MaxFailures > 0 && window.count >= g.MaxFailures {
		window.lockedUntil = g.now().Add(g.Lockout)
	}
}

func (g *AccountGate) reset(email string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.failures, email)
}

var emailValidator = validator.New()

func normalizeEmail(raw string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if err := emailValidator.Var(trimmed, "required,email"); err != nil {
		return "", ErrInvalidEmail
	}
	return trimmed, nil
}
