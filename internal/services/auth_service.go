package services

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bizbook/internal/domain"
	"bizbook/internal/validate"
)

const tokenIssuer = "bizbook"

type sessionClaims struct {
	AdminID  int64  `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService checks admin credentials and issues HS256 session tokens.
// Tokens are not tracked server side; they stay valid until they expire.
type AuthService struct {
	Admins AdminStore
	Secret []byte
	TTL    time.Duration
	Cost   int
	Now    func() time.Time

	dummyOnce sync.Once
	dummy     []byte
}

func NewAuthService(admins AdminStore, secret []byte, ttl time.Duration, cost int) *AuthService {
	return &AuthService{Admins: admins, Secret: secret, TTL: ttl, Cost: cost, Now: time.Now}
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// dummyHash keeps the unknown-user path as slow as a real comparison.
func (s *AuthService) dummyHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummy, _ = bcrypt.GenerateFromPassword([]byte("bizbook-dummy-password"), s.Cost)
	})
	return s.dummy
}

// Login returns a signed token for valid credentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Principal, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}
	u, err := s.Admins.AdminByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash(), []byte(password))
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	return s.Issue(u)
}

// Issue signs a token for u starting now.
func (s *AuthService) Issue(u domain.AdminUser) (string, *domain.Principal, error) {
	now := s.now()
	exp := now.Add(s.TTL)
	claims := sessionClaims{
		AdminID:  u.ID,
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", nil, err
	}
	return tok, &domain.Principal{ID: u.ID, Username: u.Username, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Authenticate validates a token. An empty token is ErrUnauthenticated;
// anything unparseable, tampered or expired is ErrInvalidSession.
func (s *AuthService) Authenticate(token string) (*domain.Principal, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.Username == "" {
		return nil, domain.ErrInvalidSession
	}
	return &domain.Principal{
		ID:        claims.AdminID,
		Username:  claims.Username,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// SetPassword creates the admin or replaces its password.
func (s *AuthService) SetPassword(ctx context.Context, username, password string) error {
	name, ok := validate.Username(username)
	if !ok {
		return domain.Invalid("username", "must be 1-64 letters, digits, dot, dash or underscore")
	}
	if !validate.Password(password) {
		return domain.Invalid("password", "must be 6-72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.Cost)
	if err != nil {
		return err
	}
	return s.Admins.UpsertAdmin(ctx, name, string(hash))
}
