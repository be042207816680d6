package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptySecret          = errors.New("jwt secret is empty")
	ErrUnsupportedAlgorithm = errors.New("unsupported jwt signing algorithm")
)

type Status int

const (
	StatusInvalid Status = iota
	StatusValid
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusExpired:
		return "expired"
	default:
		return "invalid"
	}
}

// Result is the outcome of verifying a bearer token. Subject is only set
// when Status is StatusValid.
type Result struct {
	Status  Status
	Subject string
	Cause   error
}

func (r Result) Valid() bool {
	return r.Status == StatusValid
}

type Claims struct {
	jwt.RegisteredClaims
}

// Manager signs and verifies HMAC tokens with one process-wide secret.
type Manager struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret, algorithm string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	method, err := hmacMethod(algorithm)
	if err != nil {
		return nil, err
	}
	return &Manager{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func hmacMethod(algorithm string) (*jwt.SigningMethodHMAC, error) {
	switch algorithm {
	case "", jwt.SigningMethodHS256.Alg():
		return jwt.SigningMethodHS256, nil
	case jwt.SigningMethodHS384.Alg():
		return jwt.SigningMethodHS384, nil
	case jwt.SigningMethodHS512.Alg():
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}
}

// Issue signs a token for subject that expires after the configured TTL.
func (m *Manager) Issue(subject string) (string, time.Time, error) {
	return m.IssueWithTTL(subject, m.ttl)
}

func (m *Manager) IssueWithTTL(subject string, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("jwt subject is empty")
	}
	now := m.now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(m.method, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign jwt failed: %w", err)
	}
	return signed, expiresAt, nil
}

func (m *Manager) Verify(tokenString string) Result {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Result{Status: StatusExpired, Cause: err}
		}
		return Result{Status: StatusInvalid, Cause: err}
	}
	if !token.Valid {
		return Result{Status: StatusInvalid, Cause: jwt.ErrTokenInvalidClaims}
	}
	if claims.Subject == "" {
		return Result{Status: StatusInvalid, Cause: jwt.ErrTokenInvalidSubject}
	}
	return Result{Status: StatusValid, Subject: claims.Subject}
}
