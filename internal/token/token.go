// Package token issues and verifies the signed, case-scoped tokens that let
// a customer reply to a recovery case without an account. This is the second
// track of the two-track authorization design: business users carry a
// session JWT, customers carry one of these links.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const replyTokenIssuer = "testimonioya-recovery"

// DefaultReplyTokenTTL bounds how long an emailed reply link stays valid.
const DefaultReplyTokenTTL = 30 * 24 * time.Hour

// ErrInvalidToken covers every verification failure: bad signature, wrong
// issuer, expiry, malformed claims. Callers must not distinguish the cases
// to the customer.
var ErrInvalidToken = errors.New("invalid reply token")

type replyClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Manager signs and verifies reply tokens with a dedicated HS256 secret,
// independent of the session signing keys. A stale session credential can
// never substitute for a reply token, and vice versa.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager builds a Manager. A non-positive ttl falls back to the default.
func NewManager(secret []byte, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultReplyTokenTTL
	}
	return &Manager{secret: secret, ttl: ttl, now: time.Now}
}

// IssueReplyToken mints a token scoped to one case and, when known, the
// customer's email recorded on that case.
func (m *Manager) IssueReplyToken(caseID, customerEmail string) (string, error) {
	caseID = strings.TrimSpace(caseID)
	if caseID == "" {
		return "", fmt.Errorf("case id is required")
	}

	now := m.now()
	claims := replyClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    replyTokenIssuer,
			Subject:   caseID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Email: strings.TrimSpace(customerEmail),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// VerifyReplyToken validates signature, issuer and expiry, and returns the
// case id and email the token was scoped to.
func (m *Manager) VerifyReplyToken(tokenString string) (caseID, email string, err error) {
	claims := &replyClaims{}
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return m.secret, nil
	}, jwt.WithIssuer(replyTokenIssuer), jwt.WithTimeFunc(m.now), jwt.WithLeeway(30*time.Second))
	if err != nil || !parsed.Valid {
		return "", "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", "", ErrInvalidToken
	}
	return claims.Subject, claims.Email, nil
}
