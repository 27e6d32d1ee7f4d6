package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"studentkeep/core/audit"
	"studentkeep/core/hashing"
	"studentkeep/core/lifecycle"
)

// Claims is the token payload the gateway accepts. Role and org are custom
// claims; the subject becomes the caller's identity reference after hashing.
type Claims struct {
	Role string `json:"role"`
	Org  string `json:"org"`
	jwt.RegisteredClaims
}

var (
	ErrNoToken     = errors.New("missing bearer token")
	ErrNoSecret    = errors.New("token verification disabled: no signing secret configured")
	ErrInvalidRole = errors.New("token carries no recognized role")
)

// Verifier turns a signed bearer token into a CallerContext.
type Verifier struct {
	Secret      []byte
	AuditLogger audit.AuditLogger
}

func NewVerifier(secret string, logger audit.AuditLogger) *Verifier {
	return &Verifier{Secret: []byte(secret), AuditLogger: logger}
}

// VerifyToken validates the HMAC signature and expiry, then maps the claims
// into a CallerContext. Failures are audit-logged without the token body.
func (v *Verifier) VerifyToken(tokenString string) (CallerContext, error) {
	if tokenString == "" {
		return CallerContext{}, ErrNoToken
	}
	// Without a configured secret every HMAC check would accept tokens
	// signed with the empty key. Fail closed instead.
	if len(v.Secret) == 0 {
		v.logFailure("no signing secret configured")
		return CallerContext{}, ErrNoSecret
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.Secret, nil
	})
	if err != nil {
		v.logFailure(err.Error())
		return CallerContext{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		v.logFailure("invalid token claims")
		return CallerContext{}, errors.New("invalid token claims")
	}
	role := lifecycle.Role(claims.Role)
	if !role.Valid() {
		v.logFailure("unrecognized role: " + claims.Role)
		return CallerContext{}, ErrInvalidRole
	}
	return CallerContext{
		Role:        role,
		IdentityRef: hashing.Hash(claims.Subject),
		Org:         claims.Org,
	}, nil
}

func (v *Verifier) logFailure(reason string) {
	if v.AuditLogger == nil {
		return
	}
	v.AuditLogger.LogEvent(audit.AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: "TokenVerification",
		Result:    "failure",
		Reason:    reason,
		Metadata:  map[string]string{},
	})
}

// IssueToken mints a token for the given subject/role/org, valid for ttl.
// Used by the CLI helper and tests; production deployments mint tokens in
// their identity provider.
func IssueToken(secret, subject string, role lifecycle.Role, org string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role: string(role),
		Org:  org,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
