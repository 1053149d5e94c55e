package jwt

import (
	"errors"
	"strings"
	"time"

	"jobboard/internal/domain/user"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the identity provider's session token. Subject carries the
// provider's stable user id.
type Claims struct {
	Email      string `json:"email,omitempty"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	OrgID      string `json:"org_id,omitempty"`
	OrgRole    string `json:"org_role,omitempty"`

	jwtlib.RegisteredClaims
}

// Identity maps the verified claims onto the identity the service works with.
func (c Claims) Identity() user.Identity {
	return user.Identity{
		ExternalID: strings.TrimSpace(c.Subject),
		FirstName:  c.GivenName,
		LastName:   c.FamilyName,
		Email:      c.Email,
		OrgID:      c.OrgID,
		OrgRole:    c.OrgRole,
	}
}

type Service interface {
	ValidateToken(tokenString string) (Claims, error)
}

// HMACService verifies HS256 tokens signed with the secret shared with the
// identity provider. Issue exists for tooling and tests.
type HMACService struct {
	secret []byte
	issuer string

	now func() time.Time
}

func NewHMACService(secret, issuer string) *HMACService {
	return &HMACService{
		secret: []byte(secret),
		issuer: strings.TrimSpace(issuer),
		now:    time.Now,
	}
}

func (s *HMACService) Issue(c Claims, expiresIn time.Duration) (string, error) {
	if len(s.secret) == 0 || expiresIn <= 0 || strings.TrimSpace(c.Subject) == "" {
		return "", ErrTokenInvalid
	}
	now := s.now().UTC()
	c.IssuedAt = jwtlib.NewNumericDate(now)
	c.ExpiresAt = jwtlib.NewNumericDate(now.Add(expiresIn))
	if s.issuer != "" {
		c.Issuer = s.issuer
	}

	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	return t.SignedString(s.secret)
}

func (s *HMACService) ValidateToken(tokenString string) (Claims, error) {
	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(s.issuer))
	}
	p := jwtlib.NewParser(opts...)

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(token *jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid || strings.TrimSpace(c.Subject) == "" {
		return Claims{}, ErrTokenInvalid
	}
	return c, nil
}
