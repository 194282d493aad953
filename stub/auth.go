package stub

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrBadCredentials is returned by Login for an unknown email or wrong
// password.
var ErrBadCredentials = errors.New("invalid credentials")

const tokenTTL = time.Hour

// User is a stub account the authenticator accepts.
type User struct {
	ID       string
	Email    string
	Password string
	Name     string
}

// Authenticator issues and validates the HS256 bearer tokens the stub uses
// in place of the hosted platform's auth service.
type Authenticator struct {
	secret []byte
	users  map[string]User
	parser *jwt.Parser
}

// NewAuthenticator creates an Authenticator over a fixed user list.
func NewAuthenticator(secret []byte, users []User) *Authenticator {
	byEmail := make(map[string]User, len(users))
	for _, u := range users {
		byEmail[strings.ToLower(u.Email)] = u
	}
	return &Authenticator{
		secret: secret,
		users:  byEmail,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})),
	}
}

// Login checks the credentials and returns a signed token plus the user id.
func (a *Authenticator) Login(email, password string) (token, userID string, err error) {
	u, ok := a.users[strings.ToLower(email)]
	if !ok || u.Password != password {
		return "", "", ErrBadCredentials
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": u.ID,
		"exp": time.Now().Add(tokenTTL).Unix(),
	})
	signed, err := t.SignedString(a.secret)
	if err != nil {
		return "", "", err
	}
	return signed, u.ID, nil
}

// UserIDFromAuthHeader extracts and validates the bearer token, returning
// the subject claim.
func (a *Authenticator) UserIDFromAuthHeader(header string) (string, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return "", errors.New("missing bearer token")
	}
	claims := jwt.MapClaims{}
	if _, err := a.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}); err != nil {
		return "", err
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("token missing subject")
	}
	return sub, nil
}
