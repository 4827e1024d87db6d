package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/weedbox/blackjacktable"
	"github.com/weedbox/blackjacktable/protocol"
)

var (
	ErrInvalidCredentials = fmt.Errorf("session: %w: invalid credentials", blackjacktable.ErrAuthenticationFailure)
	ErrInvalidTicket      = fmt.Errorf("session: %w: invalid ticket", blackjacktable.ErrAuthenticationFailure)
)

const ticketIssuer = "blackjacktable"

type AuthenticatorOptions struct {
	Secret   []byte
	TTL      time.Duration
	Password string // empty means the table is open
}

// Claims carried by a ticket.
type Claims struct {
	PlayerID string `json:"pid"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

// Authenticator exchanges credentials for signed tickets and verifies them on
// ARRIVE.
type Authenticator struct {
	options AuthenticatorOptions
	now     func() time.Time
}

func NewAuthenticator(options AuthenticatorOptions) *Authenticator {
	if options.TTL <= 0 {
		options.TTL = time.Hour
	}

	return &Authenticator{
		options: options,
		now:     time.Now,
	}
}

// PlayerID derives a stable player id from the player name.
func PlayerID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

/*
Authenticate issues a ticket for the player name
  - the name must not be blank
  - the password must match the table password when one is set
*/
func (a *Authenticator) Authenticate(name string, password string) (*protocol.TicketPayload, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidCredentials
	}

	if a.options.Password != "" && password != a.options.Password {
		return nil, ErrInvalidCredentials
	}

	now := a.now()
	expiresAt := now.Add(a.options.TTL)
	claims := Claims{
		PlayerID: PlayerID(name),
		Name:     name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    ticketIssuer,
			Subject:   name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.options.Secret)
	if err != nil {
		return nil, err
	}

	return &protocol.TicketPayload{
		Ticket:    signed,
		PlayerID:  claims.PlayerID,
		ExpiresAt: expiresAt.Unix(),
	}, nil
}

func (a *Authenticator) Verify(ticket string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(ticket, &claims, func(token *jwt.Token) (any, error) {
		return a.options.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ticketIssuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTicket, err)
	}

	if claims.PlayerID == "" || claims.PlayerID != PlayerID(claims.Name) {
		return nil, ErrInvalidTicket
	}

	return &claims, nil
}
