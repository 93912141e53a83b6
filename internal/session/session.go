package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sandeepkv93/zen/internal/model"
)

// Session is the app-level authorization derived from a provider sign-in.
type Session struct {
	ProviderToken string
	AccessToken   string
	User          model.User
}

func (s Session) BearerToken() string {
	return s.AccessToken
}

func (s Session) Valid() bool {
	return s.AccessToken != "" && s.User.ID > 0
}

// Expiry reads the exp claim of the app token without verifying it.
// It returns the zero time when the token carries no readable expiry.
func (s Session) Expiry() time.Time {
	if s.AccessToken == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

func (s Session) Expired(now time.Time) bool {
	exp := s.Expiry()
	return !exp.IsZero() && !now.Before(exp)
}
