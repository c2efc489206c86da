package httpserver

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	flashCookieName = "flash"
	flashTTL        = 5 * time.Minute

	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next page render.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type flashClaims struct {
	Messages []Flash `json:"msgs"`
	jwt.RegisteredClaims
}

// FlashStore keeps flash messages in an HS256-signed cookie.
type FlashStore struct {
	secret []byte
	now    func() time.Time
}

func NewFlashStore(secret string) *FlashStore {
	return &FlashStore{secret: []byte(secret), now: time.Now}
}

// Add appends a message to any flashes already pending on the request.
func (f *FlashStore) Add(w http.ResponseWriter, r *http.Request, category, message string) error {
	messages := append(f.read(r), Flash{Category: category, Message: message})

	now := f.now()
	claims := flashClaims{
		Messages: messages,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(f.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(flashTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop returns pending flashes and clears the cookie. Tampered or expired
// cookies yield no messages.
func (f *FlashStore) Pop(w http.ResponseWriter, r *http.Request) []Flash {
	messages := f.read(r)
	if _, err := r.Cookie(flashCookieName); err == nil {
		http.SetCookie(w, &http.Cookie{
			Name:     flashCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return messages
}

func (f *FlashStore) read(r *http.Request) []Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	claims := &flashClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return f.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(f.now))
	if err != nil || !token.Valid {
		return nil
	}
	return claims.Messages
}
