package analytics

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 5 * time.Minute

// mintToken signs a short-lived HS256 token from the app key. The backend
// verifies it with the same key to tie ingest batches to an app.
func mintToken(appID, appKey string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"iss": "nudgekit-sdk",
		"sub": appID,
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(appKey))
}
