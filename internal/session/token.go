package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// refreshLeeway: si al access token le queda menos que esto, se renueva
// antes de usarlo en vez de esperar el 401.
const refreshLeeway = 30 * time.Second

// tokenExpired inspecciona el claim exp sin verificar la firma (el cliente
// no tiene la key; verificar es trabajo del backend). Tokens que no son JWT
// o no traen exp se tratan como vigentes y el 401 decide.
func tokenExpired(token string, now time.Time) bool {
	if token == "" {
		return false
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return now.Add(refreshLeeway).After(exp.Time)
}
