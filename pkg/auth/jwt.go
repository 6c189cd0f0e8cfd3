package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

type JWTServiceInterface interface {
	GenerateJWT(userID int, expirationTime time.Time) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

const tokenIssuer = "walletgo"

// TODO: read the signing key from configuration instead of a literal.
var secretKey = []byte("your-secret-key")

// Claims carries the authenticated user id alongside the registered claims.
type Claims struct {
	UserID int `json:"user_id"`
	jwt.StandardClaims
}

// JWTService issues and verifies HS256 tokens.
type JWTService struct{}

func (s *JWTService) GenerateJWT(userID int, expirationTime time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
			Issuer:    tokenIssuer,
		},
	})
	return token.SignedString(secretKey)
}

// ValidateToken parses tokenString and returns its claims. A token with the
// wrong issuer or a zero user id is rejected even when the signature checks
// out.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == 0 || claims.Issuer != tokenIssuer {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
