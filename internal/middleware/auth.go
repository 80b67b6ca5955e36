package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const userIDKey = "user_id"

// Claims is the JWT payload accepted by Auth. The subject identifies the caller.
type Claims struct {
	jwt.RegisteredClaims
}

// Authenticator checks bearer tokens and API keys. With neither a JWT secret
// nor API key hashes configured it lets every request through.
type Authenticator struct {
	jwtSecret []byte
	keyHashes [][]byte
	logger    *zap.Logger
}

// NewAuthenticator creates an authenticator. apiKeyHashes are bcrypt hashes.
func NewAuthenticator(jwtSecret string, apiKeyHashes []string, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Authenticator{logger: logger}
	if jwtSecret != "" {
		a.jwtSecret = []byte(jwtSecret)
	}
	for _, h := range apiKeyHashes {
		a.keyHashes = append(a.keyHashes, []byte(h))
	}
	return a
}

// Enabled reports whether any credential check is configured.
func (a *Authenticator) Enabled() bool {
	return len(a.jwtSecret) > 0 || len(a.keyHashes) > 0
}

// Middleware authenticates the request and stores the caller ID for GetUserID.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Enabled() {
			c.Next()
			return
		}

		if key := c.GetHeader("X-API-Key"); key != "" && len(a.keyHashes) > 0 {
			if idx, ok := a.matchAPIKey(key); ok {
				c.Set(userIDKey, "apikey:"+strconv.Itoa(idx))
				c.Next()
				return
			}
			Unauthorized(c, "invalid api key")
			return
		}

		header := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if header == "" || tokenString == header || len(a.jwtSecret) == 0 {
			Unauthorized(c, "missing credentials")
			return
		}

		subject, err := a.parseToken(tokenString)
		if err != nil {
			a.logger.Warn("JWT parse failed", zap.Error(err))
			Unauthorized(c, "invalid token")
			return
		}

		c.Set(userIDKey, subject)
		c.Next()
	}
}

func (a *Authenticator) matchAPIKey(key string) (int, bool) {
	for i, h := range a.keyHashes {
		if bcrypt.CompareHashAndPassword(h, []byte(key)) == nil {
			return i, true
		}
	}
	return 0, false
}

func (a *Authenticator) parseToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return claims.Subject, nil
}

// GetUserID returns the authenticated caller, if any.
func GetUserID(c *gin.Context) (string, bool) {
	id := c.GetString(userIDKey)
	return id, id != ""
}
