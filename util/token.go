package util

import (
	"sync"
	"time"

	"sitepm/config"
	"sitepm/logutils"
	"sitepm/model"

	jwt "github.com/golang-jwt/jwt/v5"
)

type (
	JWTClaims struct {
		UserID   uint             `json:"ui"`
		Username string           `json:"un"`
		Role     model.GlobalRole `json:"ro"`
		Owner    bool             `json:"ow"`
		jwt.RegisteredClaims
	}
	JWTMessage struct {
		UserID   uint             `json:"userID"`   // User ID
		Username string           `json:"username"` // Login name
		Role     model.GlobalRole `json:"role"`     // Global role name
		Owner    bool             `json:"owner"`    // Super admin flag
	}
)

type TokenManager struct {
	secretKey       string
	accessTokenTTL  int
	refreshTokenTTL int
}

var (
	once     sync.Once
	tokenMgr *TokenManager
)

func GetTokenMgr() *TokenManager {
	once.Do(func() {
		auth := config.GetConfig().Auth
		tokenMgr = newTokenManager(auth.AccessTokenSecret,
			auth.AccessTokenExpiryHour,
			auth.RefreshTokenExpiryHour,
		)
	})
	return tokenMgr
}

func newTokenManager(secretKey string, accessTokenTTL, refreshTokenTTL int) *TokenManager {
	return &TokenManager{
		secretKey,
		accessTokenTTL,
		refreshTokenTTL,
	}
}

func (tm *TokenManager) createToken(msg *JWTMessage, ttl int) (string, error) {
	expiresAt := time.Now().Add(time.Hour * time.Duration(ttl))

	claims := &JWTClaims{
		UserID:   msg.UserID,
		Username: msg.Username,
		Role:     msg.Role,
		Owner:    msg.Owner,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(tm.secretKey))
}

// CreateTokens creates a new access token and a new refresh token
func (tm *TokenManager) CreateTokens(msg *JWTMessage) (
	accessToken string, refreshToken string, err error) {
	accessToken, err = tm.createToken(msg, tm.accessTokenTTL)
	if err != nil {
		logutils.Log.Error(err)
		return "", "", err
	}
	refreshToken, err = tm.createToken(msg, tm.refreshTokenTTL)
	if err != nil {
		logutils.Log.Error(err)
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (tm *TokenManager) CheckToken(requestToken string) (JWTMessage, error) {
	claims := JWTClaims{}
	_, err := jwt.ParseWithClaims(requestToken, &claims, func(_ *jwt.Token) (any, error) {
		return []byte(tm.secretKey), nil
	})
	return JWTMessage{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
		Owner:    claims.Owner,
	}, err
}
