package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/company-registry-backend/internal/platform/apierr"
	"github.com/yungbote/company-registry-backend/internal/platform/logger"
	"github.com/yungbote/company-registry-backend/internal/requestdata"
)

type JWTClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies access tokens. There is no credential
// store behind it: any non-blank username/password pair is accepted and the
// username "admin" is granted the elevated role.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
	ParseToken(tokenString string) (*requestdata.RequestData, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	log          *logger.Logger
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(baseLog *logger.Logger, jwtSecretKey string, accessTTL time.Duration) AuthService {
	serviceLog := baseLog.With("service", "AuthService")
	return &authService{log: serviceLog, jwtSecretKey: jwtSecretKey, accessTTL: accessTTL}
}

func (as *authService) Login(ctx context.Context, username, password string) (string, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return "", apierr.BadRequest("username and password must be provided")
	}

	role := requestdata.RoleUser
	if strings.EqualFold(username, "admin") {
		role = requestdata.RoleAdmin
	}

	now := time.Now()
	claims := JWTClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", apierr.Service("error signing access token", err)
	}
	as.log.Info("user authenticated", "username", username, "role", role)
	return signed, nil
}

func (as *authService) ParseToken(tokenString string) (*requestdata.RequestData, error) {
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, apierr.Unauthorized("invalid or expired token")
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return nil, apierr.Unauthorized("invalid or expired token")
	}
	return &requestdata.RequestData{Username: claims.Subject, Role: claims.Role}, nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
