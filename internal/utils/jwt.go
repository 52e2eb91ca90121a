package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Время жизни токенов
const (
	AccessTokenTTL  = 1 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("невалидный токен")

// JWTService отвечает за создание и валидацию JWT токенов
type JWTService struct {
	secretKey  string
	refreshKey string
}

// NewJWTService создаёт новый экземпляр JWTService
func NewJWTService(secretKey, refreshKey string) *JWTService {
	return &JWTService{secretKey: secretKey, refreshKey: refreshKey}
}

// GenerateAccessToken создаёт короткоживущий access токен
func (s *JWTService) GenerateAccessToken(userID string) (string, error) {
	return s.generate(userID, s.secretKey, AccessTokenTTL)
}

// GenerateRefreshToken создаёт refresh токен
func (s *JWTService) GenerateRefreshToken(userID string) (string, error) {
	return s.generate(userID, s.refreshKey, RefreshTokenTTL)
}

func (s *JWTService) generate(userID, key string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(key))
}

// ExtractUserID проверяет access токен и возвращает ID пользователя
func (s *JWTService) ExtractUserID(tokenString string) (string, error) {
	return s.extract(tokenString, s.secretKey)
}

// ExtractUserIDFromRefresh проверяет refresh токен и возвращает ID пользователя
func (s *JWTService) ExtractUserIDFromRefresh(tokenString string) (string, error) {
	return s.extract(tokenString, s.refreshKey)
}

func (s *JWTService) extract(tokenString, key string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Принимаем только HMAC подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(key), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}

	return userID, nil
}
