package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// SessionAudience identifica los tokens de la cookie de sesión
	SessionAudience = "hors-serie-session"
	// UploadAudience identifica los tokens de subida de imágenes
	UploadAudience = "hors-serie-upload"
)

// ErrInvalidToken indica un token mal firmado, vencido o de otra audiencia
var ErrInvalidToken = errors.New("utils: invalid token")

// UploadClaims es lo que guardamos en un token de subida
type UploadClaims struct {
	ObjectPath string `json:"object_path"`
	jwt.RegisteredClaims
}

// TokenSigner firma y valida los tokens HS256 de la aplicación
type TokenSigner struct {
	secret []byte
	now    func() time.Time
}

// NewTokenSigner crea un firmador con la llave secreta dada
func NewTokenSigner(secret string, now func() time.Time) *TokenSigner {
	if now == nil {
		now = time.Now
	}
	return &TokenSigner{secret: []byte(secret), now: now}
}

// SignSession genera el token de la cookie: jti = ID de sesión, exp = vencimiento absoluto
func (s *TokenSigner) SignSession(sessionID, userID string, issuedAt, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   userID,
		Audience:  jwt.ClaimStrings{SessionAudience},
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	return s.sign(claims)
}

// ParseSession valida el token de la cookie y devuelve el ID de sesión
func (s *TokenSigner) ParseSession(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if err := s.parse(tokenString, claims, SessionAudience, true); err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}

// SessionIDFromToken extrae el ID de sesión sin validar el vencimiento.
// La firma sí se valida. Se usa en el logout de una cookie ya vencida.
func (s *TokenSigner) SessionIDFromToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if err := s.parse(tokenString, claims, SessionAudience, false); err != nil {
		return "", err
	}
	return claims.ID, nil
}

// SignUpload genera un token de subida para una ruta de objeto
func (s *TokenSigner) SignUpload(objectPath string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := UploadClaims{
		ObjectPath: objectPath,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{UploadAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return s.sign(claims)
}

// ParseUpload valida un token de subida y devuelve la ruta del objeto
func (s *TokenSigner) ParseUpload(tokenString string) (string, error) {
	claims := &UploadClaims{}
	if err := s.parse(tokenString, claims, UploadAudience, true); err != nil {
		return "", err
	}
	if claims.ObjectPath == "" {
		return "", ErrInvalidToken
	}
	return claims.ObjectPath, nil
}

func (s *TokenSigner) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("utils: sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenSigner) parse(tokenString string, claims jwt.Claims, audience string, validateClaims bool) error {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if validateClaims {
		options = append(options, jwt.WithAudience(audience), jwt.WithExpirationRequired())
	} else {
		options = append(options, jwt.WithoutClaimsValidation())
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, options...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}

	if !validateClaims {
		aud, err := claims.GetAudience()
		if err != nil || !containsString(aud, audience) {
			return ErrInvalidToken
		}
	}
	return nil
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
