package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"

	authdomain "fitai-backend/internal/auth/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// AuthUsecase verifies bearer tokens and resolves them to an identity
type AuthUsecase interface {
	ValidateToken(ctx context.Context, token string) (*authdomain.Identity, error)
}

// firebaseAuthUsecase verifies Firebase ID tokens issued to the web client
type firebaseAuthUsecase struct {
	client *auth.Client
}

// NewFirebaseAuthUsecase creates an AuthUsecase backed by Firebase Auth
func NewFirebaseAuthUsecase(client *auth.Client) AuthUsecase {
	return &firebaseAuthUsecase{client: client}
}

func (u *firebaseAuthUsecase) ValidateToken(ctx context.Context, idToken string) (*authdomain.Identity, error) {
	token, err := u.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	identity := &authdomain.Identity{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		identity.DisplayName = name
	}
	return identity, nil
}

// jwtAuthUsecase verifies locally signed HS256 tokens (development and service-to-service)
type jwtAuthUsecase struct {
	secret []byte
	expiry time.Duration
}

// NewJWTAuthUsecase creates a JWT-backed AuthUsecase
func NewJWTAuthUsecase(secret string, expiry time.Duration) *jwtAuthUsecase {
	return &jwtAuthUsecase{secret: []byte(secret), expiry: expiry}
}

// IssueToken signs an access token for the identity
func (u *jwtAuthUsecase) IssueToken(identity authdomain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"user_id": identity.UID,
		"email":   identity.Email,
		"name":    identity.DisplayName,
		"exp":     time.Now().Add(u.expiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(u.secret)
}

func (u *jwtAuthUsecase) ValidateToken(_ context.Context, tokenString string) (*authdomain.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return u.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}

	identity := &authdomain.Identity{UID: userID}
	identity.Email, _ = claims["email"].(string)
	identity.DisplayName, _ = claims["name"].(string)
	return identity, nil
}
