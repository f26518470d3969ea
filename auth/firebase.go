// Package auth exchanges a Firebase ID token for a service JWT. The
// hosted identity provider does the heavy lifting; this service only
// mirrors the user row and signs its own short-lived token.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	firebase "firebase.google.com/go"
	firebaseauth "firebase.google.com/go/auth"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/api/option"

	"github.com/ki-assist/storefront-api/models"
	"github.com/ki-assist/storefront-api/repository"
)

// TokenVerifier is the slice of the Firebase auth client we use; tests
// substitute a stub.
type TokenVerifier interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

type Service struct {
	verifier  TokenVerifier
	users     repository.UserRepository
	projectID string
	jwtSecret []byte
}

// NewFirebaseService wires the real Firebase Admin SDK from env config.
func NewFirebaseService(ctx context.Context, users repository.UserRepository) (*Service, error) {
	credsJSON := os.Getenv("FIREBASE_CREDENTIALS_JSON")
	if credsJSON == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_JSON must be set")
	}
	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	if projectID == "" {
		return nil, fmt.Errorf("FIREBASE_PROJECT_ID must be set")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	opt := option.WithCredentialsJSON([]byte(credsJSON))
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting firebase auth client: %w", err)
	}

	return &Service{
		verifier:  client,
		users:     users,
		projectID: projectID,
		jwtSecret: []byte(jwtSecret),
	}, nil
}

// LoginHandler verifies the Firebase ID token, upserts the user row and
// responds with a service JWT plus the profile.
func (s *Service) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			IDToken string `json:"id_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		token, err := s.verifier.VerifyIDTokenAndCheckRevoked(c.Request.Context(), req.IDToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid ID token"})
			return
		}
		if token.Audience != s.projectID {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token audience"})
			return
		}

		email, _ := token.Claims["email"].(string)
		name, _ := token.Claims["name"].(string)
		picture, _ := token.Claims["picture"].(string)

		user := models.User{
			ID:       token.UID,
			Email:    email,
			Name:     name,
			Picture:  picture,
			Provider: "google",
		}
		if err := s.users.Upsert(c.Request.Context(), &user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save user"})
			return
		}

		signed, err := s.issueJWT(user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"user":    user,
			"token":   signed,
		})
	}
}

func (s *Service) issueJWT(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    "user",
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
