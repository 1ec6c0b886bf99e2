package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/palsuhanapp/hanapp-api/internal/config"
)

// InitFirebase initializes the Firebase Admin SDK and returns the Auth client.
// Returns (nil, nil) when no service account is configured so the API can run
// with Google sign-in disabled.
func InitFirebase(cfg *config.Config) (*fbauth.Client, error) {
	if cfg.FirebaseServiceAccountPath == "" {
		return nil, nil
	}

	opt := option.WithCredentialsFile(cfg.FirebaseServiceAccountPath)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %v", err)
	}

	client, err := app.Auth(context.Background())
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %v", err)
	}

	return client, nil
}

// GoogleUser represents the key information extracted from a verified ID token
type GoogleUser struct {
	UID           string
	Email         string
	Name          string
	Picture       string
	EmailVerified bool
}

// VerifyGoogleToken verifies a Firebase ID token issued after a Google sign-in
// and extracts the identity claims.
func VerifyGoogleToken(ctx context.Context, client *fbauth.Client, idToken string) (*GoogleUser, error) {
	token, err := client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("invalid google token: %v", err)
	}

	googleUser := &GoogleUser{UID: token.UID}

	if email, ok := token.Claims["email"].(string); ok {
		googleUser.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		googleUser.Name = name
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		googleUser.Picture = picture
	}
	if verified, ok := token.Claims["email_verified"].(bool); ok {
		googleUser.EmailVerified = verified
	}

	return googleUser, nil
}
