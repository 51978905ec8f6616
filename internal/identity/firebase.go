package identity

import (
	"context"

	"firebase.google.com/go/v4/auth"

	"github.com/nimbusfeed/backend/internal/apperrors"
)

// Provider verifies a bearer credential and resolves the Actor behind it.
type Provider interface {
	VerifyToken(ctx context.Context, idToken string) (*Actor, error)
}

// FirebaseProvider resolves actors from Firebase ID tokens.
type FirebaseProvider struct {
	client *auth.Client
}

// NewFirebaseProvider creates a new FirebaseProvider
func NewFirebaseProvider(client *auth.Client) *FirebaseProvider {
	return &FirebaseProvider{client: client}
}

// VerifyToken verifies the ID token and returns the actor it belongs to
func (p *FirebaseProvider) VerifyToken(ctx context.Context, idToken string) (*Actor, error) {
	token, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindAuth, "invalid or expired ID token", err)
	}
	actor := &Actor{ID: token.UID}
	if name, ok := token.Claims["name"].(string); ok {
		actor.DisplayName = name
	}
	if email, ok := token.Claims["email"].(string); ok {
		actor.Email = email
	}
	return actor, nil
}
