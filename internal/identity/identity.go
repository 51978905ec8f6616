// Package identity resolves the acting user. Core operations take the actor
// explicitly; there is no ambient current-user state.
package identity

import "github.com/nimbusfeed/backend/internal/apperrors"

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Name returns the display name, falling back to "Anonymous" when the
// provider carries none.
func (a *Actor) Name() string {
	if a.DisplayName == "" {
		return "Anonymous"
	}
	return a.DisplayName
}

// Require fails with an auth error when no actor is present.
func Require(actor *Actor) error {
	if actor == nil || actor.ID == "" {
		return apperrors.New(apperrors.KindAuth, "operation requires an authenticated actor")
	}
	return nil
}
