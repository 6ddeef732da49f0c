package firebase

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"

	"pasarsosmed/pkg/errors"
)

// AuthClient wraps the Firebase Admin auth client. Identity lives entirely
// in Firebase; this service only verifies tokens and reads account records.
type AuthClient struct {
	client *auth.Client
}

func NewAuthClient(ctx context.Context, app *firebase.App) (*AuthClient, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return &AuthClient{client: client}, nil
}

// VerifyToken validates a Firebase ID token and returns its claims.
func (c *AuthClient) VerifyToken(ctx context.Context, idToken string) (*auth.Token, error) {
	token, err := c.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, errors.Unauthorized("Invalid or expired token", err)
	}
	return token, nil
}

// GetUser fetches the Firebase account record for a uid.
func (c *AuthClient) GetUser(ctx context.Context, uid string) (*auth.UserRecord, error) {
	record, err := c.client.GetUser(ctx, uid)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}
	return record, nil
}
