package identity

import (
	"context"
	"errors"

	"google.golang.org/api/idtoken"
)

// Verifier checks a third-party identity token against the trusted issuer
// and audience and returns the verified email claim.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (string, error)
}

// ErrNoEmailClaim is returned when a token validates but carries no email.
var ErrNoEmailClaim = errors.New("email not found in token payload")

type googleVerifier struct {
	audience string
}

// NewGoogleVerifier verifies Google ID tokens issued for the given OAuth
// client ID.
func NewGoogleVerifier(clientID string) Verifier {
	return &googleVerifier{audience: clientID}
}

func (g *googleVerifier) Verify(ctx context.Context, rawToken string) (string, error) {
	payload, err := idtoken.Validate(ctx, rawToken, g.audience)
	if err != nil {
		return "", err
	}
	email, ok := payload.Claims["email"].(string)
	if !ok || email == "" {
		return "", ErrNoEmailClaim
	}
	return email, nil
}
