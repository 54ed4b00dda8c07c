// Package provider integrates external identity providers.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-budget-auth/internal/config"
	"github.com/MKhiriev/go-budget-auth/internal/service"
	"google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var ErrInvalidGoogleAudience = errors.New("invalid google audience")

// GoogleOAuthProvider validates Google ID tokens through the Google tokeninfo
// endpoint. It implements [service.GoogleTokenValidator].
type GoogleOAuthProvider struct {
	clientID string
}

func NewGoogleOAuthProvider(cfg config.Google) *GoogleOAuthProvider {
	return &GoogleOAuthProvider{clientID: cfg.ClientID}
}

// Validate resolves an ID token to the Google identity it asserts. Tokens
// issued for a different OAuth client are rejected even when otherwise valid.
func (p *GoogleOAuthProvider) Validate(ctx context.Context, idToken string) (service.GoogleIdentity, error) {
	oauth2Service, err := oauth2.NewService(ctx, option.WithHTTPClient(&http.Client{}))
	if err != nil {
		return service.GoogleIdentity{}, fmt.Errorf("failed to create oauth2 service: %w", err)
	}

	tokenInfoCall := oauth2Service.Tokeninfo()
	tokenInfoCall.IdToken(idToken)
	tokenInfo, err := tokenInfoCall.Context(ctx).Do()
	if err != nil {
		return service.GoogleIdentity{}, fmt.Errorf("failed to validate id token: %w", err)
	}

	if tokenInfo.Audience != p.clientID {
		return service.GoogleIdentity{}, ErrInvalidGoogleAudience
	}

	return service.GoogleIdentity{
		Subject: tokenInfo.UserId,
		Email:   tokenInfo.Email,
	}, nil
}
