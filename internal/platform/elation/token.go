package elation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenProvider supplies a bearer token for one API call.
type TokenProvider interface {
	Acquire(ctx context.Context) (string, error)
}

// OAuthTokenProvider exchanges client credentials for an access token on
// every call. Tokens are deliberately never cached: each EMR call pays one
// extra round trip and in return can never hold a stale token.
type OAuthTokenProvider struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client
}

func NewTokenProvider(clientID, clientSecret, tokenURL string, httpClient *http.Client) *OAuthTokenProvider {
	return &OAuthTokenProvider{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     tokenURL,
		httpClient:   httpClient,
	}
}

// Acquire performs a client-credentials grant against the token endpoint.
// Credentials are sent as form fields, which is what the Elation endpoint
// expects. A 401 surfaces as *AuthenticationError carrying the provider's
// error code, any other non-2xx as *HTTPError, and a 2xx response without an
// access_token as *ProtocolError.
func (p *OAuthTokenProvider) Acquire(ctx context.Context) (string, error) {
	cfg := clientcredentials.Config{
		ClientID:     p.clientID,
		ClientSecret: p.clientSecret,
		TokenURL:     p.tokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	if p.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	}

	tok, err := cfg.Token(ctx)
	if err != nil {
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) {
			status := 0
			if rErr.Response != nil {
				status = rErr.Response.StatusCode
			}
			if status == http.StatusUnauthorized {
				code := rErr.ErrorCode
				if code == "" {
					code = strings.TrimSpace(string(rErr.Body))
				}
				return "", &AuthenticationError{Code: code}
			}
			return "", &HTTPError{StatusCode: status, Body: string(rErr.Body)}
		}
		if strings.Contains(err.Error(), "missing access_token") {
			return "", &ProtocolError{Reason: "token response missing access_token"}
		}
		return "", fmt.Errorf("fetch token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", &ProtocolError{Reason: "token response missing access_token"}
	}
	return tok.AccessToken, nil
}
