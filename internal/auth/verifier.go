package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dist-ecom/product-service/pkg/httpclient"
)

// MerchantVerifier reports whether a merchant account has passed
// verification. Unverified merchants may not mutate the catalog.
type MerchantVerifier interface {
	IsVerified(ctx context.Context, userID string) (bool, error)
}

// UserServiceVerifier checks merchant verification against the user
// service over HTTP, behind a circuit breaker.
type UserServiceVerifier struct {
	client  *httpclient.CircuitBreakerClient
	baseURL string
	logger  *slog.Logger
}

// NewUserServiceVerifier creates a verifier talking to the user service at
// baseURL.
func NewUserServiceVerifier(baseURL string, logger *slog.Logger) *UserServiceVerifier {
	client := httpclient.New(httpclient.DefaultConfig())
	cb := httpclient.NewCircuitBreakerClient(client, httpclient.DefaultCircuitBreakerConfig("user-service"), logger)

	return &UserServiceVerifier{
		client:  cb,
		baseURL: baseURL,
		logger:  logger,
	}
}

type verificationStatusResponse struct {
	IsVerified bool `json:"isVerified"`
}

// IsVerified fetches the verification status for the given user.
func (v *UserServiceVerifier) IsVerified(ctx context.Context, userID string) (bool, error) {
	url := fmt.Sprintf("%s/users/verification/status/%s", v.baseURL, userID)

	res, err := v.client.Get(ctx, url)
	if err != nil {
		return false, fmt.Errorf("user service verification check: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if res.StatusCode != http.StatusOK {
		return false, fmt.Errorf("user service verification check: unexpected status %d", res.StatusCode)
	}

	var body verificationStatusResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode verification response: %w", err)
	}

	return body.IsVerified, nil
}
