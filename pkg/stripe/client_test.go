package stripe

import (
	"context"
	"testing"

	"github.com/shoreline-studio/shop-backend/pkg/config"
)

func TestNewClientValidatesKeyAgainstEnvironment(t *testing.T) {
	ctx := context.Background()

	_, err := NewClient(ctx, config.StripeConfig{APIKey: "sk_live_abc", Secret: "whsec_x", Env: "test"}, nil)
	if err == nil {
		t.Fatal("live key in test env must be rejected")
	}

	_, err = NewClient(ctx, config.StripeConfig{APIKey: "sk_test_abc", Secret: "whsec_x", Env: "staging"}, nil)
	if err == nil {
		t.Fatal("unknown environment must be rejected")
	}

	client, err := NewClient(ctx, config.StripeConfig{APIKey: "sk_test_abc", Secret: "whsec_x", Env: "test"}, nil)
	if err != nil {
		t.Fatalf("valid test config: %v", err)
	}
	if client.SigningSecret() != "whsec_x" {
		t.Fatalf("signing secret mismatch: %q", client.SigningSecret())
	}
	if client.Environment() != "test" {
		t.Fatalf("environment mismatch: %q", client.Environment())
	}
}

func TestNewClientRequiresSecrets(t *testing.T) {
	ctx := context.Background()
	if _, err := NewClient(ctx, config.StripeConfig{Secret: "whsec_x"}, nil); err == nil {
		t.Fatal("missing api key must error")
	}
	if _, err := NewClient(ctx, config.StripeConfig{APIKey: "sk_test_abc"}, nil); err == nil {
		t.Fatal("missing webhook secret must error")
	}
}
