package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/rs/zerolog"
)

// Bundle is the credential blob stored in AWS Secrets Manager. It is fetched
// once at process startup and treated as immutable for the process lifetime;
// no refresh or rotation path exists.
type Bundle struct {
	AccountSID          string `json:"account_sid"`
	AuthToken           string `json:"auth_token"`
	MessagingServiceSID string `json:"messaging_service_sid"`
	BearerToken         string `json:"bearer_token"`

	// Legacy key names still present in older secret versions.
	LegacyMSID   string `json:"msid"`
	LegacyBearer string `json:"bearer"`
}

// normalize folds legacy key names into the canonical fields.
func (b *Bundle) normalize() {
	if b.MessagingServiceSID == "" {
		b.MessagingServiceSID = b.LegacyMSID
	}
	if b.BearerToken == "" {
		b.BearerToken = b.LegacyBearer
	}
}

// validate returns an error naming every required field that is absent.
func (b *Bundle) validate() error {
	var missing []string
	if b.AccountSID == "" {
		missing = append(missing, "account_sid")
	}
	if b.AuthToken == "" {
		missing = append(missing, "auth_token")
	}
	if b.MessagingServiceSID == "" {
		missing = append(missing, "messaging_service_sid")
	}
	if len(missing) > 0 {
		return fmt.Errorf("secret bundle missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// RequireBearerToken returns an error when the bundle carries no bearer
// token. The api-server needs it to authenticate ingest callers; the worker
// does not, so this is a separate check rather than part of validate.
func (b *Bundle) RequireBearerToken() error {
	if b.BearerToken == "" {
		return fmt.Errorf("secret bundle missing required field: bearer_token")
	}
	return nil
}

// secretsAPI abstracts the AWS Secrets Manager client for testability.
type secretsAPI interface {
	GetSecretValue(ctx context.Context, secretID string) (string, error)
}

// awsSecretsClient wraps the real AWS Secrets Manager SDK client.
type awsSecretsClient struct {
	client *secretsmanager.Client
}

// newAWSSecretsClient creates an awsSecretsClient configured for the given region.
func newAWSSecretsClient(region string) (*awsSecretsClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &awsSecretsClient{client: secretsmanager.NewFromConfig(cfg)}, nil
}

// GetSecretValue fetches the secret string for the given secret ID.
func (c *awsSecretsClient) GetSecretValue(ctx context.Context, secretID string) (string, error) {
	out, err := c.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &secretID,
	})
	if err != nil {
		return "", err
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string payload", secretID)
	}
	return *out.SecretString, nil
}

// Loader fetches and parses the credential bundle.
type Loader struct {
	client   secretsAPI
	secretID string
	log      zerolog.Logger
}

// NewLoader creates a Loader backed by AWS Secrets Manager in the given region.
func NewLoader(region, secretID string, log zerolog.Logger) (*Loader, error) {
	client, err := newAWSSecretsClient(region)
	if err != nil {
		return nil, err
	}
	return newLoader(client, secretID, log), nil
}

// newLoader wires a Loader to any secretsAPI. Split out for tests.
func newLoader(client secretsAPI, secretID string, log zerolog.Logger) *Loader {
	return &Loader{
		client:   client,
		secretID: secretID,
		log:      log,
	}
}

// Load fetches the secret and returns the parsed, validated bundle. A fetch
// or parse failure here is a startup-time fatal condition for the caller:
// without credentials no request path is functional.
func (l *Loader) Load(ctx context.Context) (*Bundle, error) {
	raw, err := l.client.GetSecretValue(ctx, l.secretID)
	if err != nil {
		return nil, fmt.Errorf("get secret value: %w", err)
	}

	var bundle Bundle
	if err := json.Unmarshal([]byte(raw), &bundle); err != nil {
		return nil, fmt.Errorf("parse secret payload: %w", err)
	}

	bundle.normalize()
	if err := bundle.validate(); err != nil {
		return nil, err
	}

	l.log.Info().Str("secret_id", l.secretID).Msg("credential bundle loaded")
	return &bundle, nil
}
