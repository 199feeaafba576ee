package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// DefaultAdminPassword is used when no admin secret is configured.
// It is insecure and only kept so existing deployments without ADMIN_PASSWORD keep working.
const DefaultAdminPassword = "adminpassword123"

// Admin secret sources, reported so callers can log where the secret came from
const (
	SecretSourceSSM      = "ssm"
	SecretSourceEnv      = "env"
	SecretSourceFallback = "fallback"
)

// ParameterGetter is the part of the SSM client used to read the admin secret
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// NewSSMClient builds an SSM client from the default AWS credential chain
func NewSSMClient(ctx context.Context, c map[string]string) (*ssm.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if region := GetString(c, "AWS_REGION", ""); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// AdminPassword resolves the admin secret: the SSM parameter named by
// ADMIN_PASSWORD_SSM_PARAMETER first, then ADMIN_PASSWORD, then DefaultAdminPassword.
// getter may be nil when no SSM parameter is configured.
func AdminPassword(ctx context.Context, c map[string]string, getter ParameterGetter) (string, string, error) {
	if name := GetString(c, "ADMIN_PASSWORD_SSM_PARAMETER", ""); name != "" && getter != nil {
		out, err := getter.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(name),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return "", "", fmt.Errorf("read ssm parameter %s: %w", name, err)
		}
		if out.Parameter != nil && aws.ToString(out.Parameter.Value) != "" {
			return aws.ToString(out.Parameter.Value), SecretSourceSSM, nil
		}
	}

	if password := GetString(c, "ADMIN_PASSWORD", ""); password != "" {
		return password, SecretSourceEnv, nil
	}

	return DefaultAdminPassword, SecretSourceFallback, nil
}
