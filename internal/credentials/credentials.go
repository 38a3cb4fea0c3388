// Package credentials supplies the access/secret key pair the warehouse
// dialect embeds in its COPY command, resolved through the default AWS
// config chain (env, shared config, instance role).
package credentials

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/leapstack-labs/bulkload/pkg/core"
)

// AWSProvider resolves credentials from the ambient AWS environment.
type AWSProvider struct{}

// NewAWSProvider creates the provider.
func NewAWSProvider() *AWSProvider { return &AWSProvider{} }

// Retrieve resolves the key pair, or a ConfigurationError when the chain
// yields nothing usable.
func (p *AWSProvider) Retrieve(ctx context.Context) (core.Credentials, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return core.Credentials{}, &core.ConfigurationError{
			Msg: fmt.Sprintf("loading aws config: %v", err),
		}
	}
	creds, err := cfg.Credentials.Retrieve(ctx)
	if err != nil {
		return core.Credentials{}, &core.ConfigurationError{
			Msg: fmt.Sprintf("resolving aws credentials: %v", err),
		}
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return core.Credentials{}, &core.ConfigurationError{
			Msg: "aws credentials are not configured",
		}
	}
	return core.Credentials{
		AccessKey: creds.AccessKeyID,
		SecretKey: creds.SecretAccessKey,
	}, nil
}

// Static returns a fixed key pair, mainly for tests and one-off tooling.
type Static struct {
	Creds core.Credentials
}

// Retrieve returns the fixed pair, or a ConfigurationError when either
// half is empty.
func (s *Static) Retrieve(context.Context) (core.Credentials, error) {
	if s.Creds.AccessKey == "" || s.Creds.SecretKey == "" {
		return core.Credentials{}, &core.ConfigurationError{
			Msg: "access/secret key pair is not configured",
		}
	}
	return s.Creds, nil
}

var (
	_ core.CredentialProvider = (*AWSProvider)(nil)
	_ core.CredentialProvider = (*Static)(nil)
)
