package anthropic

import (
	"context"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/rotisserie/eris"
)

// NewBedrockClient creates a Client that sends Messages requests through AWS
// Bedrock. Credentials come from the default AWS chain (env, profile, role).
func NewBedrockClient(ctx context.Context, region string) (Client, error) {
	opts := []func(*config.LoadOptions) error{}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "anthropic: load aws config")
	}
	return &sdkClient{client: sdk.NewClient(bedrock.WithConfig(awsCfg))}, nil
}
