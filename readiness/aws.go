package readiness

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// CallerIdentityAPI is the slice of the STS client the credential
// check needs. Satisfied by *sts.Client.
type CallerIdentityAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// NewSTSClient builds an STS client from the default AWS config chain.
func NewSTSClient(ctx context.Context) (*sts.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("readiness: load aws config: %w", err)
	}
	return sts.NewFromConfig(cfg), nil
}

// AWSCredentialsCheck probes caller identity against STS. Any failure
// from the boundary, auth or network, becomes a failed result with the
// error text preserved; the harness never crashes on it.
func AWSCredentialsCheck(api CallerIdentityAPI) Check {
	return Check{
		Name: "aws_credentials",
		Fn: func(ctx context.Context) (bool, string, error) {
			out, err := api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
			if err != nil {
				return false, "AWS credentials invalid or unreachable", err
			}

			identity := "unknown"
			if out.Arn != nil {
				identity = *out.Arn
			}
			return true, "authenticated as " + identity, nil
		},
	}
}
