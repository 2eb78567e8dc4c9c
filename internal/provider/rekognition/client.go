package rekognition

import (
	"context"
	"errors"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/smithy-go"
)

const (
	errCodeAccessDenied       = "AccessDeniedException"
	errCodeUnrecognizedClient = "UnrecognizedClientException"
	errCodeInvalidParameter   = "InvalidParameterException"
	errCodeInvalidImageFormat = "InvalidImageFormatException"
	errCodeImageTooLarge      = "ImageTooLargeException"
	errCodeThroughput         = "ProvisionedThroughputExceededException"
	errCodeThrottling         = "ThrottlingException"
)

// API is the subset of the Rekognition client used by the provider
type API interface {
	DetectFaces(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error)
}

// Client wraps the AWS Rekognition client
type Client struct {
	rekognition API
	config      Config
}

// NewClient creates a new Rekognition client with the provided configuration
// It uses the AWS default credential chain to authenticate
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Client{
		rekognition: rekognition.NewFromConfig(awsCfg),
		config:      cfg,
	}, nil
}

// ParseAPIError maps AWS error codes to package errors
func ParseAPIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.ErrorCode() {
	case errCodeAccessDenied, errCodeUnrecognizedClient:
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, apiErr.ErrorMessage())
	case errCodeThroughput, errCodeThrottling:
		return fmt.Errorf("%w: %s", ErrThrottled, apiErr.ErrorMessage())
	case errCodeInvalidParameter, errCodeInvalidImageFormat, errCodeImageTooLarge:
		return fmt.Errorf("%w: %s", ErrInvalidImage, apiErr.ErrorMessage())
	}

	return err
}
