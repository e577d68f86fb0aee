package archive

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client is the subset of *s3.Client used by S3Sink.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ClientOption customises NewS3Client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	httpClient      *http.Client
	configOptions   []func(*config.LoadOptions) error
	s3ClientOptions []func(*s3.Options)
}

// WithHTTPClient sets a custom HTTP client for S3 requests.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithConfigOption adds a custom AWS config option.
func WithConfigOption(option func(*config.LoadOptions) error) ClientOption {
	return func(o *clientOptions) {
		o.configOptions = append(o.configOptions, option)
	}
}

// WithS3ClientOption adds a custom S3 client option.
func WithS3ClientOption(option func(*s3.Options)) ClientOption {
	return func(o *clientOptions) {
		o.s3ClientOptions = append(o.s3ClientOptions, option)
	}
}

// NewS3Client builds an *s3.Client from cfg. Static credentials are used
// when both keys are set; otherwise the default AWS credential chain applies.
func NewS3Client(ctx context.Context, cfg Config, opts ...ClientOption) (*s3.Client, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	o := &clientOptions{}
	for _, opt := range opts {
		opt(o)
	}

	awsOptions := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		awsOptions = append(awsOptions,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretKey,
				"",
			)),
		)
	}
	if o.httpClient != nil {
		awsOptions = append(awsOptions, config.WithHTTPClient(o.httpClient))
	}
	awsOptions = append(awsOptions, o.configOptions...)

	awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToLoadConfig, err)
	}

	return s3.NewFromConfig(awsConfig, func(so *s3.Options) {
		if cfg.Endpoint != "" {
			so.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		so.UsePathStyle = cfg.ForcePathStyle
		for _, opt := range o.s3ClientOptions {
			opt(so)
		}
	}), nil
}
