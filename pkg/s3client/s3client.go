package s3client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	_defaultConnAttempts = 10
	_defaultConnTimeout  = time.Second
	_defaultRegion       = "ap-south-1"
)

var ErrMissingCredentials = errors.New("s3 credentials are not set")

type S3Client struct {
	connAttempts int
	connTimeout  time.Duration

	endpoint     string
	region       string
	accessKey    string
	secretKey    string
	bucket       string
	usePathStyle bool

	Client *s3.Client
}

// New builds the client and checks that bucket is reachable with the given credentials.
// Empty credentials fail immediately, before any network call.
func New(ctx context.Context, accessKey, secretKey, bucket string, opts ...Option) (*S3Client, error) {
	if accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("S3Client - New: %w", ErrMissingCredentials)
	}

	s3c := &S3Client{
		connAttempts: _defaultConnAttempts,
		connTimeout:  _defaultConnTimeout,
		region:       _defaultRegion,
		accessKey:    accessKey,
		secretKey:    secretKey,
		bucket:       bucket,
	}

	for _, opt := range opts {
		opt(s3c)
	}

	var err error
	for s3c.connAttempts > 0 {
		err = s3c.connect(ctx)
		if err == nil {
			break
		}

		log.Printf("S3 is trying to connect, attempts left: %d", s3c.connAttempts)

		time.Sleep(s3c.connTimeout)

		s3c.connAttempts--
	}

	if err != nil {
		return nil, fmt.Errorf("S3Client - New - connAttempts == 0: %w", err)
	}

	return s3c, nil
}

func (s *S3Client) connect(ctx context.Context) error {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(s.region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.accessKey, s.secretKey, ""),
		),
	)
	if err != nil {
		return fmt.Errorf("S3Client - config.LoadDefaultConfig: %w", err)
	}

	s.Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = s.usePathStyle
		if s.endpoint != "" {
			o.BaseEndpoint = aws.String(s.endpoint)
		}
	})

	_, err = s.Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("S3Client - s.Client.HeadBucket: %w", err)
	}

	return nil
}

// Region reports the region the client was configured with.
func (s *S3Client) Region() string {
	return s.region
}

func (s *S3Client) Endpoint() string {
	return s.endpoint
}

func (s *S3Client) PathStyle() bool {
	return s.usePathStyle
}
