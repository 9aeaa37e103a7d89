package s3client

import "time"

type Option func(c *S3Client)

func ConnAttempts(attempts int) Option {
	return func(c *S3Client) {
		c.connAttempts = attempts
	}
}

func ConnTimeout(timeout time.Duration) Option {
	return func(c *S3Client) {
		c.connTimeout = timeout
	}
}

func Region(region string) Option {
	return func(c *S3Client) {
		c.region = region
	}
}

// Endpoint points the client at an S3-compatible backend (garage, minio).
// Empty keeps the AWS regional endpoint.
func Endpoint(endpoint string) Option {
	return func(c *S3Client) {
		c.endpoint = endpoint
	}
}

func UsePathStyle(use bool) Option {
	return func(c *S3Client) {
		c.usePathStyle = use
	}
}
