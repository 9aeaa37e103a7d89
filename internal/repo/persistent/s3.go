package persistent

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/andreyxaxa/LocalStoreConnect/internal/dto"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/s3client"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/types/errs"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3 caps DeleteObjects at 1000 keys per request.
const deleteBatchSize = 1000

type ObjectRepo struct {
	*s3client.S3Client
	bucket     string
	publicRead bool
	baseURL    string
}

func NewObjectRepo(s3c *s3client.S3Client, bucket, publicBaseURL string, publicRead bool) *ObjectRepo {
	return &ObjectRepo{
		S3Client:   s3c,
		bucket:     bucket,
		publicRead: publicRead,
		baseURL:    publicBase(publicBaseURL, s3c.Endpoint(), bucket, s3c.Region(), s3c.PathStyle()),
	}
}

// publicBase resolves the prefix every object URL starts with, without a trailing slash.
func publicBase(publicBaseURL, endpoint, bucket, region string, pathStyle bool) string {
	switch {
	case publicBaseURL != "":
		return strings.TrimRight(publicBaseURL, "/")
	case endpoint != "":
		return strings.TrimRight(endpoint, "/") + "/" + bucket
	case pathStyle:
		return fmt.Sprintf("https://s3.%s.amazonaws.com/%s", region, bucket)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
}

// Upload makes a single PutObject attempt and returns the public URL of the object.
func (r *ObjectRepo) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if r.publicRead {
		input.ACL = types.ObjectCannedACLPublicRead
	}

	_, err := r.Client.PutObject(ctx, input, func(o *s3.Options) {
		o.RetryMaxAttempts = 1
	})
	if err != nil {
		return "", fmt.Errorf("ObjectRepo - Upload - r.Client.PutObject: %w: %w", errs.ErrStorageUnavailable, err)
	}

	return r.URL(key), nil
}

func (r *ObjectRepo) Delete(ctx context.Context, key string) error {
	_, err := r.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("ObjectRepo - Delete - r.Client.DeleteObject: %w: %w", errs.ErrStorageUnavailable, err)
	}

	return nil
}

// DeleteBatch never fails as a whole: keys S3 did not confirm are reported in Failed.
func (r *ObjectRepo) DeleteBatch(ctx context.Context, keys []string) dto.BatchDeleteResult {
	var res dto.BatchDeleteResult

	for start := 0; start < len(keys); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(keys))
		chunk := keys[start:end]

		ids := make([]types.ObjectIdentifier, 0, len(chunk))
		for _, k := range chunk {
			ids = append(ids, types.ObjectIdentifier{Key: aws.String(k)})
		}

		out, err := r.Client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(r.bucket),
			Delete: &types.Delete{
				Objects: ids,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			res.Failed = append(res.Failed, chunk...)
			continue
		}

		failed := make(map[string]struct{}, len(out.Errors))
		for _, e := range out.Errors {
			failed[aws.ToString(e.Key)] = struct{}{}
		}

		for _, k := range chunk {
			if _, ok := failed[k]; ok {
				res.Failed = append(res.Failed, k)
			} else {
				res.Deleted = append(res.Deleted, k)
			}
		}
	}

	return res
}

func (r *ObjectRepo) URL(key string) string {
	return r.baseURL + "/" + key
}

// KeyFromURL reports the key of url when it points into this bucket.
func (r *ObjectRepo) KeyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, r.baseURL+"/")
	if !ok || key == "" {
		return "", false
	}

	return key, true
}
