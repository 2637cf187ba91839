package catalog

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/sitekit/internal/errors"
)

// ObjectGetter is the subset of the S3 client the catalog needs.
// *s3.Client implements it.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a YAML catalog from an S3 object.
type S3Source struct {
	Client ObjectGetter
	Bucket string
	Key    string
}

// maxCatalogSize bounds the object body read into memory.
const maxCatalogSize = 1 << 20

// Load implements Source.
func (s S3Source) Load(ctx context.Context) (Catalog, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, errors.New("E200").
			WithDetail("could not fetch s3://" + s.Bucket + "/" + s.Key).
			Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxCatalogSize+1))
	if err != nil {
		return nil, errors.New("E200").Wrap(err)
	}
	if len(data) > maxCatalogSize {
		return nil, errors.New("E200").
			WithDetail(fmt.Sprintf("catalog object too large: s3://%s/%s exceeds %d bytes", s.Bucket, s.Key, maxCatalogSize))
	}
	return Decode(data)
}

// NewS3Client builds an S3 client for region using static credentials from
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN.
func NewS3Client(region string) *s3.Client {
	creds := aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "sitekit-env",
		}, nil
	})
	return s3.New(s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(creds),
	})
}
