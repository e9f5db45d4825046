package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/ministrysync/internal/client/models"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Settings configures direct object storage.
type S3Settings struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	// PublicURL prefixes object keys in returned URLs. Defaults to
	// BaseEndpoint/Bucket.
	PublicURL string
}

// S3Store keeps assets in an S3-compatible bucket. The deletion handle is
// the object key.
type S3Store struct {
	api       objectAPI
	bucket    string
	publicURL string
	now       func() time.Time
}

func NewS3Store(ctx context.Context, s S3Settings) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.AccessKey,
			s.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	api := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	public := s.PublicURL
	if public == "" {
		public = strings.TrimRight(s.BaseEndpoint, "/") + "/" + s.Bucket
	}

	return &S3Store{
		api:       api,
		bucket:    s.Bucket,
		publicURL: strings.TrimRight(public, "/"),
		now:       time.Now,
	}, nil
}

// ObjectKey builds media/<yyyy>/<mm>/<uuid><ext>.
func (s *S3Store) ObjectKey(name string) string {
	d := s.now()
	return fmt.Sprintf("media/%04d/%02d/%s%s", d.Year(), int(d.Month()), uuid.New(), strings.ToLower(path.Ext(name)))
}

func (s *S3Store) Upload(ctx context.Context, kind models.MediaKind, name string, r io.Reader) (models.Media, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.Media{}, fmt.Errorf("read file: %w", err)
	}
	ct, _ := Detect(name, data)

	key := s.ObjectKey(name)
	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(ct),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return models.Media{}, fmt.Errorf("put object: %w", err)
	}

	return models.Media{URL: s.publicURL + "/" + key, PublicID: key}, nil
}

func (s *S3Store) Delete(ctx context.Context, kind models.MediaKind, handle string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(handle),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
