package upload

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/workgraphui/manager/helper"
)

// S3Config holds the configuration for S3 storage
type S3Config struct {
	Endpoint        string
	Region          string
	BucketName      string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

// FilesystemS3 implements the Filesystem interface for S3-compatible object storage
type FilesystemS3 struct {
	client *s3.Client
	bucket string
}

// NewFilesystemS3 creates a new S3 filesystem instance with the specified configuration
func NewFilesystemS3(config S3Config) (Filesystem, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(config.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			config.AccessKeyID,
			config.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("loading S3 configuration failed: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if config.Endpoint != "" {
			scheme := "https"
			if !config.UseSSL {
				scheme = "http"
			}
			endpoint := config.Endpoint
			if !strings.Contains(endpoint, "://") {
				endpoint = scheme + "://" + endpoint
			}
			o.BaseEndpoint = aws.String(endpoint)
			// MinIO and other S3-compatible stores need path-style addressing.
			o.UsePathStyle = true
		}
	})

	return &FilesystemS3{
		client: client,
		bucket: config.BucketName,
	}, nil
}

// Write streams data from reader to an object at the specified path
func (s *FilesystemS3) Write(path string, reader io.Reader, size int64) error {
	_, err := s.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(path),
		Body:          reader,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(helper.GetMimeType(path)),
	})
	return err
}

// Open opens an object at the specified path and returns a ReadCloser
func (s *FilesystemS3) Open(path string) (io.ReadCloser, error) {
	output, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, err
	}
	return output.Body, nil
}

// Delete removes the object at the specified path
func (s *FilesystemS3) Delete(path string) error {
	_, err := s.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	return err
}

// ListFiles returns all objects under the given repository prefix
func (s *FilesystemS3) ListFiles(prefix string) ([]File, error) {
	files := []File{}

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix + "/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(context.Background())
		if err != nil {
			return nil, err
		}
		for _, object := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(object.Key), prefix+"/")
			if name == "" {
				continue
			}
			files = append(files, File{
				Name:     name,
				Size:     aws.ToInt64(object.Size),
				MimeType: helper.GetMimeType(name),
			})
		}
	}

	return files, nil
}
