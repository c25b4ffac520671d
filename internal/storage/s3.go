package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3API is the subset of s3.Client used by S3Uploader.
type S3API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config configures the S3 compatibility client.
type S3Config struct {
	Namespace string
	Region    string

	// AccessKeyID and SecretAccessKey are a Customer Secret Key. When both
	// are empty the AWS default credential chain is used.
	AccessKeyID     string
	SecretAccessKey string
}

// Endpoint returns the S3 compatibility endpoint for the namespace and region.
func (c S3Config) Endpoint() string {
	return fmt.Sprintf("https://%s.compat.objectstorage.%s.oraclecloud.com", c.Namespace, c.Region)
}

// NewS3Client builds an s3.Client pointed at the Object Storage S3
// compatibility endpoint. Path-style addressing is required there.
func NewS3Client(ctx context.Context, c S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(c.Region),
		awsconfig.WithRetryMaxAttempts(1),
	}
	if c.AccessKeyID != "" || c.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load S3 compatibility config: %w", err)
	}
	endpoint := c.Endpoint()
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	}), nil
}

// S3Uploader writes through the S3 compatibility API. Buckets it creates
// land in the tenancy's designated S3 compartment.
type S3Uploader struct {
	client S3API
	region string
}

// NewS3Uploader returns an uploader using client.
func NewS3Uploader(client S3API, region string) *S3Uploader {
	return &S3Uploader{client: client, region: region}
}

// EnsureBucket issues HeadBucket and creates the bucket when it is missing.
func (u *S3Uploader) EnsureBucket(ctx context.Context, bucket string) (BucketStatus, error) {
	_, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		slog.Info("Bucket exists", "bucket", bucket)
		return BucketExists, nil
	}
	if !isS3NotFound(err) {
		return "", &Error{Op: "get", Bucket: bucket, Err: err}
	}

	_, err = u.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
		CreateBucketConfiguration: &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(u.region),
		},
	})
	if err != nil {
		if isS3OwnedByCaller(err) {
			return BucketExists, nil
		}
		return "", &Error{Op: "create", Bucket: bucket, Err: err}
	}
	slog.Info("Bucket created", "bucket", bucket)
	return BucketCreated, nil
}

// Upload puts the file at localPath as objectName.
func (u *S3Uploader) Upload(ctx context.Context, bucket, objectName, localPath string) error {
	f, size, err := openReport(localPath)
	if err != nil {
		return &Error{Op: "upload", Bucket: bucket, Object: objectName, Err: err}
	}
	defer f.Close()

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(objectName),
		Body:          f,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType(localPath)),
	})
	if err != nil {
		return &Error{Op: "upload", Bucket: bucket, Object: objectName, Err: err}
	}
	slog.Info("Uploaded object", "bucket", bucket, "object", objectName, "bytes", size)
	return nil
}

func isS3NotFound(err error) bool {
	var nf *types.NotFound
	var nsb *types.NoSuchBucket
	if errors.As(err, &nf) || errors.As(err, &nsb) {
		return true
	}
	return apiErrorCode(err) == "NotFound"
}

func isS3OwnedByCaller(err error) bool {
	var owned *types.BucketAlreadyOwnedByYou
	if errors.As(err, &owned) {
		return true
	}
	return apiErrorCode(err) == "BucketAlreadyOwnedByYou"
}

func apiErrorCode(err error) string {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return ae.ErrorCode()
	}
	return ""
}
