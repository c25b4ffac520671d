package storage

import (
	"context"
	"log/slog"

	ocicommon "github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/objectstorage"

	"github.com/pankaj-dahiya-devops/netexpose/internal/providers/oci/common"
)

// OCIUploader writes through the native Object Storage API.
type OCIUploader struct {
	client        common.ObjectStorageClient
	namespace     string
	compartmentID string
}

// NewOCIUploader returns an uploader bound to namespace. New buckets are
// created in compartmentID.
func NewOCIUploader(client common.ObjectStorageClient, namespace, compartmentID string) *OCIUploader {
	return &OCIUploader{client: client, namespace: namespace, compartmentID: compartmentID}
}

// EnsureBucket looks the bucket up and creates it (private, standard tier)
// when the lookup returns 404. A concurrent create surfacing as 409 counts
// as existing.
func (u *OCIUploader) EnsureBucket(ctx context.Context, bucket string) (BucketStatus, error) {
	_, err := u.client.GetBucket(ctx, objectstorage.GetBucketRequest{
		NamespaceName:   ocicommon.String(u.namespace),
		BucketName:      ocicommon.String(bucket),
		RequestMetadata: common.NoRetry(),
	})
	if err == nil {
		slog.Info("Bucket exists", "bucket", bucket, "namespace", u.namespace)
		return BucketExists, nil
	}
	if !common.IsNotFound(err) {
		return "", &Error{Op: "get", Bucket: bucket, Err: err}
	}

	_, err = u.client.CreateBucket(ctx, objectstorage.CreateBucketRequest{
		NamespaceName: ocicommon.String(u.namespace),
		CreateBucketDetails: objectstorage.CreateBucketDetails{
			Name:             ocicommon.String(bucket),
			CompartmentId:    ocicommon.String(u.compartmentID),
			PublicAccessType: objectstorage.CreateBucketDetailsPublicAccessTypeNopublicaccess,
			StorageTier:      objectstorage.CreateBucketDetailsStorageTierStandard,
		},
		RequestMetadata: common.NoRetry(),
	})
	if err != nil {
		if common.IsConflict(err) {
			return BucketExists, nil
		}
		return "", &Error{Op: "create", Bucket: bucket, Err: err}
	}
	slog.Info("Bucket created", "bucket", bucket, "namespace", u.namespace)
	return BucketCreated, nil
}

// Upload puts the file at localPath as objectName.
func (u *OCIUploader) Upload(ctx context.Context, bucket, objectName, localPath string) error {
	f, size, err := openReport(localPath)
	if err != nil {
		return &Error{Op: "upload", Bucket: bucket, Object: objectName, Err: err}
	}
	defer f.Close()

	_, err = u.client.PutObject(ctx, objectstorage.PutObjectRequest{
		NamespaceName:   ocicommon.String(u.namespace),
		BucketName:      ocicommon.String(bucket),
		ObjectName:      ocicommon.String(objectName),
		ContentLength:   ocicommon.Int64(size),
		ContentType:     ocicommon.String(contentType(localPath)),
		PutObjectBody:   f,
		RequestMetadata: common.NoRetry(),
	})
	if err != nil {
		return &Error{Op: "upload", Bucket: bucket, Object: objectName, Err: err}
	}
	slog.Info("Uploaded object", "bucket", bucket, "object", objectName, "bytes", size)
	return nil
}
