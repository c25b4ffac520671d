// Package storage ensures the report bucket exists and uploads report files
// to it. Two backends are provided: the native OCI Object Storage API and the
// Object Storage S3 compatibility API.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BucketStatus reports what EnsureBucket found.
type BucketStatus string

const (
	BucketExists  BucketStatus = "exists"
	BucketCreated BucketStatus = "created"
)

// Uploader is the persistence sink for report files.
type Uploader interface {
	// EnsureBucket creates bucket when it does not exist.
	EnsureBucket(ctx context.Context, bucket string) (BucketStatus, error)

	// Upload stores the file at localPath as objectName in bucket.
	Upload(ctx context.Context, bucket, objectName, localPath string) error
}

// Error identifies the bucket and object a storage operation failed on.
type Error struct {
	Op     string
	Bucket string
	Object string
	Err    error
}

func (e *Error) Error() string {
	if e.Object == "" {
		return fmt.Sprintf("%s bucket %q: %v", e.Op, e.Bucket, e.Err)
	}
	return fmt.Sprintf("%s object %q: %v", e.Op, e.Bucket+"/"+e.Object, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// UploadAll uploads every file under prefix, stopping at the first failure.
// It returns the object names written.
func UploadAll(ctx context.Context, u Uploader, bucket, prefix string, files []string) ([]string, error) {
	objects := make([]string, 0, len(files))
	for _, f := range files {
		name := ObjectName(prefix, f)
		if err := u.Upload(ctx, bucket, name, f); err != nil {
			return objects, err
		}
		objects = append(objects, name)
	}
	return objects, nil
}

// ObjectName joins prefix and the base name of file with a single "/".
func ObjectName(prefix, file string) string {
	base := filepath.Base(file)
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return base
	}
	return prefix + "/" + base
}

var contentTypes = map[string]string{
	".json": "application/json",
	".md":   "text/markdown; charset=utf-8",
}

func contentType(path string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// openReport opens path and returns it with its size.
func openReport(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}
