/* Copyright 2025 Catatan Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/catatan/catatan/pkg/log"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

// MinioConfig is the configuration of a MinioUploader
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// Region skips the bucket location lookup when set
	Region string
	// PublicURL is the base of the returned object URLs. It defaults to the endpoint.
	PublicURL string
}

// MinioUploader stores images in an S3 compatible bucket
type MinioUploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioUploader returns an uploader for the configured bucket
func NewMinioUploader(c MinioConfig) (*MinioUploader, error) {
	if c.Endpoint == "" || c.Bucket == "" {
		return nil, errors.New("minio endpoint and bucket are required")
	}

	client, err := minio.New(c.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
		Secure: c.UseSSL,
		Region: c.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, "initializing minio client")
	}

	publicURL := c.PublicURL
	if publicURL == "" {
		scheme := "http"
		if c.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, c.Endpoint)
	}

	return &MinioUploader{
		client:    client,
		bucket:    c.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// EnsureBucket creates the bucket if it does not exist
func (m *MinioUploader) EnsureBucket(ctx context.Context) error {
	ok, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return errors.Wrapf(err, "checking bucket %s", m.bucket)
	}
	if ok {
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrapf(err, "creating bucket %s", m.bucket)
	}

	log.WithFields(log.Fields{
		"bucket": m.bucket,
	}).Info("created image bucket")

	return nil
}

// ObjectName returns a fresh object name for a note image
func ObjectName() string {
	return fmt.Sprintf("notes/%s.jpg", uuid.New().String())
}

// URL returns the public URL of an object
func (m *MinioUploader) URL(object string) string {
	return fmt.Sprintf("%s/%s/%s", m.publicURL, m.bucket, object)
}

// Upload implements Uploader
func (m *MinioUploader) Upload(ctx context.Context, data []byte) (string, error) {
	name := ObjectName()

	_, err := m.client.PutObject(ctx, m.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: ContentType,
	})
	if err != nil {
		return "", errors.Wrapf(err, "putting object %s", name)
	}

	return m.URL(name), nil
}
