// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client for
// archiving catalog revision snapshots. It wraps the AWS SDK v2 and is
// configured for path-style access (required by CEPH/Hetzner/MinIO).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"ethicsadmin/internal/models"
)

// snapshotPrefix is the key prefix for archived catalog snapshots.
const snapshotPrefix = "catalog-snapshots/"

// Client wraps an S3 client for snapshot operations on a private bucket.
type Client struct {
	s3        *s3.Client
	presigner *s3.PresignClient
	bucket    string
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint, bucket or credentials are empty, allowing the
// app to start without storage.
func New(endpoint, region, accessKey, secretKey, bucket string) (*Client, error) {
	if endpoint == "" || bucket == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(strings.TrimRight(endpoint, "/")),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:        s3Client,
		presigner: s3.NewPresignClient(s3Client),
		bucket:    bucket,
	}, nil
}

// SnapshotKey returns the object key for a revision's snapshot.
func SnapshotKey(rev *models.CatalogRevision) string {
	return fmt.Sprintf("%s%s-%d.json", snapshotPrefix, rev.CreatedAt.UTC().Format("20060102T150405Z"), rev.ID)
}

// ArchiveSnapshot uploads the revision's snapshot and returns its key.
func (c *Client) ArchiveSnapshot(ctx context.Context, rev *models.CatalogRevision) (string, error) {
	if len(rev.Snapshot) == 0 {
		return "", fmt.Errorf("revision %d has no snapshot", rev.ID)
	}
	key := SnapshotKey(rev)
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(rev.Snapshot),
		ContentLength: aws.Int64(int64(len(rev.Snapshot))),
		ContentType:   aws.String("application/json"),
		Metadata: map[string]string{
			"actor":    rev.Actor,
			"revision": fmt.Sprint(rev.ID),
		},
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return key, nil
}

// PresignedURL generates a pre-signed GET URL for an archived snapshot.
// The URL is valid for the specified duration (at most 7 days for SigV4).
func (c *Client) PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("s3 presign %s/%s: %w", c.bucket, key, err)
	}
	return req.URL, nil
}

// Bucket returns the name of the snapshot bucket.
func (c *Client) Bucket() string {
	return c.bucket
}
