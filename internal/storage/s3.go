// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides the S3-compatible object storage client used by
// each product vertical. Every vertical owns one public bucket; uploads
// return a public URL and deletes take that URL back. It wraps the AWS SDK
// v2 configured for path-style access.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ErrNotOwned is returned by Delete for URLs that do not live in the
// client's bucket. Such URLs are externally hosted and never deleted.
var ErrNotOwned = errors.New("storage: url is not owned by this bucket")

// Options configures a Client.
type Options struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string // optional CDN/direct base URL for public files
}

// Client wraps an S3 client bound to a single bucket.
type Client struct {
	s3        *s3.Client
	bucket    string
	endpoint  string
	publicURL string
	fragment  string // substring that marks a URL as owned
}

// New creates an S3 storage client with path-style addressing.
// Returns (nil, nil) if endpoint, credentials or bucket are empty, allowing
// the vertical to start without storage.
func New(opts Options) (*Client, error) {
	if opts.Endpoint == "" || opts.AccessKey == "" || opts.SecretKey == "" || opts.Bucket == "" {
		return nil, nil
	}

	endpoint := strings.TrimRight(opts.Endpoint, "/")
	s3Client := s3.New(s3.Options{
		Region:       opts.Region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		UsePathStyle: true,
	})

	return newClient(s3Client, endpoint, opts.Bucket, opts.PublicURL), nil
}

func newClient(s3Client *s3.Client, endpoint, bucket, publicURL string) *Client {
	c := &Client{
		s3:        s3Client,
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
	if c.publicURL != "" {
		c.fragment = c.publicURL + "/"
	} else {
		c.fragment = "/" + bucket + "/"
	}
	return c
}

// Upload stores an object with a public-read ACL and returns its public URL.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return c.FileURL(key), nil
}

// Delete removes the object behind a public URL. URLs outside the bucket
// return ErrNotOwned without touching S3.
func (c *Client) Delete(ctx context.Context, rawURL string) error {
	key, ok := c.KeyFromURL(rawURL)
	if !ok {
		return ErrNotOwned
	}
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// FileURL returns the public URL for a key.
// Uses the configured public URL if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

// Owns reports whether the URL points into this client's bucket.
func (c *Client) Owns(rawURL string) bool {
	return strings.Contains(rawURL, c.fragment)
}

// KeyFromURL extracts the object key that follows the owned fragment.
func (c *Client) KeyFromURL(rawURL string) (string, bool) {
	idx := strings.Index(rawURL, c.fragment)
	if idx < 0 {
		return "", false
	}
	key := rawURL[idx+len(c.fragment):]
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if key == "" {
		return "", false
	}
	return key, true
}

// Bucket returns the name of the bucket.
func (c *Client) Bucket() string {
	return c.bucket
}
