/*
# Module: storage/s3.go
Publishes rendered share images to an S3 bucket.

## Linked Modules
(None)

## Tags
storage, s3, images

## Exports
S3PutAPI, ImagePublisher, NewImagePublisher, ShareImageKey

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "storage/s3.go" ;
    code:description "Publishes rendered share images to an S3 bucket" ;
    code:exports :S3PutAPI, :ImagePublisher, :NewImagePublisher, :ShareImageKey ;
    code:tags "storage", "s3", "images" .
<!-- End LinkedDoc RDF -->
*/
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// S3PutAPI is the subset of *s3.Client the publisher calls
type S3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImagePublisher uploads PNGs and returns their public URL
type ImagePublisher struct {
	client S3PutAPI
	bucket string
	region string
}

// NewImagePublisher creates a publisher for a bucket
func NewImagePublisher(client S3PutAPI, bucket, region string) *ImagePublisher {
	if region == "" {
		region = "us-east-1"
	}
	return &ImagePublisher{client: client, bucket: bucket, region: region}
}

// ShareImageKey is the object key for a recipe's share card at an amount.
// The same inputs always map to the same key so re-renders overwrite.
func ShareImageKey(recipeID string, amount int64, currency string) string {
	id := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '-' {
			return r
		}
		return '_'
	}, recipeID)
	return fmt.Sprintf("share/%s-%d%s.png", id, amount, strings.ToLower(currency))
}

// PublishPNG uploads a PNG under key and returns its public URL
func (p *ImagePublisher) PublishPNG(ctx context.Context, key string, data []byte) (string, error) {
	if p == nil || p.client == nil {
		return "", ErrNotConfigured
	}

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String("image/png"),
		CacheControl: aws.String("public, max-age=86400"),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to upload to S3")
	}

	publicURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.bucket, p.region, (&url.URL{Path: key}).EscapedPath())
	logrus.WithField("url", publicURL).Info("🖼️  Share image uploaded")
	return publicURL, nil
}
