// Package archive keeps a JSON copy of every submitted quote in S3 (or any
// S3-compatible store such as MinIO).
package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/bytedance/sonic"
	"github.com/dmitrijs2005/quotewizard/internal/quote"
)

// Document is the archived form of a submitted quote.
type Document struct {
	ID          string           `json:"id"`
	Client      quote.Client     `json:"client"`
	JobDetails  quote.JobDetails `json:"jobDetails"`
	Items       []quote.LineItem `json:"items"`
	Settings    quote.Settings   `json:"settings"`
	Totals      quote.Totals     `json:"totals"`
	SubmittedAt time.Time        `json:"submittedAt"`
}

// Options configure the S3 client. Empty credentials fall back to the
// default AWS credential chain.
type Options struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// PutObjectAPI is the part of *s3.Client the archiver uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) PutObjectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type S3Archiver struct {
	client PutObjectAPI
	bucket string
}

func NewS3Archiver(client PutObjectAPI, bucket string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket}
}

// NewS3ArchiverFromOptions builds the S3 client from opts. A custom endpoint
// switches to path-style addressing, which MinIO needs.
func NewS3ArchiverFromOptions(ctx context.Context, opts Options) (*S3Archiver, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}
	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3Archiver(client, opts.Bucket), nil
}

// Key is the object key of a quote archived at t: quotes/<yyyy>/<mm>/<id>.json.
func Key(id string, t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("quotes/%04d/%02d/%s.json", t.Year(), int(t.Month()), id)
}

// Archive uploads doc and returns its key.
func (a *S3Archiver) Archive(ctx context.Context, doc Document) (string, error) {
	body, err := sonic.ConfigStd.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode quote %s: %w", doc.ID, err)
	}
	key := Key(doc.ID, doc.SubmittedAt)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put %s/%s: %w", a.bucket, key, err)
	}
	return key, nil
}
