package archive

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/bytedance/sonic"
	"github.com/dmitrijs2005/quotewizard/internal/quote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.in = in
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = b
	return &s3.PutObjectOutput{}, nil
}

func TestKey(t *testing.T) {
	at := time.Date(2026, 3, 9, 23, 30, 0, 0, time.FixedZone("X", -2*3600))
	assert.Equal(t, "quotes/2026/03/q-1.json", Key("q-1", time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "quotes/2026/03/q-2.json", Key("q-2", at.Add(-24*time.Hour)))
	assert.Equal(t, "quotes/2026/03/q-3.json", Key("q-3", time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC)))
}

func TestArchive_PutsJSONDocument(t *testing.T) {
	fake := &fakeS3{}
	a := NewS3Archiver(fake, "quote-archive")

	doc := Document{
		ID:          "q-1",
		Client:      quote.Client{Name: "Jane Doe"},
		Items:       []quote.LineItem{{ID: "i1", Description: "Cable", Category: quote.CategoryMaterials, Quantity: 2, UnitPrice: 1.5, TotalPrice: 3}},
		Settings:    quote.DefaultSettings(),
		Totals:      quote.Totals{Subtotal: 3, Total: 3},
		SubmittedAt: time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC),
	}
	key, err := a.Archive(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, "quotes/2026/05/q-1.json", key)
	assert.Equal(t, "quote-archive", aws.ToString(fake.in.Bucket))
	assert.Equal(t, key, aws.ToString(fake.in.Key))
	assert.Equal(t, "application/json", aws.ToString(fake.in.ContentType))

	var got Document
	require.NoError(t, sonic.ConfigStd.Unmarshal(fake.body, &got))
	assert.Equal(t, doc, got)
}

func TestArchive_PutError(t *testing.T) {
	a := NewS3Archiver(&fakeS3{err: errors.New("access denied")}, "b")

	_, err := a.Archive(context.Background(), Document{ID: "q-1", SubmittedAt: time.Now()})
	require.ErrorContains(t, err, "access denied")
}

func TestNewS3ArchiverFromOptions(t *testing.T) {
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() { loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNew })

	var gotOpts s3.Options
	fake := &fakeS3{}
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		var lo config.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-west-2", lo.Region)
		require.NotNil(t, lo.Credentials)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "minio", creds.AccessKeyID)
		return aws.Config{Region: lo.Region}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) PutObjectAPI {
		for _, fn := range optFns {
			fn(&gotOpts)
		}
		return fake
	}

	a, err := NewS3ArchiverFromOptions(context.Background(), Options{
		Bucket: "b", Region: "eu-west-2", BaseEndpoint: "http://localhost:9000", AccessKey: "minio", SecretKey: "minio123",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", aws.ToString(gotOpts.BaseEndpoint))
	assert.True(t, gotOpts.UsePathStyle)
	assert.Same(t, fake, a.client)
}

func TestNewS3ArchiverFromOptions_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(context.Context, ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no region")
	}

	_, err := NewS3ArchiverFromOptions(context.Background(), Options{Bucket: "b"})
	require.ErrorContains(t, err, "load aws config: no region")
}
