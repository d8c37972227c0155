package services

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cc "github.com/dmitrijs2005/letterpress/internal/client/config"
	"github.com/dmitrijs2005/letterpress/internal/client/models"
	"github.com/dmitrijs2005/letterpress/internal/common"
	"github.com/dmitrijs2005/letterpress/internal/logging"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestImageService_DataURL(t *testing.T) {
	b64 := base64.StdEncoding.EncodeToString(pngBytes)
	fc := &fakeClient{Image: &models.GeneratedImage{ImageBase64: b64, MimeType: "image/png"}}

	src, err := NewImageService(fc, cc.S3Config{}, logging.NewNop()).Generate(context.Background(), "a red fox")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,"+b64, src)
}

func TestImageService_RejectsBadPayloads(t *testing.T) {
	ctx := context.Background()

	svc := NewImageService(&fakeClient{Image: &models.GeneratedImage{ImageBase64: "aGk=", MimeType: "text/plain"}}, cc.S3Config{}, logging.NewNop())
	_, err := svc.Generate(ctx, "fox")
	require.ErrorIs(t, err, common.ErrInvalidImage)

	svc = NewImageService(&fakeClient{Image: &models.GeneratedImage{ImageBase64: "%%%", MimeType: "image/png"}}, cc.S3Config{}, logging.NewNop())
	_, err = svc.Generate(ctx, "fox")
	require.ErrorIs(t, err, common.ErrInvalidImage)

	_, err = svc.Generate(ctx, "   ")
	require.Error(t, err)
}

func TestImageService_UploadsToS3(t *testing.T) {
	origLoad, origPut := loadDefaultAWSConfig, putObject
	t.Cleanup(func() { loadDefaultAWSConfig, putObject = origLoad, origPut })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{Region: "us-east-1"}, nil
	}
	var (
		gotBucket, gotKey, gotType string
		gotBody                    []byte
	)
	putObject = func(_ *s3.Client, _ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		gotBucket, gotKey, gotType = aws.ToString(in.Bucket), aws.ToString(in.Key), aws.ToString(in.ContentType)
		gotBody, _ = io.ReadAll(in.Body)
		return &s3.PutObjectOutput{}, nil
	}

	fc := &fakeClient{Image: &models.GeneratedImage{ImageBase64: base64.StdEncoding.EncodeToString(pngBytes), MimeType: "image/png"}}
	s3cfg := cc.S3Config{Endpoint: "http://localhost:9000", Region: "us-east-1", Bucket: "assets", AccessKey: "k", SecretKey: "s"}

	src, err := NewImageService(fc, s3cfg, logging.NewNop()).Generate(context.Background(), "fox")
	require.NoError(t, err)

	assert.Equal(t, "assets", gotBucket)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, pngBytes, gotBody)
	assert.True(t, strings.HasSuffix(gotKey, ".png"), gotKey)
	assert.Equal(t, "http://localhost:9000/assets/"+gotKey, src)
}

func TestImageService_UploadFailure(t *testing.T) {
	origLoad, origPut := loadDefaultAWSConfig, putObject
	t.Cleanup(func() { loadDefaultAWSConfig, putObject = origLoad, origPut })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	putObject = func(*s3.Client, context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("bucket missing")
	}

	fc := &fakeClient{Image: &models.GeneratedImage{ImageBase64: base64.StdEncoding.EncodeToString(pngBytes), MimeType: "image/png"}}
	svc := NewImageService(fc, cc.S3Config{Bucket: "assets", PublicURL: "https://cdn.example.com/"}, logging.NewNop())

	_, err := svc.Generate(context.Background(), "fox")
	require.ErrorIs(t, err, common.ErrNetworkFailure)
}

func TestImageService_PublicURL(t *testing.T) {
	svc := NewImageService(nil, cc.S3Config{Bucket: "assets", PublicURL: "https://cdn.example.com/"}, logging.NewNop())
	assert.Equal(t, "https://cdn.example.com/images/x.png", svc.publicURL("images/x.png"))
}

func TestGetRandomStorageKey(t *testing.T) {
	a, b := GetRandomStorageKey("png"), GetRandomStorageKey("png")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "images/"))
	assert.True(t, strings.HasSuffix(a, ".png"))
}
