package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/letterpress/internal/client/client"
	cc "github.com/dmitrijs2005/letterpress/internal/client/config"
	"github.com/dmitrijs2005/letterpress/internal/common"
	"github.com/dmitrijs2005/letterpress/internal/logging"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

// ImageService turns a prompt into an image source usable in an img src.
type ImageService struct {
	client client.Client
	s3     cc.S3Config
	log    logging.Logger
}

func NewImageService(c client.Client, s3cfg cc.S3Config, log logging.Logger) *ImageService {
	return &ImageService{client: c, s3: s3cfg, log: log}
}

// GetRandomStorageKey returns a fresh object key for an image.
func GetRandomStorageKey(ext string) string {
	d := time.Now()
	return fmt.Sprintf("images/%d/%d/%d/%v.%s", d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

// Generate asks the server for an image. With object storage configured the
// image is uploaded and its public URL returned, otherwise a data URL.
func (s *ImageService) Generate(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("image prompt is empty")
	}

	img, err := s.client.GenerateImage(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate image: %w", err)
	}
	if !strings.HasPrefix(img.MimeType, "image/") {
		return "", fmt.Errorf("%w: mime type %q", common.ErrInvalidImage, img.MimeType)
	}
	data, err := base64.StdEncoding.DecodeString(img.ImageBase64)
	if err != nil || len(data) == 0 {
		return "", fmt.Errorf("%w: bad base64 payload", common.ErrInvalidImage)
	}

	if !s.s3.Enabled() {
		return "data:" + img.MimeType + ";base64," + img.ImageBase64, nil
	}
	return s.upload(ctx, data, img.MimeType)
}

func (s *ImageService) getS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.s3.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.s3.AccessKey,
			s.s3.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.s3.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.s3.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func (s *ImageService) upload(ctx context.Context, data []byte, mimeType string) (string, error) {
	client, err := s.getS3Client(ctx)
	if err != nil {
		return "", fmt.Errorf("s3 client: %w", err)
	}

	key := GetRandomStorageKey(strings.TrimPrefix(strings.SplitN(mimeType, ";", 2)[0], "image/"))
	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w: %v", common.ErrNetworkFailure, err)
	}

	s.log.Info(ctx, "image uploaded", "bucket", s.s3.Bucket, "key", key, "bytes", len(data))
	return s.publicURL(key), nil
}

func (s *ImageService) publicURL(key string) string {
	base := s.s3.PublicURL
	if base == "" {
		base = strings.TrimRight(s.s3.Endpoint, "/") + "/" + s.s3.Bucket
	}
	return strings.TrimRight(base, "/") + "/" + key
}
