// Package s3 implementa el image store sobre S3 o un servicio compatible (MinIO).
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/magazyn/magazyn/internal/domain"
	"github.com/magazyn/magazyn/internal/domain/repository"
	"github.com/magazyn/magazyn/pkg/config"
)

var _ repository.ImageStore = (*ImageStore)(nil)

// presignTTL validez de las URLs firmadas que se devuelven en los listados.
const presignTTL = 15 * time.Minute

// ImageStore imágenes de artículos en un bucket.
type ImageStore struct {
	client   *s3.Client
	presign  *s3.PresignClient
	bucket   string
	basePath string
	now      func() time.Time
}

// NewImageStore crea el cliente. Con Endpoint definido usa path-style (MinIO y similares).
// Sin AccessKey usa la cadena de credenciales por defecto del SDK.
func NewImageStore(ctx context.Context, cfg config.StorageConfig) (*ImageStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("cargar configuración AWS: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &ImageStore{
		client:   client,
		presign:  s3.NewPresignClient(client),
		bucket:   cfg.Bucket,
		basePath: strings.Trim(cfg.BasePath, "/"),
		now:      time.Now,
	}, nil
}

// Put sube la imagen con una clave nueva.
func (s *ImageStore) Put(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	key := s.generateKey(filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("subir a S3: %w", err)
	}
	return key, nil
}

// Get descarga la imagen.
func (s *ImageStore) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("leer de S3: %w", err)
	}
	return out.Body, aws.ToString(out.ContentType), nil
}

// Delete borra el objeto; S3 no falla si no existe.
func (s *ImageStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("borrar de S3: %w", err)
	}
	return nil
}

// URL firmada de lectura; la firma es local, no hace llamadas de red.
func (s *ImageStore) URL(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (s *ImageStore) generateKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.New().String() + ext
	datePath := s.now().Format("2006/01/02")
	if s.basePath != "" {
		return fmt.Sprintf("%s/%s/%s", s.basePath, datePath, name)
	}
	return fmt.Sprintf("%s/%s", datePath, name)
}
