package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"vidros-backend/internal/app/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

type MinIOClient struct {
	client     *minio.Client
	bucketName string
	publicURL  string
}

// NewMinIOClient cria o cliente e o bucket das fotos se ainda não existir
func NewMinIOClient(ctx context.Context, cfg config.MinIOConfig) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logrus.Infof("Bucket %s created successfully", cfg.Bucket)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Endpoint
	}

	return &MinIOClient{
		client:     client,
		bucketName: cfg.Bucket,
		publicURL:  strings.TrimRight(publicURL, "/"),
	}, nil
}

// UploadPhoto reduz a imagem se necessário, grava-a e devolve o URL público
func (m *MinIOClient) UploadPhoto(ctx context.Context, data []byte, originalFilename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))

	data, err := Shrink(data, ext, MaxPhotoWidth)
	if err != nil {
		return "", err
	}

	objectName := ObjectName(ext)
	_, err = m.client.PutObject(ctx, m.bucketName, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: ContentType(ext),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	logrus.Infof("File %s uploaded successfully", objectName)
	return m.ObjectURL(objectName), nil
}

// DeleteFile remove um objeto do bucket
func (m *MinIOClient) DeleteFile(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.bucketName, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (m *MinIOClient) ObjectURL(objectName string) string {
	return m.publicURL + "/" + m.bucketName + "/" + objectName
}

// ObjectName nome único em latim para o objeto
func ObjectName(ext string) string {
	return "pedido_" + uuid.NewString() + ext
}

func ContentType(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	}
	return "application/octet-stream"
}
