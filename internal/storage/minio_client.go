package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"

	"blogbreeze/internal/config"
)

// sniffLen is how many leading bytes are inspected to detect the content type.
const sniffLen = 3072

type Storage interface {
	UploadImage(ctx context.Context, prefix string, fileName string, file io.Reader, size int64) (string, string, error)
	DeleteImage(ctx context.Context, objectName string) error
	ObjectNameFromURL(imageURL string) (string, bool)
}

type MinIOClient struct {
	client *minio.Client
	config config.MinIO
}

func NewMinIOClient(ctx context.Context, cfg config.MinIO) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к MinIO: %w", err)
	}

	m := &MinIOClient{client: client, config: cfg}
	if err := m.ensureBucket(ctx); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *MinIOClient) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.config.BucketName)
	if err != nil {
		return fmt.Errorf("ошибка проверки бакета %s: %w", m.config.BucketName, err)
	}
	if exists {
		return nil
	}

	err = m.client.MakeBucket(ctx, m.config.BucketName, minio.MakeBucketOptions{Region: m.config.Region})
	if err != nil {
		return fmt.Errorf("ошибка создания бакета %s: %w", m.config.BucketName, err)
	}

	// images are served directly by their public URL
	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"AWS": ["*"]},
			"Action": ["s3:GetObject"],
			"Resource": ["arn:aws:s3:::%s/*"]
		}]
	}`, m.config.BucketName)
	if err := m.client.SetBucketPolicy(ctx, m.config.BucketName, policy); err != nil {
		log.WithError(err).Warn("не удалось выставить публичную политику бакета")
	}

	log.WithField("bucket", m.config.BucketName).Info("бакет создан")
	return nil
}

// UploadImage stores the file under prefix and returns its object name and public URL.
func (m *MinIOClient) UploadImage(ctx context.Context, prefix string, fileName string, file io.Reader, size int64) (string, string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", "", fmt.Errorf("ошибка чтения файла: %w", err)
	}
	head = head[:n]

	detected := mimetype.Detect(head)

	fileExt := strings.ToLower(filepath.Ext(fileName))
	if fileExt == "" {
		fileExt = detected.Extension()
	}

	now := time.Now()
	objectName := fmt.Sprintf("%s/%d/%02d/%s%s",
		prefix,
		now.Year(),
		now.Month(),
		uuid.New().String(),
		fileExt)

	_, err = m.client.PutObject(ctx, m.config.BucketName, objectName, io.MultiReader(bytes.NewReader(head), file), size,
		minio.PutObjectOptions{
			ContentType: detected.String(),
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", "", fmt.Errorf("ошибка загрузки в MinIO: %w", err)
	}

	return objectName, m.objectURL(objectName), nil
}

func (m *MinIOClient) DeleteImage(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.config.BucketName, objectName,
		minio.RemoveObjectOptions{
			GovernanceBypass: true,
		})
	if err != nil {
		return fmt.Errorf("ошибка удаления из MinIO: %w", err)
	}
	return nil
}

func (m *MinIOClient) objectURL(objectName string) string {
	return publicBase(m.config) + "/" + objectName
}

// ObjectNameFromURL reverses objectURL. It reports false for URLs outside the bucket.
func (m *MinIOClient) ObjectNameFromURL(imageURL string) (string, bool) {
	base := publicBase(m.config) + "/"
	if !strings.HasPrefix(imageURL, base) {
		return "", false
	}
	name := strings.TrimPrefix(imageURL, base)
	return name, name != ""
}

func publicBase(cfg config.MinIO) string {
	base := strings.TrimSuffix(cfg.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + cfg.Endpoint
	}
	return base + "/" + cfg.BucketName
}
