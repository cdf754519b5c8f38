package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/engage_api/shared"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

type MinIOService struct {
	appContext.DefaultService
	client     *minio.Client
	bucketName string
	endpoint   string
	accessKey  string
	secretKey  string
	useSSL     bool
}

const MINIO_SVC = "minio_svc"

func (svc MinIOService) Id() string {
	return MINIO_SVC
}

func (svc *MinIOService) Configure(ctx *appContext.Context) error {
	svc.endpoint = shared.GetEnv("MINIO_ENDPOINT", "localhost:9000")
	svc.accessKey = shared.GetEnv("MINIO_ACCESS_KEY", "admin")
	svc.secretKey = shared.GetEnv("MINIO_SECRET_KEY", "password123")
	svc.useSSL = shared.GetEnvBool("MINIO_USE_SSL", false)
	svc.bucketName = shared.GetEnv("MINIO_BUCKET_NAME", "study-exports")

	return svc.DefaultService.Configure(ctx)
}

func (svc *MinIOService) Start() error {
	client, err := minio.New(svc.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(svc.accessKey, svc.secretKey, ""),
		Secure: svc.useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %v", err)
	}

	svc.client = client

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.ensureBucket(ctx); err != nil {
		return fmt.Errorf("failed to ensure bucket exists: %v", err)
	}

	log.Printf("MinIO service started successfully with endpoint: %s", svc.endpoint)
	return nil
}

func (svc *MinIOService) ensureBucket(ctx context.Context) error {
	exists, err := svc.client.BucketExists(ctx, svc.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		err = svc.client.MakeBucket(ctx, svc.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("Created MinIO bucket: %s", svc.bucketName)
	}

	return nil
}

// PutObject uploads data under objectName and returns the stored size.
func (svc *MinIOService) PutObject(ctx context.Context, objectName string, data []byte, contentType string) (int64, error) {
	if svc.client == nil {
		return 0, fmt.Errorf("minio client not initialized")
	}

	info, err := svc.client.PutObject(ctx, svc.bucketName, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upload file to MinIO: %v", err)
	}

	return info.Size, nil
}

func (svc *MinIOService) GetBucketName() string {
	return svc.bucketName
}
