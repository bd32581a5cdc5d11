package config

import "sync"

var (
	storageOnce   sync.Once
	storageConfig *StorageConfig
)

// StorageConfig selects the payload store backend.
type StorageConfig struct {
	// Backend is one of "local", "minio", "s3".
	Backend string
	// LocalDir is the payload directory for the local backend.
	LocalDir string
}

func GetStorageConfig() *StorageConfig {
	storageOnce.Do(func() {
		loadEnv()
		storageConfig = &StorageConfig{
			Backend:  getEnv("STORAGE_BACKEND", "local"),
			LocalDir: getEnv("STORAGE_LOCAL_DIR", "data/payloads"),
		}
	})
	return storageConfig
}

var (
	minioOnce   sync.Once
	minioConfig *MinioConfig
)

type MinioConfig struct {
	AccessKey  string
	SecretKey  string
	Endpoint   string
	UseSSL     bool
	Region     string
	BucketName string
}

func GetMinioConfig() *MinioConfig {
	minioOnce.Do(func() {
		loadEnv()
		minioConfig = &MinioConfig{
			AccessKey:  getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:  getEnv("MINIO_SECRET_KEY", ""),
			Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
			UseSSL:     getEnvBool("MINIO_USE_SSL", false),
			Region:     getEnv("MINIO_REGION", ""),
			BucketName: getEnv("MINIO_BUCKET_NAME", "processo-extractor"),
		}
	})
	return minioConfig
}

var (
	s3Once   sync.Once
	s3Config *S3Config
)

type S3Config struct {
	AccessKey  string
	SecretKey  string
	Region     string
	BucketName string
}

func GetS3Config() *S3Config {
	s3Once.Do(func() {
		loadEnv()
		s3Config = &S3Config{
			AccessKey:  getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Region:     getEnv("AWS_REGION", "us-east-1"),
			BucketName: getEnv("S3_BUCKET_NAME", "processo-extractor"),
		}
	})
	return s3Config
}
