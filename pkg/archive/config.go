package archive

import "time"

// Config describes where batches are uploaded. Fields map to ARCHIVE_S3_*
// environment variables.
type Config struct {
	Bucket         string        `env:"ARCHIVE_S3_BUCKET,required"`
	Region         string        `env:"ARCHIVE_S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string        `env:"ARCHIVE_S3_ACCESS_KEY_ID"`
	SecretKey      string        `env:"ARCHIVE_S3_SECRET_KEY"`
	Endpoint       string        `env:"ARCHIVE_S3_ENDPOINT"`                        // for S3-compatible services
	ForcePathStyle bool          `env:"ARCHIVE_S3_FORCE_PATH_STYLE" envDefault:"false"` // MinIO and friends
	Prefix         string        `env:"ARCHIVE_S3_PREFIX" envDefault:"reconciliation"`
	BatchSize      int           `env:"ARCHIVE_S3_BATCH_SIZE" envDefault:"1000"`
	UploadTimeout  time.Duration `env:"ARCHIVE_S3_UPLOAD_TIMEOUT" envDefault:"1m"`
}
