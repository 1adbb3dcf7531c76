package ports

import "context"

// ObjectStore abstracts binary object storage for raw uploads and
// transformed outputs. The core engines never call it directly; the
// service layer materializes bytes before invoking the core.
type ObjectStore interface {
	Download(ctx context.Context, bucket, path string) ([]byte, error)
	Upload(ctx context.Context, bucket, path string, data []byte) (string, error)
	Delete(ctx context.Context, bucket, path string) error
	Exists(ctx context.Context, bucket, path string) (bool, error)
}
