// Package app wires the core engines to the storage and persistence ports
// and exposes the operations the HTTP surface calls.
package app

import (
	"context"

	"zyra/adapters/tabular"
	"zyra/domain/table"
	apperrors "zyra/internal/errors"
	"zyra/ports"
)

// DatasetRef locates a stored dataset.
type DatasetRef struct {
	Bucket   string `json:"bucket"`
	Path     string `json:"path"`
	FileType string `json:"file_type"`
}

func (r DatasetRef) validate() error {
	if r.Bucket == "" || r.Path == "" {
		return apperrors.InvalidInput("dataset bucket and path are required")
	}
	if r.FileType == "" {
		return apperrors.InvalidInput("dataset file_type is required")
	}
	return nil
}

// datasetResolver materializes tables from the object store.
type datasetResolver struct {
	store  ports.ObjectStore
	loader *tabular.Loader
}

func (d *datasetResolver) resolve(ctx context.Context, ref DatasetRef) (*table.Table, error) {
	if err := ref.validate(); err != nil {
		return nil, err
	}
	data, err := d.store.Download(ctx, ref.Bucket, ref.Path)
	if err != nil {
		return nil, err
	}
	return d.loader.Load(data, ref.FileType)
}
