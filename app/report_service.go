package app

import (
	"context"

	"github.com/google/uuid"

	"zyra/adapters/tabular"
	"zyra/domain/analytics"
	apperrors "zyra/internal/errors"
	"zyra/internal/report"
	"zyra/ports"
)

// ReportService assembles full analysis reports under a stored or preset
// configuration.
type ReportService struct {
	datasets  *datasetResolver
	configs   ports.ConfigRepository
	assembler *report.Assembler
}

// NewReportService wires report assembly to storage and configuration
// persistence. The config repository may be nil; every request then uses
// the default or a preset configuration.
func NewReportService(store ports.ObjectStore, loader *tabular.Loader, configs ports.ConfigRepository, insights ports.InsightGenerator) *ReportService {
	return &ReportService{
		datasets:  &datasetResolver{store: store, loader: loader},
		configs:   configs,
		assembler: report.NewAssembler(insights),
	}
}

// ReportRequest selects the dataset and how to resolve the configuration.
// Exactly one of ConfigID, Preset, or UserID decides the configuration;
// with none set the built-in default applies.
type ReportRequest struct {
	Dataset     DatasetRef `json:"dataset"`
	DatasetName string     `json:"dataset_name,omitempty"`
	ConfigID    *uuid.UUID `json:"config_id,omitempty"`
	Preset      string     `json:"preset,omitempty"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
}

// Generate loads the dataset, resolves the configuration, and assembles
// the report. Assembly itself never fails; resolution errors do.
func (s *ReportService) Generate(ctx context.Context, req ReportRequest) (*report.Result, error) {
	t, err := s.datasets.resolve(ctx, req.Dataset)
	if err != nil {
		return nil, err
	}
	cfg, err := s.resolveConfiguration(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(ctx, t, req.DatasetName, cfg), nil
}

func (s *ReportService) resolveConfiguration(ctx context.Context, req ReportRequest) (analytics.Configuration, error) {
	switch {
	case req.ConfigID != nil:
		if s.configs == nil {
			return analytics.Configuration{}, apperrors.InvalidInput("configuration storage is not configured")
		}
		cfg, err := s.configs.GetByID(ctx, *req.ConfigID)
		if err != nil {
			return analytics.Configuration{}, err
		}
		return *cfg, nil

	case req.Preset != "":
		cfg, err := analytics.Preset(req.Preset)
		if err != nil {
			return analytics.Configuration{}, apperrors.InvalidInput(err.Error())
		}
		return cfg, nil

	case req.UserID != nil:
		if s.configs == nil {
			return analytics.Configuration{}, apperrors.InvalidInput("configuration storage is not configured")
		}
		cfg, err := s.configs.GetDefault(ctx, *req.UserID)
		if err != nil {
			if apperrors.GetCode(err) == apperrors.CodeNotFound {
				return analytics.Default(), nil
			}
			return analytics.Configuration{}, err
		}
		return *cfg, nil

	default:
		return analytics.Default(), nil
	}
}
