package console

import (
	"context"

	"github.com/promptdeck/deckhand/internal/client"
)

// ExportService drives export and import workflows.
type ExportService struct {
	client *client.Client
}

// BulkExportRequest selects what a bulk export includes.
type BulkExportRequest struct {
	Kinds []string `json:"kinds"`
	Tags  []string `json:"tags,omitempty"`
}

// StartBulkExport kicks off a server-side bulk export job.
func (s *ExportService) StartBulkExport(ctx context.Context, req BulkExportRequest) (*ExportJob, error) {
	resp, err := s.client.Post(ctx, "/export/bulk", req)
	if err != nil {
		return nil, err
	}
	var job ExportJob
	if err := resp.JSON(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

// ImportArchive uploads an export archive for import. Progress is reported
// as the body is written; the upload is never retried.
func (s *ExportService) ImportArchive(ctx context.Context, fileName string, content []byte, onProgress func(written int64)) (*ImportResult, error) {
	opts := []client.Option{}
	if onProgress != nil {
		opts = append(opts, client.WithProgress(onProgress))
	}

	resp, err := s.client.Upload(ctx, "/import",
		map[string]string{"kind": "archive"},
		[]client.FileField{{FieldName: "archive", FileName: fileName, Content: content}},
		opts...)
	if err != nil {
		return nil, err
	}
	var result ImportResult
	if err := resp.JSON(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
