package admin

import (
	"context"
	"fmt"
	"io"

	"github.com/siagacs/siaga-admin/internal/api"
)

// Dataset names a spreadsheet the backend can import or export.
type Dataset string

// Datasets with spreadsheet support.
const (
	DatasetSatpam Dataset = "satpam"
	DatasetShifts Dataset = "shifts"
)

// ImportResult reports how many rows an import created.
type ImportResult struct {
	InsertedCount int `json:"inserted_count" yaml:"inserted_count"`
}

// ExportSatpam downloads the guard roster workbook.
func (c *Client) ExportSatpam(ctx context.Context) (*api.File, error) {
	file, err := c.api.Download(ctx, pathExport+"/satpam", nil)
	if err != nil {
		return nil, err
	}
	if file.Name == "" {
		file.Name = "satpam_export.xlsx"
	}
	return file, nil
}

// ImportTemplate downloads the empty workbook for dataset.
func (c *Client) ImportTemplate(ctx context.Context, dataset Dataset) (*api.File, error) {
	file, err := c.api.Download(ctx, pathImportTemplate+"/"+string(dataset), nil)
	if err != nil {
		return nil, err
	}
	if file.Name == "" {
		file.Name = fmt.Sprintf("%s_import_template.xlsx", dataset)
	}
	return file, nil
}

// Import uploads a filled workbook for dataset. A response without a
// count reports zero rows.
func (c *Client) Import(ctx context.Context, dataset Dataset, filename string, r io.Reader) (*ImportResult, error) {
	res, err := c.api.Upload(ctx, pathImport+"/"+string(dataset), "file", filename, r)
	if err != nil {
		return nil, importError(dataset, err)
	}
	out, err := api.DecodeObject[ImportResult](res)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = &ImportResult{}
	}
	return out, nil
}

func importError(dataset Dataset, err error) error {
	apiErr, ok := api.AsError(err)
	if !ok || apiErr.Message != api.MessageRequestFailed {
		return err
	}
	cp := *apiErr
	cp.Message = fmt.Sprintf("Failed to import %s", dataset)
	return &cp
}
