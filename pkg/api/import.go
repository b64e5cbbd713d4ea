package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// ImportService is the slice of the API the spreadsheet import wizard needs.
// The wizard depends on this interface so tests can stub the sequence.
type ImportService interface {
	CreateImport(ctx context.Context, req CreateImportRequest) (ImportSession, error)
	UploadFile(ctx context.Context, importID, fileName string, content io.Reader) (ImportSession, error)
	UpdateTransform(ctx context.Context, importID string, req TransformRequest) (TransformResult, error)
	UpdateSchema(ctx context.Context, importID string, req SchemaRequest) error
	ConfirmSheet(ctx context.Context, importID string, req ConfirmRequest) (ConfirmResult, error)
}

// CreateImportRequest names a new import before the file is uploaded.
type CreateImportRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ImportSession is the server-side import state.
type ImportSession struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	SheetNames []string `json:"sheet_names"`
}

// TransformRequest re-reads a sheet with the given header row and delimiter.
type TransformRequest struct {
	Sheet     string `json:"sheet"`
	HeaderRow int    `json:"header_row"`
	Delimiter string `json:"delimiter,omitempty"`
}

// SchemaColumn is one inferred (or user-adjusted) column of a sheet.
type SchemaColumn struct {
	SourceName   string `json:"source_name"`
	OriginalName string `json:"original_name"`
	TargetName   string `json:"target_name,omitempty"`
	Type         string `json:"type"`
	Enabled      bool   `json:"enabled"`
}

// TransformResult carries the inferred schema and a preview of the sheet.
type TransformResult struct {
	Sheet    string           `json:"sheet"`
	Columns  []SchemaColumn   `json:"columns"`
	Preview  []map[string]any `json:"preview"`
	RowCount int              `json:"row_count"`
}

// SchemaRequest pushes the finalized column mapping for a sheet.
type SchemaRequest struct {
	Sheet   string         `json:"sheet"`
	Columns []SchemaColumn `json:"columns"`
}

// ConfirmRequest commits one sheet into a dataset table.
type ConfirmRequest struct {
	Sheet string `json:"sheet"`
}

// ConfirmResult reports the outcome of committing one sheet. Row-level
// conversion failures arrive as error samples instead of aborting.
type ConfirmResult struct {
	Sheet         string   `json:"sheet"`
	TableID       string   `json:"table_id"`
	TableName     string   `json:"table_name"`
	ProcessedRows int      `json:"processed_rows"`
	ErrorRows     int      `json:"error_rows"`
	ErrorSamples  []string `json:"error_samples,omitempty"`
}

// CreateImport registers a new import session.
func (c *Client) CreateImport(ctx context.Context, req CreateImportRequest) (ImportSession, error) {
	var resp ImportSession
	if err := c.do(ctx, http.MethodPost, "/v1/imports", req, &resp); err != nil {
		return ImportSession{}, err
	}
	return resp, nil
}

// UploadFile attaches the spreadsheet to the session; the response lists the
// discovered sheet names.
func (c *Client) UploadFile(ctx context.Context, importID, fileName string, content io.Reader) (ImportSession, error) {
	var resp ImportSession
	path := fmt.Sprintf("/v1/imports/%s/file", importID)
	if err := c.uploadFile(ctx, path, fileName, content, &resp); err != nil {
		return ImportSession{}, err
	}
	return resp, nil
}

// UpdateTransform re-applies header row/delimiter settings to a sheet and
// returns the re-inferred schema plus preview rows.
func (c *Client) UpdateTransform(ctx context.Context, importID string, req TransformRequest) (TransformResult, error) {
	var resp TransformResult
	path := fmt.Sprintf("/v1/imports/%s/transform", importID)
	if err := c.do(ctx, http.MethodPut, path, req, &resp); err != nil {
		return TransformResult{}, err
	}
	return resp, nil
}

// UpdateSchema pushes the user-adjusted column mapping for a sheet.
func (c *Client) UpdateSchema(ctx context.Context, importID string, req SchemaRequest) error {
	path := fmt.Sprintf("/v1/imports/%s/schema", importID)
	return c.do(ctx, http.MethodPut, path, req, nil)
}

// ConfirmSheet commits one sheet.
func (c *Client) ConfirmSheet(ctx context.Context, importID string, req ConfirmRequest) (ConfirmResult, error) {
	var resp ConfirmResult
	path := fmt.Sprintf("/v1/imports/%s/confirm", importID)
	if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return ConfirmResult{}, err
	}
	return resp, nil
}

var _ ImportService = (*Client)(nil)
