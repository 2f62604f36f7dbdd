package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/fintrack/go-client/session"
	"github.com/pkg/errors"
)

// StatementUpload is the server's acknowledgment of an uploaded bank
// statement.
type StatementUpload struct {
	Success         bool   `json:"success"`
	FileName        string `json:"file_name"`
	FileSize        int64  `json:"file_size"`
	FileType        string `json:"file_type"`
	UploadSessionID string `json:"upload_session_id"`
	Message         string `json:"message,omitempty"`
}

// ReceiptData is what OCR extracted from a receipt image. Amount is a
// decimal string.
type ReceiptData struct {
	Merchant        string  `json:"merchant"`
	Amount          string  `json:"amount"`
	Date            string  `json:"date"`
	Category        string  `json:"category"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// ReceiptSuggestions are the server's proposed transaction fields for
// an extracted receipt.
type ReceiptSuggestions struct {
	TransactionType string `json:"transaction_type"`
	Category        string `json:"category"`
	Notes           string `json:"notes"`
}

// ReceiptResult is the outcome of receipt OCR processing.
type ReceiptResult struct {
	Success       bool               `json:"success"`
	FileName      string             `json:"file_name"`
	ExtractedData ReceiptData        `json:"extracted_data"`
	Suggestions   ReceiptSuggestions `json:"suggestions"`
	Message       string             `json:"message,omitempty"`
}

// UploadSession tracks one statement upload through processing.
type UploadSession struct {
	ID                   int64      `json:"id"`
	SessionID            string     `json:"session_id"`
	FileName             string     `json:"file_name"`
	FileType             string     `json:"file_type"`
	Status               string     `json:"status"`
	UploadedAt           time.Time  `json:"uploaded_at"`
	ProcessedAt          *time.Time `json:"processed_at"`
	TransactionsImported int        `json:"transactions_imported"`
	ErrorsCount          int        `json:"errors_count"`
	ErrorMessage         string     `json:"error_message,omitempty"`
}

// UploadSessionList is a page of upload sessions with per-status
// counts.
type UploadSessionList struct {
	Results      []UploadSession `json:"results"`
	Count        int             `json:"count"`
	StatusCounts map[string]int  `json:"status_counts"`
}

// StatementOptions describes a bank statement to upload.
type StatementOptions struct {
	Filename string
	Content  io.Reader
	// FileType is one of csv, json, excel or pdf; the server assumes
	// csv when empty.
	FileType string
}

// UploadsService drives statement ingestion and receipt OCR under
// /upload/.
type UploadsService struct {
	service
}

// UploadStatement submits a bank statement file for import.
func (s *UploadsService) UploadStatement(ctx context.Context, opts StatementOptions) (*StatementUpload, error) {
	fields := map[string]string{}
	if opts.FileType != "" {
		fields["file_type"] = opts.FileType
	}
	body, contentType, err := multipartFile(opts.Filename, opts.Content, fields)
	if err != nil {
		return nil, errors.Wrap(err, "[UploadsService.UploadStatement] build form")
	}

	req := session.NewRequest(http.MethodPost, "upload/upload_statement/", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.session.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	var uploaded StatementUpload
	if err := decodeJSON(resp.Body, &uploaded); err != nil {
		return nil, errors.Wrap(err, "[UploadsService.UploadStatement] decode response")
	}
	return &uploaded, nil
}

// ProcessReceipt submits a receipt image for OCR extraction.
func (s *UploadsService) ProcessReceipt(ctx context.Context, filename string, content io.Reader) (*ReceiptResult, error) {
	body, contentType, err := multipartFile(filename, content, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[UploadsService.ProcessReceipt] build form")
	}

	req := session.NewRequest(http.MethodPost, "upload/process_receipt/", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.session.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	var result ReceiptResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, errors.Wrap(err, "[UploadsService.ProcessReceipt] decode response")
	}
	return &result, nil
}

// Sessions lists past statement uploads and their processing state.
func (s *UploadsService) Sessions(ctx context.Context) (*UploadSessionList, error) {
	var list UploadSessionList
	if err := s.get(ctx, "upload/sessions/", &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// multipartFile builds a multipart body holding one file part plus any
// extra form fields, returning the encoded body and its content type.
func multipartFile(filename string, content io.Reader, fields map[string]string) ([]byte, string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	file, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(file, content); err != nil {
		return nil, "", err
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	if err := form.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), form.FormDataContentType(), nil
}
