package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-analyzer/internal/analysis"
)

// multipartOverhead is allowed on top of the upload limit for boundaries and the
// job description part.
const multipartOverhead = 1 << 20

// Messages returned for rejected uploads.
const (
	msgFileRequired = "Resume file is required and cannot be empty."
	msgInvalidType  = "Invalid file type. Only PDF, DOC, DOCX or TXT files are allowed."
)

// AnalyzeUpload is the validated view of a multipart analyze request.
type AnalyzeUpload struct {
	FileName       string `validate:"required"`
	Size           int64  `validate:"gt=0"`
	Extension      string `validate:"oneof=.pdf .doc .docx .txt"`
	ContentType    string `validate:"omitempty,max=255"`
	JobDescription string `validate:"omitempty,max=100000"`
}

// handleAnalyze accepts a resume upload plus an optional job description and
// returns the analysis result.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	log.Printf("[analyze] Received resume analysis request")

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusBadRequest, s.sizeLimitMessage())
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart request: "+err.Error())
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Printf("[analyze] File is missing: %v", err)
		s.errorResponse(w, http.StatusBadRequest, msgFileRequired)
		return
	}
	defer func() { _ = file.Close() }()

	upload := AnalyzeUpload{
		FileName:       header.Filename,
		Extension:      strings.ToLower(filepath.Ext(header.Filename)),
		Size:           header.Size,
		ContentType:    header.Header.Get("Content-Type"),
		JobDescription: r.FormValue("jobDescription"),
	}
	if err := s.validateUpload(upload); err != nil {
		log.Printf("[analyze] Rejected upload %q: %v", upload.FileName, err)
		s.errorResponse(w, HTTPStatus(err), err.Message)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.maxUploadBytes+1))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read uploaded file: "+err.Error())
		return
	}
	if int64(len(data)) > s.maxUploadBytes {
		s.errorResponse(w, http.StatusBadRequest, s.sizeLimitMessage())
		return
	}
	log.Printf("[analyze] File validation passed: %s", upload.FileName)

	result, err := s.analyzer.AnalyzeDocument(r.Context(), analysis.Document{
		FileName:    upload.FileName,
		ContentType: upload.ContentType,
		Data:        data,
	}, upload.JobDescription)
	if err != nil {
		log.Printf("[analyze] Error while analyzing resume: %v", err)
		s.errorResponse(w, HTTPStatus(err), "Error parsing resume: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// validateUpload runs the struct rules and then the configured size limit. The
// first failing rule determines the message.
func (s *Server) validateUpload(upload AnalyzeUpload) *ErrValidation {
	if err := s.validator.Struct(upload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			return uploadValidationError(validationErrors[0])
		}
		return &ErrValidation{Field: "file", Message: msgFileRequired}
	}
	if upload.Size > s.maxUploadBytes {
		return &ErrValidation{Field: "Size", Message: s.sizeLimitMessage()}
	}
	return nil
}

func uploadValidationError(fe validator.FieldError) *ErrValidation {
	switch fe.Field() {
	case "FileName", "Size":
		return &ErrValidation{Field: fe.Field(), Message: msgFileRequired}
	case "Extension":
		return &ErrValidation{Field: fe.Field(), Message: msgInvalidType}
	case "JobDescription":
		return &ErrValidation{Field: fe.Field(), Message: "Job description is too long."}
	default:
		return &ErrValidation{Field: fe.Field(), Message: fmt.Sprintf("validation error: %s - %s", fe.Field(), fe.Tag())}
	}
}

func (s *Server) sizeLimitMessage() string {
	const mb = 1 << 20
	if s.maxUploadBytes%mb == 0 {
		return fmt.Sprintf("File size exceeds %d MB limit.", s.maxUploadBytes/mb)
	}
	return fmt.Sprintf("File size exceeds %d byte limit.", s.maxUploadBytes)
}
