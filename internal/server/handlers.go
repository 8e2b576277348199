package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/brand-compliance/internal/pipeline"
	"github.com/jonathan/brand-compliance/internal/server/middleware"
	"github.com/jonathan/brand-compliance/internal/types"
)

const maxRequestBytes = 4 << 20

// EvaluateRequest is the body of /evaluate, /evaluate/stream and /fixes
type EvaluateRequest struct {
	Document *types.Document     `json:"document" validate:"required"`
	Profile  *types.BrandProfile `json:"profile" validate:"required"`
}

// EvaluateResponse represents the response for /evaluate
type EvaluateResponse struct {
	EvaluationID string `json:"evaluationId,omitempty"`
	*types.EvaluationResult
}

// FixesResponse represents the response for /fixes
type FixesResponse struct {
	Evaluation *types.EvaluationResult `json:"evaluation"`
	Fixes      []types.Fix             `json:"fixes"`
	Commands   []types.Command         `json:"commands"`
}

// TranslateRequest is the body of /translate
type TranslateRequest struct {
	Fix *types.Fix `json:"fix" validate:"required"`
}

// TranslateResponse represents the response for /translate
type TranslateResponse struct {
	Commands []types.Command `json:"commands"`
}

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// validateRequest reports the first failed constraint as an ErrValidation
// naming the JSON path of the field
func validateRequest(req any) error {
	err := requestValidator.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	fe := fieldErrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	if fe.Tag() == "required" {
		return &ErrValidation{Field: field, Message: "is required"}
	}
	return &ErrValidation{Field: field, Message: fmt.Sprintf("failed %q constraint", fe.Tag())}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

func (s *Server) decodeEvaluateRequest(w http.ResponseWriter, r *http.Request) (*EvaluateRequest, error) {
	var req EvaluateRequest
	if err := s.decode(w, r, &req); err != nil {
		return nil, err
	}
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// requestLogger tags log lines with the authenticated client when present
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if subject, err := middleware.GetSubject(r); err == nil {
		return s.logger.With(zap.String("client", subject))
	}
	return s.logger
}

// handleEvaluate evaluates a document and stores the result when persistence is configured
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeEvaluateRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.evaluator.EvaluateDocument(r.Context(), req.Document, req.Profile)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := EvaluateResponse{EvaluationResult: result}
	if s.evaluations != nil {
		brandID := req.Document.BrandID
		if brandID == "" {
			brandID = req.Profile.BrandID
		}
		id, err := s.evaluations.SaveEvaluation(r.Context(), brandID, result)
		if err != nil {
			s.requestLogger(r).Warn("failed to save evaluation", zap.String("document_id", result.DocumentID), zap.Error(err))
		} else {
			resp.EvaluationID = id.String()
		}
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleEvaluateStream evaluates a document and streams progress events
func (s *Server) handleEvaluateStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeEvaluateRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	stream, err := newEventStream(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	logger := s.requestLogger(r)

	evaluator := s.evaluator.Observe(func(event pipeline.ProgressEvent) {
		if err := stream.send(eventProgress, event); err != nil {
			logger.Debug("failed to write progress event", zap.Error(err))
		}
	})

	result, err := evaluator.EvaluateDocument(r.Context(), req.Document, req.Profile)
	if err != nil {
		if sendErr := stream.fail(err); sendErr != nil {
			logger.Debug("failed to write error event", zap.Error(sendErr))
		}
		return
	}
	if err := stream.send(eventResult, result); err != nil {
		logger.Debug("failed to write result event", zap.Error(err))
		return
	}
	if err := stream.complete(result.DocumentID, result.Score.Total); err != nil {
		logger.Debug("failed to write complete event", zap.Error(err))
	}
}

// handleFixes evaluates a document, synthesizes fixes and translates them into commands
func (s *Server) handleFixes(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeEvaluateRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.evaluator.EvaluateDocument(r.Context(), req.Document, req.Profile)
	if err != nil {
		s.writeError(w, err)
		return
	}
	fixes := s.evaluator.GenerateFixes(r.Context(), result, req.Document, req.Profile)

	s.jsonResponse(w, http.StatusOK, FixesResponse{
		Evaluation: result,
		Fixes:      fixes,
		Commands:   s.evaluator.TranslateFixes(fixes),
	})
}

// handleTranslate translates a single fix into commands
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := validateRequest(&req); err != nil {
		s.writeError(w, err)
		return
	}

	commands, err := s.evaluator.TranslateFix(*req.Fix)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, TranslateResponse{Commands: commands})
}

// handleGetEvaluation returns a stored evaluation
func (s *Server) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	if s.evaluations == nil {
		s.errorResponse(w, http.StatusNotImplemented, "evaluation storage is not configured")
		return
	}
	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "id", Message: "invalid evaluation ID"})
		return
	}

	evaluation, err := s.evaluations.GetEvaluation(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if evaluation == nil {
		s.writeError(w, &ErrNotFound{Resource: "evaluation", ID: idStr})
		return
	}
	s.jsonResponse(w, http.StatusOK, evaluation)
}
