package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/LeJamon/campuspay/internal/apperr"
	"github.com/LeJamon/campuspay/internal/normalize"
)

// envelope is the body of every response.
type envelope struct {
	Success    bool   `json:"success"`
	Status     int    `json:"status"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
	Code       string `json:"code,omitempty"`
	ResultCode string `json:"resultCode,omitempty"`
	Hash       string `json:"hash,omitempty"`
	RequestID  string `json:"requestId,omitempty"`
	Timestamp  string `json:"timestamp"`
}

// statusOf maps an error kind to its HTTP status.
func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindInvalidSeed:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindTransactionFailed:
		return http.StatusUnprocessableEntity
	case apperr.KindUnknownOutcome:
		return http.StatusAccepted
	case apperr.KindConnection, apperr.KindNetwork, apperr.KindSubmission, apperr.KindFunding:
		return http.StatusBadGateway
	case apperr.KindInconsistentResult, apperr.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, body envelope) {
	body.Status = status
	body.RequestID = requestID(r.Context())
	body.Timestamp = normalize.FormatISO(time.Now())

	data, err := json.Marshal(body)
	if err != nil {
		s.logger.Error("failed to marshal response", zap.Error(err))
		http.Error(w, `{"success":false,"message":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (s *Server) success(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	s.writeJSON(w, r, status, envelope{Success: true, Message: message, Data: data})
}

// fail renders err by kind and message only; causes stay in the log.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	e, ok := apperr.As(err)
	if !ok {
		e = apperr.Internal(r.URL.Path, err)
	}
	status := statusOf(e.Kind)

	log := s.logger.With(
		zap.String("request_id", requestID(r.Context())),
		zap.String("kind", e.Kind.String()),
		zap.String("op", e.Op))
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
	} else {
		log.Info("request rejected", zap.String("message", e.Message))
	}

	message := e.Message
	if e.Kind == apperr.KindTransactionFailed && e.Code != "" {
		message += ": " + e.Code
	}
	s.writeJSON(w, r, status, envelope{
		Message:    message,
		Code:       e.Kind.String(),
		ResultCode: e.Code,
		Hash:       e.Hash,
	})
}
