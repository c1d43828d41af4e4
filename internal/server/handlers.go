package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/born-ml/lppool/internal/lppool"
	"github.com/born-ml/lppool/internal/tensor"
	"github.com/born-ml/lppool/internal/tensorio"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Backend: s.backend.Name(),
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// forwardHandler runs a forward pass.
func (s *Server) forwardHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ForwardRequest
	if !s.decode(w, r, &req) {
		return
	}
	input, err := req.Input.Tensor()
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: fmt.Sprintf("input: %v", err)})
		return
	}
	p := req.Params.apply(s.defaults)

	start := time.Now()
	output, err := lppool.Pool(s.backend, input, p)
	elapsed := time.Since(start)
	if err != nil {
		s.writePassError(w, lppool.OpForward, err)
		return
	}
	s.recordPass(lppool.OpForward, input, elapsed)

	s.writeJSON(w, http.StatusOK, ForwardResponse{
		Output:    tensorio.FromTensor(output),
		Backend:   s.backend.Name(),
		ElapsedMS: float64(elapsed.Microseconds()) / 1000,
	})
}

// backwardHandler runs a backward pass. A missing output is recomputed.
func (s *Server) backwardHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req BackwardRequest
	if !s.decode(w, r, &req) {
		return
	}
	input, err := req.Input.Tensor()
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: fmt.Sprintf("input: %v", err)})
		return
	}
	gradOutput, err := req.GradOutput.Tensor()
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: fmt.Sprintf("grad_output: %v", err)})
		return
	}
	p := req.Params.apply(s.defaults)

	start := time.Now()
	var output *tensor.RawTensor
	if req.Output != nil {
		if output, err = req.Output.Tensor(); err != nil {
			s.writeErrorResponse(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: fmt.Sprintf("output: %v", err)})
			return
		}
	} else if output, err = lppool.Pool(s.backend, input, p); err != nil {
		s.writePassError(w, lppool.OpBackward, err)
		return
	}

	gradInput, err := lppool.Gradient(s.backend, gradOutput, input, output, p)
	elapsed := time.Since(start)
	if err != nil {
		s.writePassError(w, lppool.OpBackward, err)
		return
	}
	s.recordPass(lppool.OpBackward, input, elapsed)

	s.writeJSON(w, http.StatusOK, BackwardResponse{
		GradInput: tensorio.FromTensor(gradInput),
		Backend:   s.backend.Name(),
		ElapsedMS: float64(elapsed.Microseconds()) / 1000,
	})
}

// decode reads a JSON body into v, writing an error response on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeErrorResponse(w, http.StatusRequestEntityTooLarge, ErrorResponse{
				Error:   "invalid_request",
				Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			})
			return false
		}
		s.writeErrorResponse(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: fmt.Sprintf("failed to parse JSON request: %v", err),
		})
		return false
	}
	return true
}

func (s *Server) recordPass(op string, input *tensor.RawTensor, elapsed time.Duration) {
	passesTotal.WithLabelValues(op, "ok").Inc()
	passDuration.WithLabelValues(op, s.backend.Name()).Observe(elapsed.Seconds())
	elementsProcessed.WithLabelValues(op).Add(float64(input.NumElements()))
}

// writePassError maps configuration errors to 400 and everything else to 500.
func (s *Server) writePassError(w http.ResponseWriter, op string, err error) {
	var cfgErr *lppool.Error
	if errors.As(err, &cfgErr) {
		passesTotal.WithLabelValues(op, "rejected").Inc()
		validationFailures.WithLabelValues(cfgErr.Kind.String()).Inc()
		s.writeErrorResponse(w, http.StatusBadRequest, ErrorResponse{
			Error:   cfgErr.Kind.String(),
			Message: cfgErr.Error(),
			Op:      cfgErr.Op,
		})
		return
	}

	passesTotal.WithLabelValues(op, "failed").Inc()
	slog.Error("pooling pass failed", "op", op, "backend", s.backend.Name(), "error", err)
	s.writeErrorResponse(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: err.Error(),
		Op:      op,
	})
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, resp ErrorResponse) {
	s.writeJSON(w, statusCode, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
