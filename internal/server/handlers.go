package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/vk/nsreg/internal/ctyconv"
	"github.com/vk/nsreg/internal/output"
	"github.com/vk/nsreg/internal/registry"
)

const (
	codeNotFound          = "NOT_FOUND"
	codeInternal          = "INTERNAL"
	codeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
)

// ModuleList is the response of GET /modules.
type ModuleList struct {
	Modules     []string `json:"modules"`
	LastCreated string   `json:"last_created"`
}

// ModuleDetail is the response of GET /modules/{name}.
type ModuleDetail struct {
	Name      string          `json:"name"`
	Exports   json.RawMessage `json:"exports"`
	Functions []string        `json:"functions"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *Server) listModules(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, ModuleList{
		Modules:     s.reg.Names(),
		LastCreated: s.reg.LastCreated(),
	})
}

func (s *Server) getModule(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	ns, err := s.reg.Require(name)
	if err != nil {
		if errors.Is(err, registry.ErrUnknownModule) {
			s.writeError(w, r, http.StatusNotFound, codeNotFound, err.Error())
			return
		}
		s.writeError(w, r, http.StatusInternalServerError, codeInternal, err.Error())
		return
	}

	exports, err := output.ToJSON(ctyconv.Namespace(ns))
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, codeInternal, err.Error())
		return
	}

	functions := make([]string, 0)
	for fnName := range ctyconv.Functions(ns) {
		functions = append(functions, fnName)
	}
	sort.Strings(functions)

	s.writeJSON(w, http.StatusOK, ModuleDetail{
		Name:      ns.Name(),
		Exports:   exports,
		Functions: functions,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode response.", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	s.writeJSON(w, status, ErrorResponse{
		Code:      code,
		Message:   message,
		RequestID: RequestID(r.Context()),
	})
}
