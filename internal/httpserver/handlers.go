package httpserver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"go-query-cache/internal/interfaces"
	"go-query-cache/internal/models"
	"go-query-cache/internal/provider"
)

// handleQuery serves POST /query: answer the query from cache, fetching
// from the origin URL on misses and stale reads.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.OriginURL == "" {
		s.writeErrorResponse(w, "origin_url is required", http.StatusBadRequest)
		return
	}

	c, ok := provider.FromContext(r.Context())
	if !ok {
		s.writeErrorResponse(w, "Cache client unavailable", http.StatusInternalServerError)
		return
	}

	result, err := c.Query(r.Context(), models.QueryRequest{
		Scope:  req.Scope,
		Name:   req.Name,
		Params: req.Params,
	}, s.originFetcher(req.OriginURL, http.MethodGet, ""))
	if err != nil {
		s.logger.Warn("Query failed", zap.String("name", req.Name), zap.Error(err))
		s.writeErrorResponse(w, err.Error(), http.StatusBadGateway)
		return
	}

	s.writeResponse(w, QueryResponse{
		Success: true,
		Data:    string(result.Data),
		Status:  result.Status,
		Key:     result.Key,
	})
}

// handleMutate serves POST /mutate: run the mutation against the origin
// and invalidate the listed queries on success.
func (s *Server) handleMutate(w http.ResponseWriter, r *http.Request) {
	var req MutateRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.OriginURL == "" {
		s.writeErrorResponse(w, "origin_url is required", http.StatusBadRequest)
		return
	}

	method := req.Method
	if method == "" {
		method = http.MethodPost
	}

	c, ok := provider.FromContext(r.Context())
	if !ok {
		s.writeErrorResponse(w, "Cache client unavailable", http.StatusInternalServerError)
		return
	}

	data, err := c.Mutate(r.Context(), s.originFetcher(req.OriginURL, method, req.Body), req.Invalidate...)
	if err != nil {
		s.logger.Warn("Mutation failed", zap.String("url", req.OriginURL), zap.Error(err))
		s.writeErrorResponse(w, err.Error(), http.StatusBadGateway)
		return
	}

	s.writeResponse(w, QueryResponse{
		Success: true,
		Data:    string(data),
	})
}

// handleInvalidate serves POST /invalidate: drop one cached query result,
// or a batch of them.
func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	var req InvalidateRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	c, ok := provider.FromContext(r.Context())
	if !ok {
		s.writeErrorResponse(w, "Cache client unavailable", http.StatusInternalServerError)
		return
	}

	if len(req.Queries) > 0 {
		if err := c.InvalidateBatch(req.Queries); err != nil {
			s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.writeResponse(w, QueryResponse{Success: true})
		return
	}

	if err := c.Invalidate(models.QueryRequest{
		Scope:  req.Scope,
		Name:   req.Name,
		Params: req.Params,
	}); err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.writeResponse(w, QueryResponse{Success: true})
}

// originFetcher builds a Fetcher that performs one HTTP request against
// the origin.
func (s *Server) originFetcher(url, method, body string) interfaces.Fetcher {
	return func(ctx context.Context) ([]byte, error) {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to build origin request: %w", err)
		}
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := s.origin.Do(req)
		if err != nil {
			return nil, fmt.Errorf("origin request failed: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read origin response: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("origin returned status %d", resp.StatusCode)
		}

		return data, nil
	}
}
