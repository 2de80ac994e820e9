// Package v1 implements the v1 REST API routes.
package v1

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	photofind "github.com/pickworth/photofind"
	"github.com/pickworth/photofind/application/service"
	"github.com/pickworth/photofind/domain/search"
	"github.com/pickworth/photofind/infrastructure/api/middleware"
	"github.com/pickworth/photofind/infrastructure/api/v1/dto"
)

// SearchRouter handles search API endpoints.
type SearchRouter struct {
	client *photofind.Client
	logger *slog.Logger
}

// NewSearchRouter creates a new SearchRouter.
func NewSearchRouter(client *photofind.Client) *SearchRouter {
	return &SearchRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for search endpoints.
func (r *SearchRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.Search)

	return router
}

// Search handles POST /api/v1/search.
func (r *SearchRouter) Search(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body dto.SearchRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteJSON(w, http.StatusBadRequest, middleware.ErrorResponse{Error: "invalid request body"})
		return
	}

	var opts []service.SearchOption
	if body.Limit != nil {
		opts = append(opts, service.WithLimit(*body.Limit))
	}

	results, err := r.client.Search.Query(ctx, body.Query, opts...)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidInput) {
			err = middleware.NewServerError(http.StatusInternalServerError, "search failed", err)
		}
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, buildSearchResponse(results))
}

func buildSearchResponse(results []search.ScoredResult) dto.SearchResponse {
	data := make([]dto.SearchResult, len(results))
	for i, res := range results {
		p := res.Photo()
		data[i] = dto.SearchResult{
			ID:       p.ID(),
			Filename: p.Filename(),
			Caption:  p.Caption(),
			Keywords: p.Keywords(),
			ImageURL: p.ImageURL(),
			Metadata: p.Metadata(),
			Score:    res.Score(),
		}
	}
	return dto.SearchResponse{Results: data}
}
