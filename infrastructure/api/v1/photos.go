package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	photofind "github.com/pickworth/photofind"
	"github.com/pickworth/photofind/application/service"
	"github.com/pickworth/photofind/domain/photo"
	"github.com/pickworth/photofind/infrastructure/api/middleware"
	"github.com/pickworth/photofind/infrastructure/api/v1/dto"
)

// PhotosRouter handles photo browse and review endpoints.
type PhotosRouter struct {
	client *photofind.Client
	logger *slog.Logger
}

// NewPhotosRouter creates a new PhotosRouter.
func NewPhotosRouter(client *photofind.Client) *PhotosRouter {
	return &PhotosRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for photo endpoints.
func (r *PhotosRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Get("/{id}", r.Get)
	router.Patch("/{id}", r.Update)

	return router
}

// List handles GET /api/v1/photos.
func (r *PhotosRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	params := ParsePagination(req)

	photos, err := r.client.Photos.List(ctx, params.Limit(), params.Offset())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	total, err := r.client.Photos.Count(ctx)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	data := make([]dto.Photo, len(photos))
	for i, p := range photos {
		data[i] = photoToDTO(p)
	}

	middleware.WriteJSON(w, http.StatusOK, dto.PhotoListResponse{
		Photos: data,
		Total:  total,
		Limit:  params.Limit(),
		Offset: params.Offset(),
	})
}

// Get handles GET /api/v1/photos/{id}.
func (r *PhotosRouter) Get(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")

	p, err := r.client.Photos.Get(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, photoToDTO(p))
}

// Update handles PATCH /api/v1/photos/{id}. Caption or keyword edits
// invalidate the stored embedding until the next ingestion run.
func (r *PhotosRouter) Update(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")

	var body dto.PhotoUpdateRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteJSON(w, http.StatusBadRequest, middleware.ErrorResponse{Error: "invalid request body"})
		return
	}

	var opts []service.ReviewOption
	if body.Caption != nil {
		opts = append(opts, service.WithCaption(*body.Caption))
	}
	if body.Keywords != nil {
		opts = append(opts, service.WithKeywords(*body.Keywords))
	}
	if body.Metadata != nil {
		opts = append(opts, service.WithMetadata(*body.Metadata))
	}

	updated, err := r.client.Photos.UpdateReview(req.Context(), id, opts...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, photoToDTO(updated))
}

func photoToDTO(p photo.Photo) dto.Photo {
	d := dto.Photo{
		ID:           p.ID(),
		Filename:     p.Filename(),
		Caption:      p.Caption(),
		Keywords:     p.Keywords(),
		ImageURL:     p.ImageURL(),
		Metadata:     p.Metadata(),
		HasEmbedding: p.HasEmbedding(),
	}
	d.CreatedAt = timePtr(p.CreatedAt())
	d.UpdatedAt = timePtr(p.UpdatedAt())
	return d
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
