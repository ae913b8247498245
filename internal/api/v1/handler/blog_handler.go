package handler

import (
	"net/http"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/api/v1/dto"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// BlogHandler serves the public blog
type BlogHandler struct {
	blogService service.BlogService
	logger      zerolog.Logger
}

func NewBlogHandler(blogService service.BlogService, logger zerolog.Logger) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
		logger:      logger.With().Str("handler", "BlogHandler").Logger(),
	}
}

func (h *BlogHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/blogs", h.listPosts).Methods(http.MethodGet)
	r.HandleFunc("/blogs/{slug}", h.getPost).Methods(http.MethodGet)
}

// listPosts godoc
// @Summary List published blog posts
// @Description Stored and markdown posts merged, newest first.
// @Tags blogs
// @Produce json
// @Success 200 {object} dto.BlogListResponseDTO
// @Failure 500 {object} dto.ErrorResponseDTO
// @Router /blogs [get]
func (h *BlogHandler) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blogService.ListPublished(r.Context())
	if err != nil {
		writeServiceError(w, err, "post", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, dto.BlogListResponseDTO{Posts: posts, Total: len(posts)}, h.logger)
}

// getPost godoc
// @Summary Get a blog post
// @Tags blogs
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} dto.BlogPostResponseDTO
// @Failure 404 {object} dto.ErrorResponseDTO "Post not found"
// @Router /blogs/{slug} [get]
func (h *BlogHandler) getPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.blogService.GetBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeServiceError(w, err, "post", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, dto.BlogPostResponseDTO{Post: post}, h.logger)
}
