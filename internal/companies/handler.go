package companies

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"careerlens-backend/internal/llm"
	"careerlens-backend/internal/shared/query"
	"careerlens-backend/internal/shared/server/respond"
)

// Handler exposes company catalog operations over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler returns a company HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the company routes on the group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/match", h.match)
	rg.GET("", h.search)
	rg.GET("/search", h.search)
	rg.GET("/industries", h.industries)
	rg.GET("/locations", h.locations)
	rg.GET("/:id", h.get)
	rg.POST("/:id/rate", h.rate)
}

func (h *Handler) match(c *gin.Context) {
	var req struct {
		Skills          []string `json:"skills"`
		ExperienceLevel string   `json:"experienceLevel"`
		Industry        string   `json:"industry"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "Request body must be JSON", nil)
		return
	}

	matches, err := h.svc.MatchCompanies(c.Request.Context(), req.Skills, req.ExperienceLevel, req.Industry)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, gin.H{"companies": toMatchViews(matches)})
}

func (h *Handler) search(c *gin.Context) {
	filter := SearchFilter{
		Name:            c.Query("name"),
		Industry:        c.Query("industry"),
		Location:        c.Query("location"),
		Skills:          splitTerms(c.Query("skills")),
		ExperienceLevel: c.Query("experienceLevel"),
		Size:            c.Query("size"),
		Page: query.Page{
			Number: intQuery(c, "page"),
			Size:   intQuery(c, "limit"),
		},
	}

	items, pagination, err := h.svc.Search(c.Request.Context(), filter, c.Query("sortBy"), c.Query("sortOrder"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, gin.H{
		"companies":  toViews(items),
		"pagination": pagination,
	})
}

func (h *Handler) industries(c *gin.Context) {
	industries, err := h.svc.Industries(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if industries == nil {
		industries = []string{}
	}
	respond.OK(c, gin.H{"industries": industries})
}

func (h *Handler) locations(c *gin.Context) {
	locations, err := h.svc.Locations(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if locations == nil {
		locations = []Location{}
	}
	respond.OK(c, gin.H{"locations": locations})
}

func (h *Handler) get(c *gin.Context) {
	company, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, gin.H{"company": toView(company)})
}

func (h *Handler) rate(c *gin.Context) {
	var req struct {
		Rating float64 `json:"rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "Request body must be JSON", nil)
		return
	}

	company, err := h.svc.Rate(c.Request.Context(), c.Param("id"), req.Rating)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, gin.H{"company": toView(company)})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, query.ErrUnknownSortField):
		respond.Error(c, http.StatusBadRequest, "invalid_sort", err.Error(), nil)
	case errors.Is(err, ErrInvalidRating):
		respond.Error(c, http.StatusBadRequest, "invalid_rating", ErrInvalidRating.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "invalid_input", "At least one skill is required", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Company not found", nil)
	case errors.Is(err, llm.ErrUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, "analysis_unavailable", "Recommendation service is unavailable", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Something went wrong", nil)
	}
}

func splitTerms(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func intQuery(c *gin.Context, name string) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return value
}
