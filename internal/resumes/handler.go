package resumes

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"careerlens-backend/internal/shared/query"
	"careerlens-backend/internal/shared/server/middleware"
	"careerlens-backend/internal/shared/server/respond"
	"careerlens-backend/internal/uploads"
)

var downloadContentTypes = map[string]string{
	"pdf":  "application/pdf",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"doc":  "application/msword",
}

// Handler exposes resume operations over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler returns a resume HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the resume routes on the group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.upload)
	rg.GET("", h.history)
	rg.GET("/:id", h.get)
	rg.POST("/:id/analyze", h.analyze)
	rg.GET("/:id/download", h.download)
	rg.DELETE("/:id", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_multipart", "Could not parse the upload form", nil)
		return
	}
	headers := form.File["resume"]

	files := make([]uploads.File, 0, len(headers))
	for _, fh := range headers {
		files = append(files, uploads.File{
			Name:      fh.Filename,
			MimeType:  fh.Header.Get("Content-Type"),
			SizeBytes: fh.Size,
		})
	}

	var content multipart.File
	if len(headers) == 1 {
		content, err = headers[0].Open()
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Could not read the uploaded file", nil)
			return
		}
		defer content.Close()
	}

	result, err := h.svc.Upload(c.Request.Context(), userID, files, content, c.PostForm("jobDescription"))
	if err != nil {
		h.fail(c, err)
		return
	}

	body := gin.H{
		"message": "resume uploaded",
		"resume":  toDetail(result.Resume),
	}
	if result.AnalysisWarning != "" {
		body["warning"] = result.AnalysisWarning
	}
	respond.JSON(c, http.StatusCreated, body)
}

func (h *Handler) history(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	page := query.Page{
		Number: intQuery(c, "page"),
		Size:   intQuery(c, "limit"),
	}
	items, pagination, err := h.svc.History(c.Request.Context(), userID, c.Query("sortBy"), c.Query("sortOrder"), page)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, gin.H{
		"resumes":    toSummaries(items),
		"pagination": pagination,
	})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	res, err := h.svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, gin.H{"resume": toDetail(res)})
}

func (h *Handler) analyze(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req struct {
		JobDescription string `json:"jobDescription"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "Request body must be JSON", nil)
		return
	}

	result, err := h.svc.Reanalyze(c.Request.Context(), userID, c.Param("id"), req.JobDescription)
	if err != nil {
		h.fail(c, err)
		return
	}

	body := gin.H{"resume": toDetail(result.Resume)}
	if result.AnalysisWarning != "" {
		body["warning"] = result.AnalysisWarning
	}
	respond.OK(c, body)
}

func (h *Handler) download(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	res, body, err := h.svc.Download(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	defer body.Close()

	contentType, ok := downloadContentTypes[res.FileType]
	if !ok {
		contentType = "application/octet-stream"
	}
	headers := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", res.OriginalFileName),
	}
	c.DataFromReader(http.StatusOK, res.SizeBytes, contentType, body, headers)
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "resume deleted"})
}

func (h *Handler) fail(c *gin.Context, err error) {
	var rejection *uploads.RejectionError
	switch {
	case errors.As(err, &rejection):
		respond.Error(c, http.StatusBadRequest, string(rejection.Kind), rejection.Message, nil)
	case errors.Is(err, query.ErrUnknownSortField):
		respond.Error(c, http.StatusBadRequest, "invalid_sort", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "invalid_input", "Job description is required", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Resume not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Something went wrong", nil)
	}
}

func intQuery(c *gin.Context, name string) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return value
}
