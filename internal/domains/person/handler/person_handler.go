package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"people-api/internal/domains/person"
	"people-api/internal/shared/response"
	"people-api/pkg/logger"
)

// PersonHandler xử lý HTTP requests cho person domain
// Stateless - chỉ chứa dependencies.
type PersonHandler struct {
	service person.Service
}

// NewPersonHandler tạo handler instance
func NewPersonHandler(service person.Service) *PersonHandler {
	return &PersonHandler{
		service: service,
	}
}

// Create xử lý POST /pessoas
// Success: 201 with empty body and Location header, acknowledged before the
// record is durable.
func (h *PersonHandler) Create(c *gin.Context) {
	var req person.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	id, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Location", "/pessoas/"+id)
	c.Status(http.StatusCreated)
}

// GetByID xử lý GET /pessoas/{id}
// The body comes back exactly as serialized at creation time (cache tier)
// or reserialized from the durable store - the two match field-for-field.
func (h *PersonHandler) GetByID(c *gin.Context) {
	body, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}

// Search xử lý GET /pessoas?t=
func (h *PersonHandler) Search(c *gin.Context) {
	results, err := h.service.Search(c.Request.Context(), c.Query("t"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// Count xử lý GET /contagem-pessoas
// Body là plain integer, không phải JSON envelope.
func (h *PersonHandler) Count(c *gin.Context) {
	count, err := h.service.Count(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.String(http.StatusOK, strconv.FormatInt(count, 10))
}

// handleError maps domain errors sang HTTP status codes
func (h *PersonHandler) handleError(c *gin.Context, err error) {
	var validationErrs validation.Errors

	switch {
	case errors.As(err, &validationErrs):
		response.BadRequestWithDetails(c, "validation failed", validationErrs)
	case errors.Is(err, person.ErrMissingSearchTerm):
		response.BadRequest(c, err.Error())
	case errors.Is(err, person.ErrNicknameTaken):
		response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, person.ErrPersonNotFound):
		response.NotFound(c, err.Error())
	default:
		logger.Error("unhandled person error", err)
		response.InternalServerError(c, "internal server error")
	}
}
