package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apptravel "github.com/dms/backend/internal/application/travel"
	"github.com/dms/backend/internal/interfaces/http/dto"
)

// TripHandler serves trip CRUD endpoints
type TripHandler struct {
	BaseHandler
	tripService *apptravel.TripService
}

// NewTripHandler creates a new TripHandler
func NewTripHandler(tripService *apptravel.TripService, logger *zap.Logger) *TripHandler {
	return &TripHandler{
		BaseHandler: NewBaseHandler(logger),
		tripService: tripService,
	}
}

// RegisterRoutes registers trip routes on the given group
func (h *TripHandler) RegisterRoutes(rg *gin.RouterGroup) {
	trips := rg.Group("/trips")
	{
		trips.POST("", h.Create)
		trips.GET("", h.List)
		trips.GET("/:id", h.Get)
	}
}

// Create handles POST /trips
func (h *TripHandler) Create(c *gin.Context) {
	var req apptravel.CreateTripRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.tripService.CreateTrip(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /trips/:id
func (h *TripHandler) Get(c *gin.Context) {
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.tripService.GetTrip(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, resp)
}

// List handles GET /trips
func (h *TripHandler) List(c *gin.Context) {
	req := apptravel.ListTripsRequest{
		Page:     queryInt(c, "page", 0),
		PageSize: queryInt(c, "page_size", 0),
		OrderBy:  c.Query("order_by"),
		OrderDir: c.Query("order_dir"),
		Search:   c.Query("search"),
	}

	if staffID, ok := h.UUIDQuery(c, "staff_id"); !ok {
		return
	} else {
		req.StaffID = staffID
	}
	if status := c.Query("status"); status != "" {
		req.Status = &status
	}
	from, ok := queryDate(c, "from_date")
	if !ok {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidRequest, "Query parameter from_date must be YYYY-MM-DD")
		return
	}
	req.FromDate = from

	to, ok := queryDate(c, "to_date")
	if !ok {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidRequest, "Query parameter to_date must be YYYY-MM-DD")
		return
	}
	req.ToDate = to

	result, err := h.tripService.ListTrips(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, result.Items, dto.NewMeta(result.Page, result.PageSize, result.Total))
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func queryDate(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}
