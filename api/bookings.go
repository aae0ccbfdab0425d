package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/softdevglobal/bms-pro-sub000/internal/service/bookings"
)

type BookingHandler struct {
	service bookings.BookingUseCase
	loc     *time.Location
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type searchSubmitResponse struct {
	SessionID string `json:"sessionId"`
	Submitted uint64 `json:"submitted"`
}

func NewBookingHandler(service bookings.BookingUseCase, loc *time.Location) *BookingHandler {
	if loc == nil {
		loc = time.Local
	}
	return &BookingHandler{service: service, loc: loc}
}

// Register mounts the routes on a group that carries the :ownerId param.
func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("/bookings", h.list)
	router.POST("/bookings/query", h.query)
	router.GET("/bookings/:id", h.get)
	router.PUT("/bookings/:id/status", h.updateStatus)
	router.GET("/palette", h.palette)
	router.GET("/summary", h.summary)
	router.PUT("/search-sessions/:sessionId", h.submitSearch)
	router.GET("/search-sessions/:sessionId", h.latestSearch)
}

func (h *BookingHandler) list(c *gin.Context) {
	var params listParams
	if err := c.ShouldBindQuery(&params); err != nil {
		writeBindError(c, err)
		return
	}
	q, err := params.toQuery(h.loc)
	if err != nil {
		writeError(c, err)
		return
	}

	res, err := h.service.List(c.Request.Context(), c.Param("ownerId"), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *BookingHandler) query(c *gin.Context) {
	q, ok := bindListBody(c)
	if !ok {
		return
	}
	res, err := h.service.List(c.Request.Context(), c.Param("ownerId"), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *BookingHandler) get(c *gin.Context) {
	row, err := h.service.Get(c.Request.Context(), c.Param("ownerId"), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *BookingHandler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	row, err := h.service.UpdateStatus(c.Request.Context(), c.Param("ownerId"), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *BookingHandler) palette(c *gin.Context) {
	res, err := h.service.Palette(c.Request.Context(), c.Param("ownerId"), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *BookingHandler) summary(c *gin.Context) {
	res, err := h.service.Summary(c.Request.Context(), c.Param("ownerId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *BookingHandler) submitSearch(c *gin.Context) {
	q, ok := bindListBody(c)
	if !ok {
		return
	}
	sessionID := c.Param("sessionId")
	submitted := h.service.SubmitSearch(c.Param("ownerId"), sessionID, q)
	c.JSON(http.StatusAccepted, searchSubmitResponse{SessionID: sessionID, Submitted: submitted})
}

func (h *BookingHandler) latestSearch(c *gin.Context) {
	state, err := h.service.LatestSearch(c.Param("ownerId"), c.Param("sessionId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func bindListBody(c *gin.Context) (bookings.ListQuery, bool) {
	var body listBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeBindError(c, err)
		return bookings.ListQuery{}, false
	}
	q, err := body.toQuery()
	if err != nil {
		writeError(c, err)
		return bookings.ListQuery{}, false
	}
	return q, true
}
