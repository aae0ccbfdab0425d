package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/softdevglobal/bms-pro-sub000/internal/service/facets"
)

type FacetHandler struct {
	service facets.FacetUseCase
}

func NewFacetHandler(service facets.FacetUseCase) *FacetHandler {
	return &FacetHandler{service: service}
}

func (h *FacetHandler) Register(router *gin.RouterGroup) {
	router.GET("/facets", h.get)
}

func (h *FacetHandler) get(c *gin.Context) {
	f, err := h.service.Facets(c.Request.Context(), c.Param("ownerId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}
