package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rishangit/s-ams-sub002/internal/httperr"
	"github.com/rishangit/s-ams-sub002/internal/httpresp"
	"github.com/rishangit/s-ams-sub002/internal/middleware"
	"github.com/rishangit/s-ams-sub002/internal/models"
)

// ProductCatalog is the product side of the persistence collaborator.
type ProductCatalog interface {
	ListProducts(ctx context.Context, companyID uint, active *bool) ([]models.Product, error)
	GetProduct(ctx context.Context, companyID, productID uint) (*models.Product, error)
}

type ProductHandler struct {
	catalog ProductCatalog
}

func NewProductHandler(catalog ProductCatalog) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) List(c *gin.Context) {
	rc := middleware.RoleContext(c)

	var active *bool
	switch strings.TrimSpace(c.Query("active")) {
	case "true":
		v := true
		active = &v
	case "false":
		v := false
		active = &v
	}

	products, err := h.catalog.ListProducts(c.Request.Context(), rc.CompanyID, active)
	if err != nil {
		httperr.Internal(c, "failed_to_list_products", err.Error())
		return
	}

	httpresp.List(c, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "invalid product id")
		return
	}

	rc := middleware.RoleContext(c)
	p, err := h.catalog.GetProduct(c.Request.Context(), rc.CompanyID, uint(id))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, p)
}
