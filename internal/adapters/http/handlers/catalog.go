package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/inspirehub/internal/adapters/http/dto"
	"github.com/jsamuelsen/inspirehub/internal/app"
	"github.com/jsamuelsen/inspirehub/internal/domain"
)

// CatalogHandler serves the read-only quote views.
type CatalogHandler struct {
	catalog *app.CatalogService
}

// NewCatalogHandler creates the handler.
func NewCatalogHandler(catalog *app.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List handles GET /api/v1/quotes?filter=&q=&limit=&cursor=.
// The Favorites filter yields an empty page for anonymous callers.
func (h *CatalogHandler) List(c *gin.Context) {
	var req dto.QuoteListRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	filter, err := domain.ParseFilter(req.Filter)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	after, err := req.After()
	if err != nil {
		dto.HandleErrorCode(c, dto.ErrorCodeBadRequest, err.Error())
		return
	}

	quotes := h.catalog.Search(c.Request.Context(), filter, req.Query)
	page := dto.Paginate(dto.FromQuotes(quotes), after, req.GetLimit(),
		func(q dto.QuoteResponse) string { return q.ID })

	c.JSON(http.StatusOK, page)
}

// Today handles GET /api/v1/quotes/today.
func (h *CatalogHandler) Today(c *gin.Context) {
	q, err := h.catalog.Today(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromQuote(q))
}

// Categories handles GET /api/v1/categories.
func (h *CatalogHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, dto.CategoriesResponse{Categories: h.catalog.Categories()})
}
