package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/inspirehub/internal/adapters/http/dto"
	"github.com/jsamuelsen/inspirehub/internal/app"
)

// PersonalizationHandler serves favorites and collections for the
// signed-in user.
type PersonalizationHandler struct {
	svc *app.PersonalizationService
}

// NewPersonalizationHandler creates the handler.
func NewPersonalizationHandler(svc *app.PersonalizationService) *PersonalizationHandler {
	return &PersonalizationHandler{svc: svc}
}

// Favorites handles GET /api/v1/favorites.
func (h *PersonalizationHandler) Favorites(c *gin.Context) {
	quotes, err := h.svc.Favorites(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromQuotes(quotes))
}

// ToggleFavorite handles POST /api/v1/favorites/:quoteId/toggle.
func (h *PersonalizationHandler) ToggleFavorite(c *gin.Context) {
	quoteID := c.Param("quoteId")

	user, err := h.svc.ToggleFavorite(c.Request.Context(), quoteID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToggleFavoriteResponse{
		QuoteID:  quoteID,
		Favorite: user.HasFavorite(quoteID),
		User:     dto.FromUser(user),
	})
}

// Collections handles GET /api/v1/collections.
func (h *PersonalizationHandler) Collections(c *gin.Context) {
	colls, err := h.svc.Collections(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromCollections(colls))
}

// CreateCollection handles POST /api/v1/collections.
func (h *PersonalizationHandler) CreateCollection(c *gin.Context) {
	var req dto.CreateCollectionRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	user, coll, err := h.svc.CreateCollection(c.Request.Context(), req.Name, req.QuoteID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateCollectionResponse{
		Collection: dto.FromCollection(coll),
		User:       dto.FromUser(user),
	})
}

// AddToCollection handles POST /api/v1/collections/:id/quotes. Unknown
// collections and existing members leave the user unchanged and still
// answer 200, matching the service.
func (h *PersonalizationHandler) AddToCollection(c *gin.Context) {
	var req dto.AddToCollectionRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	user, err := h.svc.AddToCollection(c.Request.Context(), c.Param("id"), req.QuoteID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromUser(user))
}
