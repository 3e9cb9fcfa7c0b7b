package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/hateoas"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
)

// RegisterCatalogRoutes mounts the author, book and publisher collections
// on r.
func RegisterCatalogRoutes(
	r *gin.RouterGroup,
	assembler hateoas.Assembler,
	authors Service[model.Author],
	books Service[model.Book],
	publishers Service[model.Publisher],
) {
	NewResourceHandler(authors, assembler).RegisterRoutes(r)
	NewResourceHandler(books, assembler).RegisterRoutes(r)
	NewResourceHandler(publishers, assembler).RegisterRoutes(r)
}
