package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/hateoas"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/validation"
)

// Service is what a ResourceHandler needs from the catalog layer.
type Service[T any] interface {
	Resource() string
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (T, error)
	Search(ctx context.Context, example T) ([]T, error)
	Add(ctx context.Context, input T) (T, error)
	Update(ctx context.Context, id string, input T) (T, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// ResourceHandler serves one catalog collection under /<collection>.
type ResourceHandler[T model.Document[T]] struct {
	svc       Service[T]
	assembler hateoas.Assembler
}

func NewResourceHandler[T model.Document[T]](svc Service[T], assembler hateoas.Assembler) *ResourceHandler[T] {
	return &ResourceHandler[T]{svc: svc, assembler: assembler}
}

func (h *ResourceHandler[T]) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/" + h.svc.Resource())
	{
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.POST("/search", h.Search)
		g.POST("", h.Create)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
		g.DELETE("", h.DeleteAll)
	}
}

// List returns every document of the collection.
func (h *ResourceHandler[T]) List(c *gin.Context) {
	docs, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.code("LIST"), err)
		return
	}

	c.JSON(http.StatusOK, hateoas.AssembleAll(h.assembler, docs))
}

// Get returns one document, or an empty 404.
func (h *ResourceHandler[T]) Get(c *gin.Context) {
	doc, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.code("GET"), err)
		return
	}

	c.JSON(http.StatusOK, hateoas.Assemble(h.assembler, doc))
}

// Search takes a partially filled document and returns the documents that
// match any of its set fields.
func (h *ResourceHandler[T]) Search(c *gin.Context) {
	var example T
	if !validation.BindJSON(c, &example) {
		return
	}

	docs, err := h.svc.Search(c.Request.Context(), example)
	if err != nil {
		writeServiceError(c, h.code("SEARCH"), err)
		return
	}

	c.JSON(http.StatusOK, hateoas.AssembleAll(h.assembler, docs))
}

// Create adds a document and answers 201 with its Location.
func (h *ResourceHandler[T]) Create(c *gin.Context) {
	var input T
	if !validation.BindJSON(c, &input) {
		return
	}

	doc, err := h.svc.Add(c.Request.Context(), input)
	if err != nil {
		writeServiceError(c, h.code("CREATE"), err)
		return
	}

	h.created(c, doc)
}

// Update overwrites the document with id. It answers 201 like Create.
func (h *ResourceHandler[T]) Update(c *gin.Context) {
	var input T
	if !validation.BindJSON(c, &input) {
		return
	}

	doc, err := h.svc.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		writeServiceError(c, h.code("UPDATE"), err)
		return
	}

	h.created(c, doc)
}

// Delete answers 204 whether or not the document existed.
func (h *ResourceHandler[T]) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, h.code("DELETE"), err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ResourceHandler[T]) DeleteAll(c *gin.Context) {
	if err := h.svc.DeleteAll(c.Request.Context()); err != nil {
		writeServiceError(c, h.code("DELETE_ALL"), err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ResourceHandler[T]) created(c *gin.Context, doc T) {
	linked := hateoas.Assemble(h.assembler, doc)
	c.Header("Location", linked.Self())
	c.JSON(http.StatusCreated, linked)
}

// code builds error codes such as "PUBLISHERS_CREATE_FAILED".
func (h *ResourceHandler[T]) code(op string) string {
	return strings.ToUpper(h.svc.Resource()) + "_" + op + "_FAILED"
}
