// Package catalog implements the resource service shared by authors, books
// and publishers.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/match"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/store"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/validation"
)

// Expander fills derived attributes of a document before it is returned.
type Expander[T any] func(ctx context.Context, doc T) (T, error)

type Option[T model.Document[T]] func(*Service[T])

func WithAuditor[T model.Document[T]](a Auditor) Option[T] {
	return func(s *Service[T]) {
		if a != nil {
			s.auditor = a
		}
	}
}

func WithExpander[T model.Document[T]](e Expander[T]) Option[T] {
	return func(s *Service[T]) {
		s.expand = e
	}
}

// Service is the CRUD and search contract for one document type. Store
// errors other than a missing document are returned unchanged.
type Service[T model.Document[T]] struct {
	store   store.Store[T]
	auditor Auditor
	expand  Expander[T]
}

func NewService[T model.Document[T]](s store.Store[T], opts ...Option[T]) *Service[T] {
	svc := &Service[T]{store: s, auditor: nopAuditor{}}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Resource is the collection name of T.
func (s *Service[T]) Resource() string {
	var zero T
	return zero.Collection()
}

func (s *Service[T]) GetAll(ctx context.Context) ([]T, error) {
	docs, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	docs, err = s.expandAll(ctx, docs)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, OpGetAll, idsOf(docs)...)
	return docs, nil
}

func (s *Service[T]) GetByID(ctx context.Context, id string) (T, error) {
	doc, err := s.find(ctx, id)
	if err != nil {
		return doc, err
	}

	doc, err = s.expandOne(ctx, doc)
	if err != nil {
		var zero T
		return zero, err
	}

	s.audit(ctx, OpGetByID, id)
	return doc, nil
}

// Search returns the documents matching any set field of example, comparing
// text without regard to case. An example with no set fields matches all.
// Constraints on derived attributes are evaluated against expanded documents.
func (s *Service[T]) Search(ctx context.Context, example T) ([]T, error) {
	fields := example.Fields()
	if s.expand != nil && match.HasDerived(fields) {
		return s.searchExpanded(ctx, fields)
	}

	docs, err := s.store.FindByExample(ctx, example, match.AnyIgnoreCase)
	if err != nil {
		return nil, err
	}

	docs, err = s.expandAll(ctx, docs)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, OpSearch, idsOf(docs)...)
	return docs, nil
}

func (s *Service[T]) searchExpanded(ctx context.Context, example []match.Field) ([]T, error) {
	docs, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	docs, err = s.expandAll(ctx, docs)
	if err != nil {
		return nil, err
	}

	docs = match.Filter(docs, func(d T) []match.Field { return d.Fields() }, example, match.AnyIgnoreCase)

	s.audit(ctx, OpSearch, idsOf(docs)...)
	return docs, nil
}

// Add persists a new document. Any id on input is ignored; the store assigns
// one.
func (s *Service[T]) Add(ctx context.Context, input T) (T, error) {
	var zero T

	doc := zero.Merge(input)
	if err := validate(doc); err != nil {
		return zero, err
	}

	saved, err := s.store.Save(ctx, doc)
	if err != nil {
		return zero, err
	}

	saved, err = s.expandOne(ctx, saved)
	if err != nil {
		return zero, err
	}

	s.audit(ctx, OpAdd, saved.DocumentID())
	return saved, nil
}

// Update overwrites the mutable attributes of the stored document with those
// of input. The id never changes.
func (s *Service[T]) Update(ctx context.Context, id string, input T) (T, error) {
	var zero T

	existing, err := s.find(ctx, id)
	if err != nil {
		return zero, err
	}

	doc := existing.Merge(input)
	if err := validate(doc); err != nil {
		return zero, err
	}

	saved, err := s.store.Save(ctx, doc)
	if err != nil {
		return zero, err
	}

	saved, err = s.expandOne(ctx, saved)
	if err != nil {
		return zero, err
	}

	s.audit(ctx, OpUpdate, id)
	return saved, nil
}

// Delete removes the document with id. Unknown ids are not an error.
func (s *Service[T]) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.audit(ctx, OpDelete, id)
	return nil
}

// DeleteAll removes every document of type T and nothing else.
func (s *Service[T]) DeleteAll(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return err
	}

	s.audit(ctx, OpDeleteAll)
	return nil
}

func (s *Service[T]) find(ctx context.Context, id string) (T, error) {
	doc, found, err := s.store.FindByID(ctx, id)
	if err != nil {
		return doc, err
	}
	if !found {
		return doc, fmt.Errorf("%s %q: %w", s.Resource(), id, ErrNotFound)
	}
	return doc, nil
}

func (s *Service[T]) expandOne(ctx context.Context, doc T) (T, error) {
	if s.expand == nil {
		return doc, nil
	}
	return s.expand(ctx, doc)
}

func (s *Service[T]) expandAll(ctx context.Context, docs []T) ([]T, error) {
	if s.expand == nil {
		return docs, nil
	}

	for i := range docs {
		expanded, err := s.expand(ctx, docs[i])
		if err != nil {
			return nil, err
		}
		docs[i] = expanded
	}
	return docs, nil
}

func (s *Service[T]) audit(ctx context.Context, op string, ids ...string) {
	s.auditor.Audit(ctx, AuditEvent{Operation: op, Resource: s.Resource(), IDs: ids})
}

func validate[T model.Document[T]](doc T) error {
	err := doc.Validate()
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return &ValidationError{Fields: verrs}
	}
	return err
}

func idsOf[T model.Document[T]](docs []T) []string {
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.DocumentID())
	}
	return ids
}
