package catalog

import (
	"context"

	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/match"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/store"
)

// AuthorBooks fills Author.Books with the books that reference the author.
func AuthorBooks(books store.Store[model.Book]) Expander[model.Author] {
	return func(ctx context.Context, a model.Author) (model.Author, error) {
		if a.ID == "" {
			return a, nil
		}

		example := model.Book{Authors: []model.AuthorRef{{ID: a.ID}}}

		found, err := books.FindByExample(ctx, example, match.AllExact)
		if err != nil {
			return a, err
		}

		a.Books = model.BookRefs(found)
		return a, nil
	}
}

// PublisherBooks fills Publisher.Books with the books it published.
func PublisherBooks(books store.Store[model.Book]) Expander[model.Publisher] {
	return func(ctx context.Context, p model.Publisher) (model.Publisher, error) {
		if p.ID == "" {
			return p, nil
		}

		example := model.Book{Publisher: &model.PublisherRef{ID: p.ID}}

		found, err := books.FindByExample(ctx, example, match.AllExact)
		if err != nil {
			return p, err
		}

		p.Books = model.BookRefs(found)
		return p, nil
	}
}
