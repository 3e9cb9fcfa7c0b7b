package catalog

import (
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/store"
)

// Services holds one Service per catalog resource.
type Services struct {
	Authors    *Service[model.Author]
	Books      *Service[model.Book]
	Publishers *Service[model.Publisher]
}

// NewServices wires the services over set. Authors and publishers get their
// books back-reference filled from set.Books.
func NewServices(set store.Set, auditor Auditor) Services {
	return Services{
		Authors: NewService(set.Authors,
			WithAuditor[model.Author](auditor),
			WithExpander(AuthorBooks(set.Books)),
		),
		Books: NewService(set.Books,
			WithAuditor[model.Book](auditor),
		),
		Publishers: NewService(set.Publishers,
			WithAuditor[model.Publisher](auditor),
			WithExpander(PublisherBooks(set.Books)),
		),
	}
}
