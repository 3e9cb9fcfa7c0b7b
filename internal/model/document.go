package model

import "github.com/snnyvrz/shelfshare/apps/catalog-api/internal/match"

// Document is the contract every catalog resource implements. T is the
// implementing type, so generic code gets concrete values back.
type Document[T any] interface {
	// Collection is the plural resource name used in routes and storage.
	Collection() string
	DocumentID() string
	WithID(id string) T
	// Merge overwrites the mutable attributes of the receiver with those of
	// update. The id and derived back-references are never taken from update.
	Merge(update T) T
	Validate() error
	Fields() []match.Field
}

// AuthorRef points from a Book to an Author. Name is a display snapshot.
type AuthorRef struct {
	ID   string `json:"id" validate:"notblank"`
	Name string `json:"name,omitempty"`
}

// PublisherRef points from a Book to its Publisher.
type PublisherRef struct {
	ID   string `json:"id" validate:"notblank"`
	Name string `json:"name,omitempty"`
}

// BookRef is the snapshot of a Book carried by derived back-references.
type BookRef struct {
	ID    string `json:"id"`
	ISBN  string `json:"isbn,omitempty"`
	Title string `json:"title,omitempty"`
}

// BookRefs snapshots books for use as a back-reference list.
func BookRefs(books []Book) []BookRef {
	refs := make([]BookRef, 0, len(books))
	for _, b := range books {
		refs = append(refs, BookRef{ID: b.ID, ISBN: b.ISBN, Title: b.Title})
	}
	return refs
}

// bookRefFields describes a derived back-reference list for matching.
func bookRefFields(refs []BookRef) []match.Field {
	ids := make([]string, 0, len(refs))
	isbns := make([]string, 0, len(refs))
	titles := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
		isbns = append(isbns, r.ISBN)
		titles = append(titles, r.Title)
	}

	return []match.Field{
		match.KeyList("books", ids...).AsDerived(),
		match.TextList("books.isbn", isbns...).AsDerived(),
		match.TextList("books.title", titles...).AsDerived(),
	}
}
