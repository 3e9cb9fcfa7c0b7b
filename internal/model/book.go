package model

import (
	"strconv"
	"strings"

	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/match"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/validation"
)

type Book struct {
	ID            string        `json:"id,omitempty"`
	ISBN          string        `json:"isbn" validate:"notblank"`
	Title         string        `json:"title" validate:"notblank"`
	Authors       []AuthorRef   `json:"authors" validate:"min=1,dive"`
	PublishedDate Date          `json:"publishedDate" swaggertype:"string" example:"2020-01-01"`
	Genres        []string      `json:"genres,omitempty"`
	Pages         int           `json:"pages,omitempty"`
	Publisher     *PublisherRef `json:"publisher,omitempty"`
	Language      string        `json:"language,omitempty"`
}

var bookMessages = map[string]string{
	"isbn":         "ISBN is required",
	"title":        "Title is required",
	"authors":      "At least one author is required",
	"authors[].id": "Author reference id is required",
	"publisher.id": "Publisher reference id is required",
}

func (Book) Collection() string { return "books" }

func (b Book) DocumentID() string { return b.ID }

func (b Book) WithID(id string) Book {
	b.ID = id
	return b
}

func (b Book) Merge(u Book) Book {
	b.ISBN = u.ISBN
	b.Title = u.Title
	b.Authors = u.Authors
	b.PublishedDate = u.PublishedDate
	b.Genres = u.Genres
	b.Pages = u.Pages
	b.Publisher = u.Publisher
	b.Language = u.Language
	return b
}

func (b Book) Validate() error {
	return validation.Struct(b, bookMessages)
}

func (b Book) Fields() []match.Field {
	authorIDs := make([]string, 0, len(b.Authors))
	authorNames := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		authorIDs = append(authorIDs, a.ID)
		authorNames = append(authorNames, a.Name)
	}

	var publisherID, publisherName string
	if b.Publisher != nil {
		publisherID = b.Publisher.ID
		publisherName = b.Publisher.Name
	}

	return []match.Field{
		match.Key("id", "id", b.ID),
		match.Text("isbn", "isbn", b.ISBN),
		match.Text("title", "title", b.Title),
		match.KeyList("authors", authorIDs...),
		match.TextList("authors.name", authorNames...),
		match.Key("publishedDate", "published_date", b.PublishedDate.String()),
		match.TextList("genres", b.Genres...),
		match.Number("pages", "pages", b.Pages),
		match.Key("publisher", "publisher_id", publisherID),
		match.Text("publisher.name", "publisher_name", publisherName),
		match.Text("language", "language", b.Language),
	}
}

func (b Book) String() string {
	names := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		names = append(names, a.Name)
	}

	var publisher string
	if b.Publisher != nil {
		publisher = b.Publisher.Name
	}

	return "Book: [Id: " + b.ID +
		", ISBN: " + b.ISBN +
		", Title: " + b.Title +
		", Author(s): " + strings.Join(names, "; ") +
		", Date Published: " + b.PublishedDate.Display() +
		", Number of Pages: " + strconv.Itoa(b.Pages) +
		", Genres: " + strings.Join(b.Genres, ",") +
		", Publisher: " + publisher + "]"
}
