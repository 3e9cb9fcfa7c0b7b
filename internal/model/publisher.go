package model

import (
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/match"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/validation"
)

type Publisher struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name" validate:"notblank"`
	// Books is derived from the book collection on read and never stored.
	Books []BookRef `json:"books,omitempty"`
}

var publisherMessages = map[string]string{
	"name": "Name is required",
}

func (Publisher) Collection() string { return "publishers" }

func (p Publisher) DocumentID() string { return p.ID }

func (p Publisher) WithID(id string) Publisher {
	p.ID = id
	return p
}

func (p Publisher) Merge(u Publisher) Publisher {
	p.Name = u.Name
	p.Books = nil
	return p
}

func (p Publisher) Validate() error {
	return validation.Struct(p, publisherMessages)
}

func (p Publisher) Fields() []match.Field {
	return append([]match.Field{
		match.Key("id", "id", p.ID),
		match.Text("name", "name", p.Name),
	}, bookRefFields(p.Books)...)
}

func (p Publisher) String() string {
	return "Publisher: [Name: " + p.Name + "]"
}
