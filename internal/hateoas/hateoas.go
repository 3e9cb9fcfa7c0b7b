// Package hateoas decorates catalog documents with HAL links.
package hateoas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
)

const apiPrefix = "/v1/"

type Link struct {
	Href string `json:"href"`
}

// Links is keyed by relation name.
type Links map[string]Link

// Linked is a document plus its links. It marshals as the document's own
// fields with a "_links" member added.
type Linked[T any] struct {
	Entity T
	Links  Links
}

// Self returns the href of the "self" relation.
func (l Linked[T]) Self() string {
	return l.Links["self"].Href
}

func (l Linked[T]) MarshalJSON() ([]byte, error) {
	body, err := json.Marshal(l.Entity)
	if err != nil {
		return nil, err
	}

	body = bytes.TrimSpace(body)
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("hateoas: %T does not marshal to a JSON object", l.Entity)
	}

	links, err := json.Marshal(l.Links)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(body[:len(body)-1])
	if len(bytes.TrimSpace(body[1:len(body)-1])) > 0 {
		buf.WriteByte(',')
	}
	buf.WriteString(`"_links":`)
	buf.Write(links)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Collection is a list of linked documents under "_embedded". The list is
// always present, also when empty.
type Collection[T any] struct {
	Name  string
	Items []Linked[T]
	Links Links
}

func (c Collection[T]) MarshalJSON() ([]byte, error) {
	items := c.Items
	if items == nil {
		items = []Linked[T]{}
	}

	return json.Marshal(struct {
		Embedded map[string][]Linked[T] `json:"_embedded"`
		Links    Links                  `json:"_links"`
	}{
		Embedded: map[string][]Linked[T]{c.Name: items},
		Links:    c.Links,
	})
}

// Assembler builds links under BaseURL, which may be empty for
// host-relative hrefs.
type Assembler struct {
	BaseURL string
}

func NewAssembler(baseURL string) Assembler {
	return Assembler{BaseURL: strings.TrimRight(baseURL, "/")}
}

func (a Assembler) CollectionHref(collection string) string {
	return strings.TrimRight(a.BaseURL, "/") + apiPrefix + collection
}

func (a Assembler) ItemHref(collection, id string) string {
	return a.CollectionHref(collection) + "/" + url.PathEscape(id)
}

// Assemble links doc to itself and to its collection. doc is not modified.
func Assemble[T model.Document[T]](a Assembler, doc T) Linked[T] {
	collection := doc.Collection()

	return Linked[T]{
		Entity: doc,
		Links: Links{
			"self":     {Href: a.ItemHref(collection, doc.DocumentID())},
			collection: {Href: a.CollectionHref(collection)},
		},
	}
}

// AssembleAll links every document and the collection itself.
func AssembleAll[T model.Document[T]](a Assembler, docs []T) Collection[T] {
	var zero T
	collection := zero.Collection()

	items := make([]Linked[T], 0, len(docs))
	for _, d := range docs {
		items = append(items, Assemble(a, d))
	}

	return Collection[T]{
		Name:  collection,
		Items: items,
		Links: Links{"self": {Href: a.CollectionHref(collection)}},
	}
}
