// Package docs builds the OpenAPI document of the catalog API and registers
// it with swag, from where gin-swagger serves it.
package docs

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-openapi/spec"
	"github.com/swaggo/swag"
)

const (
	Title       = "Better Reads"
	Description = "A better Goodreads"
	Version     = "1.0"
	BasePath    = "/v1"
)

type resource struct {
	collection string
	definition string
}

func ref(name string) *spec.Schema {
	return spec.RefSchema("#/definitions/" + name)
}

func object(required []string, props map[string]*spec.Schema) *spec.Schema {
	s := new(spec.Schema).Typed("object", "")
	for name, p := range props {
		s.SetProperty(name, *p)
	}
	if len(required) > 0 {
		s.WithRequired(required...)
	}
	return s
}

func definitions() spec.Definitions {
	str := spec.StringProperty
	date := func() *spec.Schema { return spec.StringProperty().WithExample("2020-01-01") }

	defs := spec.Definitions{
		"Link": *object([]string{"href"}, map[string]*spec.Schema{
			"href": str(),
		}),
		"AuthorName": *object([]string{"lastName"}, map[string]*spec.Schema{
			"firstName":  str(),
			"middleName": str(),
			"lastName":   str(),
			"suffix":     str(),
		}),
		"AuthorRef": *object([]string{"id"}, map[string]*spec.Schema{
			"id":   str(),
			"name": str(),
		}),
		"PublisherRef": *object([]string{"id"}, map[string]*spec.Schema{
			"id":   str(),
			"name": str(),
		}),
		"BookRef": *object([]string{"id"}, map[string]*spec.Schema{
			"id":    str(),
			"isbn":  str(),
			"title": str(),
		}),
		"Author": *object([]string{"name"}, map[string]*spec.Schema{
			"id":          str(),
			"name":        ref("AuthorName"),
			"dateOfBirth": date(),
			"gender":      str(),
			"city":        str(),
			"state":       str(),
			"books":       spec.ArrayProperty(ref("BookRef")),
		}),
		"Book": *object([]string{"isbn", "title", "authors"}, map[string]*spec.Schema{
			"id":            str(),
			"isbn":          str(),
			"title":         str(),
			"authors":       spec.ArrayProperty(ref("AuthorRef")),
			"publishedDate": date(),
			"genres":        spec.ArrayProperty(str()),
			"pages":         spec.Int64Property(),
			"publisher":     ref("PublisherRef"),
			"language":      str(),
		}),
		"Publisher": *object([]string{"name"}, map[string]*spec.Schema{
			"id":    str(),
			"name":  str(),
			"books": spec.ArrayProperty(ref("BookRef")),
		}),
		"ValidationErrors": *spec.MapProperty(str()),
		"ErrorResponse": *object([]string{"code", "message"}, map[string]*spec.Schema{
			"code":    str(),
			"message": str(),
		}),
	}

	links := spec.MapProperty(ref("Link"))
	for _, r := range resources() {
		defs[r.definition+"Resource"] = spec.Schema{SchemaProps: spec.SchemaProps{
			AllOf: []spec.Schema{
				*ref(r.definition),
				*object(nil, map[string]*spec.Schema{"_links": links}),
			},
		}}
		defs[r.definition+"Collection"] = *object([]string{"_embedded", "_links"}, map[string]*spec.Schema{
			"_embedded": object(nil, map[string]*spec.Schema{
				r.collection: spec.ArrayProperty(ref(r.definition + "Resource")),
			}),
			"_links": links,
		})
	}

	return defs
}

func resources() []resource {
	return []resource{
		{collection: "authors", definition: "Author"},
		{collection: "books", definition: "Book"},
		{collection: "publishers", definition: "Publisher"},
	}
}

func operation(id, tag, summary string) *spec.Operation {
	return spec.NewOperation(id).
		WithTags(tag).
		WithSummary(summary).
		WithConsumes("application/json").
		WithProduces("application/json")
}

func response(description string, schema *spec.Schema) *spec.Response {
	r := spec.NewResponse().WithDescription(description)
	if schema != nil {
		r.WithSchema(schema)
	}
	return r
}

func paths() *spec.Paths {
	p := &spec.Paths{Paths: map[string]spec.PathItem{}}

	for _, r := range resources() {
		name := r.definition
		tag := r.collection
		one := ref(name + "Resource")
		many := ref(name + "Collection")
		body := spec.BodyParam("body", ref(name)).AsRequired()
		id := spec.PathParam("id").Typed("string", "")
		fault := response("Store fault", ref("ErrorResponse"))
		invalid := response("Missing mandatory fields", ref("ValidationErrors"))

		p.Paths["/"+r.collection] = spec.PathItem{PathItemProps: spec.PathItemProps{
			Get: operation("list"+name, tag, "List all "+r.collection).
				RespondsWith(http.StatusOK, response("OK", many)).
				RespondsWith(http.StatusInternalServerError, fault),
			Post: operation("create"+name, tag, "Create a "+strings.ToLower(name)).
				AddParam(body).
				RespondsWith(http.StatusCreated, response("Created", one)).
				RespondsWith(http.StatusBadRequest, invalid).
				RespondsWith(http.StatusInternalServerError, fault),
			Delete: operation("deleteAll"+name, tag, "Delete all "+r.collection).
				RespondsWith(http.StatusNoContent, response("Deleted", nil)).
				RespondsWith(http.StatusInternalServerError, fault),
		}}

		p.Paths["/"+r.collection+"/search"] = spec.PathItem{PathItemProps: spec.PathItemProps{
			Post: operation("search"+name, tag, "Find "+r.collection+" matching any field of the example").
				AddParam(spec.BodyParam("example", ref(name)).AsRequired()).
				RespondsWith(http.StatusOK, response("OK", many)).
				RespondsWith(http.StatusBadRequest, invalid).
				RespondsWith(http.StatusInternalServerError, fault),
		}}

		p.Paths["/"+r.collection+"/{id}"] = spec.PathItem{PathItemProps: spec.PathItemProps{
			Get: operation("get"+name, tag, "Get a "+strings.ToLower(name)+" by id").
				AddParam(id).
				RespondsWith(http.StatusOK, response("OK", one)).
				RespondsWith(http.StatusNotFound, response("Not found", nil)).
				RespondsWith(http.StatusInternalServerError, fault),
			Put: operation("update"+name, tag, "Replace a "+strings.ToLower(name)).
				AddParam(id).
				AddParam(body).
				RespondsWith(http.StatusCreated, response("Updated", one)).
				RespondsWith(http.StatusBadRequest, invalid).
				RespondsWith(http.StatusNotFound, response("Not found", nil)).
				RespondsWith(http.StatusInternalServerError, fault),
			Delete: operation("delete"+name, tag, "Delete a "+strings.ToLower(name)).
				AddParam(id).
				RespondsWith(http.StatusNoContent, response("Deleted", nil)).
				RespondsWith(http.StatusInternalServerError, fault),
		}}
	}

	return p
}

// Build returns the Swagger 2.0 document. host may be empty.
func Build(host string) *spec.Swagger {
	return &spec.Swagger{SwaggerProps: spec.SwaggerProps{
		Swagger:  "2.0",
		Host:     host,
		BasePath: BasePath,
		Schemes:  []string{"http", "https"},
		Info: &spec.Info{InfoProps: spec.InfoProps{
			Title:       Title,
			Description: Description,
			Version:     Version,
		}},
		Paths:       paths(),
		Definitions: definitions(),
	}}
}

type document struct {
	doc string
}

func (d document) ReadDoc() string {
	return d.doc
}

var registerOnce sync.Once

// Register publishes the document under swag's default name. Only the first
// call has an effect.
func Register(host string) error {
	b, err := json.Marshal(Build(host))
	if err != nil {
		return err
	}

	registerOnce.Do(func() {
		swag.Register(swag.Name, document{doc: string(b)})
	})
	return nil
}
