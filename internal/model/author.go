package model

import (
	"strings"

	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/match"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/validation"
)

type Author struct {
	ID          string     `json:"id,omitempty"`
	Name        AuthorName `json:"name"`
	DateOfBirth Date       `json:"dateOfBirth" swaggertype:"string" example:"1987-07-13"`
	Gender      string     `json:"gender,omitempty"`
	City        string     `json:"city,omitempty"`
	State       string     `json:"state,omitempty"`
	// Books is derived from the book collection on read and never stored.
	Books []BookRef `json:"books,omitempty"`
}

type AuthorName struct {
	FirstName  string `json:"firstName,omitempty"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName" validate:"notblank"`
	Suffix     string `json:"suffix,omitempty"`
}

var authorMessages = map[string]string{
	"name.lastName": "Last Name is required",
}

func (Author) Collection() string { return "authors" }

func (a Author) DocumentID() string { return a.ID }

func (a Author) WithID(id string) Author {
	a.ID = id
	return a
}

func (a Author) Merge(u Author) Author {
	a.Name = u.Name
	a.DateOfBirth = u.DateOfBirth
	a.Gender = u.Gender
	a.City = u.City
	a.State = u.State
	a.Books = nil
	return a
}

func (a Author) Validate() error {
	return validation.Struct(a, authorMessages)
}

func (a Author) Fields() []match.Field {
	return append([]match.Field{
		match.Key("id", "id", a.ID),
		match.Text("name.firstName", "first_name", a.Name.FirstName),
		match.Text("name.middleName", "middle_name", a.Name.MiddleName),
		match.Text("name.lastName", "last_name", a.Name.LastName),
		match.Text("name.suffix", "suffix", a.Name.Suffix),
		match.Key("dateOfBirth", "date_of_birth", a.DateOfBirth.String()),
		match.Text("gender", "gender", a.Gender),
		match.Text("city", "city", a.City),
		match.Text("state", "state", a.State),
	}, bookRefFields(a.Books)...)
}

// Formatted renders "<last>[ <suffix>][, <first>[ <middle>]]".
func (n AuthorName) Formatted() string {
	var sb strings.Builder

	sb.WriteString(n.LastName)

	if strings.TrimSpace(n.Suffix) != "" {
		sb.WriteString(" ")
		sb.WriteString(n.Suffix)
	}

	if strings.TrimSpace(n.FirstName) != "" {
		sb.WriteString(", ")
		sb.WriteString(n.FirstName)

		if strings.TrimSpace(n.MiddleName) != "" {
			sb.WriteString(" ")
			sb.WriteString(n.MiddleName)
		}
	}

	return sb.String()
}

func (a Author) FormattedName() string {
	return a.Name.Formatted()
}

func (a Author) String() string {
	return "Author: [Id: " + a.ID +
		", Name: " + a.FormattedName() +
		", Date of Birth: " + a.DateOfBirth.Display() +
		", Gender: " + a.Gender +
		", Location: " + a.City + ", " + a.State + "]"
}
