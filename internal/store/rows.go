package store

import (
	"time"

	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type authorRow struct {
	ID          string `gorm:"type:varchar(36);primaryKey"`
	FirstName   string `gorm:"size:100"`
	MiddleName  string `gorm:"size:100"`
	LastName    string `gorm:"size:100;not null;index"`
	Suffix      string `gorm:"size:20"`
	DateOfBirth string `gorm:"size:10"`
	Gender      string `gorm:"size:20"`
	City        string `gorm:"size:100"`
	State       string `gorm:"size:100"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (authorRow) TableName() string { return "authors" }

type bookRow struct {
	ID            string `gorm:"type:varchar(36);primaryKey"`
	ISBN          string `gorm:"column:isbn;size:32;not null;index"`
	Title         string `gorm:"size:255;not null"`
	Authors       datatypes.JSONSlice[model.AuthorRef]
	PublishedDate string `gorm:"size:10"`
	Genres        datatypes.JSONSlice[string]
	Pages         int
	PublisherID   string `gorm:"type:varchar(36);index"`
	PublisherName string `gorm:"size:255"`
	Language      string `gorm:"size:16"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (bookRow) TableName() string { return "books" }

type publisherRow struct {
	ID        string `gorm:"type:varchar(36);primaryKey"`
	Name      string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (publisherRow) TableName() string { return "publishers" }

// AutoMigrate creates or updates the tables of every catalog collection.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&authorRow{}, &bookRow{}, &publisherRow{})
}

func parseStoredDate(s string) model.Date {
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}
	}
	return d
}

func authorToRow(a model.Author) authorRow {
	return authorRow{
		ID:          a.ID,
		FirstName:   a.Name.FirstName,
		MiddleName:  a.Name.MiddleName,
		LastName:    a.Name.LastName,
		Suffix:      a.Name.Suffix,
		DateOfBirth: a.DateOfBirth.String(),
		Gender:      a.Gender,
		City:        a.City,
		State:       a.State,
	}
}

func authorFromRow(r authorRow) model.Author {
	return model.Author{
		ID: r.ID,
		Name: model.AuthorName{
			FirstName:  r.FirstName,
			MiddleName: r.MiddleName,
			LastName:   r.LastName,
			Suffix:     r.Suffix,
		},
		DateOfBirth: parseStoredDate(r.DateOfBirth),
		Gender:      r.Gender,
		City:        r.City,
		State:       r.State,
	}
}

func bookToRow(b model.Book) bookRow {
	r := bookRow{
		ID:            b.ID,
		ISBN:          b.ISBN,
		Title:         b.Title,
		Authors:       datatypes.JSONSlice[model.AuthorRef](b.Authors),
		PublishedDate: b.PublishedDate.String(),
		Genres:        datatypes.JSONSlice[string](b.Genres),
		Pages:         b.Pages,
		Language:      b.Language,
	}
	if b.Publisher != nil {
		r.PublisherID = b.Publisher.ID
		r.PublisherName = b.Publisher.Name
	}
	return r
}

func bookFromRow(r bookRow) model.Book {
	b := model.Book{
		ID:            r.ID,
		ISBN:          r.ISBN,
		Title:         r.Title,
		Authors:       []model.AuthorRef(r.Authors),
		PublishedDate: parseStoredDate(r.PublishedDate),
		Genres:        []string(r.Genres),
		Pages:         r.Pages,
		Language:      r.Language,
	}
	if r.PublisherID != "" {
		b.Publisher = &model.PublisherRef{ID: r.PublisherID, Name: r.PublisherName}
	}
	return b
}

func publisherToRow(p model.Publisher) publisherRow {
	return publisherRow{ID: p.ID, Name: p.Name}
}

func publisherFromRow(r publisherRow) model.Publisher {
	return model.Publisher{ID: r.ID, Name: r.Name}
}
