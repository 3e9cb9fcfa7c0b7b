package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:testdb_" + uuid.New().String() + "?mode=memory&cache=shared"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := store.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// NewErrorDB returns a database without tables, so every query fails.
func NewErrorDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:errdb_" + uuid.New().String() + "?mode=memory&cache=shared"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to error test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

func SeedAuthor(t *testing.T, s store.Set, lastName, city string) model.Author {
	t.Helper()

	author, err := s.Authors.Save(context.Background(), model.Author{
		Name:  model.AuthorName{LastName: lastName},
		City:  city,
		State: "CA",
	})
	if err != nil {
		t.Fatalf("failed to seed author %q: %v", lastName, err)
	}

	return author
}

func SeedPublisher(t *testing.T, s store.Set, name string) model.Publisher {
	t.Helper()

	publisher, err := s.Publishers.Save(context.Background(), model.Publisher{Name: name})
	if err != nil {
		t.Fatalf("failed to seed publisher %q: %v", name, err)
	}

	return publisher
}

func SeedBook(t *testing.T, s store.Set, title string, author model.Author, publisher *model.Publisher) model.Book {
	t.Helper()

	book := model.Book{
		ISBN:    "isbn-" + uuid.New().String()[:8],
		Title:   title,
		Authors: []model.AuthorRef{{ID: author.ID, Name: author.FormattedName()}},
	}
	if publisher != nil {
		book.Publisher = &model.PublisherRef{ID: publisher.ID, Name: publisher.Name}
	}

	saved, err := s.Books.Save(context.Background(), book)
	if err != nil {
		t.Fatalf("failed to seed book %q: %v", title, err)
	}

	return saved
}
