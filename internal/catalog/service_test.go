package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/match"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAuditor struct {
	events []AuditEvent
}

func (r *recordingAuditor) Audit(_ context.Context, e AuditEvent) {
	r.events = append(r.events, e)
}

func (r *recordingAuditor) last() AuditEvent {
	if len(r.events) == 0 {
		return AuditEvent{}
	}
	return r.events[len(r.events)-1]
}

var errStoreDown = errors.New("store down")

// failingStore returns errStoreDown from every call.
type failingStore[T model.Document[T]] struct{}

func (failingStore[T]) FindAll(context.Context) ([]T, error) { return nil, errStoreDown }

func (failingStore[T]) FindByID(context.Context, string) (T, bool, error) {
	var zero T
	return zero, false, errStoreDown
}

func (failingStore[T]) FindByExample(context.Context, T, match.Mode) ([]T, error) {
	return nil, errStoreDown
}

func (failingStore[T]) Save(context.Context, T) (T, error) {
	var zero T
	return zero, errStoreDown
}

func (failingStore[T]) DeleteByID(context.Context, string) error { return errStoreDown }
func (failingStore[T]) DeleteAll(context.Context) error          { return errStoreDown }

func newAuthor(last, city string) model.Author {
	return model.Author{Name: model.AuthorName{FirstName: "George", LastName: last}, City: city, State: "CA"}
}

func TestService_AddThenGetByIDRoundTrips(t *testing.T) {
	ctx := context.Background()
	svc := NewService[model.Author](store.NewMemory[model.Author]())

	added, err := svc.Add(ctx, newAuthor("Bluth", "Newport Beach"))
	require.NoError(t, err)
	require.NotEmpty(t, added.ID)

	got, err := svc.GetByID(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, added, got)
}

func TestService_AddIgnoresClientID(t *testing.T) {
	ctx := context.Background()
	svc := NewService[model.Publisher](store.NewMemory[model.Publisher]())

	added, err := svc.Add(ctx, model.Publisher{ID: "chosen-by-client", Name: "McGraw"})
	require.NoError(t, err)
	assert.NotEqual(t, "chosen-by-client", added.ID)

	_, err = svc.GetByID(ctx, "chosen-by-client")
	assert.True(t, IsNotFound(err))
}

func TestService_AddValidation(t *testing.T) {
	ctx := context.Background()
	books := store.NewMemory[model.Book]()
	svc := NewService[model.Book](books)

	_, err := svc.Add(ctx, model.Book{
		Title:   "No ISBN",
		Authors: []model.AuthorRef{{ID: "a-1"}},
	})

	verr, ok := AsValidationError(err)
	require.True(t, ok, "expected ValidationError, got %v", err)
	assert.Equal(t, map[string]string{"isbn": "ISBN is required"}, verr.Fields)

	all, err := books.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestService_UpdateKeepsIDAndOverwritesFields(t *testing.T) {
	ctx := context.Background()
	svc := NewService[model.Author](store.NewMemory[model.Author]())

	added, err := svc.Add(ctx, newAuthor("Bluth", "Newport Beach"))
	require.NoError(t, err)

	input := newAuthor("Bluth", "Modesto")
	input.ID = "ignored"

	updated, err := svc.Update(ctx, added.ID, input)
	require.NoError(t, err)
	assert.Equal(t, added.ID, updated.ID)
	assert.Equal(t, "Modesto", updated.City)

	got, err := svc.GetByID(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Modesto", got.City)
	assert.Equal(t, added.ID, got.ID)

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestService_UpdateMissingIsNotFound(t *testing.T) {
	svc := NewService[model.Author](store.NewMemory[model.Author]())

	_, err := svc.Update(context.Background(), "missing", newAuthor("Bluth", "Modesto"))
	assert.True(t, IsNotFound(err))
}

func TestService_UpdateValidatesMergedDocument(t *testing.T) {
	ctx := context.Background()
	svc := NewService[model.Publisher](store.NewMemory[model.Publisher]())

	added, err := svc.Add(ctx, model.Publisher{Name: "McGraw"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, added.ID, model.Publisher{Name: " "})
	verr, ok := AsValidationError(err)
	require.True(t, ok, "expected ValidationError, got %v", err)
	assert.Equal(t, map[string]string{"name": "Name is required"}, verr.Fields)

	got, err := svc.GetByID(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "McGraw", got.Name)
}

func TestService_GetByIDMissing(t *testing.T) {
	svc := NewService[model.Book](store.NewMemory[model.Book]())

	_, err := svc.GetByID(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestService_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := NewService[model.Publisher](store.NewMemory[model.Publisher]())

	added, err := svc.Add(ctx, model.Publisher{Name: "McGraw"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, added.ID))
	require.NoError(t, svc.Delete(ctx, added.ID))
	require.NoError(t, svc.Delete(ctx, "never-existed"))

	_, err = svc.GetByID(ctx, added.ID)
	assert.True(t, IsNotFound(err))
}

func TestService_DeleteAll(t *testing.T) {
	ctx := context.Background()
	set := store.NewMemorySet()
	publishers := NewService(set.Publishers)
	authors := NewService(set.Authors)

	_, err := publishers.Add(ctx, model.Publisher{Name: "McGraw"})
	require.NoError(t, err)
	_, err = authors.Add(ctx, newAuthor("Bluth", "Modesto"))
	require.NoError(t, err)

	require.NoError(t, publishers.DeleteAll(ctx))

	all, err := publishers.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	others, err := authors.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, others, 1)
}

func TestService_Search(t *testing.T) {
	ctx := context.Background()
	svc := NewService[model.Author](store.NewMemory[model.Author]())

	for _, a := range []model.Author{
		newAuthor("Bluth", "Newport Beach"),
		newAuthor("Funke", "Newport Beach"),
		newAuthor("Bluthe", "Modesto"),
	} {
		_, err := svc.Add(ctx, a)
		require.NoError(t, err)
	}

	lastNames := func(as []model.Author) []string {
		out := make([]string, 0, len(as))
		for _, a := range as {
			out = append(out, a.Name.LastName)
		}
		return out
	}

	t.Run("empty example returns everything", func(t *testing.T) {
		got, err := svc.Search(ctx, model.Author{})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("case-insensitive exact match", func(t *testing.T) {
		got, err := svc.Search(ctx, model.Author{Name: model.AuthorName{LastName: "BLUTH"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Bluth"}, lastNames(got))
	})

	t.Run("fields combine with or", func(t *testing.T) {
		example := model.Author{Name: model.AuthorName{LastName: "Funke"}, City: "modesto"}
		got, err := svc.Search(ctx, example)
		require.NoError(t, err)
		assert.Equal(t, []string{"Funke", "Bluthe"}, lastNames(got))
	})

	t.Run("no match yields empty", func(t *testing.T) {
		got, err := svc.Search(ctx, model.Author{City: "Sudden Valley"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestService_StoreFaultsPassThrough(t *testing.T) {
	ctx := context.Background()
	auditor := &recordingAuditor{}
	svc := NewService[model.Publisher](failingStore[model.Publisher]{}, WithAuditor[model.Publisher](auditor))

	_, err := svc.GetAll(ctx)
	assert.ErrorIs(t, err, errStoreDown)

	_, err = svc.GetByID(ctx, "x")
	assert.ErrorIs(t, err, errStoreDown)
	assert.False(t, IsNotFound(err))

	_, err = svc.Search(ctx, model.Publisher{Name: "x"})
	assert.ErrorIs(t, err, errStoreDown)

	_, err = svc.Add(ctx, model.Publisher{Name: "x"})
	assert.ErrorIs(t, err, errStoreDown)

	_, err = svc.Update(ctx, "x", model.Publisher{Name: "x"})
	assert.ErrorIs(t, err, errStoreDown)

	assert.ErrorIs(t, svc.Delete(ctx, "x"), errStoreDown)
	assert.ErrorIs(t, svc.DeleteAll(ctx), errStoreDown)

	assert.Empty(t, auditor.events)
}

func TestService_AuditsEveryOperation(t *testing.T) {
	ctx := context.Background()
	auditor := &recordingAuditor{}
	svc := NewService[model.Publisher](store.NewMemory[model.Publisher](), WithAuditor[model.Publisher](auditor))

	added, err := svc.Add(ctx, model.Publisher{Name: "McGraw"})
	require.NoError(t, err)
	assert.Equal(t, AuditEvent{Operation: OpAdd, Resource: "publishers", IDs: []string{added.ID}}, auditor.last())

	_, err = svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, AuditEvent{Operation: OpGetAll, Resource: "publishers", IDs: []string{added.ID}}, auditor.last())

	_, err = svc.GetByID(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, OpGetByID, auditor.last().Operation)

	_, err = svc.Search(ctx, model.Publisher{Name: "mcgraw"})
	require.NoError(t, err)
	assert.Equal(t, AuditEvent{Operation: OpSearch, Resource: "publishers", IDs: []string{added.ID}}, auditor.last())

	_, err = svc.Update(ctx, added.ID, model.Publisher{Name: "McGraw-Hill"})
	require.NoError(t, err)
	assert.Equal(t, AuditEvent{Operation: OpUpdate, Resource: "publishers", IDs: []string{added.ID}}, auditor.last())

	require.NoError(t, svc.Delete(ctx, added.ID))
	assert.Equal(t, AuditEvent{Operation: OpDelete, Resource: "publishers", IDs: []string{added.ID}}, auditor.last())

	require.NoError(t, svc.DeleteAll(ctx))
	assert.Equal(t, AuditEvent{Operation: OpDeleteAll, Resource: "publishers"}, auditor.last())

	assert.Len(t, auditor.events, 7)
}

func TestSlogAuditor_WritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	a := NewSlogAuditor(slog.New(slog.NewJSONHandler(&buf, nil)))

	a.Audit(context.Background(), AuditEvent{Operation: OpDelete, Resource: "books", IDs: []string{"b-1"}})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "audit", line["msg"])
	assert.Equal(t, "delete", line["operation"])
	assert.Equal(t, "books", line["resource"])
	assert.Equal(t, []any{"b-1"}, line["ids"])
}

func TestBackReferencesAreDerived(t *testing.T) {
	ctx := context.Background()
	set := store.NewMemorySet()

	authors := NewService(set.Authors, WithExpander(AuthorBooks(set.Books)))
	publishers := NewService(set.Publishers, WithExpander(PublisherBooks(set.Books)))
	books := NewService(set.Books)

	author, err := authors.Add(ctx, model.Author{
		Name:  model.AuthorName{LastName: "Martin"},
		Books: []model.BookRef{{ID: "forged"}},
	})
	require.NoError(t, err)
	assert.Empty(t, author.Books)

	publisher, err := publishers.Add(ctx, model.Publisher{Name: "Prentice Hall"})
	require.NoError(t, err)

	book, err := books.Add(ctx, model.Book{
		ISBN:      "978-0132350884",
		Title:     "Clean Code",
		Authors:   []model.AuthorRef{{ID: author.ID, Name: "Martin"}},
		Publisher: &model.PublisherRef{ID: publisher.ID},
	})
	require.NoError(t, err)

	want := []model.BookRef{{ID: book.ID, ISBN: "978-0132350884", Title: "Clean Code"}}

	gotAuthor, err := authors.GetByID(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, want, gotAuthor.Books)

	gotPublishers, err := publishers.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, gotPublishers, 1)
	assert.Equal(t, want, gotPublishers[0].Books)

	stored, _, err := set.Authors.FindByID(ctx, author.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Books)
}

func TestService_SearchByDerivedBooks(t *testing.T) {
	ctx := context.Background()
	set := store.NewMemorySet()

	authors := NewService(set.Authors, WithExpander(AuthorBooks(set.Books)))
	publishers := NewService(set.Publishers, WithExpander(PublisherBooks(set.Books)))
	books := NewService(set.Books)

	martin, err := authors.Add(ctx, newAuthor("Martin", "Chicago"))
	require.NoError(t, err)
	_, err = authors.Add(ctx, newAuthor("Evans", "Boston"))
	require.NoError(t, err)

	ph, err := publishers.Add(ctx, model.Publisher{Name: "Prentice Hall"})
	require.NoError(t, err)
	_, err = publishers.Add(ctx, model.Publisher{Name: "Addison-Wesley"})
	require.NoError(t, err)

	book, err := books.Add(ctx, model.Book{
		ISBN:      "978-0132350884",
		Title:     "Clean Code",
		Authors:   []model.AuthorRef{{ID: martin.ID}},
		Publisher: &model.PublisherRef{ID: ph.ID},
	})
	require.NoError(t, err)

	t.Run("author by book title", func(t *testing.T) {
		got, err := authors.Search(ctx, model.Author{Books: []model.BookRef{{Title: "clean code"}}})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, martin.ID, got[0].ID)
		assert.Equal(t, book.ID, got[0].Books[0].ID)
	})

	t.Run("publisher by book id", func(t *testing.T) {
		got, err := publishers.Search(ctx, model.Publisher{Books: []model.BookRef{{ID: book.ID}}})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Prentice Hall", got[0].Name)
	})

	t.Run("derived and stored fields combine with or", func(t *testing.T) {
		example := model.Author{City: "boston", Books: []model.BookRef{{ISBN: "978-0132350884"}}}
		got, err := authors.Search(ctx, example)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("unknown book matches nothing", func(t *testing.T) {
		got, err := publishers.Search(ctx, model.Publisher{Books: []model.BookRef{{Title: "Refactoring"}}})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
