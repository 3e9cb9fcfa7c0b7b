package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/match"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gorm stores documents of type T as rows of type R.
type Gorm[T model.Document[T], R any] struct {
	db      *gorm.DB
	toRow   func(T) R
	fromRow func(R) T
}

func NewGorm[T model.Document[T], R any](db *gorm.DB, toRow func(T) R, fromRow func(R) T) *Gorm[T, R] {
	return &Gorm[T, R]{db: db, toRow: toRow, fromRow: fromRow}
}

func (s *Gorm[T, R]) FindAll(ctx context.Context) ([]T, error) {
	return s.find(ctx, s.db.WithContext(ctx))
}

func (s *Gorm[T, R]) FindByID(ctx context.Context, id string) (T, bool, error) {
	var (
		row  R
		zero T
	)

	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("find %s %s: %w", zero.Collection(), id, err)
	}

	return s.fromRow(row), true, nil
}

// FindByExample filters in SQL when every constraint maps to a column and
// falls back to matching in process otherwise.
func (s *Gorm[T, R]) FindByExample(ctx context.Context, example T, mode match.Mode) ([]T, error) {
	fields := example.Fields()

	preds, ok := match.Pushdown(fields, mode)
	if !ok {
		all, err := s.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		return match.Filter(all, fieldsOf[T], fields, mode), nil
	}

	q := s.db.WithContext(ctx)
	if len(preds) > 0 {
		exprs := make([]clause.Expression, 0, len(preds))
		for _, p := range preds {
			exprs = append(exprs, predicateExpr(p))
		}
		if mode.All {
			q = q.Where(clause.And(exprs...))
		} else {
			q = q.Where(clause.Or(exprs...))
		}
	}

	return s.find(ctx, q)
}

func predicateExpr(p match.Predicate) clause.Expression {
	col := clause.Column{Name: p.Column}
	if p.Fold {
		return clause.Expr{SQL: "LOWER(?) = ?", Vars: []any{col, p.Value}}
	}
	return clause.Eq{Column: col, Value: p.Value}
}

func (s *Gorm[T, R]) find(ctx context.Context, q *gorm.DB) ([]T, error) {
	var rows []R
	if err := q.Order("created_at, id").Find(&rows).Error; err != nil {
		var zero T
		return nil, fmt.Errorf("list %s: %w", zero.Collection(), err)
	}

	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, s.fromRow(r))
	}
	return out, nil
}

func (s *Gorm[T, R]) Save(ctx context.Context, doc T) (T, error) {
	var zero T

	if doc.DocumentID() == "" {
		doc = doc.WithID(uuid.NewString())
		row := s.toRow(doc)
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return zero, fmt.Errorf("create %s: %w", doc.Collection(), err)
		}
		return s.fromRow(row), nil
	}

	row := s.toRow(doc)
	result := s.db.WithContext(ctx).
		Model(&row).
		Select("*").
		Omit("id", "created_at").
		Updates(&row)
	if result.Error != nil {
		return zero, fmt.Errorf("update %s %s: %w", doc.Collection(), doc.DocumentID(), result.Error)
	}

	if result.RowsAffected == 0 {
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return zero, fmt.Errorf("create %s %s: %w", doc.Collection(), doc.DocumentID(), err)
		}
	}

	return s.fromRow(row), nil
}

func (s *Gorm[T, R]) DeleteByID(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(new(R), "id = ?", id).Error; err != nil {
		var zero T
		return fmt.Errorf("delete %s %s: %w", zero.Collection(), id, err)
	}
	return nil
}

func (s *Gorm[T, R]) DeleteAll(ctx context.Context) error {
	err := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(new(R)).Error
	if err != nil {
		var zero T
		return fmt.Errorf("delete all %s: %w", zero.Collection(), err)
	}
	return nil
}

// NewGormSet returns stores for every resource on db. Tables must exist, see
// AutoMigrate.
func NewGormSet(db *gorm.DB) Set {
	return Set{
		Authors:    NewGorm(db, authorToRow, authorFromRow),
		Books:      NewGorm(db, bookToRow, bookFromRow),
		Publishers: NewGorm(db, publisherToRow, publisherFromRow),
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		Close: func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}
