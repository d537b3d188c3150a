package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libhub/library-api/library/internal/errs"
	"github.com/libhub/library-api/library/internal/model"
)

type bookRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewBookRepository(db *sqlx.DB, log *zap.Logger) *bookRepository {
	return &bookRepository{
		db:  db,
		log: log.Named("book-repo"),
	}
}

const booksIsbnConstraint = "books_isbn_uq"

func (r *bookRepository) Create(ctx context.Context, book model.Book) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "isbn").
		Values(book.Title, book.Author, book.ISBN).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	if err := r.db.GetContext(ctx, &book.ID, query, args...); err != nil {
		if isUniqueViolation(err, booksIsbnConstraint) {
			return model.Book{}, errs.ErrDuplicateISBN
		}
		r.log.Error("Create", zap.String("q", query), zap.Any("args", args))
		return model.Book{}, err
	}
	return book, nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (model.Book, error) {
	query, args, err := qb.Select("id", "title", "author", "isbn").
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *bookRepository) GetByISBN(ctx context.Context, isbn string) (model.Book, error) {
	query, args, err := qb.Select("id", "title", "author", "isbn").
		From(booksTableName).
		Where(sq.Eq{"isbn": isbn}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

// Update persists title and author only. The isbn is immutable after creation.
func (r *bookRepository) Update(ctx context.Context, book model.Book) error {
	query, args, err := qb.Update(booksTableName).
		Set("title", book.Title).
		Set("author", book.Author).
		Where(sq.Eq{"id": book.ID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, book model.Book) error {
	query, args, err := qb.Delete(booksTableName).
		Where(sq.Eq{"id": book.ID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func bookFilterPredicate(filter model.BookFilter) sq.And {
	pred := sq.And{}
	if filter.Title != "" {
		pred = append(pred, sq.ILike{"title": "%" + filter.Title + "%"})
	}
	if filter.Author != "" {
		pred = append(pred, sq.ILike{"author": "%" + filter.Author + "%"})
	}
	if filter.ISBN != "" {
		pred = append(pred, sq.ILike{"isbn": "%" + filter.ISBN + "%"})
	}
	return pred
}

func (r *bookRepository) Find(ctx context.Context, filter model.BookFilter, page, size int) (model.BookPage, error) {
	pred := bookFilterPredicate(filter)

	q := qb.Select("id", "title", "author", "isbn").From(booksTableName)
	cq := qb.Select("count(*)").From(booksTableName)
	if len(pred) > 0 {
		q = q.Where(pred)
		cq = cq.Where(pred)
	}

	size, offset := pageOffset(page, size)
	q = q.OrderBy("id").Limit(uint64(size)).Offset(offset)

	query, args, err := q.ToSql()
	if err != nil {
		return model.BookPage{}, err
	}
	books := make([]model.Book, 0)
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return model.BookPage{}, err
	}

	countQuery, countArgs, err := cq.ToSql()
	if err != nil {
		return model.BookPage{}, err
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return model.BookPage{}, err
	}

	return model.BookPage{
		Content:       books,
		TotalElements: total,
		Pageable: model.Pageable{
			PageNumber: page,
			PageSize:   size,
		},
	}, nil
}
