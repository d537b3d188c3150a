package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/libhub/library-api/library/internal/errs"
	"github.com/libhub/library-api/library/internal/model"
	"github.com/libhub/library-api/library/internal/repository"
)

type Book struct {
	repo repository.BookRepository
	log  *zap.Logger
}

func NewBook(repo repository.BookRepository, log *zap.Logger) *Book {
	return &Book{
		repo: repo,
		log:  log.Named("book-svc"),
	}
}

func (s *Book) Save(ctx context.Context, book model.Book) (model.Book, error) {
	return s.repo.Create(ctx, book)
}

func (s *Book) GetByID(ctx context.Context, id int64) (model.Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Update requires a persisted identity; the store is not touched without one.
func (s *Book) Update(ctx context.Context, book model.Book) (model.Book, error) {
	if book.ID == 0 {
		s.log.Warn("update without id", zap.String("isbn", book.ISBN))
		return model.Book{}, errs.ErrInvalidArgument
	}
	if err := s.repo.Update(ctx, book); err != nil {
		return model.Book{}, err
	}
	return book, nil
}

func (s *Book) Delete(ctx context.Context, book model.Book) error {
	if book.ID == 0 {
		s.log.Warn("delete without id", zap.String("isbn", book.ISBN))
		return errs.ErrInvalidArgument
	}
	return s.repo.Delete(ctx, book)
}

func (s *Book) Find(ctx context.Context, filter model.BookFilter, page, size int) (model.BookPage, error) {
	return s.repo.Find(ctx, filter, page, size)
}
