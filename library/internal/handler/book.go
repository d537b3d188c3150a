package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libhub/library-api/library/internal/errs"
	"github.com/libhub/library-api/library/internal/model"
)

func (h *Handler) CreateBook(c echo.Context) error {
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := c.Validate(req); err != nil {
		return validationError(c, err)
	}

	h.log.Info("creating a book", zap.String("isbn", req.ISBN))
	book, err := h.bookSvc.Save(c.Request().Context(), model.Book{
		Title:  req.Title,
		Author: req.Author,
		ISBN:   req.ISBN,
	})
	if err != nil {
		if errors.Is(err, errs.ErrDuplicateISBN) {
			return badRequest(c, err)
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) GetBook(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	book, err := h.bookSvc.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return notFound(c, err)
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, book)
}

// UpdateBook mutates title and author of an existing book. The isbn stays
// as created.
func (h *Handler) UpdateBook(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	var req model.UpdateBookRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := c.Validate(req); err != nil {
		return validationError(c, err)
	}

	ctx := c.Request().Context()
	book, err := h.bookSvc.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return notFound(c, err)
		}
		return internalError(c, err)
	}

	book.Title = req.Title
	book.Author = req.Author
	book, err = h.bookSvc.Update(ctx, book)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	ctx := c.Request().Context()
	book, err := h.bookSvc.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return notFound(c, err)
		}
		return internalError(c, err)
	}
	h.log.Info("deleting book", zap.Int64("id", id))
	if err := h.bookSvc.Delete(ctx, book); err != nil {
		return internalError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) FindBooks(c echo.Context) error {
	page, size, err := pageParams(c)
	if err != nil {
		return badRequest(c, err)
	}
	filter := model.BookFilter{
		Title:  c.QueryParam("title"),
		Author: c.QueryParam("author"),
		ISBN:   c.QueryParam("isbn"),
	}
	books, err := h.bookSvc.Find(c.Request().Context(), filter, page, size)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) GetBookLoans(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	page, size, err := pageParams(c)
	if err != nil {
		return badRequest(c, err)
	}
	loans, err := h.loanSvc.GetLoansByBook(c.Request().Context(), id, page, size)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return notFound(c, err)
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, loans)
}
