package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libhub/library-api/library/internal/errs"
	"github.com/libhub/library-api/library/internal/model"
)

func (h *Handler) CreateLoan(c echo.Context) error {
	var req model.CreateLoanRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := c.Validate(req); err != nil {
		return validationError(c, err)
	}

	h.log.Info("creating a loan", zap.String("isbn", req.ISBN), zap.String("customer", req.Customer))
	loan, err := h.loanSvc.CreateLoan(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, errs.ErrBookNotFound) || errors.Is(err, errs.ErrBookAlreadyLoaned) {
			return badRequest(c, err)
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusCreated, loan.ID)
}

func (h *Handler) ReturnLoan(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	var req model.ReturnLoanRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	loan, err := h.loanSvc.ReturnLoan(c.Request().Context(), id, req.Returned)
	if err != nil {
		if errors.Is(err, errs.ErrLoanNotFound) {
			return notFound(c, err)
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) FindLoans(c echo.Context) error {
	page, size, err := pageParams(c)
	if err != nil {
		return badRequest(c, err)
	}
	filter := model.LoanFilter{
		ISBN:     c.QueryParam("isbn"),
		Customer: c.QueryParam("customer"),
	}
	loans, err := h.loanSvc.FindLoans(c.Request().Context(), filter, page, size)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, loans)
}
