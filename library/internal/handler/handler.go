package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libhub/library-api/library/internal/errs"
	md "github.com/libhub/library-api/pkg/middleware"
	"github.com/libhub/library-api/pkg/validate"
)

type Handler struct {
	bookSvc BookService
	loanSvc LoanService
	log     *zap.Logger
}

func New(bookSvc BookService, loanSvc LoanService, log *zap.Logger) *Handler {
	return &Handler{
		bookSvc: bookSvc,
		loanSvc: loanSvc,
		log:     log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/books", h.CreateBook)
	api.GET("/books/:id", h.GetBook)
	api.PUT("/books/:id", h.UpdateBook)
	api.DELETE("/books/:id", h.DeleteBook)
	api.GET("/books", h.FindBooks)
	api.GET("/books/:id/loans", h.GetBookLoans)

	api.POST("/loans", h.CreateLoan)
	api.PATCH("/loans/:id", h.ReturnLoan)
	api.GET("/loans", h.FindLoans)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errors.New("id is invalid")
	}
	return id, nil
}

func pageParams(c echo.Context) (page, size int, err error) {
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if page, err = strconv.Atoi(pageParam); err != nil {
			return 0, 0, errors.New("page is invalid")
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if size, err = strconv.Atoi(sizeParam); err != nil {
			return 0, 0, errors.New("size is invalid")
		}
	}
	return page, size, nil
}

func badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, errs.NewErrorResponse(err))
}

func notFound(c echo.Context, err error) error {
	return c.JSON(http.StatusNotFound, errs.NewErrorResponse(err))
}

func internalError(c echo.Context, err error) error {
	return c.JSON(http.StatusInternalServerError, errs.NewErrorResponse(err))
}

// validationError renders one message per failed field so the envelope
// lists every problem at once.
func validationError(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
		}
		return c.JSON(http.StatusBadRequest, errs.NewErrorsResponse(msgs))
	}
	return badRequest(c, err)
}
