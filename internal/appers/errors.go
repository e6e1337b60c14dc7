package appers

import (
	"errors"
	"net/http"
	"planner/internal/application/entity"

	"github.com/gofiber/fiber/v2"
)

type ErrorResp struct {
	StatusCode int    `json:"statusCode,omitempty"`
	StatusDesc string `json:"statusDesc,omitempty"`
}

func (e ErrorResp) Error() string {
	return e.StatusDesc
}

var (
	ErrEventNotFound = ErrorResp{
		http.StatusNotFound,
		"일정을 찾을 수 없습니다",
	}
	ErrEventAlreadyExists = ErrorResp{
		http.StatusConflict,
		"이미 존재하는 일정입니다",
	}
	ErrEventFormatDate = ErrorResp{
		StatusCode: http.StatusBadRequest,
		StatusDesc: "날짜 형식이 잘못되었습니다, YYYY-MM-DD 형식이어야 합니다",
	}
	ErrEventFormatNow = ErrorResp{
		StatusCode: http.StatusBadRequest,
		StatusDesc: "now 형식이 잘못되었습니다, YYYY-MM-DDTHH:MM 형식이어야 합니다",
	}
	ErrEventIDRequired = ErrorResp{
		StatusCode: http.StatusBadRequest,
		StatusDesc: "일정 ID가 필요합니다",
	}
	ErrEventFormatUntil = ErrorResp{
		StatusCode: http.StatusBadRequest,
		StatusDesc: "until 형식이 잘못되었습니다, YYYY-MM-DD 형식이어야 합니다",
	}
	ErrUnknownView = ErrorResp{
		StatusCode: http.StatusBadRequest,
		StatusDesc: "view는 week 또는 month 이어야 합니다",
	}
)

// ValidationError - черновик не прошел проверку формы; Message показывается пользователю как есть.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ConflictError - черновик пересекается с существующими событиями.
type ConflictError struct {
	Conflicts []entity.Event
}

func (e *ConflictError) Error() string {
	return "일정이 겹칩니다"
}

func SanitizeError(c *fiber.Ctx, err error) error {
	var errResp ErrorResp
	var validationErr *ValidationError
	var conflictErr *ConflictError

	switch {
	case errors.As(err, &errResp):
		return c.Status(errResp.StatusCode).JSON(fiber.Map{
			"message": errResp.StatusDesc,
		})
	case errors.As(err, &validationErr):
		return NewErr(c, http.StatusBadRequest, validationErr)
	case errors.As(err, &conflictErr):
		return c.Status(http.StatusConflict).JSON(entity.ConflictResponse{
			Message:   conflictErr.Error(),
			Conflicts: conflictErr.Conflicts,
		})
	default:
		return NewErr(c, http.StatusInternalServerError, err)
	}
}

func NewErr(ctx *fiber.Ctx, status int, err error) error {
	return ctx.Status(status).JSON(fiber.Map{
		"message": err.Error(),
	})
}
