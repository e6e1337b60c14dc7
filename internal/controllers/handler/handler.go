package handler

import (
	"context"
	"errors"
	"fmt"
	"planner/internal/appers"
	"planner/internal/application/common"
	"planner/internal/application/engine"
	"planner/internal/application/entity"
	use_cases "planner/internal/application/use-cases"
	"planner/pkg/validator"
	"strings"
	"time"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const defaultOccurrenceHorizon = 365 * 24 * time.Hour

type Handler interface {
	CreateEvent(c *fiber.Ctx) error
	UpdateEvent(c *fiber.Ctx) error
	DeleteEvent(c *fiber.Ctx) error
	GetEvent(c *fiber.Ctx) error
	GetEvents(c *fiber.Ctx) error
	Calendar(c *fiber.Ctx) error
	CheckConflicts(c *fiber.Ctx) error
	Occurrences(c *fiber.Ctx) error
	ExportICS(c *fiber.Ctx) error
	Notifications(c *fiber.Ctx) error
	AckNotification(c *fiber.Ctx) error
	Holidays(c *fiber.Ctx) error
	Meta(c *fiber.Ctx) error
	HealthCheck(c *fiber.Ctx) error
}
type HandlerImpl struct {
	usecase use_cases.UseCaser
	logger  *zap.SugaredLogger
}

func NewEventHandler(usecase use_cases.UseCaser, logger *zap.SugaredLogger) *HandlerImpl {
	return &HandlerImpl{
		usecase: usecase,
		logger:  logger,
	}
}

// formatValidationErrors форматирует ошибки валидации в понятный формат для клиента.
// message - общий вердикт формы, details - ошибки по полям.
func formatValidationErrors(draft entity.EventDraft, err error) fiber.Map {
	var details []string
	var validationErrors playgroundvalidator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			field := e.Field()
			var message string
			switch e.Tag() {
			case "required":
				message = fmt.Sprintf("'%s' 항목은 필수입니다", field)
			case "max":
				message = fmt.Sprintf("'%s' 항목은 최대 %s자까지 입력할 수 있습니다", field, e.Param())
			case "gte":
				message = fmt.Sprintf("'%s' 항목은 %s 이상이어야 합니다", field, e.Param())
			case "date_ymd", "date_ymd_optional":
				message = fmt.Sprintf("'%s' 항목은 YYYY-MM-DD 형식이어야 합니다", field)
			case "time_hm":
				message = fmt.Sprintf("'%s' 항목은 HH:MM 형식이어야 합니다", field)
			case "category":
				message = fmt.Sprintf("'%s' 항목은 %s 중 하나여야 합니다", field, strings.Join(entity.Categories, ", "))
			case "repeat_type":
				message = fmt.Sprintf("'%s' 항목은 none, daily, weekly, monthly, yearly 중 하나여야 합니다", field)
			default:
				message = fmt.Sprintf("'%s' 항목이 올바르지 않습니다: %s", field, e.Tag())
			}
			details = append(details, message)
		}
	} else {
		details = append(details, err.Error())
	}

	message := "입력값을 확인해주세요."
	if v := engine.CheckDraft(draft); !v.Valid {
		message = v.Message
	}
	return fiber.Map{
		"message": message,
		"details": details,
	}
}

// parseDraft разбирает и валидирует тело формы. Непустой fiber.Map - тело ответа 400.
func (h *HandlerImpl) parseDraft(c *fiber.Ctx) (entity.EventDraft, fiber.Map) {
	var draft entity.EventDraft
	if err := c.BodyParser(&draft); err != nil {
		h.logger.Errorf("error parsing body: %v", err)
		return draft, fiber.Map{"message": "invalid request body"}
	}
	if err := validator.Validate.Struct(&draft); err != nil {
		h.logger.Warnf("validation error: %v", err)
		return draft, formatValidationErrors(draft, err)
	}
	return draft, nil
}

// anchorParam - дата вида из ?date=YYYY-MM-DD, по умолчанию сегодня в поясе напоминаний.
func (h *HandlerImpl) anchorParam(c *fiber.Ctx) (time.Time, error) {
	raw := strings.TrimSpace(c.Query("date"))
	if raw == "" {
		return engine.FromTime(h.usecase.Now()).Time(), nil
	}
	anchor, ok := engine.ParseDate(raw)
	if !ok {
		return time.Time{}, appers.ErrEventFormatDate
	}
	return anchor, nil
}

func viewParam(c *fiber.Ctx) (engine.View, error) {
	view, err := engine.ParseView(c.Query("view"))
	if err != nil {
		return "", appers.ErrUnknownView
	}
	return view, nil
}

// nowParam разбирает ?now=YYYY-MM-DDTHH:MM; без параметра - те же часы, что у планировщика.
func (h *HandlerImpl) nowParam(c *fiber.Ctx) (time.Time, error) {
	raw := strings.TrimSpace(c.Query("now"))
	if raw == "" {
		return engine.FromTime(h.usecase.Now()).Time(), nil
	}
	date, clock, found := strings.Cut(raw, "T")
	if !found {
		return time.Time{}, appers.ErrEventFormatNow
	}
	at := engine.ParseInstant(date, clock)
	if at.IsInvalid() {
		return time.Time{}, appers.ErrEventFormatNow
	}
	return at.Time(), nil
}

func listParam(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// HealthCheck godoc
// @Summary     Проверка состояния сервиса
// @Description Проверяет доступность базы данных PostgreSQL и Kafka. Возвращает детальную информацию о состоянии каждого компонента.
// @Produce     json
// @Success     200   {object} entity.HealthCheckResponse "Все сервисы доступны"
// @Failure     503   {object} entity.HealthCheckResponse "Один или несколько сервисов недоступны"
// @tags        Health
// @Router      /health [get]
func (h *HandlerImpl) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	dbHealthy, kafkaHealthy, _ := h.usecase.HealthCheck(ctx)

	health := entity.HealthCheckResponse{
		Status:  dbHealthy && kafkaHealthy,
		Message: "success",
		Version: common.Version,
		Checks: entity.HealthCheckResponseData{
			Database: entity.HealthCheckItem{Status: dbHealthy, Type: "postgresql"},
			Kafka:    entity.HealthCheckItem{Status: kafkaHealthy, Type: "kafka"},
		},
	}
	if !dbHealthy {
		health.Checks.Database.Error = "Database connection failed"
		health.Message = "Some services are unavailable"
	}
	if !kafkaHealthy {
		health.Checks.Kafka.Error = "Kafka connection failed"
		health.Message = "Some services are unavailable"
	}

	if !health.Status {
		return c.Status(fiber.StatusServiceUnavailable).JSON(health)
	}
	return c.Status(fiber.StatusOK).JSON(health)
}

// CreateEvent godoc
// @Summary     Создание события
// @Description Проверяет форму и пересечения с событиями того же дня. При пересечении возвращает 409 со списком событий, если не передан force=true.
// @Accept      json
// @Produce     json
// @Param       force query    bool               false "Сохранить несмотря на пересечения"
// @Param       body  body     entity.EventDraft  true  "Данные события"
// @Success     201   {object} entity.Event
// @Failure     400
// @Failure     409   {object} entity.ConflictResponse
// @Failure     500
// @tags        Event
// @Router      /v1/event [post]
func (h *HandlerImpl) CreateEvent(c *fiber.Ctx) error {
	draft, invalid := h.parseDraft(c)
	if invalid != nil {
		return c.Status(fiber.StatusBadRequest).JSON(invalid)
	}

	evt, err := h.usecase.SaveEvent(c.Context(), entity.NewDraft(nil, draft), c.QueryBool("force"))
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(evt)
}

// UpdateEvent godoc
// @Summary     Обновление события
// @Description Перезаписывает событие с указанным id. Пересечения проверяются так же, как при создании.
// @Accept      json
// @Produce     json
// @Param       force query    bool               false "Сохранить несмотря на пересечения"
// @Param       body  body     entity.EventDraft  true  "Данные события с id"
// @Success     200   {object} entity.Event
// @Failure     400
// @Failure     404
// @Failure     409   {object} entity.ConflictResponse
// @Failure     500
// @tags        Event
// @Router      /v1/event [patch]
func (h *HandlerImpl) UpdateEvent(c *fiber.Ctx) error {
	draft, invalid := h.parseDraft(c)
	if invalid != nil {
		return c.Status(fiber.StatusBadRequest).JSON(invalid)
	}
	if draft.ID == "" {
		return appers.SanitizeError(c, appers.ErrEventIDRequired)
	}

	editing, err := h.usecase.GetEvent(c.Context(), draft.ID)
	if err != nil {
		return appers.SanitizeError(c, err)
	}

	evt, err := h.usecase.SaveEvent(c.Context(), entity.NewDraft(editing, draft), c.QueryBool("force"))
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(evt)
}

// DeleteEvent godoc
// @Summary     Удаление события
// @Description Удаляет событие по идентификатору
// @Produce     json
// @Param       id   path     string  true  "ID события"
// @Success     200
// @Failure     404
// @Failure     500
// @tags        Event
// @Router      /v1/event/{id} [delete]
func (h *HandlerImpl) DeleteEvent(c *fiber.Ctx) error {
	if err := h.usecase.DeleteEvent(c.Context(), c.Params("id")); err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"description": "ok"})
}

// GetEvent godoc
// @Summary     Событие по id
// @Produce     json
// @Param       id   path     string  true  "ID события"
// @Success     200  {object} entity.Event
// @Failure     404
// @tags        Event
// @Router      /v1/event/{id} [get]
func (h *HandlerImpl) GetEvent(c *fiber.Ctx) error {
	evt, err := h.usecase.GetEvent(c.Context(), c.Params("id"))
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(evt)
}

// GetEvents godoc
// @Summary     События недели или месяца
// @Description Возвращает события недели (воскресенье-суббота) или месяца, содержащих date, с поиском по title, description и location.
// @Produce     json
// @Param       date  query    string false "Дата вида YYYY-MM-DD, по умолчанию сегодня"
// @Param       view  query    string false "week или month" Enums(week, month)
// @Param       q     query    string false "Строка поиска"
// @Success     200   {array}  entity.Event
// @Failure     400
// @Failure     500
// @tags        Event
// @Router      /v1/event [get]
func (h *HandlerImpl) GetEvents(c *fiber.Ctx) error {
	anchor, err := h.anchorParam(c)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	view, err := viewParam(c)
	if err != nil {
		return appers.SanitizeError(c, err)
	}

	events, err := h.usecase.ListEvents(c.Context(), anchor, view, c.Query("q"))
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(events)
}

// Calendar godoc
// @Summary     Сетка календаря
// @Description Неделя (одна строка) или месяц по неделям с воскресенья. Каждая клетка содержит события дня и праздник; клетки вне месяца - null.
// @Produce     json
// @Param       date  query    string false "Дата вида YYYY-MM-DD, по умолчанию сегодня"
// @Param       view  query    string false "week или month" Enums(week, month)
// @Param       q     query    string false "Строка поиска"
// @Success     200   {object} entity.CalendarView
// @Failure     400
// @Failure     500
// @tags        Calendar
// @Router      /v1/calendar [get]
func (h *HandlerImpl) Calendar(c *fiber.Ctx) error {
	anchor, err := h.anchorParam(c)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	view, err := viewParam(c)
	if err != nil {
		return appers.SanitizeError(c, err)
	}

	grid, err := h.usecase.Calendar(c.Context(), anchor, view, c.Query("q"))
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(grid)
}

// CheckConflicts godoc
// @Summary     Проверка пересечений
// @Description Возвращает события того же дня, пересекающиеся с черновиком. Ничего не сохраняет.
// @Accept      json
// @Produce     json
// @Param       body  body     entity.EventDraft  true  "Черновик события"
// @Success     200   {array}  entity.Event
// @Failure     400
// @tags        Event
// @Router      /v1/event/conflicts [post]
func (h *HandlerImpl) CheckConflicts(c *fiber.Ctx) error {
	draft, invalid := h.parseDraft(c)
	if invalid != nil {
		return c.Status(fiber.StatusBadRequest).JSON(invalid)
	}

	conflicts, err := h.usecase.CheckConflicts(c.Context(), draft)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(conflicts)
}

// Occurrences godoc
// @Summary     Повторения события
// @Description Разворачивает повторяющееся событие до until включительно (по умолчанию год вперед).
// @Produce     json
// @Param       id     path     string  true  "ID события"
// @Param       until  query    string  false "YYYY-MM-DD"
// @Success     200    {array}  entity.Event
// @Failure     400
// @Failure     404
// @tags        Event
// @Router      /v1/event/{id}/occurrences [get]
func (h *HandlerImpl) Occurrences(c *fiber.Ctx) error {
	until := engine.FromTime(h.usecase.Now().Add(defaultOccurrenceHorizon)).Time()
	if raw := c.Query("until"); raw != "" {
		parsed, ok := engine.ParseDate(raw)
		if !ok {
			return appers.SanitizeError(c, appers.ErrEventFormatUntil)
		}
		until = parsed
	}

	out, err := h.usecase.Occurrences(c.Context(), c.Params("id"), until)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// ExportICS godoc
// @Summary     Экспорт в iCalendar
// @Description События недели или месяца в формате text/calendar.
// @Produce     plain
// @Param       date  query    string false "YYYY-MM-DD"
// @Param       view  query    string false "week или month" Enums(week, month)
// @Success     200   {string} string
// @Failure     400
// @tags        Event
// @Router      /v1/event/export.ics [get]
func (h *HandlerImpl) ExportICS(c *fiber.Ctx) error {
	anchor, err := h.anchorParam(c)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	view, err := viewParam(c)
	if err != nil {
		return appers.SanitizeError(c, err)
	}

	data, err := h.usecase.ExportICS(c.Context(), anchor, view)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	c.Attachment(fmt.Sprintf("calendar-%s-%s.ics", view, engine.FormatDate(anchor)))
	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	return c.Status(fiber.StatusOK).Send(data)
}

// Notifications godoc
// @Summary     Наступившие напоминания
// @Description Чистое вычисление: какие события вошли в окно напоминания на момент now, без учета id из notified. Состояние сервера не меняется.
// @Produce     json
// @Param       now       query    string false "YYYY-MM-DDTHH:MM, по умолчанию текущее время"
// @Param       notified  query    string false "Уже показанные id через запятую"
// @Success     200       {array}  entity.Notification
// @Failure     400
// @tags        Notification
// @Router      /v1/notifications [get]
func (h *HandlerImpl) Notifications(c *fiber.Ctx) error {
	now, err := h.nowParam(c)
	if err != nil {
		return appers.SanitizeError(c, err)
	}

	notes, err := h.usecase.Notifications(c.Context(), now, listParam(c.Query("notified")))
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(notes)
}

// AckNotification godoc
// @Summary     Подтверждение напоминания
// @Description Помечает напоминание события доставленным: планировщик больше не отправит его.
// @Produce     json
// @Param       id   path     string  true  "ID события"
// @Success     200
// @tags        Notification
// @Router      /v1/notifications/{id}/ack [post]
func (h *HandlerImpl) AckNotification(c *fiber.Ctx) error {
	if err := h.usecase.Acknowledge(c.Context(), c.Params("id")); err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"description": "ok"})
}

// Holidays godoc
// @Summary     Праздники месяца
// @Produce     json
// @Param       date  query    string false "Любая дата месяца, YYYY-MM-DD"
// @Success     200   {object} map[string]string
// @Failure     400
// @tags        Calendar
// @Router      /v1/holidays [get]
func (h *HandlerImpl) Holidays(c *fiber.Ctx) error {
	anchor, err := h.anchorParam(c)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(h.usecase.Holidays(c.Context(), anchor))
}

// Meta godoc
// @Summary     Справочники формы
// @Description Дни недели, категории, варианты напоминаний и типы повторения.
// @Produce     json
// @Success     200   {object} entity.Meta
// @tags        Calendar
// @Router      /v1/meta [get]
func (h *HandlerImpl) Meta(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.usecase.Meta())
}
