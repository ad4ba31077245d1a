package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/authz"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/pkg/util"
)

var validate = validator.New()

// parseBody decodes and validates a JSON payload.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(out); err != nil {
		details := map[string]any{}
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				details[fe.Field()] = fe.Tag()
			}
		}
		return util.NewValidationError("validation failed", details)
	}
	return nil
}

// requirePrincipal fetches the authenticated principal or fails.
func requirePrincipal(c *fiber.Ctx) (authz.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return authz.Principal{}, util.NewUnauthorized("authentication required")
	}
	return principal, nil
}

// paramID parses a positive numeric path parameter.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, util.NewValidationError("invalid "+name, nil)
	}
	return id, nil
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Name:     user.Name,
		Surname:  user.Surname,
		Enabled:  user.Enabled,
		Roles:    user.Roles.Strings(),
	}
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:         ticket.ID,
		Title:      ticket.Title,
		Version:    ticket.Version,
		CategoryID: ticket.CategoryID,
		PriorityID: ticket.PriorityID,
		StatusID:   ticket.StatusID,
		SoftwareID: ticket.SoftwareID,
		UserID:     ticket.UserID,
		CreatedAt:  ticket.CreatedAt,
		UpdatedAt:  ticket.UpdatedAt,
	}
}

func statusResponse(status *domain.Status) dto.StatusResponse {
	return dto.StatusResponse{
		ID:            status.ID,
		Name:          status.Name,
		CloseTicket:   status.CloseTicket,
		DefaultStatus: status.DefaultStatus,
	}
}

// respondMutation renders a successful mutation. A NOTIFICATION_FAILED
// error does not fail the request: the entity is returned together with
// a warning block, and the failure is counted.
func respondMutation(c *fiber.Ctx, status int, data any, err error, metrics *observability.Metrics) error {
	if err == nil {
		return c.Status(status).JSON(fiber.Map{"data": data})
	}
	if util.IsCode(err, util.CodeNotificationFailed) {
		metrics.RecordNotificationFailure()
		domainErr := util.ToDomainError(err)
		return c.Status(status).JSON(fiber.Map{
			"data": data,
			"warning": fiber.Map{
				"code":    domainErr.Code,
				"message": domainErr.Message,
			},
		})
	}
	return err
}
