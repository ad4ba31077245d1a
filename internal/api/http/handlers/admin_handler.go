package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/pkg/util"
)

// AdminHandler manages reference data and account administration.
type AdminHandler struct {
	references *service.ReferenceService
	users      *service.UserService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(references *service.ReferenceService, users *service.UserService) *AdminHandler {
	return &AdminHandler{references: references, users: users}
}

// ListStatuses GET /statuses.
func (h *AdminHandler) ListStatuses(c *fiber.Ctx) error {
	statuses, err := h.references.ListStatuses(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.StatusResponse, 0, len(statuses))
	for i := range statuses {
		items = append(items, statusResponse(&statuses[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateStatus POST /admin/statuses.
func (h *AdminHandler) CreateStatus(c *fiber.Ctx) error {
	var req dto.StatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	status, err := h.references.CreateStatus(c.UserContext(), service.StatusInput{
		Name:          req.Name,
		CloseTicket:   req.CloseTicket,
		DefaultStatus: req.DefaultStatus,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": statusResponse(status)})
}

// UpdateStatus PUT /admin/statuses/:id.
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.StatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	status, err := h.references.UpdateStatus(c.UserContext(), id, service.StatusInput{
		Name:          req.Name,
		CloseTicket:   req.CloseTicket,
		DefaultStatus: req.DefaultStatus,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": statusResponse(status)})
}

// DeleteStatus DELETE /admin/statuses/:id.
func (h *AdminHandler) DeleteStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.references.DeleteStatus(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListCategories GET /categories.
func (h *AdminHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.references.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.NamedRef, 0, len(categories))
	for _, category := range categories {
		items = append(items, dto.NamedRef{ID: category.ID, Name: category.Name})
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateCategory POST /admin/categories.
func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.NameRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	category, err := h.references.CreateCategory(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NamedRef{ID: category.ID, Name: category.Name}})
}

// UpdateCategory PUT /admin/categories/:id.
func (h *AdminHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.NameRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	category, err := h.references.UpdateCategory(c.UserContext(), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NamedRef{ID: category.ID, Name: category.Name}})
}

// DeleteCategory DELETE /admin/categories/:id.
func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.references.DeleteCategory(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListPriorities GET /priorities.
func (h *AdminHandler) ListPriorities(c *fiber.Ctx) error {
	priorities, err := h.references.ListPriorities(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.NamedRef, 0, len(priorities))
	for _, priority := range priorities {
		items = append(items, dto.NamedRef{ID: priority.ID, Name: priority.Name})
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreatePriority POST /admin/priorities.
func (h *AdminHandler) CreatePriority(c *fiber.Ctx) error {
	var req dto.NameRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	priority, err := h.references.CreatePriority(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NamedRef{ID: priority.ID, Name: priority.Name}})
}

// UpdatePriority PUT /admin/priorities/:id.
func (h *AdminHandler) UpdatePriority(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.NameRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	priority, err := h.references.UpdatePriority(c.UserContext(), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NamedRef{ID: priority.ID, Name: priority.Name}})
}

// DeletePriority DELETE /admin/priorities/:id.
func (h *AdminHandler) DeletePriority(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.references.DeletePriority(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListSoftware GET /software.
func (h *AdminHandler) ListSoftware(c *fiber.Ctx) error {
	entries, err := h.references.ListSoftware(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(entries))
	for _, entry := range entries {
		items = append(items, fiber.Map{"id": entry.ID, "name": entry.Name, "version": entry.Version})
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateSoftware POST /admin/software.
func (h *AdminHandler) CreateSoftware(c *fiber.Ctx) error {
	var req dto.SoftwareRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.references.CreateSoftware(c.UserContext(), req.Name, req.Version)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"id": entry.ID, "name": entry.Name, "version": entry.Version}})
}

// UpdateSoftware PUT /admin/software/:id.
func (h *AdminHandler) UpdateSoftware(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.SoftwareRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.references.UpdateSoftware(c.UserContext(), id, req.Name, req.Version)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": entry.ID, "name": entry.Name, "version": entry.Version}})
}

// DeleteSoftware DELETE /admin/software/:id.
func (h *AdminHandler) DeleteSoftware(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.references.DeleteSoftware(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext(), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetUser GET /admin/users/:id.
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// SetUserRoles PUT /admin/users/:id/roles.
func (h *AdminHandler) SetUserRoles(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.SetRolesRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	roles := domain.ParseRoles(req.Roles)
	if len(roles) == 0 {
		return util.NewValidationError("at least one valid role required", nil)
	}
	user, err := h.users.SetRoles(c.UserContext(), id, roles)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// SetUserEnabled PUT /admin/users/:id/enabled.
func (h *AdminHandler) SetUserEnabled(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.SetEnabledRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.users.SetEnabled(c.UserContext(), id, *req.Enabled)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// DeleteUser DELETE /admin/users/:id.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
