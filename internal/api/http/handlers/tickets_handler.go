package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/service"
)

// TicketsHandler manages the ticket lifecycle endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
	replies *service.ReplyService
	metrics *observability.Metrics
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, replies *service.ReplyService, metrics *observability.Metrics) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, replies: replies, metrics: metrics}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	input := service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Version:     req.Version,
		CategoryID:  req.CategoryID,
		PriorityID:  req.PriorityID,
		SoftwareID:  req.SoftwareID,
		StatusID:    req.StatusID,
	}
	for _, file := range req.Images {
		input.Images = append(input.Images, service.ImageInput{
			FileName: file.FileName,
			Content:  file.Data,
		})
	}
	ticket, err := h.tickets.Create(c.UserContext(), input, principal)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.List(c.UserContext(), parseTicketQuery(c), principal)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.tickets.GetByID(c.UserContext(), id, principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(detail)})
}

// UpdateTicket PUT /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.tickets.Update(c.UserContext(), id, service.TicketUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Version:     req.Version,
		CategoryID:  req.CategoryID,
		PriorityID:  req.PriorityID,
		SoftwareID:  req.SoftwareID,
	}, principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// DeleteTicket DELETE /tickets/:id removes the ticket with its replies
// and images.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.tickets.Delete(c.UserContext(), id, principal); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ChangeStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ChangeStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.tickets.ChangeStatus(c.UserContext(), id, req.StatusID, principal)
	if ticket == nil {
		return err
	}
	return respondMutation(c, fiber.StatusOK, ticketSummary(ticket), err, h.metrics)
}

// AddReply POST /tickets/:id/replies.
func (h *TicketsHandler) AddReply(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CreateReplyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	reply, err := h.replies.AddReply(c.UserContext(), id, req.Content, principal)
	if reply == nil {
		return err
	}
	return respondMutation(c, fiber.StatusCreated, dto.ReplyResponse{
		ID:        reply.ID,
		UserID:    reply.UserID,
		Content:   reply.Content,
		CreatedAt: reply.CreatedAt,
	}, err, h.metrics)
}

// DeleteReply DELETE /tickets/replies/:replyId.
func (h *TicketsHandler) DeleteReply(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "replyId")
	if err != nil {
		return err
	}
	if err := h.replies.DeleteReply(c.UserContext(), id, principal); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddImages POST /tickets/:id/images.
func (h *TicketsHandler) AddImages(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Images []dto.ImagePayload `json:"images" validate:"required,min=1,dive"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}
	files := make([]service.ImageInput, 0, len(req.Images))
	for _, file := range req.Images {
		files = append(files, service.ImageInput{FileName: file.FileName, Content: file.Data})
	}
	stored, err := h.tickets.AddImage(c.UserContext(), id, files, principal)
	if err != nil {
		return err
	}
	items := make([]dto.ImageResponse, 0, len(stored))
	for _, image := range stored {
		items = append(items, dto.ImageResponse{ID: image.ID, FileName: image.FileName})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": items})
}

// GetImage GET /tickets/images/:imageId streams the stored file.
func (h *TicketsHandler) GetImage(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "imageId")
	if err != nil {
		return err
	}
	image, err := h.tickets.GetImage(c.UserContext(), id, principal)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+image.FileName+`"`)
	return c.Send(image.Content)
}

// DeleteImage DELETE /tickets/images/:imageId.
func (h *TicketsHandler) DeleteImage(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "imageId")
	if err != nil {
		return err
	}
	if err := h.tickets.DeleteImage(c.UserContext(), id, principal); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseTicketQuery(c *fiber.Ctx) service.TicketFilter {
	filter := service.TicketFilter{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		filter.SearchTerm = &q
	}
	if v, err := strconv.ParseInt(c.Query("category_id"), 10, 64); err == nil && v > 0 {
		filter.CategoryID = &v
	}
	if v, err := strconv.ParseInt(c.Query("status_id"), 10, 64); err == nil && v > 0 {
		filter.StatusID = &v
	}
	if v, err := strconv.ParseInt(c.Query("user_id"), 10, 64); err == nil && v > 0 {
		filter.UserID = &v
	}
	return filter
}

func ticketDetail(detail *service.TicketDetail) dto.TicketDetailResponse {
	resp := dto.TicketDetailResponse{
		ID:          detail.Ticket.ID,
		Title:       detail.Ticket.Title,
		Description: detail.Ticket.Description,
		Version:     detail.Ticket.Version,
		Category:    dto.NamedRef{ID: detail.Category.ID, Name: detail.Category.Name},
		Priority:    dto.NamedRef{ID: detail.Priority.ID, Name: detail.Priority.Name},
		Status:      statusResponse(detail.Status),
		Software:    dto.NamedRef{ID: detail.Software.ID, Name: detail.Software.Name},
		Author: dto.AuthorResponse{
			ID:       detail.Author.ID,
			Username: detail.Author.Username,
			Name:     detail.Author.Name,
			Surname:  detail.Author.Surname,
			Email:    detail.Author.Email,
		},
		CreatedAt: detail.Ticket.CreatedAt,
		UpdatedAt: detail.Ticket.UpdatedAt,
	}
	resp.Replies = make([]dto.ReplyResponse, 0, len(detail.Replies))
	for _, reply := range detail.Replies {
		resp.Replies = append(resp.Replies, dto.ReplyResponse{
			ID:        reply.ID,
			UserID:    reply.UserID,
			Content:   reply.Content,
			CreatedAt: reply.CreatedAt,
		})
	}
	resp.Images = make([]dto.ImageResponse, 0, len(detail.Images))
	for _, image := range detail.Images {
		resp.Images = append(resp.Images, dto.ImageResponse{ID: image.ID, FileName: image.FileName})
	}
	return resp
}
