package handlers

import (
	"errors"
	"strconv"
	"strings"

	"shelfwise/internal/core/services"
	"shelfwise/internal/pkg/pagination"
	"shelfwise/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles member directory endpoints
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

// ListMembers handles listing all members (Admin only)
// @Summary List all members
// @Description Get a paginated list of all members (Admin only)
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /user [get]
func (h *MemberHandler) ListMembers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.memberService.List(c.Context(), params.Page, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list members")
	}

	return response.Success(c, result)
}

// GetMember handles getting a member by ID (Admin only)
// @Summary Get member by ID
// @Description Get a specific member by ID (Admin only)
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /user/{id} [get]
func (h *MemberHandler) GetMember(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	member, err := h.memberService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to get member")
	}

	return response.Success(c, fiber.Map{
		"user": member.ToResponse(),
	})
}

// RegisterMemberRequest represents member registration request body
type RegisterMemberRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	MemberNo  string `json:"memberNo"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Gender    string `json:"gender"`
}

// RegisterMember handles member registration (Admin only)
// @Summary Register new member
// @Description Register a new library member (Admin only)
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterMemberRequest true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /user [post]
func (h *MemberHandler) RegisterMember(c *fiber.Ctx) error {
	var req RegisterMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.FirstName == "" {
		return response.BadRequest(c, "First name is required")
	}
	if req.LastName == "" {
		return response.BadRequest(c, "Last name is required")
	}
	if req.MemberNo == "" {
		return response.BadRequest(c, "Member number is required")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	input := &services.RegisterMemberInput{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		MemberNo:  strings.TrimSpace(req.MemberNo),
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		Phone:     strings.TrimSpace(req.Phone),
		Role:      req.Role,
		Gender:    req.Gender,
	}

	member, err := h.memberService.Register(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMemberNoTaken):
			return response.Conflict(c, "Member number already registered")
		case errors.Is(err, services.ErrEmailAlreadyExists):
			return response.Conflict(c, "Email already registered")
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Invalid role")
		case errors.Is(err, services.ErrWeakPassword):
			return response.BadRequest(c, "Password must be at least 6 characters")
		default:
			return response.InternalServerError(c, "Failed to register member")
		}
	}

	return response.Created(c, fiber.Map{
		"user": member.ToResponse(),
	})
}

// UpdateMemberRequest represents update member request body
type UpdateMemberRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Role      *string `json:"role"`
	Gender    *string `json:"gender"`
	Status    *string `json:"status"`
}

// UpdateMember handles updating a member (Admin only)
// @Summary Update member
// @Description Update a member's information (Admin only)
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Param body body UpdateMemberRequest true "Update data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /user/{id} [put]
func (h *MemberHandler) UpdateMember(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	var req UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	adminID, _ := c.Locals("memberID").(uint)

	input := &services.UpdateMemberInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
		Gender:    req.Gender,
		Status:    req.Status,
	}

	member, err := h.memberService.Update(c.Context(), uint(id), adminID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, services.ErrEmailAlreadyExists):
			return response.Conflict(c, "Email already registered")
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Invalid role")
		case errors.Is(err, services.ErrCannotChangeOwnRole):
			return response.BadRequest(c, "Cannot change your own role")
		case errors.Is(err, services.ErrCannotDisableSelf):
			return response.BadRequest(c, "Cannot disable your own account")
		default:
			return response.InternalServerError(c, "Failed to update member")
		}
	}

	return response.Success(c, fiber.Map{
		"user": member.ToResponse(),
	})
}

// DisableMember handles disabling a member (Admin only). Members are
// disabled rather than deleted so their loan history stays intact.
// @Summary Disable member
// @Description Disable a member account (Admin only)
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /user/{id} [delete]
func (h *MemberHandler) DisableMember(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	adminID, _ := c.Locals("memberID").(uint)

	if err := h.memberService.Disable(c.Context(), uint(id), adminID); err != nil {
		switch {
		case errors.Is(err, services.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, services.ErrCannotDisableSelf):
			return response.BadRequest(c, "Cannot disable your own account")
		default:
			return response.InternalServerError(c, "Failed to disable member")
		}
	}

	return response.Success(c, fiber.Map{
		"message": "Member disabled successfully",
	})
}
