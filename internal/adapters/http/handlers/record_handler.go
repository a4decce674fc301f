package handlers

import (
	"errors"
	"strconv"
	"time"

	"shelfwise/internal/adapters/http/middleware"
	"shelfwise/internal/core/domain"
	"shelfwise/internal/core/services"
	"shelfwise/internal/pkg/pagination"
	"shelfwise/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RecordHandler handles loan record endpoints
type RecordHandler struct {
	loanService *services.LoanService
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(loanService *services.LoanService) *RecordHandler {
	return &RecordHandler{
		loanService: loanService,
	}
}

// ListRecords handles listing all loan records (Admin only)
// @Summary List all loan records
// @Description Get a paginated list of all loan records (Admin only)
// @Tags Records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /record [get]
func (h *RecordHandler) ListRecords(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.loanService.List(c.Context(), &services.ListInput{
		Page:  params.Page,
		Limit: params.Limit,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to list loan records")
	}

	return response.Success(c, result)
}

// BorrowRequest represents borrow request body. DueDate is optional;
// when omitted the configured default loan period applies.
type BorrowRequest struct {
	UserID  uint   `json:"userId"`
	BookID  uint   `json:"bookId"`
	DueDate string `json:"dueDate"`
}

// Borrow handles opening a new loan record
// @Summary Borrow a book
// @Description Open a new loan record and take one available copy
// @Tags Records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BorrowRequest true "Borrow data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /record [post]
func (h *RecordHandler) Borrow(c *fiber.Ctx) error {
	var req BorrowRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.UserID == 0 {
		return response.BadRequest(c, "User ID is required")
	}
	if req.BookID == 0 {
		return response.BadRequest(c, "Book ID is required")
	}

	// An omitted due date falls back to the configured loan period
	var dueDate time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return response.BadRequest(c, "Due date must be in YYYY-MM-DD format")
		}
		// Loans fall due at the end of the stated day
		dueDate = parsed.Add(24*time.Hour - time.Second)
	}

	// Students may only open loans for themselves
	if !middleware.IsSelfOrAdmin(c, req.UserID) {
		return response.Forbidden(c, "You can only borrow books for yourself")
	}

	record, err := h.loanService.Borrow(c.Context(), &services.BorrowInput{
		MemberID: req.UserID,
		BookID:   req.BookID,
		DueDate:  dueDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBorrowerNotFound):
			return response.NotFound(c, "Borrower not found")
		case errors.Is(err, services.ErrBorrowerDisabled):
			return response.Forbidden(c, "Borrower account is disabled")
		case errors.Is(err, services.ErrBookNotFoundLoan):
			return response.NotFound(c, "Book not found")
		case errors.Is(err, services.ErrNoCopiesAvailable):
			return response.Conflict(c, "No copies of this book are available")
		case errors.Is(err, services.ErrDueDateNotFuture):
			return response.BadRequest(c, "Due date must be in the future")
		default:
			return response.InternalServerError(c, "Failed to borrow book")
		}
	}

	return response.Created(c, fiber.Map{
		"record": record.ToResponse(),
	})
}

// ReturnRequest represents return request body
type ReturnRequest struct {
	RecordID uint `json:"recordId"`
}

// Return handles closing a loan record
// @Summary Return a book
// @Description Close an open loan record and put the copy back
// @Tags Records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ReturnRequest true "Return data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /record/return [post]
func (h *RecordHandler) Return(c *fiber.Ctx) error {
	var req ReturnRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.RecordID == 0 {
		return response.BadRequest(c, "Record ID is required")
	}

	record, err := h.loanService.Return(c.Context(), req.RecordID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLoanNotFound):
			return response.NotFound(c, "Loan record not found")
		case errors.Is(err, services.ErrAlreadyReturned):
			return response.Conflict(c, "Loan record is already returned")
		default:
			return response.InternalServerError(c, "Failed to return book")
		}
	}

	return response.Success(c, fiber.Map{
		"record": record.ToResponse(),
	})
}

// PayFineRequest represents pay fine request body. UserID is optional;
// when present it must match the authenticated member unless an admin is
// paying on the member's behalf.
type PayFineRequest struct {
	RecordID uint `json:"recordId"`
	UserID   uint `json:"userId"`
}

// PayFine handles settling the fine on a loan record
// @Summary Pay a fine
// @Description Settle the outstanding fine on a loan record
// @Tags Records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PayFineRequest true "Payment data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /record/pay-fine [post]
func (h *RecordHandler) PayFine(c *fiber.Ctx) error {
	var req PayFineRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.RecordID == 0 {
		return response.BadRequest(c, "Record ID is required")
	}

	if req.UserID != 0 && !middleware.IsSelfOrAdmin(c, req.UserID) {
		return response.Forbidden(c, "You can only pay your own fines")
	}

	payerID, _ := middleware.CurrentMemberID(c)

	record, err := h.loanService.PayFine(c.Context(), req.RecordID, payerID, middleware.CurrentRole(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLoanNotFound):
			return response.NotFound(c, "Loan record not found")
		case errors.Is(err, services.ErrNoOutstandingFine):
			return response.BadRequest(c, "No outstanding fine on this record")
		case errors.Is(err, services.ErrFineAlreadyPaid):
			return response.Conflict(c, "Fine has already been paid")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You can only pay your own fines")
		default:
			return response.InternalServerError(c, "Failed to pay fine")
		}
	}

	return response.Success(c, fiber.Map{
		"record": record.ToResponse(),
	})
}

// ListMemberRecords handles listing one member's loan records
// @Summary List a member's loan records
// @Description Get all loan records for one member. Students may only view their own.
// @Tags Records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /record/user/{id} [get]
func (h *RecordHandler) ListMemberRecords(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	if !middleware.IsSelfOrAdmin(c, uint(id)) {
		return response.Forbidden(c, "You can only view your own loan records")
	}

	records, err := h.loanService.ListByMember(c.Context(), uint(id))
	if err != nil {
		return response.InternalServerError(c, "Failed to list loan records")
	}

	return response.Success(c, fiber.Map{
		"records": records,
	})
}
