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

// BookHandler handles book catalog endpoints
type BookHandler struct {
	catalogService *services.CatalogService
}

// NewBookHandler creates a new book handler
func NewBookHandler(catalogService *services.CatalogService) *BookHandler {
	return &BookHandler{
		catalogService: catalogService,
	}
}

// ListBooks handles listing the catalog
// @Summary List all books
// @Description Get a paginated list of the book catalog
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /book [get]
func (h *BookHandler) ListBooks(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.catalogService.List(c.Context(), params.Page, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list books")
	}

	return response.Success(c, result)
}

// GetBook handles getting a book by ID
// @Summary Get book by ID
// @Description Get a specific book by ID
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /book/{id} [get]
func (h *BookHandler) GetBook(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	book, err := h.catalogService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrBookNotFound) {
			return response.NotFound(c, "Book not found")
		}
		return response.InternalServerError(c, "Failed to get book")
	}

	return response.Success(c, fiber.Map{
		"book": book.ToResponse(),
	})
}

// CreateBookRequest represents create book request body
type CreateBookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Category    string `json:"category"`
	ISBN        string `json:"isbn"`
	PublishYear int    `json:"publishYear"`
	TotalCopies int    `json:"totalCopies"`
}

// CreateBook handles adding a book to the catalog (Admin only)
// @Summary Create book
// @Description Add a new book to the catalog (Admin only)
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateBookRequest true "Book data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /book [post]
func (h *BookHandler) CreateBook(c *fiber.Ctx) error {
	var req CreateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Title == "" {
		return response.BadRequest(c, "Title is required")
	}
	if req.Author == "" {
		return response.BadRequest(c, "Author is required")
	}
	if req.ISBN == "" {
		return response.BadRequest(c, "ISBN is required")
	}

	input := &services.CreateBookInput{
		Title:       strings.TrimSpace(req.Title),
		Author:      strings.TrimSpace(req.Author),
		Genre:       strings.TrimSpace(req.Genre),
		Category:    strings.TrimSpace(req.Category),
		ISBN:        strings.TrimSpace(req.ISBN),
		PublishYear: req.PublishYear,
		TotalCopies: req.TotalCopies,
	}

	book, err := h.catalogService.Create(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrISBNAlreadyExists):
			return response.Conflict(c, "A book with this ISBN already exists")
		case errors.Is(err, services.ErrInvalidPublishYear):
			return response.BadRequest(c, "Publication year is invalid")
		case errors.Is(err, services.ErrInvalidCopyCount):
			return response.BadRequest(c, "Total copies must be at least 1")
		default:
			return response.InternalServerError(c, "Failed to create book")
		}
	}

	return response.Created(c, fiber.Map{
		"book": book.ToResponse(),
	})
}

// UpdateBookRequest represents update book request body
type UpdateBookRequest struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Genre       *string `json:"genre"`
	Category    *string `json:"category"`
	PublishYear *int    `json:"publishYear"`
	TotalCopies *int    `json:"totalCopies"`
}

// UpdateBook handles updating a book (Admin only)
// @Summary Update book
// @Description Update a book's information (Admin only)
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param body body UpdateBookRequest true "Update data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /book/{id} [put]
func (h *BookHandler) UpdateBook(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	var req UpdateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdateBookInput{
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Category:    req.Category,
		PublishYear: req.PublishYear,
		TotalCopies: req.TotalCopies,
	}

	book, err := h.catalogService.Update(c.Context(), uint(id), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		case errors.Is(err, services.ErrInvalidPublishYear):
			return response.BadRequest(c, "Publication year is invalid")
		case errors.Is(err, services.ErrInvalidCopyCount):
			return response.BadRequest(c, "Total copies must be at least 1")
		case errors.Is(err, services.ErrCopiesBelowOpenLoans):
			return response.Conflict(c, "Total copies cannot drop below currently borrowed copies")
		default:
			return response.InternalServerError(c, "Failed to update book")
		}
	}

	return response.Success(c, fiber.Map{
		"book": book.ToResponse(),
	})
}
