package api

import (
	"strings"

	tododomain "github.com/abhishek-2k23/Todo-RN/domain/todo"
	"github.com/abhishek-2k23/Todo-RN/modules/activity"
	"github.com/abhishek-2k23/Todo-RN/modules/auth"
	"github.com/abhishek-2k23/Todo-RN/modules/category"
	"github.com/abhishek-2k23/Todo-RN/modules/todo"
	"github.com/gofiber/fiber/v2"
)

// Ports groups the module ports the HTTP layer drives.
type Ports struct {
	Auth       auth.AuthPort
	Todos      todo.TodoPort
	Categories category.CategoryPort
	Activity   activity.ActivityPort
}

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	ports       Ports
	development bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(ports Ports, development bool) *Handlers {
	return &Handlers{
		ports:       ports,
		development: development,
	}
}

func (h *Handlers) fail(c *fiber.Ctx, err error) error {
	return writeError(c, err, h.development)
}

func toAuthResponse(resp *auth.AuthResponse) AuthResponse {
	return AuthResponse{
		Token:        resp.Tokens.AccessToken,
		RefreshToken: resp.Tokens.RefreshToken,
		ExpiresIn:    resp.Tokens.ExpiresIn,
		User:         resp.User,
	}
}

// Register handles user registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}
	if req.Username == "" && req.Name == "" {
		return badRequest(c, "Username is required")
	}

	resp, err := h.ports.Auth.Register(c.UserContext(), auth.RegisterRequest{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toAuthResponse(resp))
}

// Login handles user login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	identifier := strings.TrimSpace(req.identifier())
	if identifier == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	resp, err := h.ports.Auth.Login(c.UserContext(), auth.LoginRequest{
		Identifier: identifier,
		Password:   req.Password,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toAuthResponse(resp))
}

// Refresh handles token refresh.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.RefreshToken == "" {
		return badRequest(c, "Refresh token is required")
	}

	resp, err := h.ports.Auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return unauthorized(c, "Invalid or expired refresh token")
	}

	return c.Status(fiber.StatusOK).JSON(toAuthResponse(resp))
}

// Me returns the current user's profile.
func (h *Handlers) Me(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	profile, err := h.ports.Auth.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(profile)
}

// UpdateMe changes the supplied profile fields.
func (h *Handlers) UpdateMe(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	var req UpdateMeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	profile, err := h.ports.Auth.UpdateProfile(c.UserContext(), auth.UpdateProfileRequest{
		UserID:   claims.UserID,
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(profile)
}

// ListTodos returns the caller's todos, newest first.
func (h *Handlers) ListTodos(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	resp, err := h.ports.Todos.List(c.UserContext(), todo.ListTodosRequest{UserID: claims.UserID})
	if err != nil {
		return h.fail(c, err)
	}
	if resp.Todos == nil {
		resp.Todos = []todo.TodoResponse{}
	}
	return c.JSON(resp.Todos)
}

// CreateTodo creates a todo for the caller.
func (h *Handlers) CreateTodo(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	var req CreateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.ports.Todos.Create(c.UserContext(), todo.CreateTodoRequest{
		UserID:      claims.UserID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate.Value,
		Priority:    tododomain.Priority(req.Priority),
		Category:    req.Category,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateTodo merges the supplied fields into one of the caller's todos.
func (h *Handlers) UpdateTodo(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	var req UpdateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	update := todo.UpdateTodoRequest{
		UserID:      claims.UserID,
		TodoID:      c.Params("id"),
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Category:    req.Category,
	}
	if req.Priority != nil {
		p := tododomain.Priority(*req.Priority)
		update.Priority = &p
	}
	if req.DueDate.Set {
		update.DueDate = req.DueDate.Value
		update.ClearDue = req.DueDate.Value == nil
	}

	resp, err := h.ports.Todos.Update(c.UserContext(), update)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// DeleteTodo deletes one of the caller's todos.
func (h *Handlers) DeleteTodo(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	resp, err := h.ports.Todos.Delete(c.UserContext(), todo.DeleteTodoRequest{
		UserID: claims.UserID,
		TodoID: c.Params("id"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(MessageResponse{Message: resp.Message})
}

// ListCategories returns the caller's categories sorted by name.
func (h *Handlers) ListCategories(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	resp, err := h.ports.Categories.List(c.UserContext(), category.ListCategoriesRequest{UserID: claims.UserID})
	if err != nil {
		return h.fail(c, err)
	}
	if resp.Categories == nil {
		resp.Categories = []category.CategoryResponse{}
	}
	return c.JSON(resp.Categories)
}

// GetCategory returns one of the caller's categories.
func (h *Handlers) GetCategory(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	resp, err := h.ports.Categories.Get(c.UserContext(), category.GetCategoryRequest{
		UserID:     claims.UserID,
		CategoryID: c.Params("id"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// CreateCategory adds a category for the caller.
func (h *Handlers) CreateCategory(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.ports.Categories.Create(c.UserContext(), category.CreateCategoryRequest{
		UserID: claims.UserID,
		Name:   req.Name,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateCategory renames one of the caller's categories.
func (h *Handlers) UpdateCategory(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.ports.Categories.Update(c.UserContext(), category.UpdateCategoryRequest{
		UserID:     claims.UserID,
		CategoryID: c.Params("id"),
		Name:       req.Name,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// DeleteCategory removes one of the caller's categories.
func (h *Handlers) DeleteCategory(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	resp, err := h.ports.Categories.Delete(c.UserContext(), category.DeleteCategoryRequest{
		UserID:     claims.UserID,
		CategoryID: c.Params("id"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(MessageResponse{Message: resp.Message})
}

// Activity returns the caller's recent activity. ?limit= bounds the result.
func (h *Handlers) Activity(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	resp, err := h.ports.Activity.Recent(c.UserContext(), activity.RecentRequest{
		UserID: claims.UserID,
		Limit:  c.QueryInt("limit", 20),
	})
	if err != nil {
		return h.fail(c, err)
	}
	if resp.Entries == nil {
		resp.Entries = []activity.Entry{}
	}
	return c.JSON(resp.Entries)
}
