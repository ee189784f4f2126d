package httpHandler

import (
	"errors"
	"io"

	customerrors "hotel-server/customErrors"
	"hotel-server/handlers/response"
	"hotel-server/usecases"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	useCase *usecases.AuthUseCase
}

func NewAuthHandler(useCase *usecases.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		useCase: useCase,
	}
}

type SendCodeRequest struct {
	Email string `json:"email" form:"email"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// bind decodes JSON or form bodies. An empty body leaves req zeroed so the
// use case reports which fields are missing.
func bind(c *gin.Context, req interface{}) error {
	if err := c.ShouldBind(req); err != nil && !errors.Is(err, io.EOF) {
		return customerrors.ErrBadRequest
	}
	return nil
}

// SendCode handles POST /api/auth/sendCode
func (h *AuthHandler) SendCode(c *gin.Context) {
	var req SendCodeRequest
	if err := bind(c, &req); err != nil {
		response.Fail(c, err, "failed to send verification code")
		return
	}

	if err := h.useCase.SendCode(c.Request.Context(), req.Email); err != nil {
		response.Fail(c, err, "failed to send verification code")
		return
	}

	response.OK(c, "verification code sent", nil)
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req usecases.RegisterInput
	if err := bind(c, &req); err != nil {
		response.Fail(c, err, "registration failed")
		return
	}

	user, err := h.useCase.Register(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err, "registration failed")
		return
	}

	response.OK(c, "registered successfully", user)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		response.Fail(c, err, "login failed")
		return
	}

	result, err := h.useCase.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Fail(c, err, "login failed")
		return
	}

	response.OK(c, "logged in successfully", result)
}
