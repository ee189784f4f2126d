package httpHandler

import (
	"strconv"

	customerrors "hotel-server/customErrors"
	"hotel-server/handlers/response"
	"hotel-server/usecases"

	"github.com/gin-gonic/gin"
)

type HotelHandler struct {
	useCase *usecases.HotelUseCase
}

func NewHotelHandler(useCase *usecases.HotelUseCase) *HotelHandler {
	return &HotelHandler{
		useCase: useCase,
	}
}

// CreateHotel handles POST /api/hotel/create
func (h *HotelHandler) CreateHotel(c *gin.Context) {
	in, files, err := decodeHotelRequest(c)
	if err != nil {
		response.Fail(c, err, "failed to create hotel")
		return
	}

	hotel, err := h.useCase.CreateHotel(c.Request.Context(), in, files)
	if err != nil {
		response.Fail(c, err, "failed to create hotel")
		return
	}

	response.OK(c, "hotel created successfully", hotel)
}

// ListHotels handles GET /api/hotel/list
func (h *HotelHandler) ListHotels(c *gin.Context) {
	page, err := queryInt(c, "page")
	if err != nil {
		response.Fail(c, err, "failed to list hotels")
		return
	}
	pageSize, err := queryInt(c, "pageSize")
	if err != nil {
		response.Fail(c, err, "failed to list hotels")
		return
	}

	result, err := h.useCase.ListHotels(c.Request.Context(), usecases.ListQuery{
		Page:     page,
		PageSize: pageSize,
		City:     c.Query("city"),
		Status:   c.Query("status"),
		OwnerID:  c.Query("ownerId"),
	})
	if err != nil {
		response.Fail(c, err, "failed to list hotels")
		return
	}

	response.OK(c, "", result)
}

// GetHotel handles GET /api/hotel/:id
func (h *HotelHandler) GetHotel(c *gin.Context) {
	hotel, err := h.useCase.GetHotel(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err, "failed to get hotel")
		return
	}

	response.OK(c, "", hotel)
}

// UpdateHotel handles PUT /api/hotel/:id
func (h *HotelHandler) UpdateHotel(c *gin.Context) {
	in, files, err := decodeHotelRequest(c)
	if err != nil {
		response.Fail(c, err, "failed to update hotel")
		return
	}

	hotel, err := h.useCase.UpdateHotel(c.Request.Context(), c.Param("id"), in, files)
	if err != nil {
		response.Fail(c, err, "failed to update hotel")
		return
	}

	response.OK(c, "hotel updated successfully", hotel)
}

// DeleteHotel handles DELETE /api/hotel/:id
func (h *HotelHandler) DeleteHotel(c *gin.Context) {
	if err := h.useCase.DeleteHotel(c.Request.Context(), c.Param("id")); err != nil {
		response.Fail(c, err, "failed to delete hotel")
		return
	}

	response.OK(c, "hotel deleted successfully", nil)
}

// queryInt returns 0 for an absent parameter so the use case applies its
// default.
func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, customerrors.Validation(key + " must be an integer")
	}
	return n, nil
}
