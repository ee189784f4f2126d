package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"strings"
	"time"
	"unicode/utf8"

	customerrors "hotel-server/customErrors"
	"hotel-server/entities"
	"hotel-server/events"
	"hotel-server/logger"
	"hotel-server/repositories"
	"hotel-server/storage"
)

const (
	DefaultPage        = 1
	DefaultPageSize    = 10
	DefaultMaxPageSize = 100

	minHotelNameLen = 2
	maxHotelNameLen = 50
	maxRating       = 5
)

// HotelInput carries the fields a caller supplied. A nil pointer means the
// field was absent, which matters for partial updates.
type HotelInput struct {
	Name          *string
	Description   *string
	Address       *string
	City          *string
	Price         *float64
	Rating        *float64
	ContactPhone  *string
	CheckInTime   *string
	CheckOutTime  *string
	OwnerID       *string
	OwnerName     *string
	Status        *string
	PublishStatus *string
	RejectReason  *string

	Amenities *[]string
	RoomTypes *[]entities.RoomType

	// Images is an explicit list. ImagesRaw is a JSON-encoded list that is
	// decoded late; a value that does not decode is ignored.
	Images    *[]string
	ImagesRaw *string
}

type ListQuery struct {
	Page     int
	PageSize int
	City     string
	Status   string
	OwnerID  string
}

type HotelPage struct {
	Items      []entities.Hotel `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

type HotelUseCase struct {
	hotels      repositories.HotelRepository
	images      storage.ImageStore
	publisher   events.Publisher
	maxPageSize int
	now         func() time.Time
}

func NewHotelUseCase(hotels repositories.HotelRepository, images storage.ImageStore, publisher events.Publisher, maxPageSize int) *HotelUseCase {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if maxPageSize <= 0 {
		maxPageSize = DefaultMaxPageSize
	}
	return &HotelUseCase{
		hotels:      hotels,
		images:      images,
		publisher:   publisher,
		maxPageSize: maxPageSize,
		now:         time.Now,
	}
}

// CreateHotel validates and stores a new listing. Uploaded files take
// precedence over any images in the input.
func (uc *HotelUseCase) CreateHotel(ctx context.Context, in HotelInput, files []*multipart.FileHeader) (*entities.Hotel, error) {
	if blank(in.Name) || blank(in.City) || in.Price == nil || blank(in.OwnerID) {
		return nil, customerrors.ErrMissingHotelField
	}

	hotel := &entities.Hotel{}
	applyListing(hotel, in)
	if err := validateHotel(hotel); err != nil {
		return nil, err
	}

	uploaded, err := uc.saveUploads(ctx, files)
	if err != nil {
		return nil, err
	}
	if images := resolveImages(ctx, in, uploaded); images != nil {
		hotel.Images = images
	}

	if err := uc.hotels.Create(ctx, hotel); err != nil {
		uc.discardUploads(ctx, uploaded)
		return nil, err
	}

	logger.InfoContext(ctx, "hotel created", "hotel_id", hotel.ID, "owner_id", hotel.OwnerID)
	uc.publish(ctx, events.SubjectHotelCreated, hotel)
	return hotel, nil
}

// ListHotels returns one page of hotels, newest first.
func (uc *HotelUseCase) ListHotels(ctx context.Context, q ListQuery) (*HotelPage, error) {
	page, size := q.Page, q.PageSize
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > uc.maxPageSize {
		size = uc.maxPageSize
	}

	filter := repositories.HotelFilter{
		City:    strings.TrimSpace(q.City),
		Status:  strings.TrimSpace(q.Status),
		OwnerID: strings.TrimSpace(q.OwnerID),
	}
	var (
		items []entities.Hotel
		total int64
		err   error
	)
	if page-1 > math.MaxInt/size {
		// the offset would overflow; nothing can live that far out
		total, err = uc.hotels.Count(ctx, filter)
	} else {
		items, total, err = uc.hotels.List(ctx, filter, (page-1)*size, size)
	}
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []entities.Hotel{}
	}

	return &HotelPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: int((total + int64(size) - 1) / int64(size)),
	}, nil
}

// GetHotel retrieves a hotel by ID
func (uc *HotelUseCase) GetHotel(ctx context.Context, id string) (*entities.Hotel, error) {
	hotel, err := uc.hotels.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, customerrors.ErrHotelNotFound
	}
	return hotel, err
}

// UpdateHotel merges the supplied fields into the stored hotel. Absent
// fields keep their values.
func (uc *HotelUseCase) UpdateHotel(ctx context.Context, id string, in HotelInput, files []*multipart.FileHeader) (*entities.Hotel, error) {
	existing, err := uc.GetHotel(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validateModeration(in); err != nil {
		return nil, err
	}

	applyListing(existing, in)
	setString(&existing.Status, in.Status)
	setString(&existing.PublishStatus, in.PublishStatus)
	setString(&existing.RejectReason, in.RejectReason)
	if err := validateHotel(existing); err != nil {
		return nil, err
	}

	uploaded, err := uc.saveUploads(ctx, files)
	if err != nil {
		return nil, err
	}
	if images := resolveImages(ctx, in, uploaded); images != nil {
		existing.Images = images
	}
	existing.UpdatedAt = uc.now()

	if err := uc.hotels.Update(ctx, existing); err != nil {
		uc.discardUploads(ctx, uploaded)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, customerrors.ErrHotelNotFound
		}
		return nil, err
	}

	logger.InfoContext(ctx, "hotel updated", "hotel_id", existing.ID)
	uc.publish(ctx, events.SubjectHotelUpdated, existing)
	return existing, nil
}

// DeleteHotel deletes a hotel
func (uc *HotelUseCase) DeleteHotel(ctx context.Context, id string) error {
	if err := uc.hotels.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return customerrors.ErrHotelNotFound
		}
		return err
	}

	logger.InfoContext(ctx, "hotel deleted", "hotel_id", id)
	uc.publish(ctx, events.SubjectHotelDeleted, map[string]string{"id": id})
	return nil
}

// saveUploads stores every file or none of them.
func (uc *HotelUseCase) saveUploads(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		p, err := uc.images.Save(ctx, f)
		if err != nil {
			uc.discardUploads(ctx, paths)
			return nil, fmt.Errorf("save image: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// discardUploads removes files saved for a request that did not persist.
func (uc *HotelUseCase) discardUploads(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := uc.images.Remove(ctx, p); err != nil {
			logger.WarnContext(ctx, "failed to remove orphaned upload", "path", p, "error", err)
		}
	}
}

// resolveImages returns the image list to store, or nil to leave the
// current one. Precedence: uploads, then a JSON list, then an explicit list.
func resolveImages(ctx context.Context, in HotelInput, uploaded []string) []string {
	if len(uploaded) > 0 {
		return uploaded
	}

	if in.ImagesRaw != nil {
		var list []string
		if err := json.Unmarshal([]byte(*in.ImagesRaw), &list); err != nil {
			logger.WarnContext(ctx, "ignoring malformed images value", "error", err)
			return nil
		}
		if list == nil {
			list = []string{}
		}
		return list
	}

	if in.Images != nil {
		return *in.Images
	}
	return nil
}

func (uc *HotelUseCase) publish(ctx context.Context, subject string, data interface{}) {
	if err := uc.publisher.Publish(ctx, subject, data); err != nil {
		logger.WarnContext(ctx, "failed to publish hotel event", "subject", subject, "error", err)
	}
}

// applyListing copies the owner-editable fields. Moderation fields are
// handled by the caller.
func applyListing(h *entities.Hotel, in HotelInput) {
	setString(&h.Name, in.Name)
	setString(&h.Description, in.Description)
	setString(&h.Address, in.Address)
	setString(&h.City, in.City)
	setString(&h.ContactPhone, in.ContactPhone)
	setString(&h.CheckInTime, in.CheckInTime)
	setString(&h.CheckOutTime, in.CheckOutTime)
	setString(&h.OwnerID, in.OwnerID)
	setString(&h.OwnerName, in.OwnerName)

	if in.Price != nil {
		h.Price = *in.Price
	}
	if in.Rating != nil {
		h.Rating = *in.Rating
	}
	if in.Amenities != nil {
		h.Amenities = *in.Amenities
	}
	if in.RoomTypes != nil {
		h.RoomTypes = *in.RoomTypes
	}
}

func validateHotel(h *entities.Hotel) error {
	if n := utf8.RuneCountInString(h.Name); n < minHotelNameLen || n > maxHotelNameLen {
		return customerrors.Validation(fmt.Sprintf("name must be %d-%d characters", minHotelNameLen, maxHotelNameLen))
	}
	if strings.TrimSpace(h.City) == "" {
		return customerrors.Validation("city must not be empty")
	}
	if h.Price < 0 {
		return customerrors.Validation("price must not be negative")
	}
	if h.Rating < 0 || h.Rating > maxRating {
		return customerrors.Validation("rating must be between 0 and 5")
	}
	for i, rt := range h.RoomTypes {
		switch {
		case strings.TrimSpace(rt.Name) == "":
			return customerrors.Validation(fmt.Sprintf("roomTypes[%d].name is required", i))
		case rt.Price < 0:
			return customerrors.Validation(fmt.Sprintf("roomTypes[%d].price must not be negative", i))
		case rt.Capacity < 1:
			return customerrors.Validation(fmt.Sprintf("roomTypes[%d].capacity must be at least 1", i))
		case rt.Count < 0:
			return customerrors.Validation(fmt.Sprintf("roomTypes[%d].count must not be negative", i))
		}
	}
	// blank before BeforeCreate fills the defaults
	if h.Status != "" && !entities.ValidHotelStatus(h.Status) {
		return errInvalidStatus
	}
	if h.PublishStatus != "" && !entities.ValidPublishStatus(h.PublishStatus) {
		return errInvalidPublishStatus
	}
	return nil
}

var (
	errInvalidStatus        = customerrors.Validation("status must be one of pending, approved, rejected")
	errInvalidPublishStatus = customerrors.Validation("publishStatus must be published or unpublished")
)

// validateModeration checks moderation fields that were supplied, blank
// included.
func validateModeration(in HotelInput) error {
	if in.Status != nil && !entities.ValidHotelStatus(strings.TrimSpace(*in.Status)) {
		return errInvalidStatus
	}
	if in.PublishStatus != nil && !entities.ValidPublishStatus(strings.TrimSpace(*in.PublishStatus)) {
		return errInvalidPublishStatus
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
