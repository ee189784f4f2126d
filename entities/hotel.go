package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	HotelStatusPending  = "pending"
	HotelStatusApproved = "approved"
	HotelStatusRejected = "rejected"

	PublishStatusPublished   = "published"
	PublishStatusUnpublished = "unpublished"

	DefaultCheckInTime  = "14:00"
	DefaultCheckOutTime = "12:00"
)

// RoomType is embedded in its hotel and has no identity of its own.
type RoomType struct {
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Capacity  int      `json:"capacity"`
	Count     int      `json:"count"`
	Amenities []string `json:"amenities"`
}

type Hotel struct {
	ID            string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name          string     `gorm:"type:varchar(50);not null" json:"name"`
	Description   string     `gorm:"type:text" json:"description"`
	Address       string     `json:"address"`
	City          string     `gorm:"index;not null" json:"city"`
	Price         float64    `gorm:"not null" json:"price"`
	Rating        float64    `json:"rating"`
	Images        []string   `gorm:"type:text;serializer:json" json:"images"`
	Amenities     []string   `gorm:"type:text;serializer:json" json:"amenities"`
	RoomTypes     []RoomType `gorm:"type:text;serializer:json" json:"roomTypes"`
	ContactPhone  string     `json:"contactPhone"`
	CheckInTime   string     `gorm:"type:varchar(8)" json:"checkInTime"`
	CheckOutTime  string     `gorm:"type:varchar(8)" json:"checkOutTime"`
	OwnerID       string     `gorm:"index;type:varchar(36)" json:"ownerId"`
	OwnerName     string     `json:"ownerName"`
	Status        string     `gorm:"index;type:varchar(16)" json:"status"`
	PublishStatus string     `gorm:"type:varchar(16)" json:"publishStatus"`
	RejectReason  string     `json:"rejectReason"`
	CreatedAt     time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (h *Hotel) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	if h.Status == "" {
		h.Status = HotelStatusPending
	}
	if h.PublishStatus == "" {
		h.PublishStatus = PublishStatusUnpublished
	}
	if h.CheckInTime == "" {
		h.CheckInTime = DefaultCheckInTime
	}
	if h.CheckOutTime == "" {
		h.CheckOutTime = DefaultCheckOutTime
	}
	h.normalizeLists()
	return nil
}

// normalizeLists keeps list fields serialized as [] rather than null.
func (h *Hotel) normalizeLists() {
	if h.Images == nil {
		h.Images = []string{}
	}
	if h.Amenities == nil {
		h.Amenities = []string{}
	}
	if h.RoomTypes == nil {
		h.RoomTypes = []RoomType{}
	}
	for i := range h.RoomTypes {
		if h.RoomTypes[i].Amenities == nil {
			h.RoomTypes[i].Amenities = []string{}
		}
	}
}

func (h *Hotel) AfterFind(tx *gorm.DB) (err error) {
	h.normalizeLists()
	return nil
}

func ValidHotelStatus(s string) bool {
	switch s {
	case HotelStatusPending, HotelStatusApproved, HotelStatusRejected:
		return true
	}
	return false
}

func ValidPublishStatus(s string) bool {
	return s == PublishStatusPublished || s == PublishStatusUnpublished
}
