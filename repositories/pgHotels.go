package repositories

import (
	"context"
	"fmt"
	"time"

	"hotel-server/db"
	"hotel-server/entities"

	"gorm.io/gorm"
)

type hotelPgRepository struct {
	db db.Database
}

func NewHotelPgRepository(database db.Database) HotelRepository {
	return &hotelPgRepository{db: database}
}

func (r *hotelPgRepository) Create(ctx context.Context, hotel *entities.Hotel) error {
	if err := r.db.GetDB().WithContext(ctx).Create(hotel).Error; err != nil {
		return fmt.Errorf("create hotel: %w", err)
	}
	return nil
}

func (r *hotelPgRepository) GetByID(ctx context.Context, id string) (*entities.Hotel, error) {
	var hotel entities.Hotel
	err := r.db.GetDB().WithContext(ctx).Where("id = ?", id).First(&hotel).Error
	if err != nil {
		return nil, wrapLookup("get hotel", err)
	}
	return &hotel, nil
}

func (r *hotelPgRepository) filtered(ctx context.Context, filter HotelFilter) *gorm.DB {
	q := r.db.GetDB().WithContext(ctx).Model(&entities.Hotel{})
	if filter.City != "" {
		q = q.Where("city = ?", filter.City)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.OwnerID != "" {
		q = q.Where("owner_id = ?", filter.OwnerID)
	}
	return q
}

func (r *hotelPgRepository) Count(ctx context.Context, filter HotelFilter) (int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count hotels: %w", err)
	}
	return total, nil
}

func (r *hotelPgRepository) List(ctx context.Context, filter HotelFilter, offset, limit int) ([]entities.Hotel, int64, error) {
	total, err := r.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	hotels := make([]entities.Hotel, 0, limit)
	err = r.filtered(ctx, filter).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&hotels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list hotels: %w", err)
	}
	return hotels, total, nil
}

func (r *hotelPgRepository) Update(ctx context.Context, hotel *entities.Hotel) error {
	if hotel.UpdatedAt.IsZero() {
		hotel.UpdatedAt = time.Now()
	}
	res := r.db.GetDB().WithContext(ctx).Model(hotel).Select("*").Omit("created_at").Updates(hotel)
	if res.Error != nil {
		return fmt.Errorf("update hotel: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *hotelPgRepository) Delete(ctx context.Context, id string) error {
	res := r.db.GetDB().WithContext(ctx).Where("id = ?", id).Delete(&entities.Hotel{})
	if res.Error != nil {
		return fmt.Errorf("delete hotel: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
