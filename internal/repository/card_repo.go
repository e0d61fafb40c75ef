package repository

import (
	"context"

	"idcard-backend/internal/model"

	"gorm.io/gorm"
)

// CardFilter narrows card listings by review status.
type CardFilter struct {
	Status string // PENDING, APPROVED, REJECTED or empty for all
	Page   int
	Limit  int
}

// CardRepository defines the interface for data access of Card records.
// Write methods resolve the transaction handle from the context so they can
// run inside TransactionManager.RunInTx.
type CardRepository interface {
	Create(ctx context.Context, card *model.Card) error
	GetByID(ctx context.Context, id string) (*model.Card, error)
	List(ctx context.Context, filter CardFilter) ([]model.Card, int64, error)
	Update(ctx context.Context, card *model.Card) error
	Delete(ctx context.Context, id string) error
}

type cardRepository struct {
	db *gorm.DB
}

// NewCardRepository returns a new instance of CardRepository
func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(ctx context.Context, card *model.Card) error {
	return GetDB(ctx, r.db).Create(card).Error
}

func (r *cardRepository) GetByID(ctx context.Context, id string) (*model.Card, error) {
	var card model.Card
	if err := GetDB(ctx, r.db).Preload("Approver").First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) List(ctx context.Context, filter CardFilter) ([]model.Card, int64, error) {
	var total int64
	query := GetDB(ctx, r.db).Model(&model.Card{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	fetch := GetDB(ctx, r.db).Preload("Approver")
	if filter.Status != "" {
		fetch = fetch.Where("status = ?", filter.Status)
	}

	var cards []model.Card
	if err := fetch.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&cards).Error; err != nil {
		return nil, 0, err
	}

	return cards, total, nil
}

func (r *cardRepository) Update(ctx context.Context, card *model.Card) error {
	return GetDB(ctx, r.db).Save(card).Error
}

func (r *cardRepository) Delete(ctx context.Context, id string) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Card{}).Error
}
