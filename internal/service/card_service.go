package service

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"time"

	"idcard-backend/internal/idcard"
	"idcard-backend/internal/model"
	"idcard-backend/internal/repository"
	"idcard-backend/internal/storage"
	"idcard-backend/internal/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

// GenerateCardRequest is the multipart form of POST /api/id/generate. The
// two attachments (photo, signatorySignature) are bound separately.
type GenerateCardRequest struct {
	FirstName              string `form:"firstName" binding:"required"`
	LastName               string `form:"lastName" binding:"required"`
	IDNumber               string `form:"idNumber" binding:"required"`
	Position               string `form:"position" binding:"required"`
	Category               string `form:"type" binding:"required,oneof=Employee Intern"`
	EmergencyContactName   string `form:"emergencyContactName" binding:"required"`
	EmergencyContactNumber string `form:"emergencyContactNumber" binding:"required"`
	SignatoryName          string `form:"signatoryName" binding:"required"`
	SignatoryPosition      string `form:"signatoryPosition" binding:"required"`
	CompanyAddress         string `form:"companyAddress" binding:"required"`
	BarcodeValue           string `form:"barcodeValue" binding:"required"`
}

// CreateCardRequest is the JSON body of the record-creation endpoint. It
// overlaps the generation form but is a distinct type with its own field
// set (employeeNumber, clauses); mapping to model.Card is explicit.
type CreateCardRequest struct {
	FirstName              string `json:"firstName" binding:"required"`
	LastName               string `json:"lastName" binding:"required"`
	EmployeeNumber         string `json:"employeeNumber" binding:"required"`
	Position               string `json:"position" binding:"required"`
	Category               string `json:"type" binding:"required,oneof=Employee Intern"`
	EmergencyContactName   string `json:"emergencyContactName"`
	EmergencyContactNumber string `json:"emergencyContactNumber"`
	SignatoryName          string `json:"signatoryName"`
	SignatoryPosition      string `json:"signatoryPosition"`
	CompanyAddress         string `json:"companyAddress"`
	BarcodeValue           string `json:"barcodeValue"`
	Clauses                string `json:"clauses"`
	PhotoPath              string `json:"photoPath"`
	SignaturePath          string `json:"signaturePath"`
}

// GenerateCardResult carries the public PDF path back to the caller.
type GenerateCardResult struct {
	File          string `json:"file"`
	CorrelationID string `json:"correlation_id"`
}

type CardResponse struct {
	ID                     string `json:"id"`
	CorrelationID          string `json:"correlation_id"`
	FirstName              string `json:"first_name"`
	LastName               string `json:"last_name"`
	EmployeeNumber         string `json:"employee_number"`
	Position               string `json:"position"`
	Category               string `json:"category"`
	EmergencyContactName   string `json:"emergency_contact_name"`
	EmergencyContactNumber string `json:"emergency_contact_number"`
	SignatoryName          string `json:"signatory_name"`
	SignatoryPosition      string `json:"signatory_position"`
	CompanyAddress         string `json:"company_address"`
	BarcodeValue           string `json:"barcode_value"`
	Clauses                string `json:"clauses"`
	PhotoPath              string `json:"photo_path"`
	SignaturePath          string `json:"signature_path"`
	FilePath               string `json:"file_path"`
	Status                 string `json:"status"`
	ApproverName           string `json:"approver_name,omitempty"`
	ApprovedAt             string `json:"approved_at,omitempty"`
	RejectionReason        string `json:"rejection_reason,omitempty"`
	CreatedAt              string `json:"created_at"`
}

// --- Interface ---

type CardService interface {
	GenerateCard(ctx context.Context, req GenerateCardRequest, photo, signature *multipart.FileHeader, requestedBy *uuid.UUID) (*GenerateCardResult, error)
	CreateCard(ctx context.Context, req CreateCardRequest, requestedBy *uuid.UUID) (*CardResponse, error)
	ListCards(ctx context.Context, filter repository.CardFilter) ([]CardResponse, int64, error)
	GetCard(ctx context.Context, id string) (*CardResponse, error)
	ApproveCard(ctx context.Context, id, userID string) (*CardResponse, error)
	RejectCard(ctx context.Context, id, userID, reason string) (*CardResponse, error)
	DeleteCard(ctx context.Context, id, userID string) error
}

type cardService struct {
	db        *gorm.DB
	repo      repository.CardRepository
	txm       repository.TransactionManager
	generator *idcard.Generator
	cleaner   *storage.Cleaner
	hub       *websocket.Hub
}

func NewCardService(db *gorm.DB, repo repository.CardRepository, txm repository.TransactionManager,
	generator *idcard.Generator, cleaner *storage.Cleaner, hub *websocket.Hub) CardService {
	return &cardService{db: db, repo: repo, txm: txm, generator: generator, cleaner: cleaner, hub: hub}
}

// --- Implementation ---

// GenerateCard runs the pipeline and persists the card record in one
// operation; both share the correlation id assigned at request entry. If the
// record insert fails after a successful render, the generated assets are
// removed so no orphaned artifact survives.
func (s *cardService) GenerateCard(ctx context.Context, req GenerateCardRequest, photo, signature *multipart.FileHeader, requestedBy *uuid.UUID) (*GenerateCardResult, error) {
	sub := idcard.Submission{
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		IDNumber:               req.IDNumber,
		Position:               req.Position,
		Category:               req.Category,
		EmergencyContactName:   req.EmergencyContactName,
		EmergencyContactNumber: req.EmergencyContactNumber,
		SignatoryName:          req.SignatoryName,
		SignatoryPosition:      req.SignatoryPosition,
		CompanyAddress:         req.CompanyAddress,
		BarcodeValue:           req.BarcodeValue,
	}

	res, err := s.generator.Generate(ctx, sub, photo, signature)
	if err != nil {
		return nil, err
	}

	card := &model.Card{
		CorrelationID:          res.CorrelationID,
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		EmployeeNumber:         req.IDNumber,
		Position:               req.Position,
		Category:               req.Category,
		EmergencyContactName:   req.EmergencyContactName,
		EmergencyContactNumber: req.EmergencyContactNumber,
		SignatoryName:          req.SignatoryName,
		SignatoryPosition:      req.SignatoryPosition,
		CompanyAddress:         req.CompanyAddress,
		BarcodeValue:           req.BarcodeValue,
		Clauses:                model.DefaultClauses,
		PhotoPath:              res.PhotoPath,
		SignaturePath:          res.SignaturePath,
		FilePath:               res.FilePath,
		Status:                 model.CardStatusPending,
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.repo.Create(txCtx, card); createErr != nil {
			return fmt.Errorf("failed to create card record: %w", createErr)
		}
		return s.writeAudit(txCtx, requestedBy, model.ActionGenerateCard, card.ID.String(), card.EmployeeNumber, map[string]interface{}{
			"correlation_id": res.CorrelationID.String(),
			"file":           res.FilePath,
		})
	})
	if err != nil {
		s.cleaner.Remove(res.PhotoPath, res.SignaturePath, res.FilePath)
		return nil, err
	}

	s.broadcast("card_created", toCardResponse(card))

	return &GenerateCardResult{File: res.FilePath, CorrelationID: res.CorrelationID.String()}, nil
}

func (s *cardService) CreateCard(ctx context.Context, req CreateCardRequest, requestedBy *uuid.UUID) (*CardResponse, error) {
	clauses := req.Clauses
	if clauses == "" {
		clauses = model.DefaultClauses
	}

	card := &model.Card{
		CorrelationID:          uuid.New(),
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		EmployeeNumber:         req.EmployeeNumber,
		Position:               req.Position,
		Category:               req.Category,
		EmergencyContactName:   req.EmergencyContactName,
		EmergencyContactNumber: req.EmergencyContactNumber,
		SignatoryName:          req.SignatoryName,
		SignatoryPosition:      req.SignatoryPosition,
		CompanyAddress:         req.CompanyAddress,
		BarcodeValue:           req.BarcodeValue,
		Clauses:                clauses,
		PhotoPath:              req.PhotoPath,
		SignaturePath:          req.SignaturePath,
		Status:                 model.CardStatusPending,
	}

	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.repo.Create(txCtx, card); createErr != nil {
			return fmt.Errorf("failed to create card record: %w", createErr)
		}
		return s.writeAudit(txCtx, requestedBy, model.ActionCreateCard, card.ID.String(), card.EmployeeNumber, map[string]interface{}{
			"employee_number": card.EmployeeNumber,
		})
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("card_created", toCardResponse(card))

	resp := toCardResponse(card)
	return &resp, nil
}

func (s *cardService) ListCards(ctx context.Context, filter repository.CardFilter) ([]CardResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	cards, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch card records: %w", err)
	}

	result := make([]CardResponse, 0, len(cards))
	for i := range cards {
		result = append(result, toCardResponse(&cards[i]))
	}
	return result, total, nil
}

func (s *cardService) GetCard(ctx context.Context, id string) (*CardResponse, error) {
	card, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("card record not found: %w", err)
	}
	resp := toCardResponse(card)
	return &resp, nil
}

func (s *cardService) ApproveCard(ctx context.Context, id, userID string) (*CardResponse, error) {
	approverID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	var card *model.Card
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		card, findErr = s.repo.GetByID(txCtx, id)
		if findErr != nil {
			return fmt.Errorf("card record not found: %w", findErr)
		}

		if card.Status != model.CardStatusPending {
			return fmt.Errorf("card record is already %s", card.Status)
		}

		now := time.Now()
		card.Status = model.CardStatusApproved
		card.ApprovedBy = &approverID
		card.ApprovedAt = &now

		if saveErr := s.repo.Update(txCtx, card); saveErr != nil {
			return fmt.Errorf("failed to update card record: %w", saveErr)
		}

		return s.writeAudit(txCtx, &approverID, model.ActionApproveCard, card.ID.String(), card.EmployeeNumber, map[string]interface{}{
			"correlation_id": card.CorrelationID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("card_status", toCardResponse(card))

	resp := toCardResponse(card)
	return &resp, nil
}

func (s *cardService) RejectCard(ctx context.Context, id, userID, reason string) (*CardResponse, error) {
	approverID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	var card *model.Card
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		card, findErr = s.repo.GetByID(txCtx, id)
		if findErr != nil {
			return fmt.Errorf("card record not found: %w", findErr)
		}

		if card.Status != model.CardStatusPending {
			return fmt.Errorf("card record is already %s", card.Status)
		}

		now := time.Now()
		card.Status = model.CardStatusRejected
		card.ApprovedBy = &approverID
		card.ApprovedAt = &now
		card.RejectionReason = reason

		if saveErr := s.repo.Update(txCtx, card); saveErr != nil {
			return fmt.Errorf("failed to update card record: %w", saveErr)
		}

		return s.writeAudit(txCtx, &approverID, model.ActionRejectCard, card.ID.String(), card.EmployeeNumber, map[string]interface{}{
			"correlation_id": card.CorrelationID.String(),
			"reason":         reason,
		})
	})
	if err != nil {
		return nil, err
	}

	// A rejected submission keeps its record but not its rendered artifact.
	s.cleaner.Remove(card.FilePath)
	s.broadcast("card_status", toCardResponse(card))

	resp := toCardResponse(card)
	return &resp, nil
}

func (s *cardService) DeleteCard(ctx context.Context, id, userID string) error {
	adminID, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	var card *model.Card
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		card, findErr = s.repo.GetByID(txCtx, id)
		if findErr != nil {
			return fmt.Errorf("card record not found: %w", findErr)
		}

		if delErr := s.repo.Delete(txCtx, id); delErr != nil {
			return fmt.Errorf("failed to delete card record: %w", delErr)
		}

		return s.writeAudit(txCtx, &adminID, model.ActionDeleteCard, card.ID.String(), card.EmployeeNumber, map[string]interface{}{
			"correlation_id": card.CorrelationID.String(),
		})
	})
	if err != nil {
		return err
	}

	s.cleaner.Remove(card.PhotoPath, card.SignaturePath, card.FilePath)
	s.broadcast("card_deleted", map[string]string{"id": id})

	return nil
}

// --- helpers ---

func (s *cardService) writeAudit(ctx context.Context, userID *uuid.UUID, action, entityID, entityName string, payload map[string]interface{}) error {
	details, _ := json.Marshal(payload)
	audit := model.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(details),
	}
	if err := repository.GetDB(ctx, s.db).Create(&audit).Error; err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (s *cardService) broadcast(event string, data interface{}) {
	if s.hub == nil {
		return
	}
	msg, err := json.Marshal(map[string]interface{}{"event": event, "data": data})
	if err != nil {
		return
	}
	s.hub.Broadcast <- msg
}

func toCardResponse(card *model.Card) CardResponse {
	resp := CardResponse{
		ID:                     card.ID.String(),
		CorrelationID:          card.CorrelationID.String(),
		FirstName:              card.FirstName,
		LastName:               card.LastName,
		EmployeeNumber:         card.EmployeeNumber,
		Position:               card.Position,
		Category:               card.Category,
		EmergencyContactName:   card.EmergencyContactName,
		EmergencyContactNumber: card.EmergencyContactNumber,
		SignatoryName:          card.SignatoryName,
		SignatoryPosition:      card.SignatoryPosition,
		CompanyAddress:         card.CompanyAddress,
		BarcodeValue:           card.BarcodeValue,
		Clauses:                card.Clauses,
		PhotoPath:              card.PhotoPath,
		SignaturePath:          card.SignaturePath,
		FilePath:               card.FilePath,
		Status:                 card.Status,
		RejectionReason:        card.RejectionReason,
		CreatedAt:              card.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if card.Approver != nil {
		resp.ApproverName = card.Approver.Username
	}
	if card.ApprovedAt != nil {
		resp.ApprovedAt = card.ApprovedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}
