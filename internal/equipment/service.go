package equipment

import (
	"log/slog"
	"time"

	"github.com/upenergia/asset-management/internal"
	"github.com/upenergia/asset-management/internal/plant"
)

type RepositoryAPI interface {
	Create(e *Equipment) error
	GetByID(id int64) (*Equipment, error)
	List(plantID *int64, limit, offset int) ([]*Equipment, int64, error)
	Update(e *Equipment) error
	Deactivate(id int64, deletedAt time.Time) error
}

// PlantGetter resolves the owning plant.
type PlantGetter interface {
	GetByID(id int64) (*plant.Plant, error)
}

type Service struct {
	repo   RepositoryAPI
	plants PlantGetter
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, plants PlantGetter, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		plants: plants,
		logger: logger,
	}
}

func (s *Service) CreateEquipment(dto CreateEquipmentDTO) (*Equipment, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if _, err := s.plants.GetByID(dto.PlantID); err != nil {
		return nil, internal.NewNotFoundError("plant not found", internal.ErrCodePlantNotFound)
	}

	e := &Equipment{
		PlantID:      dto.PlantID,
		Name:         dto.Name,
		Category:     dto.Category,
		SerialNumber: dto.SerialNumber,
		Manufacturer: dto.Manufacturer,
		InstalledAt:  dto.InstalledAt,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.repo.Create(e); err != nil {
		s.logger.Error("failed to create equipment", "error", err, "plant_id", dto.PlantID)
		return nil, err
	}

	s.logger.Info("equipment created", "equipment_id", e.ID, "plant_id", e.PlantID, "name", e.Name)
	return e, nil
}

func (s *Service) GetEquipment(id int64) (*Equipment, error) {
	e, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("equipment not found", internal.ErrCodeEquipmentNotFound)
	}
	return e, nil
}

func (s *Service) ListEquipment(plantID *int64, limit, offset int) ([]*Equipment, int64, error) {
	return s.repo.List(plantID, limit, offset)
}

func (s *Service) UpdateEquipment(id int64, dto UpdateEquipmentDTO) (*Equipment, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	e, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("equipment not found", internal.ErrCodeEquipmentNotFound)
	}

	if dto.Name != nil {
		e.Name = *dto.Name
	}
	if dto.Category != nil {
		e.Category = *dto.Category
	}
	if dto.SerialNumber != nil {
		e.SerialNumber = *dto.SerialNumber
	}
	if dto.Manufacturer != nil {
		e.Manufacturer = *dto.Manufacturer
	}
	if dto.InstalledAt != nil {
		e.InstalledAt = dto.InstalledAt
	}
	e.UpdatedAt = time.Now()

	if err := s.repo.Update(e); err != nil {
		s.logger.Error("failed to update equipment", "error", err, "equipment_id", id)
		return nil, err
	}

	return e, nil
}

func (s *Service) DeactivateEquipment(id int64) error {
	e, err := s.repo.GetByID(id)
	if err != nil {
		return internal.NewNotFoundError("equipment not found", internal.ErrCodeEquipmentNotFound)
	}

	if !e.IsActive {
		return internal.NewValidationError("equipment is already inactive", internal.ErrCodeValidationFailed)
	}

	if err := s.repo.Deactivate(id, time.Now()); err != nil {
		s.logger.Error("failed to deactivate equipment", "error", err, "equipment_id", id)
		return err
	}

	s.logger.Info("equipment deactivated", "equipment_id", id)
	return nil
}
