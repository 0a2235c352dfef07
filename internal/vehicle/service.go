package vehicle

import (
	"log/slog"
	"time"

	"github.com/upenergia/asset-management/internal"
)

type RepositoryAPI interface {
	Create(v *Vehicle) error
	GetByID(id int64) (*Vehicle, error)
	GetByPlate(plate string) (*Vehicle, error)
	List(limit, offset int) ([]*Vehicle, int64, error)
	Update(v *Vehicle) error
	Deactivate(id int64, deletedAt time.Time) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) CreateVehicle(dto CreateVehicleDTO) (*Vehicle, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if existing, err := s.repo.GetByPlate(dto.Plate); err == nil && existing != nil {
		s.logger.Warn("create vehicle rejected: duplicate plate", "plate", dto.Plate)
		return nil, internal.NewConflictError("a vehicle with this plate already exists", internal.ErrCodeDuplicatePlate)
	}

	v := &Vehicle{
		PlantID:     dto.PlantID,
		Plate:       dto.Plate,
		Model:       dto.Model,
		Brand:       dto.Brand,
		Year:        dto.Year,
		IsAvailable: true,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.repo.Create(v); err != nil {
		s.logger.Error("failed to create vehicle", "error", err, "plate", dto.Plate)
		return nil, err
	}

	s.logger.Info("vehicle created", "vehicle_id", v.ID, "plate", v.Plate)
	return v, nil
}

func (s *Service) GetVehicle(id int64) (*Vehicle, error) {
	v, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("vehicle not found", internal.ErrCodeVehicleNotFound)
	}
	return v, nil
}

func (s *Service) ListVehicles(limit, offset int) ([]*Vehicle, int64, error) {
	return s.repo.List(limit, offset)
}

func (s *Service) UpdateVehicle(id int64, dto UpdateVehicleDTO) (*Vehicle, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	v, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("vehicle not found", internal.ErrCodeVehicleNotFound)
	}

	if dto.PlantID != nil {
		v.PlantID = dto.PlantID
	}
	if dto.Model != nil {
		v.Model = *dto.Model
	}
	if dto.Brand != nil {
		v.Brand = *dto.Brand
	}
	if dto.Year != nil {
		v.Year = *dto.Year
	}
	if dto.IsAvailable != nil {
		v.IsAvailable = *dto.IsAvailable
	}
	v.UpdatedAt = time.Now()

	if err := s.repo.Update(v); err != nil {
		s.logger.Error("failed to update vehicle", "error", err, "vehicle_id", id)
		return nil, err
	}

	return v, nil
}

func (s *Service) DeactivateVehicle(id int64) error {
	v, err := s.repo.GetByID(id)
	if err != nil {
		return internal.NewNotFoundError("vehicle not found", internal.ErrCodeVehicleNotFound)
	}

	if !v.IsActive {
		return internal.NewValidationError("vehicle is already inactive", internal.ErrCodeValidationFailed)
	}

	if err := s.repo.Deactivate(id, time.Now()); err != nil {
		s.logger.Error("failed to deactivate vehicle", "error", err, "vehicle_id", id)
		return err
	}

	s.logger.Info("vehicle deactivated", "vehicle_id", id)
	return nil
}
