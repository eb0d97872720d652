package address

import (
	"context"

	"github.com/Ayush3323/printingbackend/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, userID uint) ([]*Address, error)
	Create(ctx context.Context, userID uint, input CreateAddressInput) (*Address, error)
	SetDefault(ctx context.Context, userID uint, addressID uuid.UUID) (*Address, error)
	Delete(ctx context.Context, userID uint, addressID uuid.UUID) error

	GetUserAddress(ctx context.Context, addressID uuid.UUID, userID uint) (*Address, error)
	DefaultFor(ctx context.Context, userID uint, typ Type) (*Address, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, userID uint) ([]*Address, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) Create(
	ctx context.Context,
	userID uint,
	input CreateAddressInput,
) (*Address, error) {

	if !input.Type.Valid() {
		return nil, ErrInvalidType
	}

	addr := &Address{
		ID:     uuid.New(),
		UserID: userID,

		CompanyName:   input.CompanyName,
		RecipientName: input.RecipientName,
		PhoneNumber:   input.PhoneNumber,

		Street:         input.Street,
		ApartmentSuite: input.ApartmentSuite,
		City:           input.City,
		State:          input.State,
		ZipCode:        input.ZipCode,
		Country:        input.Country,

		Type:      input.Type,
		IsDefault: input.SetAsDefault,
	}

	if err := s.repo.Create(ctx, addr); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("address created",
		zap.String("address_id", addr.ID.String()),
		zap.String("type", string(addr.Type)),
		zap.Bool("is_default", addr.IsDefault),
	)
	return addr, nil
}

// SetDefault is the explicit "make this the default" operation; clearing
// the previous default and marking the new one happen inside one
// repository transaction.
func (s *service) SetDefault(
	ctx context.Context,
	userID uint,
	addressID uuid.UUID,
) (*Address, error) {

	addr, err := s.repo.GetByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if addr.UserID != userID {
		return nil, ErrAddressNotFound
	}

	if err := s.repo.SetDefaultTx(ctx, userID, addr.Type, addressID); err != nil {
		return nil, err
	}

	addr.IsDefault = true
	return addr, nil
}

func (s *service) Delete(ctx context.Context, userID uint, addressID uuid.UUID) error {
	addr, err := s.repo.GetByID(ctx, addressID)
	if err != nil {
		return err
	}
	if addr.UserID != userID {
		return ErrAddressNotFound
	}

	// Orders reference addresses with nullable foreign keys, so deleting
	// one never rewrites order history.
	return s.repo.Delete(ctx, addressID)
}

func (s *service) GetUserAddress(
	ctx context.Context,
	addressID uuid.UUID,
	userID uint,
) (*Address, error) {

	addr, err := s.repo.GetByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if addr.UserID != userID {
		return nil, ErrAddressNotFound
	}
	return addr, nil
}

func (s *service) DefaultFor(ctx context.Context, userID uint, typ Type) (*Address, error) {
	return s.repo.GetDefault(ctx, userID, typ)
}
