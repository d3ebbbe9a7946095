// Package ledger implements the local write path of the unified ledger.
// Every mutation assigns identity, stamps timestamps and sets the dirty
// bit; the sync orchestrator later drains dirty rows.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kasku-app/kasku/internal/client/models"
	"github.com/kasku-app/kasku/internal/client/repositories/menus"
	"github.com/kasku-app/kasku/internal/client/repositories/transactions"
)

// Service is the mutation tracker over both record kinds.
type Service struct {
	menuRepo menus.Repository
	txRepo   transactions.Repository
	now      func() time.Time
}

// NewService constructs a Service bound to the two unified-ledger repos.
func NewService(menuRepo menus.Repository, txRepo transactions.Repository) *Service {
	return &Service{menuRepo: menuRepo, txRepo: txRepo, now: time.Now}
}

// CreateMenuParams are the business fields of a new menu. A zero OccurredAt
// defaults to now.
type CreateMenuParams struct {
	Name       string
	Price      int64
	Category   string
	OccurredAt time.Time
}

// MenuPatch is a sparse update; nil fields are left untouched.
type MenuPatch struct {
	Name       *string
	Price      *int64
	Category   *string
	OccurredAt *time.Time
}

// CreateTransactionParams are the business fields of a new transaction.
type CreateTransactionParams struct {
	Name       string
	Type       string
	Amount     int64
	Quantity   int64
	UnitPrice  int64
	MenuID     *string
	OccurredAt time.Time
}

// TransactionPatch is a sparse update; nil fields are left untouched.
type TransactionPatch struct {
	Name       *string
	Type       *string
	Amount     *int64
	Quantity   *int64
	UnitPrice  *int64
	MenuID     **string
	OccurredAt *time.Time
}

// CreateMenu inserts a new dirty menu row and returns its id.
func (s *Service) CreateMenu(ctx context.Context, p CreateMenuParams) (string, error) {
	now := s.now().UTC()
	occurredAt := p.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}
	m := &models.Menu{
		ID:         uuid.NewString(),
		Name:       p.Name,
		Price:      p.Price,
		Category:   p.Category,
		OccurredAt: occurredAt,
		CreatedAt:  now,
		UpdatedAt:  now,
		Dirty:      true,
	}
	if err := s.menuRepo.Insert(ctx, m); err != nil {
		return "", fmt.Errorf("failed to create menu: %w", err)
	}
	return m.ID, nil
}

// UpdateMenu applies a sparse patch. The row is marked dirty and restamped
// even when the patch changes nothing; the orchestrator relies on the dirty
// bit, not on field diffs.
func (s *Service) UpdateMenu(ctx context.Context, id string, patch MenuPatch) error {
	m, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load menu: %w", err)
	}
	if patch.Name != nil {
		m.Name = *patch.Name
	}
	if patch.Price != nil {
		m.Price = *patch.Price
	}
	if patch.Category != nil {
		m.Category = *patch.Category
	}
	if patch.OccurredAt != nil {
		m.OccurredAt = *patch.OccurredAt
	}
	m.UpdatedAt = s.now().UTC()
	if err := s.menuRepo.Update(ctx, m); err != nil {
		return fmt.Errorf("failed to update menu: %w", err)
	}
	return nil
}

// DeleteMenu tombstones a menu. The row stays queryable by id but drops out
// of active listings.
func (s *Service) DeleteMenu(ctx context.Context, id string) error {
	if err := s.menuRepo.MarkDeleted(ctx, id, s.now().UTC()); err != nil {
		return fmt.Errorf("failed to delete menu: %w", err)
	}
	return nil
}

// ListMenus returns the active (non-tombstoned) menus.
func (s *Service) ListMenus(ctx context.Context) ([]models.Menu, error) {
	return s.menuRepo.ListActive(ctx)
}

// GetMenu returns a menu by id, tombstoned or not.
func (s *Service) GetMenu(ctx context.Context, id string) (*models.Menu, error) {
	return s.menuRepo.GetByID(ctx, id)
}

// CreateTransaction inserts a new dirty transaction row and returns its id.
func (s *Service) CreateTransaction(ctx context.Context, p CreateTransactionParams) (string, error) {
	now := s.now().UTC()
	occurredAt := p.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}
	t := &models.Transaction{
		ID:         uuid.NewString(),
		Name:       p.Name,
		Type:       p.Type,
		Amount:     p.Amount,
		Quantity:   p.Quantity,
		UnitPrice:  p.UnitPrice,
		MenuID:     p.MenuID,
		OccurredAt: occurredAt,
		CreatedAt:  now,
		UpdatedAt:  now,
		Dirty:      true,
	}
	if err := s.txRepo.Insert(ctx, t); err != nil {
		return "", fmt.Errorf("failed to create transaction: %w", err)
	}
	return t.ID, nil
}

// UpdateTransaction applies a sparse patch, always restamping and dirtying
// the row.
func (s *Service) UpdateTransaction(ctx context.Context, id string, patch TransactionPatch) error {
	t, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load transaction: %w", err)
	}
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.Type != nil {
		t.Type = *patch.Type
	}
	if patch.Amount != nil {
		t.Amount = *patch.Amount
	}
	if patch.Quantity != nil {
		t.Quantity = *patch.Quantity
	}
	if patch.UnitPrice != nil {
		t.UnitPrice = *patch.UnitPrice
	}
	if patch.MenuID != nil {
		t.MenuID = *patch.MenuID
	}
	if patch.OccurredAt != nil {
		t.OccurredAt = *patch.OccurredAt
	}
	t.UpdatedAt = s.now().UTC()
	if err := s.txRepo.Update(ctx, t); err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

// DeleteTransaction tombstones a transaction.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.txRepo.MarkDeleted(ctx, id, s.now().UTC()); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// ListTransactions returns the active (non-tombstoned) transactions.
func (s *Service) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return s.txRepo.ListActive(ctx)
}

// GetTransaction returns a transaction by id, tombstoned or not.
func (s *Service) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	return s.txRepo.GetByID(ctx, id)
}
