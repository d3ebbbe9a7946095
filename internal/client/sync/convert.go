package sync

import (
	"github.com/kasku-app/kasku/internal/client/models"
	"github.com/kasku-app/kasku/internal/syncapi"
)

func menuToWire(m *models.Menu) syncapi.MenuChange {
	return syncapi.MenuChange{
		ID:         m.ID,
		Name:       m.Name,
		Price:      m.Price,
		Category:   m.Category,
		OccurredAt: m.OccurredAt,
		UpdatedAt:  m.UpdatedAt,
		DeletedAt:  m.DeletedAt,
	}
}

// menuFromWire builds a local row from a pulled change. The wire carries no
// created_at; on a device seeing the row for the first time the server
// baseline doubles as the creation time.
func menuFromWire(c syncapi.MenuChange) *models.Menu {
	return &models.Menu{
		ID:         c.ID,
		Name:       c.Name,
		Price:      c.Price,
		Category:   c.Category,
		OccurredAt: c.OccurredAt,
		CreatedAt:  c.UpdatedAt,
		UpdatedAt:  c.UpdatedAt,
		DeletedAt:  c.DeletedAt,
	}
}

func transactionToWire(t *models.Transaction) syncapi.TransactionChange {
	return syncapi.TransactionChange{
		ID:         t.ID,
		Name:       t.Name,
		Type:       t.Type,
		Amount:     t.Amount,
		Quantity:   t.Quantity,
		UnitPrice:  t.UnitPrice,
		MenuID:     t.MenuID,
		OccurredAt: t.OccurredAt,
		UpdatedAt:  t.UpdatedAt,
		DeletedAt:  t.DeletedAt,
	}
}

func transactionFromWire(c syncapi.TransactionChange) *models.Transaction {
	return &models.Transaction{
		ID:         c.ID,
		Name:       c.Name,
		Type:       c.Type,
		Amount:     c.Amount,
		Quantity:   c.Quantity,
		UnitPrice:  c.UnitPrice,
		MenuID:     c.MenuID,
		OccurredAt: c.OccurredAt,
		CreatedAt:  c.UpdatedAt,
		UpdatedAt:  c.UpdatedAt,
		DeletedAt:  c.DeletedAt,
	}
}
