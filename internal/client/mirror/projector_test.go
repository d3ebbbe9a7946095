package mirror

import (
	"testing"
	"time"

	"github.com/kasku-app/kasku/internal/client/models"
	"github.com/stretchr/testify/assert"
)

func sampleTx() *models.Transaction {
	return &models.Transaction{
		ID:         "t1",
		Name:       "Sale",
		Type:       "income",
		Amount:     30000,
		Quantity:   2,
		UnitPrice:  15000,
		OccurredAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestProject_InsertWithoutMapping(t *testing.T) {
	op := Project(sampleTx(), nil, nil)

	assert.Equal(t, OpInsert, op.Kind)
	assert.Equal(t, models.LegacyTableIncomes, op.Table)
	assert.Equal(t, "t1", op.RecordID)
	assert.Equal(t, "Sale", op.Entry.Name)
	assert.Equal(t, int64(15000), op.Entry.UnitPrice)
	assert.Equal(t, int64(30000), op.Entry.Total)
	assert.Empty(t, op.Entry.MenuRef)
}

func TestProject_ExpenseGoesToExpenses(t *testing.T) {
	tx := sampleTx()
	tx.Type = "expense"

	op := Project(tx, nil, nil)
	assert.Equal(t, models.LegacyTableExpenses, op.Table)
}

func TestProject_UpdateWithMapping(t *testing.T) {
	mapping := &models.RemoteIDMap{RecordID: "t1", LegacyTable: models.LegacyTableIncomes, LegacyRowID: 7}

	op := Project(sampleTx(), mapping, nil)
	assert.Equal(t, OpUpdate, op.Kind)
	assert.Equal(t, models.LegacyTableIncomes, op.Table)
	assert.Equal(t, int64(7), op.RowID)
}

func TestProject_MenuNamesTheEntry(t *testing.T) {
	menu := &models.Menu{ID: "m1", Name: "Nasi Goreng"}

	op := Project(sampleTx(), nil, menu)
	assert.Equal(t, "Nasi Goreng", op.Entry.Name)
	assert.Equal(t, "m1", op.Entry.MenuRef)
}

func TestProject_TombstonedMenuDemotesToFreeText(t *testing.T) {
	deleted := time.Now()
	menu := &models.Menu{ID: "m1", Name: "Nasi Goreng", DeletedAt: &deleted}

	op := Project(sampleTx(), nil, menu)
	assert.Equal(t, "Sale", op.Entry.Name)
	assert.Empty(t, op.Entry.MenuRef)
}

func TestProject_DeleteWithMapping(t *testing.T) {
	tx := sampleTx()
	deletedAt := tx.OccurredAt.Add(time.Hour)
	tx.DeletedAt = &deletedAt
	mapping := &models.RemoteIDMap{RecordID: "t1", LegacyTable: models.LegacyTableIncomes, LegacyRowID: 3}

	op := Project(tx, mapping, nil)
	assert.Equal(t, OpDelete, op.Kind)
	assert.Equal(t, models.LegacyTableIncomes, op.Table)
	assert.Equal(t, int64(3), op.RowID)
}

func TestProject_DeleteWithoutMappingIsNoop(t *testing.T) {
	tx := sampleTx()
	deletedAt := tx.OccurredAt.Add(time.Hour)
	tx.DeletedAt = &deletedAt

	op := Project(tx, nil, nil)
	assert.Equal(t, OpNone, op.Kind)
}

func TestDeriveUnitPrice(t *testing.T) {
	tests := []struct {
		name      string
		amount    int64
		quantity  int64
		unitPrice int64
		want      int64
	}{
		{name: "explicit unit price wins", amount: 30000, quantity: 2, unitPrice: 15000, want: 15000},
		{name: "derived from amount and quantity", amount: 30000, quantity: 3, want: 10000},
		{name: "zero quantity floored to one", amount: 30000, quantity: 0, want: 30000},
		{name: "negative quantity floored to one", amount: 30000, quantity: -2, want: 30000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &models.Transaction{Amount: tt.amount, Quantity: tt.quantity, UnitPrice: tt.unitPrice}
			assert.Equal(t, tt.want, deriveUnitPrice(tx))
		})
	}
}
