package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvalle/caderneta/internal/models"
	"github.com/mvalle/caderneta/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func mustClient(t *testing.T, store *SQLiteStore, name, phone string) *models.Client {
	t.Helper()
	client := &models.Client{Name: name, Phone: phone}
	require.NoError(t, store.UpsertClient(context.Background(), client))
	return client
}

func mustSale(t *testing.T, store *SQLiteStore, input *models.SaleInput) *models.Sale {
	t.Helper()
	sale, err := store.CreateSale(context.Background(), input)
	require.NoError(t, err)
	return sale
}

func cashSaleInput(clientID string, date time.Time) *models.SaleInput {
	return &models.SaleInput{
		ClientID:    clientID,
		SaleDate:    date,
		PaymentType: models.PaymentCash,
		Items: []models.LineItemInput{
			{Description: "Perfume", Quantity: 2, UnitValue: 50.0},
		},
	}
}

func TestMigrations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	require.NoError(t, err)

	version, err := store.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), version, "all migrations should be applied")

	// The v2 column must be usable.
	client := &models.Client{Name: "Ana", Phone: "11987654321", Address: "Rua A, 1"}
	require.NoError(t, store.UpsertClient(context.Background(), client))
	got, err := store.GetClient(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rua A, 1", got.Address)
	require.NoError(t, store.Close())

	// Reopening an up-to-date database applies nothing and keeps the version.
	store, err = Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	version, err = store.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), version)

	got, err = store.GetClient(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
}

func TestClients(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("upsert generates id and stores all fields", func(t *testing.T) {
		client := &models.Client{Name: "Beatriz", Phone: "11912345678", Email: "bia@example.com", Address: "Rua B, 2"}
		require.NoError(t, store.UpsertClient(ctx, client))
		assert.NotEmpty(t, client.ID)

		got, err := store.GetClient(ctx, client.ID)
		require.NoError(t, err)
		assert.Equal(t, client, got)
	})

	t.Run("upsert with existing id overwrites every field", func(t *testing.T) {
		client := mustClient(t, store, "Carla", "11900000001")
		client.Name = "Carla Souza"
		client.Email = "carla@example.com"
		client.Address = ""
		require.NoError(t, store.UpsertClient(ctx, client))

		got, err := store.GetClient(ctx, client.ID)
		require.NoError(t, err)
		assert.Equal(t, "Carla Souza", got.Name)
		assert.Equal(t, "carla@example.com", got.Email)
		assert.Empty(t, got.Address)
	})

	t.Run("validation", func(t *testing.T) {
		err := store.UpsertClient(ctx, &models.Client{Phone: "11900000002"})
		assert.True(t, storage.IsValidation(err), "missing name should be a validation error")

		err = store.UpsertClient(ctx, &models.Client{Name: "Sem Telefone"})
		assert.True(t, storage.IsValidation(err), "missing phone should be a validation error")
	})

	t.Run("get missing returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetClient(ctx, "does-not-exist")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("list orders by name", func(t *testing.T) {
		fresh := newTestStore(t)
		mustClient(t, fresh, "Zuleica", "11900000003")
		mustClient(t, fresh, "Amanda", "11900000004")
		mustClient(t, fresh, "Marcos", "11900000005")

		clients, err := fresh.ListClients(ctx)
		require.NoError(t, err)
		require.Len(t, clients, 3)
		assert.Equal(t, "Amanda", clients[0].Name)
		assert.Equal(t, "Marcos", clients[1].Name)
		assert.Equal(t, "Zuleica", clients[2].Name)
	})

	t.Run("search filters by substring", func(t *testing.T) {
		fresh := newTestStore(t)
		mustClient(t, fresh, "Mariana Lima", "11900000006")
		mustClient(t, fresh, "Ana Maria", "11900000007")
		mustClient(t, fresh, "Pedro", "11900000008")

		found, err := fresh.SearchClientsByName(ctx, "Maria")
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "Ana Maria", found[0].Name)
		assert.Equal(t, "Mariana Lima", found[1].Name)
	})

	t.Run("delete cascades to sales", func(t *testing.T) {
		client := mustClient(t, store, "Daniela", "11900000009")
		sale := mustSale(t, store, cashSaleInput(client.ID, time.Now()))

		require.NoError(t, store.DeleteClient(ctx, client.ID))

		_, err := store.GetSale(ctx, sale.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		// Deleting again is a no-op.
		assert.NoError(t, store.DeleteClient(ctx, client.ID))
	})
}

func TestCreateSale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	client := mustClient(t, store, "Elaine", "11911111111")

	t.Run("computes totals and snapshots the client", func(t *testing.T) {
		input := &models.SaleInput{
			ClientID:    client.ID,
			SaleDate:    time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
			Discount:    10.0,
			PaymentType: models.PaymentCash,
			Items: []models.LineItemInput{
				{Description: "Perfume", Quantity: 2, UnitValue: 40.0},
				{Description: "Batom", Quantity: 1, UnitValue: 20.0},
			},
		}
		sale := mustSale(t, store, input)

		assert.NotEmpty(t, sale.ID)
		assert.Equal(t, 100.0, sale.Subtotal)
		assert.Equal(t, 90.0, sale.Total)
		assert.Equal(t, "Elaine", sale.ClientName)
		assert.Equal(t, "11911111111", sale.ClientPhone)

		got, err := store.GetSale(ctx, sale.ID)
		require.NoError(t, err)
		require.Len(t, got.Items, 2)
		assert.Equal(t, "Perfume", got.Items[0].Description)
		assert.NotEmpty(t, got.Items[0].ID)
		assert.Equal(t, sale.ID, got.Items[0].SaleID)
	})

	t.Run("client snapshot survives client edits", func(t *testing.T) {
		snap := mustClient(t, store, "Fernanda", "11922222222")
		sale := mustSale(t, store, cashSaleInput(snap.ID, time.Now()))

		snap.Name = "Fernanda Alves"
		snap.Phone = "11933333333"
		require.NoError(t, store.UpsertClient(ctx, snap))

		got, err := store.GetSale(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, "Fernanda", got.ClientName)
		assert.Equal(t, "11922222222", got.ClientPhone)
	})

	t.Run("discount equal to subtotal yields zero total", func(t *testing.T) {
		input := cashSaleInput(client.ID, time.Now())
		input.Discount = 100.0
		sale := mustSale(t, store, input)
		assert.Equal(t, 0.0, sale.Total)
	})

	t.Run("missing client", func(t *testing.T) {
		_, err := store.CreateSale(ctx, cashSaleInput("nope", time.Now()))
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*models.SaleInput)
		}{
			{"no items", func(in *models.SaleInput) { in.Items = nil }},
			{"empty description", func(in *models.SaleInput) { in.Items[0].Description = "" }},
			{"zero quantity", func(in *models.SaleInput) { in.Items[0].Quantity = 0 }},
			{"zero unit value", func(in *models.SaleInput) { in.Items[0].UnitValue = 0 }},
			{"negative discount", func(in *models.SaleInput) { in.Discount = -1 }},
			{"discount above subtotal", func(in *models.SaleInput) { in.Discount = 100.01 }},
			{"cash with installments", func(in *models.SaleInput) { in.InstallmentsTotal = 3 }},
			{"installment with one installment", func(in *models.SaleInput) {
				in.PaymentType = models.PaymentInstallment
				in.InstallmentsTotal = 1
			}},
			{"unknown payment type", func(in *models.SaleInput) { in.PaymentType = "CHEQUE" }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				input := cashSaleInput(client.ID, time.Now())
				tc.mutate(input)
				_, err := store.CreateSale(ctx, input)
				assert.True(t, storage.IsValidation(err), "expected validation error, got %v", err)
			})
		}
	})
}

func TestListSalesByPeriod(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	client := mustClient(t, store, "Gilda", "11944444444")

	dates := []time.Time{
		time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 20, 23, 30, 0, 0, time.UTC),
		time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		mustSale(t, store, cashSaleInput(client.ID, d))
	}

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC)
	sales, err := store.ListSalesByPeriod(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, sales, 2, "boundaries are inclusive")
	assert.True(t, sales[0].SaleDate.After(sales[1].SaleDate), "newest first")

	all, err := store.ListSales(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	byClient, err := store.ListSalesByClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Len(t, byClient, 4)
}

func TestPayments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	client := mustClient(t, store, "Helena", "11955555555")

	installmentInput := func() *models.SaleInput {
		return &models.SaleInput{
			ClientID:             client.ID,
			SaleDate:             time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
			PaymentType:          models.PaymentInstallment,
			InstallmentsTotal:    3,
			FirstInstallmentDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			Items: []models.LineItemInput{
				{Description: "Kit presente", Quantity: 1, UnitValue: 90.0},
			},
		}
	}

	t.Run("cash payment leaves the counter alone", func(t *testing.T) {
		sale := mustSale(t, store, cashSaleInput(client.ID, time.Now()))
		payment, err := store.RegisterPayment(ctx, sale.ID, 40.0, time.Now())
		require.NoError(t, err)
		assert.NotEmpty(t, payment.ID)

		got, err := store.GetSale(ctx, sale.ID)
		require.NoError(t, err)
		require.Len(t, got.Payments, 1)
		assert.Equal(t, 0, got.InstallmentsPaid)
	})

	t.Run("installment payment increments the counter atomically", func(t *testing.T) {
		sale := mustSale(t, store, installmentInput())

		_, err := store.RegisterPayment(ctx, sale.ID, 30.0, time.Now())
		require.NoError(t, err)
		got, err := store.GetSale(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.InstallmentsPaid)

		_, err = store.RegisterPayment(ctx, sale.ID, 30.0, time.Now())
		require.NoError(t, err)
		got, err = store.GetSale(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.InstallmentsPaid)
	})

	t.Run("payment above the pending balance is rejected", func(t *testing.T) {
		sale := mustSale(t, store, installmentInput())
		_, err := store.RegisterPayment(ctx, sale.ID, 60.0, time.Now())
		require.NoError(t, err)

		_, err = store.RegisterPayment(ctx, sale.ID, 31.0, time.Now())
		assert.True(t, storage.IsValidation(err), "expected validation error, got %v", err)

		// The exact remainder still goes through.
		_, err = store.RegisterPayment(ctx, sale.ID, 30.0, time.Now())
		assert.NoError(t, err)
	})

	t.Run("counter clamps at installments total", func(t *testing.T) {
		sale := mustSale(t, store, installmentInput())
		for _, amount := range []float64{20, 20, 20, 20} {
			_, err := store.RegisterPayment(ctx, sale.ID, amount, time.Now())
			require.NoError(t, err)
		}
		got, err := store.GetSale(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.InstallmentsPaid)
	})

	t.Run("delete payment decrements the counter", func(t *testing.T) {
		sale := mustSale(t, store, installmentInput())
		payment, err := store.RegisterPayment(ctx, sale.ID, 30.0, time.Now())
		require.NoError(t, err)

		require.NoError(t, store.DeletePayment(ctx, payment.ID))
		got, err := store.GetSale(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.InstallmentsPaid)
		assert.Empty(t, got.Payments)
	})

	t.Run("errors", func(t *testing.T) {
		sale := mustSale(t, store, cashSaleInput(client.ID, time.Now()))

		_, err := store.RegisterPayment(ctx, sale.ID, 0, time.Now())
		assert.True(t, storage.IsValidation(err))

		_, err = store.RegisterPayment(ctx, "nope", 10.0, time.Now())
		assert.ErrorIs(t, err, storage.ErrNotFound)

		assert.ErrorIs(t, store.DeletePayment(ctx, "nope"), storage.ErrNotFound)
	})

	t.Run("set installments paid clamps and rejects cash sales", func(t *testing.T) {
		sale := mustSale(t, store, installmentInput())

		require.NoError(t, store.SetInstallmentsPaid(ctx, sale.ID, 7))
		got, err := store.GetSale(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.InstallmentsPaid)

		require.NoError(t, store.SetInstallmentsPaid(ctx, sale.ID, -2))
		got, err = store.GetSale(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.InstallmentsPaid)

		cash := mustSale(t, store, cashSaleInput(client.ID, time.Now()))
		err = store.SetInstallmentsPaid(ctx, cash.ID, 1)
		assert.True(t, storage.IsValidation(err))
	})
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := &models.User{Username: "consultora", PasswordHash: "abc123"}
	require.NoError(t, store.RegisterUser(ctx, user))

	err := store.RegisterUser(ctx, &models.User{Username: "consultora", PasswordHash: "outro"})
	assert.ErrorIs(t, err, storage.ErrConflict)

	got, err := store.GetUser(ctx, "consultora")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got.PasswordHash)

	_, err = store.GetUser(ctx, "ninguem")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	deleted, err := store.DeleteUser(ctx, "consultora")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.DeleteUser(ctx, "consultora")
	require.NoError(t, err)
	assert.False(t, deleted, "second delete should report nothing removed")
}

func TestImportSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	clients := []models.Client{
		{ID: "c1", Name: "Iara", Phone: "11966666666"},
	}
	sales := []models.Sale{
		{
			ID:          "s1",
			ClientID:    "c1",
			ClientName:  "Iara",
			ClientPhone: "11966666666",
			SaleDate:    time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC),
			Subtotal:    50.0,
			Total:       50.0,
			PaymentType: models.PaymentCash,
			Items: []models.LineItem{
				{ID: "i1", SaleID: "s1", Description: "Creme", Quantity: 1, UnitValue: 50.0},
			},
			Payments: []models.Payment{
				{ID: "p1", SaleID: "s1", PaidAt: time.Date(2025, 12, 2, 10, 0, 0, 0, time.UTC), Amount: 20.0},
			},
		},
	}

	require.NoError(t, store.ImportSnapshot(ctx, clients, sales))

	// Re-importing the same snapshot must not duplicate anything.
	require.NoError(t, store.ImportSnapshot(ctx, clients, sales))

	got, err := store.GetSale(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
	assert.Len(t, got.Payments, 1)

	all, err := store.ListSales(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// A changed snapshot overwrites: the client in place, the sale wholesale.
	clients[0].Name = "Iara Prado"
	sales[0].Items = []models.LineItem{
		{ID: "i2", SaleID: "s1", Description: "Sabonete", Quantity: 3, UnitValue: 10.0},
	}
	require.NoError(t, store.ImportSnapshot(ctx, clients, sales))

	client, err := store.GetClient(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Iara Prado", client.Name)

	got, err = store.GetSale(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1, "replaced sale should shed its old items")
	assert.Equal(t, "Sabonete", got.Items[0].Description)
}
