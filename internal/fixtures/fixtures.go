// Package fixtures seeds the document store with the demo data set used by
// local development and the service walkthrough.
package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ledgerstack/ledgerstack/pkg/docstore"
	"github.com/ledgerstack/ledgerstack/pkg/domain"
)

// Seed upserts every fixture document. Safe to run repeatedly: documents
// are keyed by stable ids and overwritten in place.
func Seed(ctx context.Context, client docstore.Client, logger *slog.Logger) error {
	if err := seedAccounts(ctx, client); err != nil {
		return err
	}
	if err := seedPaymentMethods(ctx, client); err != nil {
		return err
	}
	if err := seedBeneficiaries(ctx, client); err != nil {
		return err
	}
	if err := seedTransactions(ctx, client); err != nil {
		return err
	}
	if err := seedInventory(ctx, client); err != nil {
		return err
	}
	if err := seedMaintenance(ctx, client); err != nil {
		return err
	}
	logger.Info("fixtures seeded")
	return nil
}

func put(ctx context.Context, c docstore.Container, id, partitionKey string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := c.Upsert(ctx, &docstore.Doc{ID: id, PartitionKey: partitionKey, Body: body}); err != nil {
		return fmt.Errorf("seed %s/%s: %w", partitionKey, id, err)
	}
	return nil
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedAccounts(ctx context.Context, client docstore.Client) error {
	accounts := []domain.Account{
		{ID: "1000", UserName: "alice.user@contoso.com", AccountHolderFullName: "Alice User",
			Currency: "USD", ActivationDate: "2022-01-01", Balance: money("5000")},
		{ID: "1010", UserName: "bob.user@contoso.com", AccountHolderFullName: "Bob User",
			Currency: "EUR", ActivationDate: "2022-01-01", Balance: money("10000")},
		{ID: "1020", UserName: "charlie.user@contoso.com", AccountHolderFullName: "Charlie User",
			Currency: "EUR", ActivationDate: "2022-01-01", Balance: money("3000")},
	}
	c := client.Container(docstore.ContainerAccounts)
	for _, a := range accounts {
		if err := put(ctx, c, a.ID, a.UserName, a); err != nil {
			return err
		}
	}
	return nil
}

func seedPaymentMethods(ctx context.Context, client docstore.Client) error {
	methods := []domain.PaymentMethod{
		{ID: "12345", AccountID: "1000", Type: "Visa", ActivationDate: "2022-01-01",
			ExpirationDate: "2025-01-01", AvailableBalance: money("500.00"), CardNumber: "1234567812345678"},
		{ID: "23456", AccountID: "1000", Type: "BankTransfer", ActivationDate: "2022-01-01",
			ExpirationDate: "9999-01-01", AvailableBalance: money("5000.00")},
		{ID: "345678", AccountID: "1010", Type: "BankTransfer", ActivationDate: "2022-01-01",
			ExpirationDate: "9999-01-01", AvailableBalance: money("10000.00")},
		{ID: "55555", AccountID: "1010", Type: "Visa", ActivationDate: "2024-01-01",
			ExpirationDate: "2028-01-01", AvailableBalance: money("350.00"), CardNumber: "637362551913266"},
		{ID: "46748576", AccountID: "1020", Type: "DirectDebit", ActivationDate: "2022-02-01",
			ExpirationDate: "9999-02-01", AvailableBalance: money("3000.00")},
	}
	c := client.Container(docstore.ContainerPaymentMethods)
	for _, pm := range methods {
		if err := put(ctx, c, pm.ID, pm.AccountID, pm); err != nil {
			return err
		}
	}
	return nil
}

func seedBeneficiaries(ctx context.Context, client docstore.Client) error {
	beneficiaries := []domain.Beneficiary{
		{ID: "1", AccountID: "1000", FullName: "Mike ThePlumber", BankCode: "123456789", BankName: "Intesa Sanpaolo"},
		{ID: "2", AccountID: "1000", FullName: "Jane TheElectrician", BankCode: "987654321", BankName: "UBS"},
		{ID: "3", AccountID: "1010", FullName: "Sarah TheAccountant", BankCode: "555123456", BankName: "Deutsche Bank"},
		{ID: "4", AccountID: "1010", FullName: "Tom TheLawyer", BankCode: "777888999", BankName: "HSBC"},
		{ID: "5", AccountID: "1020", FullName: "Lisa TheDoctor", BankCode: "111222333", BankName: "BNP Paribas"},
	}
	c := client.Container(docstore.ContainerBeneficiaries)
	for _, b := range beneficiaries {
		if err := put(ctx, c, b.ID, b.AccountID, b); err != nil {
			return err
		}
	}
	return nil
}

func seedTransactions(ctx context.Context, client docstore.Client) error {
	transactions := []domain.Transaction{
		{ID: "11", AccountID: "1010", Description: "Payment of the bill 334398", Type: domain.TransactionOutcome,
			RecipientName: "acme", RecipientBankReference: "098734213", PaymentType: "BankTransfer",
			Amount: money("-120.00"), Timestamp: "2023-06-15T09:15:00"},
		{ID: "12", AccountID: "1010", Description: "Salary", Type: domain.TransactionIncome,
			RecipientName: "Contoso Corp", RecipientBankReference: "123456789", PaymentType: "BankTransfer",
			Amount: money("3000.00"), Timestamp: "2023-06-01T08:00:00"},
		{ID: "13", AccountID: "1010", Description: "Groceries at SuperMart", Type: domain.TransactionOutcome,
			RecipientName: "SuperMart", RecipientBankReference: "555666777", PaymentType: "Visa",
			Amount: money("-85.50"), Timestamp: "2023-06-10T18:30:00"},
		{ID: "14", AccountID: "1010", Description: "Electric bill payment", Type: domain.TransactionOutcome,
			RecipientName: "PowerCo Utilities", RecipientBankReference: "111222333", PaymentType: "BankTransfer",
			Amount: money("-75.20"), Timestamp: "2023-05-25T14:00:00"},
		{ID: "15", AccountID: "1010", Description: "Freelance project payment", Type: domain.TransactionIncome,
			RecipientName: "Tech Solutions Inc", RecipientBankReference: "444555666", PaymentType: "BankTransfer",
			Amount: money("1500.00"), Timestamp: "2023-05-20T10:30:00"},
		{ID: "20", AccountID: "1000", Description: "Monthly rent payment", Type: domain.TransactionOutcome,
			RecipientName: "Property Management LLC", RecipientBankReference: "999888777", PaymentType: "BankTransfer",
			Amount: money("-1200.00"), Timestamp: "2023-06-01T10:00:00"},
		{ID: "21", AccountID: "1000", Description: "Salary deposit", Type: domain.TransactionIncome,
			RecipientName: "Acme Corporation", RecipientBankReference: "123123123", PaymentType: "BankTransfer",
			Amount: money("4500.00"), Timestamp: "2023-06-01T09:00:00"},
		{ID: "30", AccountID: "1020", Description: "Online shopping", Type: domain.TransactionOutcome,
			RecipientName: "Amazon", RecipientBankReference: "456456456", PaymentType: "DirectDebit",
			Amount: money("-150.75"), Timestamp: "2023-06-12T15:30:00"},
	}
	c := client.Container(docstore.ContainerTransactions)
	for _, tx := range transactions {
		if err := put(ctx, c, tx.ID, tx.AccountID, tx); err != nil {
			return err
		}
	}
	return nil
}

func seedInventory(ctx context.Context, client docstore.Client) error {
	items := []domain.InventoryItem{
		{ItemID: "PART-001", Name: "Industrial Bearing SKF 6205", Category: "bearings",
			StockQuantity: 45, Location: "Warehouse A - Shelf 12", MinStockLevel: 10,
			UnitPrice: money("25.50"), Supplier: "SKF Industrial Supplies", LastUpdated: "2023-10-01T08:00:00"},
		{ItemID: "PART-002", Name: "Deep Groove Ball Bearing 6308", Category: "bearings",
			StockQuantity: 8, Location: "Warehouse A - Shelf 13", MinStockLevel: 15,
			UnitPrice: money("42.00"), Supplier: "SKF Industrial Supplies", LastUpdated: "2023-10-01T08:00:00"},
		{ItemID: "PART-003", Name: "Hydraulic Pump Seal Kit", Category: "hydraulics",
			StockQuantity: 22, Location: "Warehouse B - Shelf 3", MinStockLevel: 5,
			UnitPrice: money("89.99"), Supplier: "Parker Hannifin", LastUpdated: "2023-10-01T08:00:00"},
		{ItemID: "PART-004", Name: "V-Belt A42", Category: "belts",
			StockQuantity: 0, Location: "Warehouse B - Shelf 7", MinStockLevel: 12,
			UnitPrice: money("12.75"), Supplier: "Gates Corporation", LastUpdated: "2023-10-01T08:00:00"},
	}
	c := client.Container(docstore.ContainerInventory)
	for _, item := range items {
		if err := put(ctx, c, item.ItemID, item.Category, item); err != nil {
			return err
		}
	}
	return nil
}

func seedMaintenance(ctx context.Context, client docstore.Client) error {
	technicians := []domain.Technician{
		{TechnicianID: "TECH-001", Name: "John Smith", Specialization: []string{"Electrical", "HVAC"},
			SkillLevel: "Senior", Status: domain.TechnicianAvailable,
			CurrentLocation: "Factory Floor A", ContactPhone: "+1-555-0123"},
		{TechnicianID: "TECH-002", Name: "Maria Garcia", Specialization: []string{"Mechanical", "Hydraulics"},
			SkillLevel: "Senior", Status: domain.TechnicianBusy,
			CurrentLocation: "Factory Floor B", ContactPhone: "+1-555-0124"},
		{TechnicianID: "TECH-003", Name: "David Chen", Specialization: []string{"Electrical"},
			SkillLevel: "Junior", Status: domain.TechnicianAvailable,
			CurrentLocation: "Warehouse A", ContactPhone: "+1-555-0125"},
	}
	tc := client.Container(docstore.ContainerTechnicians)
	for _, t := range technicians {
		if err := put(ctx, tc, t.TechnicianID, t.TechnicianID, t); err != nil {
			return err
		}
	}

	slots := []domain.ScheduleSlot{
		{SlotID: "SLOT-20231020-001", TechnicianID: "TECH-001", Date: "2023-10-20",
			StartTime: "09:00", EndTime: "17:00", Available: true, Location: "Factory Floor A"},
		{SlotID: "SLOT-20231021-001", TechnicianID: "TECH-001", Date: "2023-10-21",
			StartTime: "09:00", EndTime: "13:00", Available: true, Location: "Factory Floor A"},
		{SlotID: "SLOT-20231020-002", TechnicianID: "TECH-002", Date: "2023-10-20",
			StartTime: "13:00", EndTime: "17:00", Available: false, Location: "Factory Floor B"},
		{SlotID: "SLOT-20231022-001", TechnicianID: "TECH-003", Date: "2023-10-22",
			StartTime: "08:00", EndTime: "16:00", Available: true, Location: "Warehouse A"},
	}
	sc := client.Container(docstore.ContainerScheduleSlots)
	for _, slot := range slots {
		if err := put(ctx, sc, slot.SlotID, slot.TechnicianID, slot); err != nil {
			return err
		}
	}
	return nil
}
