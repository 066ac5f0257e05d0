package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dompetku/dompetku-api/models"
)

const (
	maxRecentTransactions = 5
	maxDashboardAlerts    = 10
)

type ReportService struct {
	db           *sql.DB
	transactions *TransactionService
	budgets      *BudgetService
}

func NewReportService(db *sql.DB) *ReportService {
	return &ReportService{
		db:           db,
		transactions: NewTransactionService(db),
		budgets:      NewBudgetService(db),
	}
}

// Yearly builds the full report for one calendar year: totals, the 12-month
// series and the per-category breakdowns.
func (s *ReportService) Yearly(ctx context.Context, userID string, year int) (*models.YearlyReport, error) {
	transactions, err := s.transactions.ListByYear(ctx, userID, year)
	if err != nil {
		return nil, err
	}

	breakdown := RollupByCategory(transactions)

	return &models.YearlyReport{
		Year:              year,
		Summary:           Summarize(transactions),
		MonthlyData:       RollupByMonth(transactions),
		ExpenseCategories: TopCategories(breakdown, models.TypeExpense),
		IncomeCategories:  TopCategories(breakdown, models.TypeIncome),
	}, nil
}

// Dashboard gathers the month summary, recent transactions and alerts. The
// three queries are independent reads, so they fan out concurrently and are
// awaited together.
func (s *ReportService) Dashboard(ctx context.Context, userID string) (*models.DashboardResponse, error) {
	first, last := MonthRange(time.Now())

	var (
		monthTransactions []models.Transaction
		recent            []models.Transaction
		alerts            []models.BudgetAlert
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		monthTransactions, err = s.transactions.ListInRange(gctx, userID, first, last)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.transactions.ListRecent(gctx, userID, maxRecentTransactions)
		return err
	})
	g.Go(func() error {
		var err error
		alerts, err = s.budgets.ListAlerts(gctx, userID, maxDashboardAlerts)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.DashboardResponse{
		Summary:            Summarize(monthTransactions),
		RecentTransactions: recent,
		Alerts:             alerts,
	}, nil
}

// ExportCSV renders transactions in the report export layout. The output
// starts with a UTF-8 BOM so spreadsheet apps pick up the encoding.
func ExportCSV(transactions []models.Transaction) []byte {
	var buf bytes.Buffer
	buf.WriteString("\ufeff")

	w := csv.NewWriter(&buf)
	w.Write([]string{"Tanggal", "Tipe", "Kategori", "Deskripsi", "Jumlah"})

	for _, t := range transactions {
		txType := "Pengeluaran"
		if t.Type == models.TypeIncome {
			txType = "Pemasukan"
		}

		categoryName := "-"
		if t.Category != nil {
			categoryName = t.Category.Name
		}

		w.Write([]string{
			t.Date.Format("02/01/2006"),
			txType,
			categoryName,
			t.Description,
			t.Amount.String(),
		})
	}

	w.Flush()
	return buf.Bytes()
}
