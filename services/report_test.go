package services

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dompetku/dompetku-api/models"
)

func TestExportCSV(t *testing.T) {
	transactions := []models.Transaction{
		{
			Type:        models.TypeIncome,
			Amount:      decimal.RequireFromString("5000000"),
			Description: "Gaji bulanan",
			Date:        time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
			Category:    &models.Category{Name: "Gaji"},
		},
		{
			Type:        models.TypeExpense,
			Amount:      decimal.RequireFromString("45000.50"),
			Description: "Makan siang",
			Date:        time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	out := string(ExportCSV(transactions))

	assert.True(t, strings.HasPrefix(out, "\ufeff"), "output must start with a UTF-8 BOM")

	lines := strings.Split(strings.TrimRight(strings.TrimPrefix(out, "\ufeff"), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "Tanggal,Tipe,Kategori,Deskripsi,Jumlah", lines[0])
	assert.Equal(t, "01/03/2026,Pemasukan,Gaji,Gaji bulanan,5000000", lines[1])
	assert.Equal(t, "15/03/2026,Pengeluaran,-,Makan siang,45000.50", lines[2])
}

func TestExportCSV_Empty(t *testing.T) {
	out := string(ExportCSV(nil))
	assert.Equal(t, "\ufeffTanggal,Tipe,Kategori,Deskripsi,Jumlah\n", out)
}
