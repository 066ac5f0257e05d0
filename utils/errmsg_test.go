package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	unique := &pq.Error{Code: "23505"}
	assert.Equal(t, "Data sudah ada. Silakan gunakan nilai yang berbeda.", UserMessage(unique))

	fk := &pq.Error{Code: "23503"}
	assert.Equal(t, "Data terkait tidak ditemukan", UserMessage(fk))

	wrapped := fmt.Errorf("insert failed: %w", &pq.Error{Code: "23514"})
	assert.Equal(t, "Nilai tidak valid untuk field ini", UserMessage(wrapped))

	unknown := &pq.Error{Code: "57014"}
	assert.Equal(t, "Terjadi kesalahan tidak terduga. Silakan coba lagi.", UserMessage(unknown))

	assert.Equal(t, "Terjadi kesalahan tidak terduga. Silakan coba lagi.", UserMessage(errors.New("plain")))
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "idx_budget_plans_active_scope"}

	assert.True(t, IsUniqueViolation(err, "idx_budget_plans_active_scope"))
	assert.True(t, IsUniqueViolation(err, ""), "empty constraint matches any unique violation")
	assert.False(t, IsUniqueViolation(err, "other_constraint"))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}, ""))
	assert.False(t, IsUniqueViolation(errors.New("not pq"), ""))
}
