package utils

import (
	"errors"

	"github.com/lib/pq"
)

// User-facing messages for known Postgres error codes. Unknown codes fall
// back to a generic message so raw driver errors never reach the client.
var pqErrorMessages = map[string]string{
	"23505": "Data sudah ada. Silakan gunakan nilai yang berbeda.",
	"23503": "Data terkait tidak ditemukan",
	"23502": "Field wajib tidak boleh kosong",
	"23514": "Nilai tidak valid untuk field ini",
	"42501": "Anda tidak memiliki akses untuk operasi ini",
}

const genericErrorMessage = "Terjadi kesalahan tidak terduga. Silakan coba lagi."

// UserMessage maps a storage error to localized user-facing text.
func UserMessage(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if msg, ok := pqErrorMessages[string(pqErr.Code)]; ok {
			return msg
		}
	}
	return genericErrorMessage
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation, optionally on the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
