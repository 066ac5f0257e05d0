package utils

import (
	"fmt"
	"log"
	"os"
	"regexp"
)

// IsProduction masks sensitive data in logs when set.
var IsProduction = os.Getenv("GIN_MODE") == "release" ||
	os.Getenv("ENVIRONMENT") == "production"

var (
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// Rupiah amounts, with or without thousand separators
	rupiahRegex = regexp.MustCompile(`Rp\s?[\d.]+`)

	uuidRegex = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
)

// Sanitize masks emails, amounts and full UUIDs in production logs so that
// personal and financial data never lands in log storage.
func Sanitize(msg string) string {
	if !IsProduction {
		return msg
	}

	msg = emailRegex.ReplaceAllStringFunc(msg, func(email string) string {
		if len(email) < 3 {
			return "***"
		}
		return email[:2] + "***@***"
	})
	msg = rupiahRegex.ReplaceAllString(msg, "Rp ***")
	msg = uuidRegex.ReplaceAllStringFunc(msg, func(id string) string {
		return id[:8] + "-****"
	})

	return msg
}

// SafeLogf is log.Printf with sanitization applied to the formatted message.
func SafeLogf(format string, args ...interface{}) {
	log.Print(Sanitize(fmt.Sprintf(format, args...)))
}
