package middleware

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Input validation and sanitization utilities

// MaxUploadBytes caps batch CSV uploads
const MaxUploadBytes = 10 << 20 // 10 MiB

// ValidateUploadName checks the uploaded filename is a plain CSV name
func ValidateUploadName(name string) error {
	if name == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	// Block path separators and traversal attempts
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("invalid filename")
	}

	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return fmt.Errorf("invalid file type: %s (allowed: .csv)", filepath.Ext(name))
	}

	return nil
}

// ValidateUploadSize rejects empty or oversized uploads before reading them
func ValidateUploadSize(size int64) error {
	if size <= 0 {
		return fmt.Errorf("file cannot be empty")
	}
	if size > MaxUploadBytes {
		return fmt.Errorf("file too large: %d bytes (max %d)", size, MaxUploadBytes)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
