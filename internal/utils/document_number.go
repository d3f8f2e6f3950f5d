package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const documentNumberLayout = "20060102150405"

// NewDocumentNumber builds a human readable, time-derived document number such
// as POS-20250114093011-9F2C1A. The random suffix keeps numbers issued within the
// same second unique.
func NewDocumentNumber(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return prefix + "-" + now.UTC().Format(documentNumberLayout) + "-" + suffix
}
