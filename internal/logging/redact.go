package logging

import (
	"strings"

	"github.com/sirupsen/logrus"
)

const mask = "******"

// defaultSensitiveFields are matched case-insensitively as substrings of field names.
var defaultSensitiveFields = []string{"password", "secret", "token", "authorization"}

// RedactHook masks the values of fields whose names look sensitive.
type RedactHook struct {
	fields []string
}

// NewRedactHook creates a hook masking the default sensitive fields plus extra.
func NewRedactHook(extra ...string) *RedactHook {
	fields := append([]string{}, defaultSensitiveFields...)
	for _, f := range extra {
		fields = append(fields, strings.ToLower(f))
	}
	return &RedactHook{fields: fields}
}

// Levels implements logrus.Hook.
func (h *RedactHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (h *RedactHook) Fire(entry *logrus.Entry) error {
	for key, value := range entry.Data {
		if value == nil || !h.isSensitive(key) {
			continue
		}
		entry.Data[key] = mask
	}
	return nil
}

func (h *RedactHook) isSensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, f := range h.fields {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}
