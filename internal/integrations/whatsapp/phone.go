package whatsapp

import (
	"fmt"
	"strings"
	"unicode"
)

// NormalizePhone приводит номер к международному формату:
// пробелы удаляются, ведущий "0" заменяется кодом страны, иначе добавляется "+"
func NormalizePhone(raw, countryCode string) (string, error) {
	phone := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	if phone == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPhone)
	}

	switch {
	case strings.HasPrefix(phone, "+"):
	case strings.HasPrefix(phone, "0"):
		phone = ensurePlus(countryCode) + phone[1:]
	default:
		phone = "+" + phone
	}

	if len(phone) < 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}
	for _, r := range phone[1:] {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
		}
	}

	return phone, nil
}

func ensurePlus(code string) string {
	if strings.HasPrefix(code, "+") {
		return code
	}
	return "+" + code
}
