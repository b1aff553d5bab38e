// redact — маскировка чувствительных значений для логов.
// Токены не логируются целиком никогда (см. модель данных TokenPair).
package redact

import "strings"

// Phone оставляет код страны и последние две цифры: "+7***67".
func Phone(s string) string {
	digits := strings.TrimPrefix(s, "+")
	if len(digits) < 4 {
		return "***"
	}

	return s[:len(s)-len(digits)+1] + "***" + digits[len(digits)-2:]
}

// Token возвращает безопасную метку вместо значения токена.
func Token() string { return "[REDACTED_TOKEN]" }
