package env

import "os"

// getEnv - значение переменной окружения или значение по умолчанию
func getEnv(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
