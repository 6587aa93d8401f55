package req

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Decode читает тело запроса в T. Неизвестные поля и лишние данные после объекта - ошибка
func Decode[T any](body io.Reader) (T, error) {
	var payload T

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&payload); err != nil {
		return payload, fmt.Errorf("invalid request body: %w", err)
	}
	if dec.More() {
		return payload, errors.New("invalid request body: unexpected data after object")
	}

	return payload, nil
}
