package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Amount — денежная сумма. DRF сериализует DecimalField то числом, то строкой
// в зависимости от настроек, поэтому принимаем оба варианта.
type Amount float64

// UnmarshalJSON принимает число или строку с числом.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*a = Amount(v)
	return nil
}

// MarshalJSON всегда пишет число.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(a))
}
