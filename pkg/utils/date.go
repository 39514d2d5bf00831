package utils

import "time"

const DateLayout = "2006-01-02"

// ParseDate retorna nil para string vazia. A data vira meia-noite UTC.
func ParseDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	date, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return nil, err
	}

	return &date, nil
}

// EndOfDay retorna o último instante, em UTC, do dia civil de t no fuso de t.
// Usa o mesmo referencial de ParseDate para que datas sem hora sejam comparáveis.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}
