package utils

import "time"

const (
	// Formatos usados nos rótulos das tabelas (mesmo formato do relatório legado)
	DateLabelLayout      = "01/02/2006"
	TimestampLabelLayout = "01/02/2006 15:04:05"
)

func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	if dateStr != "" {
		incomingDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, err
		}

		date = incomingDate
	}

	return &date, nil
}

// TruncateToHour alinha um instante ao início da hora no fuso informado.
func TruncateToHour(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, loc)
}

// ParseTimestampLabel converte um rótulo de timestamp de volta para um
// instante no fuso informado.
func ParseTimestampLabel(label string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(TimestampLabelLayout, label, loc)
}
