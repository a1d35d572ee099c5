package handler

import (
	"net/http"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

func parseDateQuery(r *http.Request, key string, loc *time.Location) (*time.Time, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parseMonthQuery reads ?month=YYYY-MM, defaulting to the current month in
// loc when absent.
func parseMonthQuery(r *http.Request, loc *time.Location) (int, time.Month, error) {
	value := r.URL.Query().Get("month")
	if value == "" {
		now := time.Now().In(loc)
		return now.Year(), now.Month(), nil
	}
	parsed, err := time.ParseInLocation(monthLayout, value, loc)
	if err != nil {
		return 0, 0, err
	}
	return parsed.Year(), parsed.Month(), nil
}
