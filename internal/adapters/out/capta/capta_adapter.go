package capta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	"github.com/suchimauz/working-days-api/internal/config"
	"github.com/suchimauz/working-days-api/internal/core/domain"
	"github.com/suchimauz/working-days-api/internal/core/ports/out"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Recognized spellings of the date field on object entries and of the array
// field on wrapper objects. Checked in order; the first present key wins.
var (
	entryDateKeys   = []string{"date", "Date", "iso", "ISO"}
	wrapperListKeys = []string{"dates", "holidays", "items"}
)

type FeedAdapter struct {
	client *http.Client
	url    string
	logger out.LoggerPort
}

func NewFeedAdapter(cfg *config.Config, logger out.LoggerPort) *FeedAdapter {
	return &FeedAdapter{
		client: &http.Client{Timeout: cfg.Holidays.FetchTimeout},
		url:    cfg.Holidays.URL,
		logger: logger,
	}
}

func (a *FeedAdapter) FetchHolidays(ctx context.Context) (domain.HolidaySet, error) {
	a.logger.Info("capta.holidays.fetch", out.LogFields{
		"url": a.url,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		a.logger.Error("capta.holidays.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("capta.holidays.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("capta.holidays.fetch_failed", out.LogFields{
			"status": resp.StatusCode,
		})
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		a.logger.Error("capta.holidays.decode_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	holidays := parsePayload(payload)

	a.logger.Debug("capta.holidays.fetch_success", out.LogFields{
		"count": holidays.Len(),
	})

	return holidays, nil
}

// parsePayload normalizes the feed's known shapes: a plain array of date
// strings, an array of objects carrying a date field, or a wrapper object
// holding a string array. Entries that do not reduce to YYYY-MM-DD are
// dropped silently; an unrecognized shape yields an empty set.
func parsePayload(payload interface{}) domain.HolidaySet {
	holidays := domain.NewHolidaySet()

	switch v := payload.(type) {
	case []interface{}:
		for _, item := range v {
			switch entry := item.(type) {
			case string:
				addCandidate(holidays, entry)
			case map[string]interface{}:
				for _, key := range entryDateKeys {
					value, exists := entry[key]
					if !exists || value == nil {
						continue
					}
					if str, ok := value.(string); ok {
						addCandidate(holidays, str)
					}
					break
				}
			}
		}
	case map[string]interface{}:
		for _, key := range wrapperListKeys {
			value, exists := v[key]
			if !exists || value == nil {
				continue
			}
			if list, ok := value.([]interface{}); ok {
				for _, item := range list {
					if str, ok := item.(string); ok {
						addCandidate(holidays, str)
					}
				}
			}
			break
		}
	}

	return holidays
}

// addCandidate truncates a date-like value to its first 10 characters and
// keeps it only if it matches the YYYY-MM-DD pattern.
func addCandidate(holidays domain.HolidaySet, value string) {
	if len(value) > 10 {
		value = value[:10]
	}
	if datePattern.MatchString(value) {
		holidays.Add(value)
	}
}
