package config

import (
	"errors"
	"net/http"
	"time"

	"sheet_data/internal/retry"

	"google.golang.org/api/googleapi"
)

type ResilienceConfig struct {
	// SheetMetadata covers spreadsheet property lookups.
	SheetMetadata retry.Config
	// SheetRead covers bulk value reads.
	SheetRead retry.Config
	// SheetProbe covers the single-column reads behind each probe.
	SheetProbe retry.Config
}

var DefaultResilienceConfig = ResilienceConfig{
	SheetMetadata: retry.Config{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    15 * time.Second,
		Retryable:  IsRetryableAPIError,
	},
	SheetRead: retry.Config{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    15 * time.Second,
		Retryable:  IsRetryableAPIError,
	},
	SheetProbe: retry.Config{
		MaxRetries: 5,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    10 * time.Second,
		Retryable:  IsRetryableAPIError,
	},
}

// NoRetryConfig makes a single attempt per call.
var NoRetryConfig = ResilienceConfig{
	SheetMetadata: retry.Config{Timeout: 15 * time.Second},
	SheetRead:     retry.Config{Timeout: 15 * time.Second},
	SheetProbe:    retry.Config{Timeout: 10 * time.Second},
}

// IsRetryableAPIError treats rate limiting, server errors and transport
// failures as transient. Other HTTP statuses from the API are permanent.
func IsRetryableAPIError(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return true
	}
	return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
}
