package sheets

import (
	"context"
	"errors"
	"fmt"

	"sheet_data/internal/config"
	"sheet_data/internal/retry"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ErrSheetNotFound is returned when a spreadsheet has no sheet with the
// requested title.
var ErrSheetNotFound = errors.New("sheet not found")

type Client struct {
	service    *sheets.Service
	resilience config.ResilienceConfig
}

func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	return NewClientWithOptions(ctx, config.DefaultResilienceConfig,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope))
}

func NewClientWithOptions(ctx context.Context, resilience config.ResilienceConfig, opts ...option.ClientOption) (*Client, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service:    service,
		resilience: resilience,
	}, nil
}

// ReadSheet returns the unformatted values of range_, row by row. Numbers
// come back as float64 and booleans as bool. The API trims trailing empty
// rows and cells.
func (c *Client) ReadSheet(ctx context.Context, spreadsheetID, range_ string) ([][]interface{}, error) {
	return retry.WithRetry(ctx, c.resilience.SheetRead, func(ctx context.Context) ([][]interface{}, error) {
		resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, range_).
			ValueRenderOption("UNFORMATTED_VALUE").
			DateTimeRenderOption("SERIAL_NUMBER").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet: %w", err)
		}
		return resp.Values, nil
	})
}

// ReadColumn returns the unformatted values of a single-column range.
func (c *Client) ReadColumn(ctx context.Context, spreadsheetID, range_ string) ([]interface{}, error) {
	return retry.WithRetry(ctx, c.resilience.SheetProbe, func(ctx context.Context) ([]interface{}, error) {
		resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, range_).
			MajorDimension("COLUMNS").
			ValueRenderOption("UNFORMATTED_VALUE").
			DateTimeRenderOption("SERIAL_NUMBER").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to read column: %w", err)
		}
		if len(resp.Values) == 0 {
			return nil, nil
		}
		return resp.Values[0], nil
	})
}

// SheetProperties looks up a sheet by title.
func (c *Client) SheetProperties(ctx context.Context, spreadsheetID, sheetName string) (*sheets.SheetProperties, error) {
	spreadsheet, err := retry.WithRetry(ctx, c.resilience.SheetMetadata, func(ctx context.Context) (*sheets.Spreadsheet, error) {
		resp, err := c.service.Spreadsheets.Get(spreadsheetID).
			Fields("sheets.properties").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get spreadsheet: %w", err)
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == sheetName {
			log.Debug().
				Str("sheet", sheetName).
				Int64("sheet_id", sheet.Properties.SheetId).
				Msg("Found sheet properties")
			return sheet.Properties, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in spreadsheet %s", ErrSheetNotFound, sheetName, spreadsheetID)
}
