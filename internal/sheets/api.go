package sheets

import (
	"context"

	"google.golang.org/api/sheets/v4"
)

// spreadsheetAPI is the slice of the Sheets service the writer uses.
type spreadsheetAPI interface {
	Exists(ctx context.Context, spreadsheetID string) error
	Create(ctx context.Context, title, timeZone, sheetTitle string) (id, url string, err error)
	Clear(ctx context.Context, spreadsheetID, rng string) error
	Update(ctx context.Context, spreadsheetID, rng string, values [][]any) error
	BatchUpdate(ctx context.Context, spreadsheetID string, requests []*sheets.Request) error
}

type googleAPI struct {
	srv *sheets.Service
}

func (g googleAPI) Exists(ctx context.Context, spreadsheetID string) error {
	_, err := g.srv.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	return err
}

func (g googleAPI) Create(ctx context.Context, title, timeZone, sheetTitle string) (string, string, error) {
	created, err := g.srv.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title, TimeZone: timeZone},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: sheetTitle}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", "", err
	}
	return created.SpreadsheetId, created.SpreadsheetUrl, nil
}

func (g googleAPI) Clear(ctx context.Context, spreadsheetID, rng string) error {
	_, err := g.srv.Spreadsheets.Values.Clear(spreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (g googleAPI) Update(ctx context.Context, spreadsheetID, rng string, values [][]any) error {
	_, err := g.srv.Spreadsheets.Values.Update(spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	return err
}

func (g googleAPI) BatchUpdate(ctx context.Context, spreadsheetID string, requests []*sheets.Request) error {
	_, err := g.srv.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}
