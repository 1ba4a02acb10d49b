package sheets

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Temutjin2k/miletracker/internal/domain/models"
	"github.com/Temutjin2k/miletracker/internal/domain/types"
	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
	"github.com/Temutjin2k/miletracker/pkg/metrics"
)

const (
	// maxBody caps the CSV export we are willing to read.
	maxBody = 8 << 20

	fallbackDriverCol   = 1
	fallbackOdometerCol = 2

	unknownDriver = "Unknown"
	zeroReading   = "0"
)

var ErrEmptySheet = errors.New("sheet has no header row")

// Client reads the CSV export of the shared spreadsheet.
type Client struct {
	url        string
	httpClient *http.Client
	// odometerFieldID also marks the mileage column when the header echoes the form field.
	odometerFieldID string
}

func New(url string, timeout time.Duration, odometerFieldID string) *Client {
	return &Client{
		url:             url,
		httpClient:      &http.Client{Timeout: timeout},
		odometerFieldID: strings.TrimPrefix(odometerFieldID, "entry."),
	}
}

// FetchTable downloads and parses the sheet.
func (c *Client) FetchTable(ctx context.Context) (models.MirrorTable, error) {
	const op = "sheets.Client.FetchTable"
	start := time.Now()

	table, err := c.fetch(ctx)
	metrics.RecordMirrorFetch(err, time.Since(start))
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return models.MirrorTable{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return table, nil
}

func (c *Client) fetch(ctx context.Context) (models.MirrorTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return models.MirrorTable{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.MirrorTable{}, fmt.Errorf("failed to fetch sheet data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.MirrorTable{}, fmt.Errorf("unexpected response status %d", resp.StatusCode)
	}

	return ParseCSV(io.LimitReader(resp.Body, maxBody))
}

// Latest returns the snapshot of the last data row. found is false for a sheet with only a header.
func (c *Client) Latest(ctx context.Context) (models.MirrorSnapshot, bool, error) {
	table, err := c.FetchTable(ctx)
	if err != nil {
		return models.MirrorSnapshot{}, false, err
	}
	snap, found := LatestFromTable(table, c.odometerFieldID)
	return snap, found, nil
}

// ParseCSV splits a CSV document into header and rows. Blank trailing lines are dropped.
func ParseCSV(r io.Reader) (models.MirrorTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return models.MirrorTable{}, fmt.Errorf("parse csv: %w", err)
	}

	for len(records) > 0 && isBlank(records[len(records)-1]) {
		records = records[:len(records)-1]
	}
	if len(records) == 0 {
		return models.MirrorTable{}, ErrEmptySheet
	}

	return models.MirrorTable{Header: records[0], Rows: records[1:]}, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// LatestFromTable reads the driver and reading from the last row. Columns are found by
// header keyword ("user" or "name" for the driver, "mileage" or the form field id for the
// reading) and fall back to indices 1 and 2.
func LatestFromTable(t models.MirrorTable, odometerFieldID string) (models.MirrorSnapshot, bool) {
	if len(t.Rows) == 0 {
		return models.MirrorSnapshot{}, false
	}
	last := t.Rows[len(t.Rows)-1]

	nameIdx := headerIndex(t.Header, "user", "name")
	if nameIdx < 0 {
		nameIdx = fallbackDriverCol
	}
	keys := []string{"mileage"}
	if odometerFieldID != "" {
		keys = append(keys, strings.ToLower(odometerFieldID))
	}
	mileIdx := headerIndex(t.Header, keys...)
	if mileIdx < 0 {
		mileIdx = fallbackOdometerCol
	}

	driver := cell(last, nameIdx)
	if driver == "" {
		driver = unknownDriver
	}
	raw := cell(last, mileIdx)
	if raw == "" {
		raw = zeroReading
	}

	snap := models.MirrorSnapshot{
		DriverName:  cleanCell(driver),
		RawOdometer: strings.ReplaceAll(cleanCell(raw), ",", ""),
	}
	if v, ok := parseReading(snap.RawOdometer); ok {
		snap.Odometer = v
		snap.OdometerKnown = true
	}
	return snap, true
}

func headerIndex(header []string, keywords ...string) int {
	for i, h := range header {
		h = strings.ToLower(h)
		for _, k := range keywords {
			if strings.Contains(h, k) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// cleanCell strips one surrounding quote on each side and then spaces.
func cleanCell(s string) string {
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return strings.TrimSpace(s)
}
