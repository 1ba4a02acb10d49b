package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Temutjin2k/miletracker/internal/domain/types"
	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
)

// TimestampLayout is the form's "YYYY-MM-DD HH:mm".
const TimestampLayout = "2006-01-02 15:04"

var ErrNoEndpoint = errors.New("relay endpoint not configured")

// Fields maps the submission onto the form's input names.
type Fields struct {
	Driver    string
	Odometer  string
	Timestamp string
}

// FormRelay posts accepted readings to a web form. The response status is not checked:
// the form answers with redirects and opaque pages either way.
type FormRelay struct {
	endpoint   string
	fields     Fields
	loc        *time.Location
	httpClient *http.Client
}

func NewFormRelay(endpoint string, fields Fields, loc *time.Location, timeout time.Duration) *FormRelay {
	if loc == nil {
		loc = time.Local
	}
	return &FormRelay{
		endpoint: endpoint,
		fields:   fields,
		loc:      loc,
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Values builds the form body.
func (r *FormRelay) Values(driver string, odometer float64, at time.Time) url.Values {
	v := url.Values{}
	v.Set(r.fields.Driver, driver)
	v.Set(r.fields.Odometer, strconv.FormatFloat(odometer, 'f', -1, 64))
	v.Set(r.fields.Timestamp, at.In(r.loc).Format(TimestampLayout))
	return v
}

// Submit sends one reading. Only transport errors are reported.
func (r *FormRelay) Submit(ctx context.Context, driver string, odometer float64, at time.Time) error {
	const op = "FormRelay.Submit"

	if r.endpoint == "" {
		return ErrNoEndpoint
	}

	body := r.Values(driver, odometer, at).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, strings.NewReader(body))
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: build request: %w", op, err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: failed to post form: %w", op, err))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	return nil
}
