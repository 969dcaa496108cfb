package crm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	apperrors "site-integrations/internal/common/errors"
	httpx "site-integrations/internal/common/http"
	"site-integrations/internal/common/logger"
	"site-integrations/internal/common/metrics"
)

// vendor holds the plumbing shared by the HTTP adapters.
type vendor struct {
	provider Provider
	client   *httpx.Client
	logger   logger.Logger
}

func newVendor(p Provider, client *httpx.Client, log logger.Logger) vendor {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return vendor{
		provider: p,
		client:   client,
		logger:   log.WithFields(map[string]interface{}{"provider": string(p)}),
	}
}

// call sends one request and records it. Transport errors are stripped of the
// request URL since some vendors authenticate through the query string.
func (v vendor) call(ctx context.Context, operation, method, endpoint string, headers map[string]string, payload interface{}) (*httpx.Response, error) {
	resp, err := v.client.DoJSON(ctx, method, endpoint, headers, payload)
	if err != nil {
		metrics.CRMRequests.WithLabelValues(string(v.provider), operation, metrics.StatusError).Inc()
		return nil, apperrors.NewCRMRequestFailedError(string(v.provider), operation, redact(err))
	}
	status := metrics.StatusOK
	if !resp.OK() {
		status = metrics.StatusError
	}
	metrics.CRMRequests.WithLabelValues(string(v.provider), operation, status).Inc()
	return resp, nil
}

func (v vendor) warn(msg string, fields map[string]interface{}) {
	v.logger.Warn(msg, fields)
}

func (v vendor) fail(operation string, err error, fields map[string]interface{}) {
	out := map[string]interface{}{"operation": operation, "error": err}
	for k, val := range fields {
		out[k] = val
	}
	v.logger.Error("crm request failed", out)
}

// redact drops the URL from *url.Error values.
func redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s request: %w", strings.ToLower(uerr.Op), uerr.Err)
	}
	return err
}

func statusError(resp *httpx.Response) error {
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}

// jsonID reads an id that vendors send either as a number or a string.
type jsonID string

func (id *jsonID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = jsonID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = jsonID(n.String())
	return nil
}

func (id jsonID) String() string {
	return string(id)
}

// numericOrString sends numeric ids as numbers, which some vendors require.
func numericOrString(s string) interface{} {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return s
}
