package airtable

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

const contentType = "application/json"

type listResponse struct {
	Records []*Record `json:"records"`
	Offset  string    `json:"offset"`
}

type recordPayload struct {
	Fields map[string]any `json:"fields"`
}

// StatusError is returned for non-2xx API responses.
type StatusError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("airtable: status %d (%s): %s", e.StatusCode, e.Type, e.Message)
	}
	if e.Type != "" {
		return fmt.Sprintf("airtable: status %d (%s)", e.StatusCode, e.Type)
	}
	return fmt.Sprintf("airtable: status %d", e.StatusCode)
}

// IsNotFound reports whether err is an API response with status 404.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

// Select makes a list request filtered by the given formula and returns the
// records from all pages. An empty formula returns the whole table.
func (t *Table) Select(formula string) ([]*Record, error) {
	c := t.client

	q := url.Values{}
	q.Set("pageSize", pageSize)
	if formula != "" {
		q.Set("filterByFormula", formula)
	}

	records := make([]*Record, 0)
	for {
		var page listResponse
		if err := c.do(http.MethodGet, t.recordURL(""), q, nil, &page); err != nil {
			return nil, err
		}

		records = append(records, page.Records...)

		if page.Offset == "" {
			break
		}

		c.logger.Debug("additional request needed", zap.String("reason", fmt.Sprintf(
			"offset cursor returned after %d records", len(records)),
		))
		q.Set("offset", page.Offset)
	}

	return records, nil
}

// Get fetches a single record by its internal identifier.
func (t *Table) Get(id string) (*Record, error) {
	var record Record
	if err := t.client.do(http.MethodGet, t.recordURL(id), nil, nil, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

// Create inserts a record with the given fields.
func (t *Table) Create(fields map[string]any) (*Record, error) {
	var record Record
	if err := t.client.do(http.MethodPost, t.recordURL(""), nil, &recordPayload{Fields: fields}, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

// Update patches the given fields on a record, leaving others untouched.
func (t *Table) Update(id string, fields map[string]any) (*Record, error) {
	var record Record
	if err := t.client.do(http.MethodPatch, t.recordURL(id), nil, &recordPayload{Fields: fields}, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

// DeleteRecords deletes the given records, chunked to the API's batch limit.
func (t *Table) DeleteRecords(ids []string) error {
	for len(ids) > 0 {
		batch := ids
		if len(batch) > maxBatchSize {
			batch = ids[:maxBatchSize]
		}
		ids = ids[len(batch):]

		q := url.Values{}
		for _, id := range batch {
			q.Add("records[]", id)
		}

		if err := t.client.do(http.MethodDelete, t.recordURL(""), q, nil, nil); err != nil {
			return err
		}

		t.client.logger.Debug("deleted record batch",
			zap.String("table", t.name),
			zap.Int("count", len(batch)),
		)
	}

	return nil
}

func (t *Table) recordURL(recordID string) string {
	u := fmt.Sprintf("%s/%s/%s", t.client.APIURL, t.client.baseID, url.PathEscape(t.name))
	if recordID != "" {
		u += "/" + recordID
	}

	return u
}

func (c *Client) do(method, rawURL string, q url.Values, payload, target any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(c.ctx, method, rawURL, body)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	if payload != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	c.logger.Debug("make request", zap.String("method", method), zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return newStatusError(resp.StatusCode, data)
	}

	if target == nil {
		return nil
	}

	return json.Unmarshal(data, target)
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("User-Agent", c.UserAgent)

	return req
}

// newStatusError parses the API error envelope, which is either an object
// with type and message or a bare string.
func newStatusError(code int, data []byte) *StatusError {
	statusErr := &StatusError{StatusCode: code}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || len(envelope.Error) == 0 {
		return statusErr
	}

	var details struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &details); err == nil {
		statusErr.Type = details.Type
		statusErr.Message = details.Message
		return statusErr
	}

	var kind string
	if err := json.Unmarshal(envelope.Error, &kind); err == nil {
		statusErr.Type = kind
	}

	return statusErr
}
