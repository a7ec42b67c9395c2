package supabase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// restURL builds a REST endpoint URL for a table. Table names may contain
// spaces ("Destinasi Wisata") and must be path-escaped.
func (c *Client) restURL(table, rawQuery string) string {
	u := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, url.PathEscape(table))
	if rawQuery != "" {
		u += "?" + rawQuery
	}
	return u
}

// Select performs a filtered read against a table and returns the rows as
// generic JSON objects. When privileged is true the service-role key is
// used (directory reads only).
func (c *Client) Select(table string, query url.Values, privileged bool) ([]map[string]interface{}, error) {
	req, err := http.NewRequest(http.MethodGet, c.restURL(table, query.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create select request: %w", err)
	}
	if privileged {
		c.serviceHeaders(req)
	} else {
		c.anonHeaders(req)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send select request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read select response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Op: "select", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse select response: %w", err)
	}

	return rows, nil
}

// CountPattern issues a count query against a table, matching rows whose
// column value contains the given pattern (case-insensitive substring).
func (c *Client) CountPattern(table, column, pattern string) (int, error) {
	query := url.Values{}
	query.Set(column, "ilike.*"+pattern+"*")
	query.Set("select", "count")

	rows, err := c.Select(table, query, false)
	if err != nil {
		return 0, err
	}

	if len(rows) == 0 {
		return 0, nil
	}

	count, ok := rows[0]["count"].(float64)
	if !ok {
		return 0, fmt.Errorf("count response missing count field")
	}

	return int(count), nil
}

// InsertRow inserts a single row into a table. The backend answers 201 on
// success; any other status is surfaced with the server's error body.
func (c *Client) InsertRow(table string, row map[string]interface{}) error {
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to marshal row: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.restURL(table, ""), bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create insert request: %w", err)
	}
	c.anonHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send insert request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read insert response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return &APIError{Op: "insert", StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return nil
}

// InsertRows inserts a batch of rows in one request and returns the number
// of rows the server reports back. Partial failure is not supported: the
// batch either fully succeeds or the whole batch is reported failed.
func (c *Client) InsertRows(table string, rows []map[string]interface{}) (int, error) {
	body, err := json.Marshal(rows)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal rows: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.restURL(table, ""), bytes.NewBuffer(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create batch insert request: %w", err)
	}
	c.anonHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send batch insert request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read batch insert response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return 0, &APIError{Op: "insert", StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var inserted []map[string]interface{}
	if err := json.Unmarshal(respBody, &inserted); err != nil {
		return 0, fmt.Errorf("failed to parse batch insert response: %w", err)
	}

	return len(inserted), nil
}
