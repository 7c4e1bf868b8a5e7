// Package notion implements the record-store adapter against the Notion API.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dueminder/internal/domain"
)

const (
	defaultBaseURL = "https://api.notion.com"
	apiVersion     = "2022-06-28"
	queryPageSize  = 100
)

// Client issues database queries with a bearer token.
type Client struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewClient wires an HTTP client; a nil client gets a 20s timeout default.
func NewClient(token string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{token: token, baseURL: defaultBaseURL, client: client}
}

type dateCondition struct {
	OnOrAfter  string `json:"on_or_after,omitempty"`
	OnOrBefore string `json:"on_or_before,omitempty"`
}

type propertyFilter struct {
	Property string         `json:"property"`
	Date     *dateCondition `json:"date,omitempty"`
}

type queryFilter struct {
	And []propertyFilter `json:"and"`
}

type querySort struct {
	Property  string `json:"property"`
	Direction string `json:"direction"`
}

type queryRequest struct {
	Filter      *queryFilter `json:"filter,omitempty"`
	Sorts       []querySort  `json:"sorts,omitempty"`
	StartCursor string       `json:"start_cursor,omitempty"`
	PageSize    int          `json:"page_size,omitempty"`
}

type richText struct {
	PlainText string `json:"plain_text"`
}

type dateValue struct {
	Start string `json:"start"`
}

type option struct {
	Name string `json:"name"`
}

type property struct {
	Type   string     `json:"type"`
	Title  []richText `json:"title"`
	Date   *dateValue `json:"date"`
	Select *option    `json:"select"`
	Status *option    `json:"status"`
}

type page struct {
	ID         string              `json:"id"`
	Properties map[string]property `json:"properties"`
}

type queryResponse struct {
	Results    []page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// QueryDue fetches every record of the database whose due attribute lies in
// [start, end], ordered ascending by that attribute. The store is asked for
// the ordering; ties keep its natural order and are never re-sorted here.
// Pagination cursors are followed until the store reports no more pages.
func (c *Client) QueryDue(ctx context.Context, databaseID, dueAttr string, start, end time.Time) ([]domain.Record, error) {
	req := queryRequest{
		Filter: &queryFilter{And: []propertyFilter{
			{Property: dueAttr, Date: &dateCondition{OnOrAfter: start.Format("2006-01-02")}},
			{Property: dueAttr, Date: &dateCondition{OnOrBefore: end.Format("2006-01-02")}},
		}},
		Sorts:    []querySort{{Property: dueAttr, Direction: "ascending"}},
		PageSize: queryPageSize,
	}

	var records []domain.Record
	for {
		resp, err := c.queryPage(ctx, databaseID, req)
		if err != nil {
			return nil, err
		}
		for _, p := range resp.Results {
			records = append(records, toRecord(p))
		}
		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		req.StartCursor = resp.NextCursor
	}
	return records, nil
}

func (c *Client) queryPage(ctx context.Context, databaseID string, query queryRequest) (queryResponse, error) {
	data, err := json.Marshal(query)
	if err != nil {
		return queryResponse{}, fmt.Errorf("encode query: %w", err)
	}

	url := fmt.Sprintf("%s/v1/databases/%s/query", c.baseURL, databaseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return queryResponse{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return queryResponse{}, fmt.Errorf("query database: %w", err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode >= 300 {
		return queryResponse{}, fmt.Errorf("query database status=%d body=%s", res.StatusCode, string(body))
	}

	var payload queryResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return queryResponse{}, fmt.Errorf("decode query response: %w", err)
	}
	return payload, nil
}

func toRecord(p page) domain.Record {
	attrs := make(map[string]domain.Attribute, len(p.Properties))
	for name, prop := range p.Properties {
		attrs[name] = toAttribute(prop)
	}
	return domain.Record{ID: p.ID, Attrs: attrs}
}

func toAttribute(prop property) domain.Attribute {
	switch prop.Type {
	case "title":
		fragments := make([]string, 0, len(prop.Title))
		for _, rt := range prop.Title {
			fragments = append(fragments, rt.PlainText)
		}
		return domain.Attribute{Kind: domain.KindTitle, Fragments: fragments}
	case "date":
		attr := domain.Attribute{Kind: domain.KindDate}
		if prop.Date != nil {
			if t, ok := parseDate(prop.Date.Start); ok {
				attr.Date = &t
			}
		}
		return attr
	case "select":
		attr := domain.Attribute{Kind: domain.KindSelect}
		if prop.Select != nil {
			attr.Label = prop.Select.Name
		}
		return attr
	case "status":
		attr := domain.Attribute{Kind: domain.KindStatus}
		if prop.Status != nil {
			attr.Label = prop.Status.Name
		}
		return attr
	default:
		return domain.Attribute{Kind: domain.KindUnknown}
	}
}

// parseDate accepts the store's two date shapes: a bare day or a full
// timestamp.
func parseDate(value string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}
