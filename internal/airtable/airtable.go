package airtable

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL    = "https://api.airtable.com/v0"
	userAgent = "karev/applicant-sync"
	// Max page size for list requests.
	pageSize = "100"
	// Max records per batch delete request.
	maxBatchSize = 10
)

type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	token      string
	baseID     string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(ctx context.Context, logger *zap.Logger, token, baseID string) *Client {
	return &Client{
		ctx:    ctx,
		token:  token,
		baseID: baseID,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// Table returns a handle for the named table in the client's base.
func (c *Client) Table(name string) *Table {
	return &Table{client: c, name: name}
}

type Table struct {
	client *Client
	name   string
}

func (t *Table) Name() string {
	return t.name
}
