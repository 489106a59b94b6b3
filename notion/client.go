package notion

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"notionsync/logger"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	DefaultVersion = "2022-06-28"

	maxPageSize = 100
)

type Options struct {
	BaseURL string
	Token   string
	Version string
	Timeout time.Duration
	// Paginate 查询时跟随 next_cursor 读取所有页
	Paginate bool
	// Debug 通过 Log 输出每个请求和响应
	Debug bool
	Log   logger.Logger
}

// Client Notion REST API 客户端，只包含同步用到的三个接口
type Client struct {
	http     *resty.Client
	paginate bool
}

func NewClient(opts Options) (*Client, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("notion: token is required")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}
	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("Notion-Version", opts.Version).
		SetAuthToken(opts.Token).
		SetRetryCount(0).
		SetDebug(opts.Debug).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.Debug {
		client.SetLogger(logger.Printf{Log: logger.OrDefault(opts.Log)}).
			OnRequestLog(redactAuth)
	}
	return &Client{http: client, paginate: opts.Paginate}, nil
}

func redactAuth(rl *resty.RequestLog) error {
	if rl.Header.Get("Authorization") != "" {
		rl.Header.Set("Authorization", "Bearer <redacted>")
	}
	return nil
}

// QueryDatabase 列出数据库中的记录
func (c *Client) QueryDatabase(ctx context.Context, databaseID string) ([]Page, error) {
	var pages []Page
	req := queryRequest{PageSize: maxPageSize}
	for {
		var out queryResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetPathParam("id", databaseID).
			SetBody(req).
			SetResult(&out).
			SetError(&APIError{}).
			Post("/databases/{id}/query")
		if err := checkResponse(resp, err); err != nil {
			return nil, fmt.Errorf("query database %s: %w", databaseID, err)
		}
		pages = append(pages, out.Results...)
		if !c.paginate || !out.HasMore || out.NextCursor == nil || *out.NextCursor == "" {
			return pages, nil
		}
		req.StartCursor = *out.NextCursor
	}
}

func (c *Client) CreatePage(ctx context.Context, databaseID string, props Properties) (*Page, error) {
	var page Page
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(createPageRequest{
			Parent:     databaseParent{DatabaseID: databaseID},
			Properties: writeProperties(props),
		}).
		SetResult(&page).
		SetError(&APIError{}).
		Post("/pages")
	if err := checkResponse(resp, err); err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return &page, nil
}

func (c *Client) UpdatePage(ctx context.Context, pageID string, props Properties) (*Page, error) {
	var page Page
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", pageID).
		SetBody(updatePageRequest{Properties: writeProperties(props)}).
		SetResult(&page).
		SetError(&APIError{}).
		Patch("/pages/{id}")
	if err := checkResponse(resp, err); err != nil {
		return nil, fmt.Errorf("update page %s: %w", pageID, err)
	}
	return &page, nil
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}
	if apiErr, ok := resp.Error().(*APIError); ok && apiErr.Message != "" {
		if apiErr.Status == 0 {
			apiErr.Status = resp.StatusCode()
		}
		return apiErr
	}
	return &APIError{Object: "error", Status: resp.StatusCode(), Code: "unknown", Message: resp.Status()}
}
