// Package notion 封装对Notion REST API的访问
// 每次出站调用前通过令牌桶限速，与Notion的请求频率限制保持距离
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Alucardzh/notion-works/config"
	apperrors "github.com/Alucardzh/notion-works/internal/errors"
	"github.com/Alucardzh/notion-works/internal/logger"
	"github.com/juju/ratelimit"
)

// Client Notion API客户端
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	version    string
	bucket     *ratelimit.Bucket
}

// apiError Notion API错误响应体
type apiError struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// searchRequest 搜索请求体
type searchRequest struct {
	Filter searchFilter `json:"filter"`
}

// searchFilter 搜索过滤条件
type searchFilter struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

// listResponse 列表类响应体，results保留原始对象
type listResponse struct {
	Results    []map[string]interface{} `json:"results"`
	HasMore    bool                     `json:"has_more"`
	NextCursor string                   `json:"next_cursor"`
}

// NewClient 创建Notion API客户端
// 限速间隔由配置决定，默认两次调用之间至少间隔500毫秒
func NewClient(cfg config.NotionConfig) *Client {
	interval := time.Duration(cfg.RateLimit * float64(time.Second))
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		version:    cfg.Version,
		bucket:     ratelimit.NewBucket(interval, 1),
	}
}

// ListDatabases 列出工作空间中的所有数据库
func (c *Client) ListDatabases(ctx context.Context) ([]Database, error) {
	body := searchRequest{Filter: searchFilter{Property: "object", Value: "database"}}

	var resp listResponse
	if err := c.do(ctx, http.MethodPost, "/v1/search", body, &resp); err != nil {
		return nil, err
	}

	databases := make([]Database, 0, len(resp.Results))
	for _, result := range resp.Results {
		databases = append(databases, Database(result))
	}
	return databases, nil
}

// ListPages 列出工作空间中的所有页面
func (c *Client) ListPages(ctx context.Context) ([]Page, error) {
	body := searchRequest{Filter: searchFilter{Property: "object", Value: "page"}}

	var resp listResponse
	if err := c.do(ctx, http.MethodPost, "/v1/search", body, &resp); err != nil {
		return nil, err
	}

	return pagesOf(resp.Results), nil
}

// QueryDatabase 获取指定数据库的全部页面
func (c *Client) QueryDatabase(ctx context.Context, databaseID string) ([]Page, error) {
	path := fmt.Sprintf("/v1/databases/%s/query", databaseID)

	var resp listResponse
	if err := c.do(ctx, http.MethodPost, path, map[string]interface{}{}, &resp); err != nil {
		return nil, err
	}

	return pagesOf(resp.Results), nil
}

// QueryDatabaseWithFilter 根据属性值筛选数据库内容
// filterType为Notion筛选条件类型（equals、contains、greater_than等）
func (c *Client) QueryDatabaseWithFilter(
	ctx context.Context, databaseID, filterProperty string,
	filterValue interface{}, filterType string,
) ([]Page, error) {
	path := fmt.Sprintf("/v1/databases/%s/query", databaseID)
	body := map[string]interface{}{
		"filter": map[string]interface{}{
			"property": filterProperty,
			filterType: filterValue,
		},
	}

	var resp listResponse
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}

	return pagesOf(resp.Results), nil
}

// GetDatabaseSchema 获取数据库的属性模式
func (c *Client) GetDatabaseSchema(ctx context.Context, databaseID string) (map[string]interface{}, error) {
	path := fmt.Sprintf("/v1/databases/%s", databaseID)

	var resp map[string]interface{}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	properties, _ := resp["properties"].(map[string]interface{})
	return properties, nil
}

// UpdateDatabaseProperties 更新数据库属性定义
// 属性值为nil时表示删除该属性
func (c *Client) UpdateDatabaseProperties(ctx context.Context, databaseID string, properties map[string]interface{}) error {
	path := fmt.Sprintf("/v1/databases/%s", databaseID)
	body := map[string]interface{}{"properties": properties}
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

// UpdatePageText 更新页面指定rich_text属性的文本内容
func (c *Client) UpdatePageText(ctx context.Context, pageID, textProperty, textContent string) error {
	path := fmt.Sprintf("/v1/pages/%s", pageID)
	body := map[string]interface{}{
		"properties": map[string]interface{}{
			textProperty: map[string]interface{}{
				"rich_text": []map[string]interface{}{
					{
						"type": "text",
						"text": map[string]interface{}{
							"content": textContent,
						},
					},
				},
			},
		},
	}
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

// GetPageBlocks 获取页面的内容块列表
func (c *Client) GetPageBlocks(ctx context.Context, pageID string) ([]Block, error) {
	path := fmt.Sprintf("/v1/blocks/%s/children", pageID)

	var resp listResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	blocks := make([]Block, 0, len(resp.Results))
	for _, result := range resp.Results {
		blocks = append(blocks, Block(result))
	}
	return blocks, nil
}

// do 执行一次API调用
// 调用前等待令牌桶放行，非2xx响应解析Notion错误体并归一化为应用错误
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if c.token == "" {
		return apperrors.NewByCode(apperrors.ErrNotionTokenMissing)
	}

	// 限速等待，保证两次调用之间的最小间隔
	c.bucket.Wait(1)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.WrapByCode(apperrors.ErrNotionRequest, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.WrapByCode(apperrors.ErrNotionRequest, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Errorf("Notion API请求失败: %s %s, 错误: %v", method, path, err)
		return apperrors.WrapByCode(apperrors.ErrNotionRequest, err)
	}
	defer resp.Body.Close()

	logger.Debugf("Notion API调用: %s %s, 状态: %d, 耗时: %s",
		method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.WrapByCode(apperrors.ErrNotionDecode, err)
	}
	return nil
}

// decodeError 将Notion错误响应归一化为应用错误
func (c *Client) decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	var apiErr apiError
	detail := fmt.Sprintf("notion api returned status %d", resp.StatusCode)
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Message != "" {
		detail = apiErr.Message
	}

	code := apperrors.ErrNotionRequest
	switch apiErr.Code {
	case "unauthorized", "restricted_resource":
		code = apperrors.ErrNotionUnauthorized
	case "object_not_found":
		code = apperrors.ErrNotionObjectMissing
	case "rate_limited":
		code = apperrors.ErrNotionRateLimited
	default:
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			code = apperrors.ErrNotionUnauthorized
		case http.StatusNotFound:
			code = apperrors.ErrNotionObjectMissing
		case http.StatusTooManyRequests:
			code = apperrors.ErrNotionRateLimited
		}
	}

	return apperrors.NewByCode(code).WithDetails(detail)
}

// pagesOf 将原始结果列表转换为页面对象列表
func pagesOf(results []map[string]interface{}) []Page {
	pages := make([]Page, 0, len(results))
	for _, result := range results {
		pages = append(pages, Page(result))
	}
	return pages
}
