package client

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"banneradmin/internal/model"
	"banneradmin/pkg/logger"
)

// 错误响应体最多保留的字节数
const maxErrorBody = 1024

// APIError 后端返回非2xx状态码
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}

// BannerClient Banner后端REST客户端
type BannerClient struct {
	bannersURL string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewBannerClient 创建客户端，bannersURL 指向 <base>/banners
func NewBannerClient(bannersURL string, timeout time.Duration, logger *logger.Logger) *BannerClient {
	return &BannerClient{
		bannersURL: strings.TrimRight(bannersURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// List 获取全部banner，过滤暂停状态并按 order 降序排列
func (c *BannerClient) List(ctx context.Context) ([]model.Banner, error) {
	var banners []model.Banner
	if err := c.do(ctx, http.MethodGet, c.bannersURL, nil, &banners); err != nil {
		return nil, err
	}
	return VisibleSorted(banners), nil
}

// Get 按ID获取单个banner
func (c *BannerClient) Get(ctx context.Context, id string) (*model.Banner, error) {
	var banner model.Banner
	if err := c.do(ctx, http.MethodGet, c.itemURL(id), nil, &banner); err != nil {
		return nil, err
	}
	return &banner, nil
}

// Create 创建banner，返回带ID的服务端表示
func (c *BannerClient) Create(ctx context.Context, banner model.Banner) (*model.Banner, error) {
	banner.ID = ""
	var created model.Banner
	if err := c.do(ctx, http.MethodPost, c.bannersURL, banner, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update 整体替换banner字段
func (c *BannerClient) Update(ctx context.Context, id string, banner model.Banner) (*model.Banner, error) {
	var updated model.Banner
	if err := c.do(ctx, http.MethodPut, c.itemURL(id), banner, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete 删除banner，响应体忽略
func (c *BannerClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.itemURL(id), nil, nil)
}

// VisibleSorted 去掉暂停的banner，按 order 降序，order 相同时按 id 升序
func VisibleSorted(banners []model.Banner) []model.Banner {
	visible := make([]model.Banner, 0, len(banners))
	for _, b := range banners {
		if b.Status == model.StatusPaused {
			continue
		}
		visible = append(visible, b)
	}
	slices.SortStableFunc(visible, func(a, b model.Banner) int {
		if a.Order != b.Order {
			return cmp.Compare(b.Order, a.Order)
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return visible
}

func (c *BannerClient) itemURL(id string) string {
	return c.bannersURL + "/" + url.PathEscape(id)
}

func (c *BannerClient) do(ctx context.Context, method, target string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Banner后端请求", "method", method, "url", target, "status", resp.StatusCode, "latency", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Method: method, URL: target, StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, target, err)
	}
	return nil
}
