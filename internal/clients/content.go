// clients — транспорт к бэкенду контента (content.v1.ContentService).
//
// Content реализует контракт загрузки сегментов (synchronizer.Fetcher) и
// инкремент просмотров (viewcount.Incrementer). Ошибки gRPC переводятся в
// таксономию сегментов: отмена, сеть, not-found, ошибка сервера.
package clients

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/pribylovaa/news-portal/internal/clients/interceptors"
	"github.com/pribylovaa/news-portal/internal/config"
	"github.com/pribylovaa/news-portal/internal/models"
	"github.com/pribylovaa/news-portal/internal/segment"
)

const (
	userAgent  = "portal-gateway"
	dateLayout = "2006-01-02"
)

// Content — клиент бэкенда контента.
type Content struct {
	api     ContentServiceClient
	limiter *rate.Limiter
	policy  *bluemonday.Policy
	now     func() time.Time

	conn *grpc.ClientConn
}

// New создаёт gRPC-коннект к бэкенду контента и клиент поверх него.
func New(cfg config.Config, log *slog.Logger) (*Content, error) {
	const op = "clients.New"

	addr := cfg.GRPC.ContentAddr
	if addr == "" {
		return nil, fmt.Errorf("%s: empty content addr", op)
	}

	grpc_prometheus.EnableClientHandlingTimeHistogram()

	// Цепочка клиентских интерсепторов: metadata -> timeout -> logging -> metrics.
	conn, err := grpc.NewClient(
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(
			interceptors.ClientWithMetadata(userAgent),
			interceptors.ClientWithTimeout(cfg.Timeouts.Service),
			interceptors.ClientUnaryLoggingInterceptor(log),
			grpc_prometheus.UnaryClientInterceptor,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: content dial: %w", op, err)
	}

	c := NewContent(NewContentServiceClient(conn), rate.NewLimiter(rate.Limit(cfg.Fetch.RPS), cfg.Fetch.Burst))
	c.conn = conn

	return c, nil
}

// NewContent создаёт клиент поверх готового ContentServiceClient.
// limiter == nil — без ограничения частоты.
func NewContent(api ContentServiceClient, limiter *rate.Limiter) *Content {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}

	return &Content{
		api:     api,
		limiter: limiter,
		policy:  bluemonday.UGCPolicy(),
		now:     time.Now,
	}
}

// Close закрывает коннект, если клиент его создавал.
func (c *Content) Close() error {
	if c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Categories возвращает рубрики портала.
func (c *Content) Categories(ctx context.Context) ([]models.Category, error) {
	const op = "clients.Content.Categories"

	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.api.ListCategories(ctx, &ListCategoriesRequest{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(ctx, err))
	}

	out := make([]models.Category, 0, len(resp.Categories))
	for _, cat := range resp.Categories {
		out = append(out, models.Category{ID: cat.ID, Name: cat.Name, Slug: cat.Slug})
	}

	return out, nil
}

// Post возвращает публикацию по id.
func (c *Content) Post(ctx context.Context, id string) (*models.Post, error) {
	const op = "clients.Content.Post"

	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.api.GetPost(ctx, &GetPostRequest{ID: id})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(ctx, err))
	}
	if resp.Post == nil {
		return nil, fmt.Errorf("%s: post %q: %w", op, id, segment.ErrNotFound)
	}

	p := c.post(*resp.Post)
	return &p, nil
}

// Search возвращает страницу ленты или поиска по фильтрам сегмента.
func (c *Content) Search(ctx context.Context, f segment.Filters) (*models.PostPage, error) {
	const op = "clients.Content.Search"

	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.api.SearchPosts(ctx, c.searchRequest(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(ctx, err))
	}

	page := &models.PostPage{
		Items: make([]models.Post, 0, len(resp.Items)),
		Pagination: models.Pagination{
			TotalItem: resp.TotalItem,
			TotalPage: resp.TotalPage,
		},
	}
	for _, it := range resp.Items {
		page.Items = append(page.Items, c.post(it))
	}

	return page, nil
}

// IncrementViews увеличивает счётчик просмотров публикации.
func (c *Content) IncrementViews(ctx context.Context, id string) error {
	const op = "clients.Content.IncrementViews"

	if err := c.wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := c.api.IncrementViews(ctx, &IncrementViewsRequest{ID: id}); err != nil {
		return fmt.Errorf("%s: %w", op, classify(ctx, err))
	}

	return nil
}

// wait ждёт токен лимитера исходящих вызовов.
func (c *Content) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return classify(ctx, err)
	}

	return nil
}

func (c *Content) searchRequest(f segment.Filters) *SearchPostsRequest {
	req := &SearchPostsRequest{
		Category:   f.Category,
		Query:      f.Query,
		Page:       f.Page,
		Size:       f.Size,
		Sort:       string(f.Sort),
		ExcludeIDs: f.ExcludeIDs,
	}

	if days := f.TimeRange.Days(); days > 0 {
		now := c.now().UTC()
		req.StartDate = now.AddDate(0, 0, -days).Format(dateLayout)
		req.EndDate = now.Format(dateLayout)
	}

	return req
}

// post переводит сообщение в доменную модель; HTML тела очищается.
func (c *Content) post(m PostMsg) models.Post {
	return models.Post{
		ID:          m.ID,
		Title:       m.Title,
		Slug:        m.Slug,
		Summary:     m.Summary,
		Content:     c.policy.Sanitize(m.Content),
		Category:    m.Category,
		Thumbnail:   m.Thumbnail,
		Author:      m.Author,
		Views:       m.Views,
		PublishedAt: m.PublishedAt.UTC(),
	}
}
