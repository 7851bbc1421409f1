package clients

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

// Полные имена методов content.v1.ContentService.
const (
	serviceName          = "content.v1.ContentService"
	methodListCategories = "/" + serviceName + "/ListCategories"
	methodGetPost        = "/" + serviceName + "/GetPost"
	methodSearchPosts    = "/" + serviceName + "/SearchPosts"
	methodIncrementViews = "/" + serviceName + "/IncrementViews"
)

// Сообщения content.v1 в JSON-представлении.

type ListCategoriesRequest struct{}

type ListCategoriesResponse struct {
	Categories []CategoryMsg `json:"categories"`
}

type CategoryMsg struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type GetPostRequest struct {
	ID string `json:"id"`
}

type GetPostResponse struct {
	Post *PostMsg `json:"post"`
}

type PostMsg struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	Content     string    `json:"content,omitempty"`
	Category    string    `json:"category,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Author      string    `json:"author,omitempty"`
	Views       int64     `json:"views"`
	PublishedAt time.Time `json:"published_at"`
}

// SearchPostsRequest — запрос ленты/поиска.
// StartDate/EndDate — YYYY-MM-DD; пустые значения — без ограничения.
// ExcludeIDs — id через запятую.
type SearchPostsRequest struct {
	Category   string `json:"category,omitempty"`
	Query      string `json:"query,omitempty"`
	Page       int    `json:"page,omitempty"`
	Size       int    `json:"size,omitempty"`
	Sort       string `json:"sort,omitempty"`
	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date,omitempty"`
	ExcludeIDs string `json:"exclude_ids,omitempty"`
}

type SearchPostsResponse struct {
	Items     []PostMsg `json:"items"`
	TotalItem int64     `json:"total_item"`
	TotalPage int64     `json:"total_page"`
}

type IncrementViewsRequest struct {
	ID string `json:"id"`
}

type IncrementViewsResponse struct {
	Views int64 `json:"views"`
}

// ContentServiceClient — клиент content.v1.ContentService.
type ContentServiceClient interface {
	ListCategories(ctx context.Context, in *ListCategoriesRequest, opts ...grpc.CallOption) (*ListCategoriesResponse, error)
	GetPost(ctx context.Context, in *GetPostRequest, opts ...grpc.CallOption) (*GetPostResponse, error)
	SearchPosts(ctx context.Context, in *SearchPostsRequest, opts ...grpc.CallOption) (*SearchPostsResponse, error)
	IncrementViews(ctx context.Context, in *IncrementViewsRequest, opts ...grpc.CallOption) (*IncrementViewsResponse, error)
}

type contentServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewContentServiceClient оборачивает соединение в клиент ContentService.
// Все вызовы идут с content-subtype json.
func NewContentServiceClient(cc grpc.ClientConnInterface) ContentServiceClient {
	return &contentServiceClient{cc: cc}
}

func (c *contentServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *contentServiceClient) ListCategories(ctx context.Context, in *ListCategoriesRequest, opts ...grpc.CallOption) (*ListCategoriesResponse, error) {
	out := new(ListCategoriesResponse)
	if err := c.invoke(ctx, methodListCategories, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *contentServiceClient) GetPost(ctx context.Context, in *GetPostRequest, opts ...grpc.CallOption) (*GetPostResponse, error) {
	out := new(GetPostResponse)
	if err := c.invoke(ctx, methodGetPost, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *contentServiceClient) SearchPosts(ctx context.Context, in *SearchPostsRequest, opts ...grpc.CallOption) (*SearchPostsResponse, error) {
	out := new(SearchPostsResponse)
	if err := c.invoke(ctx, methodSearchPosts, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *contentServiceClient) IncrementViews(ctx context.Context, in *IncrementViewsRequest, opts ...grpc.CallOption) (*IncrementViewsResponse, error) {
	out := new(IncrementViewsResponse)
	if err := c.invoke(ctx, methodIncrementViews, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
