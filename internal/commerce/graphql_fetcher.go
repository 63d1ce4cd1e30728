package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront/internal/logger"
	"storefront/internal/models"
)

// GraphQLFetcher reads the catalog through WPGraphQL with the WooGraphQL extension.
type GraphQLFetcher struct {
	client Client
	logger *logger.Logger
}

var _ Fetcher = (*GraphQLFetcher)(nil)

// NewGraphQLFetcher creates a fetcher on top of a GraphQL client.
func NewGraphQLFetcher(client Client, log *logger.Logger) *GraphQLFetcher {
	if log == nil {
		log = logger.NewNop()
	}

	return &GraphQLFetcher{client: client, logger: log}
}

// FetchCategoryProducts implements Fetcher.
func (f *GraphQLFetcher) FetchCategoryProducts(ctx context.Context, slug string, first int) ([]models.RawProduct, error) {
	resp, err := f.client.Execute(ctx, ProductsByCategoryQuery, map[string]any{
		"category": slug,
		"first":    first,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category %s: %w", slug, err)
	}

	data, err := UnmarshalGraphQLData[struct {
		Products *connection[json.RawMessage] `json:"products"`
	}](resp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category %s: %w", slug, err)
	}

	if data.Products == nil {
		return nil, fmt.Errorf("failed to fetch category %s: %w", slug, ErrNoData)
	}

	products := decodeProductNodes(data.Products.Nodes)
	f.logger.Debug("fetched category products", "category", slug, "count", len(products))

	return products, nil
}

// FetchProduct implements Fetcher. Numeric IDs are database IDs; other values
// are tried as global IDs when they decode as such and as slugs otherwise.
func (f *GraphQLFetcher) FetchProduct(ctx context.Context, id string) (models.RawProduct, error) {
	resp, err := f.client.Execute(ctx, ProductQuery, productVariables(id))
	if err != nil {
		return models.RawProduct{}, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}

	data, err := UnmarshalGraphQLData[struct {
		Product json.RawMessage `json:"product"`
	}](resp)
	if err != nil {
		return models.RawProduct{}, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}

	if len(data.Product) == 0 || string(data.Product) == "null" {
		return models.RawProduct{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}

	return decodeProductNode(data.Product), nil
}

// FetchCategories implements Fetcher.
func (f *GraphQLFetcher) FetchCategories(ctx context.Context) ([]models.Category, error) {
	resp, err := f.client.Execute(ctx, CategoriesQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	data, err := UnmarshalGraphQLData[struct {
		ProductCategories connection[struct {
			ID         string     `json:"id"`
			DatabaseID flexInt    `json:"databaseId"`
			Name       string     `json:"name"`
			Slug       string     `json:"slug"`
			Count      flexInt    `json:"count"`
			Image      *imageNode `json:"image"`
		}] `json:"productCategories"`
	}](resp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	categories := make([]models.Category, 0, len(data.ProductCategories.Nodes))

	for _, n := range data.ProductCategories.Nodes {
		c := models.Category{
			ID:         n.ID,
			Name:       n.Name,
			Slug:       n.Slug,
			DatabaseID: int(n.DatabaseID),
			Count:      int(n.Count),
		}

		if n.Image != nil {
			c.ImageURL = n.Image.SourceURL
		}

		categories = append(categories, c)
	}

	return categories, nil
}

// FetchReviews implements Fetcher.
func (f *GraphQLFetcher) FetchReviews(ctx context.Context, productID string) ([]models.Review, error) {
	resp, err := f.client.Execute(ctx, ReviewsQuery, productVariables(productID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviews for %s: %w", productID, err)
	}

	data, err := UnmarshalGraphQLData[struct {
		Product *struct {
			DatabaseID flexInt `json:"databaseId"`
			Reviews    struct {
				Edges []struct {
					Rating flexInt `json:"rating"`
					Node   struct {
						ID      string `json:"id"`
						Date    string `json:"date"`
						Content string `json:"content"`
						Author  struct {
							Node struct {
								Name string `json:"name"`
							} `json:"node"`
						} `json:"author"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"reviews"`
		} `json:"product"`
	}](resp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviews for %s: %w", productID, err)
	}

	if data.Product == nil {
		return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}

	reviews := make([]models.Review, 0, len(data.Product.Reviews.Edges))

	for _, e := range data.Product.Reviews.Edges {
		reviews = append(reviews, models.Review{
			Date:      parseUpstreamTime(e.Node.Date),
			ID:        e.Node.ID,
			Reviewer:  e.Node.Author.Node.Name,
			Content:   e.Node.Content,
			ProductID: int(data.Product.DatabaseID),
			Rating:    int(e.Rating),
		})
	}

	return reviews, nil
}

func productVariables(id string) map[string]any {
	id = strings.TrimSpace(id)

	idType := "SLUG"
	if _, err := strconv.Atoi(id); err == nil {
		idType = "DATABASE_ID"
	} else if isGlobalID(id) {
		idType = "ID"
	}

	return map[string]any{"id": id, "idType": idType}
}

// isGlobalID reports whether id looks like a WPGraphQL global ID (base64 of "type:id").
func isGlobalID(id string) bool {
	return globalIDPattern.MatchString(id) && strings.Contains(decodeBase64(id), ":")
}

// upstreamTimeLayouts are the date formats WordPress emits, with and without zone.
var upstreamTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}

func parseUpstreamTime(s string) time.Time {
	for _, layout := range upstreamTimeLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t
		}
	}

	return time.Time{}
}
