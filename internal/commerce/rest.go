package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/models"
)

// restMaxPerPage is the WooCommerce REST page size ceiling.
const restMaxPerPage = 100

// restConcurrency bounds parallel page requests.
const restConcurrency = 4

// RESTFetcher reads the catalog through the WooCommerce REST API (wc/v3).
type RESTFetcher struct {
	transport *transport
	base      string
	key       string
	secret    string
	logger    *logger.Logger
}

var _ Fetcher = (*RESTFetcher)(nil)

// NewRESTFetcher creates a fetcher for the API rooted at base, e.g.
// https://shop.example.com/wp-json/wc/v3.
func NewRESTFetcher(base, consumerKey, consumerSecret string, retry *config.RetryPolicy, log *logger.Logger) *RESTFetcher {
	t := newTransport(retry, nil, log)

	return &RESTFetcher{
		transport: t,
		base:      strings.TrimRight(base, "/"),
		key:       consumerKey,
		secret:    consumerSecret,
		logger:    t.logger,
	}
}

type restImage struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

type restProduct struct {
	ID               flexInt     `json:"id"`
	Name             string      `json:"name"`
	Slug             string      `json:"slug"`
	Type             string      `json:"type"`
	Featured         bool        `json:"featured"`
	ShortDescription string      `json:"short_description"`
	SKU              string      `json:"sku"`
	Price            flexString  `json:"price"`
	RegularPrice     flexString  `json:"regular_price"`
	SalePrice        flexString  `json:"sale_price"`
	StockQuantity    optionalInt `json:"stock_quantity"`
	StockStatus      string      `json:"stock_status"`
	AverageRating    flexString  `json:"average_rating"`
	RatingCount      flexInt     `json:"rating_count"`
	TotalSales       flexInt     `json:"total_sales"`
	Images           []restImage `json:"images"`
	Categories       []struct {
		ID   flexInt `json:"id"`
		Name string  `json:"name"`
		Slug string  `json:"slug"`
	} `json:"categories"`
	Attributes []struct {
		Name    string       `json:"name"`
		Options []flexString `json:"options"`
	} `json:"attributes"`
	MetaData    []metaNode `json:"meta_data"`
	ExternalURL string     `json:"external_url"`
	ButtonText  string     `json:"button_text"`
}

type restCategory struct {
	ID    flexInt    `json:"id"`
	Name  string     `json:"name"`
	Slug  string     `json:"slug"`
	Count flexInt    `json:"count"`
	Image *restImage `json:"image"`
}

type restReview struct {
	ID          flexInt `json:"id"`
	DateCreated string  `json:"date_created"`
	ProductID   flexInt `json:"product_id"`
	Reviewer    string  `json:"reviewer"`
	Review      string  `json:"review"`
	Rating      flexInt `json:"rating"`
	Verified    bool    `json:"verified"`
}

func (p *restProduct) toRaw() models.RawProduct {
	b := models.ProductBase{
		StockQuantity:    p.StockQuantity.ptr(),
		ID:               strconv.Itoa(int(p.ID)),
		Name:             p.Name,
		Slug:             p.Slug,
		ShortDescription: p.ShortDescription,
		SKU:              p.SKU,
		Price:            string(p.Price),
		RegularPrice:     string(p.RegularPrice),
		SalePrice:        string(p.SalePrice),
		StockStatus:      p.StockStatus,
		AverageRating:    string(p.AverageRating),
		DatabaseID:       int(p.ID),
		ReviewCount:      int(p.RatingCount),
		TotalSales:       int(p.TotalSales),
		Featured:         p.Featured,
	}

	if p.ID <= 0 {
		b.ID = ""
	}

	for i, img := range p.Images {
		if i == 0 {
			b.Image = &models.Image{SourceURL: img.Src, AltText: img.Alt}
			continue
		}

		b.Gallery = append(b.Gallery, models.Image{SourceURL: img.Src, AltText: img.Alt})
	}

	for _, c := range p.Categories {
		b.Categories = append(b.Categories, models.CategoryRef{ID: strconv.Itoa(int(c.ID)), Name: c.Name, Slug: c.Slug})
	}

	for _, a := range p.Attributes {
		attr := models.Attribute{Name: a.Name}
		for _, opt := range a.Options {
			attr.Options = append(attr.Options, string(opt))
		}

		b.Attributes = append(b.Attributes, attr)
	}

	for _, m := range p.MetaData {
		b.MetaData = append(b.MetaData, models.MetaEntry{Key: m.Key, Value: string(m.Value)})
	}

	raw := models.NewRawProduct(models.ParseProductKind(p.Type), b)
	if raw.External != nil {
		raw.External.ExternalURL = p.ExternalURL
		raw.External.ButtonText = p.ButtonText
	}

	return raw
}

func decodeRESTProducts(body []byte) ([]models.RawProduct, error) {
	var nodes []json.RawMessage
	if err := json.Unmarshal(body, &nodes); err != nil {
		return nil, fmt.Errorf("failed to parse products: %w", err)
	}

	out := make([]models.RawProduct, 0, len(nodes))

	for _, raw := range nodes {
		var p restProduct
		if err := json.Unmarshal(raw, &p); err != nil || !isObject(raw) {
			out = append(out, models.MalformedProduct(recoverID(raw, "id")))
			continue
		}

		out = append(out, p.toRaw())
	}

	return out, nil
}

// FetchCategoryProducts implements Fetcher. The slug is resolved to a category ID
// first; when more than one page is needed the remaining pages are fetched in parallel.
func (f *RESTFetcher) FetchCategoryProducts(ctx context.Context, slug string, first int) ([]models.RawProduct, error) {
	category, err := f.categoryBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category %s: %w", slug, err)
	}

	first = max(1, first)
	perPage := min(first, restMaxPerPage)
	wantPages := (first + perPage - 1) / perPage

	params := url.Values{
		"category": {strconv.Itoa(int(category.ID))},
		"per_page": {strconv.Itoa(perPage)},
		"status":   {"publish"},
	}

	firstPage, totalPages, err := f.productPage(ctx, params, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category %s: %w", slug, err)
	}

	pages := make([][]models.RawProduct, min(wantPages, max(1, totalPages)))
	pages[0] = firstPage

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(restConcurrency)

	for i := 1; i < len(pages); i++ {
		g.Go(func() error {
			products, _, err := f.productPage(gctx, params, i+1)
			if err != nil {
				return err
			}

			pages[i] = products

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch category %s: %w", slug, err)
	}

	products := make([]models.RawProduct, 0, first)
	for _, page := range pages {
		products = append(products, page...)
	}

	if len(products) > first {
		products = products[:first]
	}

	f.logger.Debug("fetched category products", "category", slug, "count", len(products), "pages", len(pages))

	return products, nil
}

// FetchProduct implements Fetcher. Non-numeric IDs are looked up as slugs.
func (f *RESTFetcher) FetchProduct(ctx context.Context, id string) (models.RawProduct, error) {
	id = strings.TrimSpace(id)

	if _, err := strconv.Atoi(id); err == nil {
		resp, err := f.get(ctx, "products/"+id, nil)
		if err != nil {
			return models.RawProduct{}, fmt.Errorf("failed to fetch product %s: %w", id, err)
		}

		products, err := decodeRESTProducts(append(append([]byte("["), resp.body...), ']'))
		if err != nil {
			return models.RawProduct{}, fmt.Errorf("failed to fetch product %s: %w", id, err)
		}

		return products[0], nil
	}

	resp, err := f.get(ctx, "products", url.Values{"slug": {id}})
	if err != nil {
		return models.RawProduct{}, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}

	products, err := decodeRESTProducts(resp.body)
	if err != nil {
		return models.RawProduct{}, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}

	if len(products) == 0 {
		return models.RawProduct{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}

	return products[0], nil
}

// FetchCategories implements Fetcher.
func (f *RESTFetcher) FetchCategories(ctx context.Context) ([]models.Category, error) {
	resp, err := f.get(ctx, "products/categories", url.Values{"per_page": {strconv.Itoa(restMaxPerPage)}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	var nodes []restCategory
	if err := json.Unmarshal(resp.body, &nodes); err != nil {
		return nil, fmt.Errorf("failed to parse categories: %w", err)
	}

	categories := make([]models.Category, 0, len(nodes))
	for i := range nodes {
		categories = append(categories, nodes[i].toCategory())
	}

	return categories, nil
}

// FetchReviews implements Fetcher.
func (f *RESTFetcher) FetchReviews(ctx context.Context, productID string) ([]models.Review, error) {
	resp, err := f.get(ctx, "products/reviews", url.Values{
		"product":  {productID},
		"per_page": {strconv.Itoa(restMaxPerPage)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviews for %s: %w", productID, err)
	}

	var nodes []restReview
	if err := json.Unmarshal(resp.body, &nodes); err != nil {
		return nil, fmt.Errorf("failed to parse reviews: %w", err)
	}

	reviews := make([]models.Review, 0, len(nodes))

	for _, n := range nodes {
		reviews = append(reviews, models.Review{
			Date:      parseUpstreamTime(n.DateCreated),
			ID:        strconv.Itoa(int(n.ID)),
			Reviewer:  n.Reviewer,
			Content:   n.Review,
			ProductID: int(n.ProductID),
			Rating:    int(n.Rating),
			Verified:  n.Verified,
		})
	}

	return reviews, nil
}

func (c *restCategory) toCategory() models.Category {
	cat := models.Category{
		ID:         strconv.Itoa(int(c.ID)),
		Name:       c.Name,
		Slug:       c.Slug,
		DatabaseID: int(c.ID),
		Count:      int(c.Count),
	}

	if c.Image != nil {
		cat.ImageURL = c.Image.Src
	}

	return cat
}

func (f *RESTFetcher) categoryBySlug(ctx context.Context, slug string) (*restCategory, error) {
	resp, err := f.get(ctx, "products/categories", url.Values{"slug": {slug}})
	if err != nil {
		return nil, err
	}

	var nodes []restCategory
	if err := json.Unmarshal(resp.body, &nodes); err != nil {
		return nil, fmt.Errorf("failed to parse categories: %w", err)
	}

	if len(nodes) == 0 {
		return nil, fmt.Errorf("category %s: %w", slug, ErrNotFound)
	}

	return &nodes[0], nil
}

// productPage fetches one page of products and reports the total page count.
func (f *RESTFetcher) productPage(ctx context.Context, params url.Values, page int) ([]models.RawProduct, int, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}

	q.Set("page", strconv.Itoa(page))

	resp, err := f.get(ctx, "products", q)
	if err != nil {
		return nil, 0, err
	}

	products, err := decodeRESTProducts(resp.body)
	if err != nil {
		return nil, 0, err
	}

	totalPages, err := strconv.Atoi(resp.header.Get("X-WP-TotalPages"))
	if err != nil {
		totalPages = page
	}

	return products, totalPages, nil
}

func (f *RESTFetcher) get(ctx context.Context, path string, params url.Values) (*response, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}

	if f.key != "" {
		q.Set("consumer_key", f.key)
		q.Set("consumer_secret", f.secret)
	}

	endpoint := f.base + "/" + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	return f.transport.do(ctx, http.MethodGet, endpoint, nil)
}
