package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/catalog"
	"storefront/internal/commerce"
	"storefront/internal/config"
	"storefront/internal/models"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

type stubFetcher struct {
	categories map[string][]models.RawProduct
	reviews    []models.Review
	err        error
}

func (s *stubFetcher) FetchCategoryProducts(_ context.Context, slug string, first int) ([]models.RawProduct, error) {
	if s.err != nil {
		return nil, s.err
	}

	raws, ok := s.categories[slug]
	if !ok {
		return nil, fmt.Errorf("category %s: %w", slug, commerce.ErrNotFound)
	}

	return raws[:min(first, len(raws))], nil
}

func (s *stubFetcher) FetchProduct(_ context.Context, id string) (models.RawProduct, error) {
	for _, raws := range s.categories {
		for _, raw := range raws {
			if strconv.Itoa(raw.Base().DatabaseID) == id {
				return raw, nil
			}
		}
	}

	return models.RawProduct{}, commerce.ErrNotFound
}

func (s *stubFetcher) FetchCategories(context.Context) ([]models.Category, error) {
	if s.err != nil {
		return nil, s.err
	}

	return []models.Category{{ID: "1", Name: "Tecnología", Slug: "tecnologia", Count: 10}}, nil
}

func (s *stubFetcher) FetchReviews(context.Context, string) ([]models.Review, error) {
	return s.reviews, s.err
}

// catalogRaws builds ten tecnologia products priced 100,000 to 1,000,000. Every third
// one is on sale at half its regular price; products above 500,000 ship internationally.
func catalogRaws() []models.RawProduct {
	raws := make([]models.RawProduct, 10)

	for i := range raws {
		id := i + 1
		price := id * 100000
		stock := 10

		base := models.ProductBase{
			ID:            strconv.Itoa(id),
			DatabaseID:    id,
			Name:          fmt.Sprintf("Producto %d", id),
			Slug:          fmt.Sprintf("producto-%d", id),
			Price:         strconv.Itoa(price),
			AverageRating: "4.5",
			TotalSales:    id,
			StockQuantity: &stock,
			Categories:    []models.CategoryRef{{Slug: "tecnologia"}},
		}

		if id%3 == 0 {
			base.RegularPrice = strconv.Itoa(price * 2)
		}

		raws[i] = models.RawProduct{Kind: models.KindSimple, Simple: &models.SimpleProduct{ProductBase: base}}
	}

	return raws
}

func newTestServer(f *stubFetcher) *Server {
	if f.categories == nil {
		f.categories = map[string][]models.RawProduct{"tecnologia": catalogRaws(), "ofertas": catalogRaws()}
	}

	return New(config.Default(), f, nil)
}

type envelope struct {
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Error     bool            `json:"error"`
	Meta      *Pagination     `json:"meta"`
	RequestID string          `json:"request_id"`
}

func get(t *testing.T, s *Server, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())

	return rec, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))

	return v
}

func TestHealth(t *testing.T) {
	rec, env := get(t, newTestServer(&stubFetcher{}), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", env.Message)
	assert.NotEmpty(t, env.RequestID)
	assert.Equal(t, env.RequestID, rec.Header().Get(headerRequestID))
}

func TestRequestID_Propagated(t *testing.T) {
	s := newTestServer(&stubFetcher{})
	id := "4b0f2a5e-8c8e-4d53-9f64-3f4c2d1e0a77"

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(headerRequestID, id)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, id, rec.Header().Get(headerRequestID))
}

func TestListCategories(t *testing.T) {
	rec, env := get(t, newTestServer(&stubFetcher{}), "/store/categories")

	require.Equal(t, http.StatusOK, rec.Code)

	cats := decode[[]models.Category](t, env)
	require.Len(t, cats, 1)
	assert.Equal(t, "tecnologia", cats[0].Slug)
}

func TestListCategoryProducts(t *testing.T) {
	s := newTestServer(&stubFetcher{})

	t.Run("defaults", func(t *testing.T) {
		rec, env := get(t, s, "/store/categories/tecnologia/products")
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, &Pagination{Page: 1, Limit: 8, Total: 10, TotalPages: 2}, env.Meta)

		listing := decode[categoryListing](t, env)
		assert.Equal(t, "Tecnología", listing.Title)
		assert.Len(t, listing.Items, 8)
		assert.Equal(t, 10, listing.TotalCount)
		assert.Zero(t, listing.ActiveFilters)
		assert.Equal(t, 10, listing.Report.Kept)

		assert.Len(t, listing.Options.PricePresets, 4)
		assert.Equal(t, catalog.DeliveryOptions(), listing.Options.Delivery)
		assert.Equal(t, []float64{4, 3, 2, 1}, listing.Options.RatingFloors)
	})

	t.Run("search", func(t *testing.T) {
		rec, env := get(t, s, "/store/categories/tecnologia/products?q=PRODUCTO+1&sort=price-desc")
		require.Equal(t, http.StatusOK, rec.Code)

		listing := decode[categoryListing](t, env)
		assert.Equal(t, "PRODUCTO 1", listing.Search)
		assert.Equal(t, 2, listing.FilteredCount)
		require.Len(t, listing.Items, 2)
		assert.Equal(t, "10", listing.Items[0].ID)
		assert.Equal(t, "1", listing.Items[1].ID)
	})

	t.Run("filtered and sorted", func(t *testing.T) {
		rec, env := get(t, s, "/store/categories/tecnologia/products?delivery=international&sort=price-desc")
		require.Equal(t, http.StatusOK, rec.Code)

		listing := decode[categoryListing](t, env)
		assert.Equal(t, 5, listing.FilteredCount)
		assert.Equal(t, 1, listing.ActiveFilters)
		require.NotEmpty(t, listing.Items)
		assert.InDelta(t, 1000000, listing.Items[0].Price, 0.001)
		assert.Equal(t, 1, env.Meta.TotalPages)
	})

	t.Run("page clamped", func(t *testing.T) {
		rec, env := get(t, s, "/store/categories/tecnologia/products?page=9")
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, 2, env.Meta.Page)
		assert.Len(t, decode[categoryListing](t, env).Items, 2)
	})

	t.Run("nothing matches", func(t *testing.T) {
		rec, env := get(t, s, "/store/categories/tecnologia/products?minPrice=5000000")
		require.Equal(t, http.StatusOK, rec.Code)

		listing := decode[categoryListing](t, env)
		assert.True(t, listing.Empty)
		assert.Empty(t, listing.Items)
		assert.Equal(t, 1, env.Meta.TotalPages)
	})

	t.Run("invalid query", func(t *testing.T) {
		rec, env := get(t, s, "/store/categories/tecnologia/products?rating=9")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.True(t, env.Error)
	})

	t.Run("unknown category", func(t *testing.T) {
		rec, env := get(t, s, "/store/categories/juguetes/products")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.True(t, env.Error)
	})
}

func TestUpstreamFailure(t *testing.T) {
	s := newTestServer(&stubFetcher{err: fmt.Errorf("dial: %w", commerce.ErrUnexpectedStatusCode)})

	for _, target := range []string{
		"/store/categories",
		"/store/categories/tecnologia/products",
		"/store/flash-sale",
	} {
		rec, env := get(t, s, target)

		assert.Equal(t, http.StatusBadGateway, rec.Code, target)
		assert.True(t, env.Error, target)
	}
}

func TestGetProduct(t *testing.T) {
	s := newTestServer(&stubFetcher{})

	rec, env := get(t, s, "/store/products/3")
	require.Equal(t, http.StatusOK, rec.Code)

	detail := decode[productDetail](t, env)
	assert.Equal(t, "3", detail.Product.ID)
	require.NotNil(t, detail.Product.DiscountPercent)
	assert.Equal(t, 50, *detail.Product.DiscountPercent)

	require.Len(t, detail.Related, 4)
	for _, r := range detail.Related {
		assert.NotEqual(t, "3", r.ID)
	}

	rec, _ = get(t, s, "/store/products/999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProduct_RelatedWhenOutsideCategoryPage(t *testing.T) {
	raws := catalogRaws()

	// Product 10 is in tecnologia but not among the listed tecnologia products.
	s := newTestServer(&stubFetcher{categories: map[string][]models.RawProduct{
		"tecnologia": raws[:4],
		"archivo":    raws[9:],
	}})

	rec, env := get(t, s, "/store/products/10")
	require.Equal(t, http.StatusOK, rec.Code)

	detail := decode[productDetail](t, env)
	assert.Equal(t, "10", detail.Product.ID)
	require.Len(t, detail.Related, 4)
	assert.Equal(t, "1", detail.Related[0].ID)
}

func TestGetProductReviews(t *testing.T) {
	s := newTestServer(&stubFetcher{reviews: []models.Review{
		{ID: "a", Rating: 5, Helpful: 1},
		{ID: "b", Rating: 4, Helpful: 8},
		{ID: "c", Rating: 5, Helpful: 3},
	}})

	rec, env := get(t, s, "/store/products/1/reviews?filter=5stars")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[productReviews](t, env)
	assert.Equal(t, 3, got.Summary.Count)
	assert.InDelta(t, 4.7, got.Summary.Average, 1e-9)
	require.Len(t, got.Reviews, 2)
	assert.Equal(t, "c", got.Reviews[0].ID)

	rec, _ = get(t, s, "/store/products/1/reviews?filter=photos-only")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShipping(t *testing.T) {
	s := newTestServer(&stubFetcher{})

	rec, env := get(t, s, "/store/shipping/estimate?price=100000&city=Medellin")
	require.Equal(t, http.StatusOK, rec.Code)

	quote := decode[map[string]any](t, env)
	assert.Equal(t, "national", quote["method"])
	assert.InDelta(t, 8000, quote["cost"], 0.001)
	assert.InDelta(t, 50000, quote["remaining_for_free"], 0.001)

	rec, env = get(t, s, "/store/shipping/estimate?price=100000&national=false")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 35000, decode[map[string]any](t, env)["cost"], 0.001)

	for _, target := range []string{
		"/store/shipping/estimate?price=abc",
		"/store/shipping/estimate?price=-1",
		"/store/shipping/estimate?national=maybe",
		"/store/shipping/estimate?city=Lima",
	} {
		rec, _ := get(t, s, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}

	rec, env = get(t, s, "/store/shipping/cities")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, env), 8)

	_, env = get(t, s, "/store/shipping/cities?q=valle")
	cities := decode[[]map[string]any](t, env)
	require.Len(t, cities, 1)
	assert.Equal(t, "Cali", cities[0]["name"])
}

func TestFlashSale(t *testing.T) {
	s := newTestServer(&stubFetcher{})

	rec, env := get(t, s, "/store/flash-sale")
	require.Equal(t, http.StatusOK, rec.Code)

	sale := decode[flashSale](t, env)
	assert.Equal(t, "Ofertas Relámpago", sale.Title)
	require.Len(t, sale.Items, 3)
	assert.Equal(t, "02:45:30", sale.Clock.String())
	assert.Equal(t, int((2*time.Hour+45*time.Minute+30*time.Second)/time.Second), sale.RemainingSeconds)

	for _, item := range sale.Items {
		require.NotNil(t, item.DiscountPercent)
		assert.Equal(t, 50, *item.DiscountPercent)
		assert.Equal(t, item.Sold+10, item.Total)
	}
}
