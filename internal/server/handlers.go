package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
	"storefront/internal/commerce"
	"storefront/internal/flashsale"
	"storefront/internal/models"
	"storefront/internal/normalizer"
	"storefront/internal/reviews"
	"storefront/internal/session"
	"storefront/internal/shipping"
)

var errBadParam = errors.New("invalid parameter")

// fail writes the error envelope for err. Bad input is a 400, a missing upstream
// entity a 404, anything else from upstream a 502.
func (s *Server) fail(c *gin.Context, message string, err error) {
	status := http.StatusBadGateway

	switch {
	case errors.Is(err, catalog.ErrInvalidQuery),
		errors.Is(err, reviews.ErrUnknownFilter),
		errors.Is(err, shipping.ErrUnknownCity),
		errors.Is(err, errBadParam):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, commerce.ErrNotFound):
		status = http.StatusNotFound
	}

	_ = c.Error(err)
	c.JSON(status, ErrorResponse(c, message))
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessResponse(c, "ok", gin.H{"transport": s.cfg.Upstream.Transport}))
}

func (s *Server) listCategories(c *gin.Context) {
	cats, err := s.fetcher.FetchCategories(c.Request.Context())
	if err != nil {
		s.fail(c, "Failed to fetch categories", err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(c, "Categories retrieved successfully", cats))
}

// categoryListing is the data of a category page.
type categoryListing struct {
	Slug          string                 `json:"slug"`
	Title         string                 `json:"title"`
	Items         []models.ProductRecord `json:"items"`
	FilteredCount int                    `json:"filtered_count"`
	TotalCount    int                    `json:"total_count"`
	ActiveFilters int                    `json:"active_filters"`
	Empty         bool                   `json:"empty"`
	Filters       catalog.FilterState    `json:"filters"`
	Search        string                 `json:"search,omitempty"`
	Sort          catalog.SortKey        `json:"sort"`
	Options       filterOptions          `json:"options"`
	Report        normalizer.Report      `json:"report"`
}

// filterOptions are the choices offered by the filter panel.
type filterOptions struct {
	PricePresets []catalog.PricePreset    `json:"price_presets"`
	Delivery     []catalog.DeliveryOption `json:"delivery"`
	RatingFloors []float64                `json:"rating_floors"`
}

func (s *Server) options() filterOptions {
	return filterOptions{
		PricePresets: catalog.PricePresets(s.cfg.Catalog.MaxPrice),
		Delivery:     catalog.DeliveryOptions(),
		RatingFloors: catalog.RatingFloors(),
	}
}

func (s *Server) listCategoryProducts(c *gin.Context) {
	slug := c.Param("slug")

	q, err := catalog.ParseQuery(c.Request.URL.Query(), s.cfg.Catalog.MaxPrice)
	if err != nil {
		s.fail(c, "Invalid query", err)
		return
	}

	sess := session.New(s.fetcher, s.processor, session.Options{
		PageSize:  s.cfg.Catalog.PageSize,
		MaxPrice:  s.cfg.Catalog.MaxPrice,
		FetchSize: s.cfg.Upstream.FetchSize,
	}, s.logger)
	defer sess.Close()

	if err := sess.Load(c.Request.Context(), slug); err != nil {
		s.fail(c, "Failed to fetch products", err)
		return
	}

	view := sess.Apply(q)

	c.JSON(http.StatusOK, PaginatedResponse(c, "Products retrieved successfully", categoryListing{
		Slug:          slug,
		Title:         catalog.CategoryTitle(slug),
		Items:         view.Items,
		FilteredCount: view.FilteredCount,
		TotalCount:    view.TotalCount,
		ActiveFilters: view.ActiveFilters,
		Empty:         view.Empty,
		Filters:       view.Filters,
		Search:        view.Search,
		Sort:          view.Page.Sort,
		Options:       s.options(),
		Report:        sess.Report(),
	}, &Pagination{
		Page:       view.CurrentPage,
		Limit:      view.Page.PageSize,
		Total:      view.FilteredCount,
		TotalPages: view.TotalPages,
	}))
}

// productDetail is a product with its related products.
type productDetail struct {
	Product models.ProductRecord   `json:"product"`
	Related []models.ProductRecord `json:"related"`
}

func (s *Server) getProduct(c *gin.Context) {
	ctx := c.Request.Context()

	raw, err := s.fetcher.FetchProduct(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, "Failed to fetch product", err)
		return
	}

	rec := s.processor.Normalize(raw)

	c.JSON(http.StatusOK, SuccessResponse(c, "Product retrieved successfully", productDetail{
		Product: rec,
		Related: s.related(ctx, rec),
	}))
}

// related lists products of the record's first category. Failures only cost the
// related section.
func (s *Server) related(ctx context.Context, rec models.ProductRecord) []models.ProductRecord {
	if len(rec.CategorySlugs) == 0 {
		return []models.ProductRecord{}
	}

	raws, err := s.fetcher.FetchCategoryProducts(ctx, rec.CategorySlugs[0], s.cfg.Upstream.FetchSize)
	if err != nil {
		s.logger.Warn("failed to fetch related products", "id", rec.ID, "error", err)
		return []models.ProductRecord{}
	}

	return catalog.Related(s.processor.Process(raws).Records, rec, relatedLimit)
}

// productReviews is the review section of a product page.
type productReviews struct {
	Summary reviews.Summary `json:"summary"`
	Filter  reviews.Filter  `json:"filter"`
	Reviews []models.Review `json:"reviews"`
}

func (s *Server) getProductReviews(c *gin.Context) {
	filter, err := reviews.ParseFilter(c.Query("filter"))
	if err != nil {
		s.fail(c, "Invalid filter", err)
		return
	}

	list, err := s.fetcher.FetchReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, "Failed to fetch reviews", err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(c, "Reviews retrieved successfully", productReviews{
		Summary: reviews.Summarize(list),
		Filter:  filter,
		Reviews: reviews.Apply(list, filter),
	}))
}

func (s *Server) estimateShipping(c *gin.Context) {
	price, err := strconv.ParseFloat(c.DefaultQuery("price", "0"), 64)
	if err != nil || price < 0 {
		s.fail(c, "Invalid price", fmt.Errorf("%w: price must be a non-negative number", errBadParam))
		return
	}

	national := true
	if v := strings.TrimSpace(c.Query("national")); v != "" {
		if national, err = strconv.ParseBool(v); err != nil {
			s.fail(c, "Invalid national flag", fmt.Errorf("%w: national must be true or false", errBadParam))
			return
		}
	}

	quote, err := s.estimator.Estimate(shipping.Request{Price: price, National: national, City: c.Query("city")})
	if err != nil {
		s.fail(c, "Invalid city", err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(c, "Shipping estimated successfully", quote))
}

func (s *Server) listCities(c *gin.Context) {
	cities := shipping.Cities()
	if q := c.Query("q"); strings.TrimSpace(q) != "" {
		cities = s.estimator.SearchCities(q)
	}

	c.JSON(http.StatusOK, SuccessResponse(c, "Cities retrieved successfully", cities))
}

// flashSale is the flash sale section.
type flashSale struct {
	Title            string           `json:"title"`
	Items            []flashsale.Item `json:"items"`
	Clock            flashsale.Clock  `json:"clock"`
	RemainingSeconds int              `json:"remaining_seconds"`
}

func (s *Server) getFlashSale(c *gin.Context) {
	category := s.cfg.FlashSale.Category

	raws, err := s.fetcher.FetchCategoryProducts(c.Request.Context(), category, s.cfg.Upstream.FetchSize)
	if err != nil {
		s.fail(c, "Failed to fetch flash sale", err)
		return
	}

	remaining := s.countdown.Remaining()

	c.JSON(http.StatusOK, SuccessResponse(c, "Flash sale retrieved successfully", flashSale{
		Title:            catalog.CategoryTitle(category),
		Items:            flashsale.NewItems(s.processor.Process(raws).Records, s.cfg.FlashSale.Limit),
		Clock:            flashsale.Split(remaining),
		RemainingSeconds: int(remaining / time.Second),
	}))
}
