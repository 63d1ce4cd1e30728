package catalog

import (
	"fmt"

	"storefront/internal/models"
	"storefront/pkg/utils"
)

// View is one recomputation of the listing, ready for rendering.
type View struct {
	Items         []models.ProductRecord `json:"items"`
	FilteredCount int                    `json:"filtered_count"`
	TotalCount    int                    `json:"total_count"`
	TotalPages    int                    `json:"total_pages"`
	CurrentPage   int                    `json:"current_page"`
	ActiveFilters int                    `json:"active_filters"`
	// Empty is set when no record survives the filters, including while nothing is loaded.
	Empty   bool        `json:"empty"`
	Filters FilterState `json:"filters"`
	Search  string      `json:"search,omitempty"`
	Page    PageState   `json:"page"`
}

// Controller owns one record set together with the filter and page state applied to it.
// It is not safe for concurrent use; see session.Session for a guarded wrapper.
type Controller struct {
	records  []models.ProductRecord
	filters  FilterState
	search   string
	page     PageState
	maxPrice float64

	// revision increments on every mutation; view is valid while viewRev matches.
	revision uint64
	viewRev  uint64
	view     *View
}

// NewController creates a controller with no records. Non-positive arguments fall
// back to DefaultPageSize and DefaultMaxPrice.
func NewController(pageSize int, maxPrice float64) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	if maxPrice <= 0 {
		maxPrice = DefaultMaxPrice
	}

	return &Controller{
		filters:  DefaultFilters(maxPrice),
		page:     PageState{Sort: SortRelevance, CurrentPage: 1, PageSize: pageSize},
		maxPrice: maxPrice,
		revision: 1,
	}
}

// MaxPrice returns the upper bound of the default price range.
func (c *Controller) MaxPrice() float64 {
	return c.maxPrice
}

// SetRecords replaces the whole record set. Filters, sort and page are kept;
// the page is clamped on the next View.
func (c *Controller) SetRecords(records []models.ProductRecord) {
	c.records = records
	c.touch()
}

// Records returns the unfiltered record set in fetch order.
func (c *Controller) Records() []models.ProductRecord {
	return c.records
}

// Filters returns the current filter state.
func (c *Controller) Filters() FilterState {
	return c.filters
}

// SetFilters replaces every filter at once and returns to page 1.
func (c *Controller) SetFilters(f FilterState) {
	c.filters = f.normalized()
	c.resetPage()
}

// SetPriceRange narrows the price filter. Swapped bounds are reordered and
// negative bounds clamp to 0.
func (c *Controller) SetPriceRange(minPrice, maxPrice float64) {
	f := c.filters
	f.Price = PriceRange{Min: minPrice, Max: maxPrice}
	c.SetFilters(f)
}

// ApplyPricePreset sets the price range to the preset at index (see PricePresets).
func (c *Controller) ApplyPricePreset(index int) error {
	presets := PricePresets(c.maxPrice)
	if index < 0 || index >= len(presets) {
		return fmt.Errorf("%w: %d", ErrUnknownPreset, index)
	}

	c.SetPriceRange(presets[index].Range.Min, presets[index].Range.Max)

	return nil
}

// ToggleDeliveryTime selects class if unselected and deselects it otherwise.
func (c *Controller) ToggleDeliveryTime(class models.DeliveryClass) {
	f := c.filters
	f.Delivery = make([]models.DeliveryClass, 0, len(c.filters.Delivery)+1)

	if c.filters.HasDelivery(class) {
		for _, d := range c.filters.Delivery {
			if d != class {
				f.Delivery = append(f.Delivery, d)
			}
		}
	} else {
		f.Delivery = append(f.Delivery, c.filters.Delivery...)
		f.Delivery = append(f.Delivery, class)
	}

	c.SetFilters(f)
}

// SetDeliveryTimes replaces the delivery selections.
func (c *Controller) SetDeliveryTimes(classes ...models.DeliveryClass) {
	f := c.filters
	f.Delivery = classes
	c.SetFilters(f)
}

// SetMinRating sets the rating floor; 0 removes it.
func (c *Controller) SetMinRating(rating float64) {
	f := c.filters
	f.MinRating = rating
	c.SetFilters(f)
}

// ClearFilters restores the default filters and returns to page 1. Sort is kept.
func (c *Controller) ClearFilters() {
	c.SetFilters(DefaultFilters(c.maxPrice))
}

// SetSearch narrows the listing to names containing every word of term and
// returns to page 1. A blank term removes the search.
func (c *Controller) SetSearch(term string) {
	c.search = utils.NewStringHelper().NormalizeWhitespace(term)
	c.resetPage()
}

// SetSort changes the order and returns to page 1.
func (c *Controller) SetSort(key SortKey) {
	c.page.Sort = key
	c.resetPage()
}

// SetPage moves to a page without touching filters or sort. Values below 1 mean page 1;
// values past the end are clamped when the view is computed.
func (c *Controller) SetPage(page int) {
	c.page.CurrentPage = max(1, page)
	c.touch()
}

// NextPage advances one page unless already on the last.
func (c *Controller) NextPage() {
	v := c.View()
	if v.CurrentPage < v.TotalPages {
		c.SetPage(v.CurrentPage + 1)
	}
}

// PrevPage goes back one page unless already on the first.
func (c *Controller) PrevPage() {
	v := c.View()
	if v.CurrentPage > 1 {
		c.SetPage(v.CurrentPage - 1)
	}
}

// Apply sets filters, search, then sort, then page from a query, so the query's page wins
// over the reset the first two would cause.
func (c *Controller) Apply(q Query) {
	c.SetFilters(q.Filters)
	c.SetSearch(q.Search)
	c.SetSort(q.Sort)
	c.SetPage(q.Page)
}

// View computes the current listing. Results are memoized until the next mutation.
// A current page beyond the last page is clamped and stored back.
func (c *Controller) View() View {
	if c.view != nil && c.viewRev == c.revision {
		return *c.view
	}

	matched := c.records
	if c.search != "" {
		matched = Search(matched, c.search)
	}

	filtered := Sort(Filter(matched, c.filters), c.page.Sort)
	totalPages := TotalPages(len(filtered), c.page.PageSize)
	c.page.CurrentPage = ClampPage(c.page.CurrentPage, totalPages)

	v := &View{
		Items:         Paginate(filtered, c.page.CurrentPage, c.page.PageSize),
		FilteredCount: len(filtered),
		TotalCount:    len(c.records),
		TotalPages:    totalPages,
		CurrentPage:   c.page.CurrentPage,
		ActiveFilters: ActiveFilterCount(c.filters, c.maxPrice),
		Empty:         len(filtered) == 0,
		Filters:       c.filters,
		Search:        c.search,
		Page:          c.page,
	}

	c.view = v
	c.viewRev = c.revision

	return *v
}

func (c *Controller) resetPage() {
	c.page.CurrentPage = 1
	c.touch()
}

func (c *Controller) touch() {
	c.revision++
}
