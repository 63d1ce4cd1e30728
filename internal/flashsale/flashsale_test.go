package flashsale

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"storefront/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func hms(h, m, s int) time.Duration {
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
}

func TestTick(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want time.Duration
	}{
		{"seconds", hms(2, 45, 30), hms(2, 45, 29)},
		{"minute borrow", hms(2, 45, 0), hms(2, 44, 59)},
		{"hour borrow", hms(1, 0, 0), hms(0, 59, 59)},
		{"last second", hms(0, 0, 1), 0},
		{"wraps", 0, hms(23, 59, 59)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tick(tt.in))
		})
	}
}

func TestSplit(t *testing.T) {
	c := Split(hms(2, 45, 30))

	assert.Equal(t, Clock{Hours: 2, Minutes: 45, Seconds: 30}, c)
	assert.Equal(t, "02:45:30", c.String())
	assert.Equal(t, "00:00:00", Split(-time.Second).String())
}

func TestCountdown_Ticks(t *testing.T) {
	c := NewCountdownWithInterval(hms(0, 0, 2), time.Millisecond)

	ticks, err := c.Start(context.Background())
	require.NoError(t, err)

	_, err = c.Start(context.Background())
	require.ErrorIs(t, err, ErrAlreadyStarted)

	wrapped := false
	for r := range ticks {
		// Anything above the starting window means the countdown wrapped.
		if r > hms(0, 0, 2) {
			wrapped = true
			break
		}
	}

	c.Stop()
	assert.True(t, wrapped)
	assert.LessOrEqual(t, c.Remaining(), hms(23, 59, 59))

	// Drained and closed after Stop.
	for range ticks {
	}
}

func TestCountdown_StopsWithContext(t *testing.T) {
	c := NewCountdownWithInterval(time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	ticks, err := c.Start(ctx)
	require.NoError(t, err)

	cancel()

	_, open := <-ticks
	assert.False(t, open)
	assert.Equal(t, time.Hour, c.Remaining())

	c.Stop()
	c.Stop()
}

func TestCountdown_Restart(t *testing.T) {
	c := NewCountdownWithInterval(time.Hour, time.Millisecond)

	ticks, err := c.Start(context.Background())
	require.NoError(t, err)
	<-ticks
	c.Stop()

	stopped := c.Remaining()
	assert.Less(t, stopped, time.Hour)

	_, err = c.Start(context.Background())
	require.NoError(t, err)
	c.Stop()
	assert.LessOrEqual(t, c.Remaining(), stopped)
}

func TestSoldPercent(t *testing.T) {
	assert.Equal(t, 78, SoldPercent(78, 100))
	assert.Equal(t, 90, SoldPercent(45, 50))
	assert.Equal(t, 77, SoldPercent(23, 30))
	assert.Equal(t, 0, SoldPercent(5, 0))
	assert.Equal(t, 0, SoldPercent(-1, 10))
	assert.Equal(t, 100, SoldPercent(12, 10))
}

func record(id string, price, regular float64, sold int, stock *int) models.ProductRecord {
	rec := models.ProductRecord{ID: id, Price: price, TotalSales: sold, StockQuantity: stock}
	if regular > 0 {
		rec.RegularPrice = &regular
		if regular > price {
			pct := int((regular - price) / regular * 100)
			rec.DiscountPercent = &pct
		}
	}

	return rec
}

func intPtr(v int) *int { return &v }

func TestNewItems(t *testing.T) {
	records := []models.ProductRecord{
		record("full-price", 100000, 0, 3, intPtr(1)),
		record("ten", 90000, 100000, 78, intPtr(22)),
		record("half", 50000, 100000, 45, intPtr(5)),
		record("quarter", 75000, 100000, 23, nil),
	}

	items := NewItems(records, 2)
	require.Len(t, items, 2)

	assert.Equal(t, "half", items[0].Product.ID)
	assert.Equal(t, 50, *items[0].DiscountPercent)
	assert.Equal(t, 50, items[0].Total)
	assert.Equal(t, 90, items[0].SoldPercent)

	assert.Equal(t, "quarter", items[1].Product.ID)
	assert.Equal(t, 23, items[1].Total)
	assert.Equal(t, 100, items[1].SoldPercent)

	assert.Len(t, NewItems(records, 10), 3)
	assert.Empty(t, NewItems(records, 0))
	assert.NotNil(t, NewItems(nil, 3))
}
