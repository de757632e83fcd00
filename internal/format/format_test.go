package format

import (
	"testing"
	"time"

	"github.com/hunglv/expensive/internal/common"
	"github.com/hunglv/expensive/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrency(t *testing.T) {
	f := Default()

	tests := []struct {
		amount int64
		want   string
	}{
		{0, "0 ₫"},
		{1000, "1.000 ₫"},
		{50000, "50.000 ₫"},
		{999999999, "999.999.999 ₫"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Currency(tt.amount))
	}

	assert.Equal(t, "₫", f.Symbol())
	assert.Equal(t, "3.334 ₫", f.CurrencyFloat(3333.5))
}

func TestNumberAndPercent(t *testing.T) {
	f := Default()
	assert.Equal(t, "1.234.567", f.Number(1234567))
	assert.Equal(t, "12,5%", f.Percent(12.5))
}

func TestNew_InvalidSettings(t *testing.T) {
	_, err := New("NOPE", "vi-VN")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	_, err = New("VND", "!!")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestDates(t *testing.T) {
	d := model.NewDate(2024, time.January, 10)
	assert.Equal(t, "10 tháng 1, 2024", Date(d))
	assert.Equal(t, "10/01/2024", DateShort(d))
	assert.Empty(t, DateShort(model.Date{}))
	assert.Equal(t, "10/01/2024 14:05", DateTime(time.Date(2024, 1, 10, 14, 5, 0, 0, time.Local)))
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, time.January, 20, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"seconds", 30 * time.Second, "Vừa xong"},
		{"minutes", 5 * time.Minute, "5 phút trước"},
		{"hours", 3 * time.Hour, "3 giờ trước"},
		{"yesterday", 30 * time.Hour, "Hôm qua"},
		{"days", 3 * 24 * time.Hour, "3 ngày trước"},
		{"older", 10 * 24 * time.Hour, "10/01/2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTime(now.Add(-tt.ago), now))
		})
	}
}

func TestTextHelpers(t *testing.T) {
	f := Default()
	assert.Equal(t, "Ăn uống", f.Capitalize("ăN UỐNG"))
	assert.Equal(t, "", f.Capitalize(""))

	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "Phở ...", Truncate("Phở bò tái", 4))

	long := ""
	for i := 0; i < 60; i++ {
		long += "a"
	}
	got := Truncate(long, 0)
	require.Len(t, got, DefaultTruncateLength+3)
}
