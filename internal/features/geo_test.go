package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillra/hh-harvester/internal/types"
)

func TestCityAndTier(t *testing.T) {
	tests := []struct {
		address  *string
		wantCity *string
		wantTier string
	}{
		{strPtr("Москва, Тверская улица, 7"), strPtr("Москва"), TierMoscow},
		{strPtr("Санкт-Петербург, Невский проспект, 28"), strPtr("Санкт-Петербург"), TierSPb},
		{strPtr("Казань"), strPtr("Казань"), TierMillionPlus},
		{strPtr("Томск, проспект Ленина"), strPtr("Томск"), TierOtherRU},
		{strPtr("Алматы, проспект Абая"), strPtr("Алматы"), TierKZOther},
		{strPtr("Урюпинск"), strPtr("Урюпинск"), types.Unknown},
		{strPtr(" , улица"), nil, types.Unknown},
		{nil, nil, types.Unknown},
	}

	for _, tt := range tests {
		city := CityFromAddress(tt.address)
		assert.Equal(t, tt.wantCity, city)
		assert.Equal(t, tt.wantTier, CityTier(city))
	}
}

func TestFindMetro(t *testing.T) {
	t.Run("gazetteer and marker agree", func(t *testing.T) {
		stations := FindMetro("Москва, Тверская улица, 7, м. Охотный ряд")
		assert.Equal(t, []string{"Охотный ряд"}, stations)
	})

	t.Run("several stations in order", func(t *testing.T) {
		stations := FindMetro("Москва, Смоленская, Арбатская, улица Арбат, 1")
		assert.Equal(t, []string{"Смоленская", "Арбатская"}, stations)
	})

	t.Run("marker for a station outside the list", func(t *testing.T) {
		stations := FindMetro("Москва, метро Новая станция, дом 1")
		assert.Equal(t, []string{"новая станция"}, stations)
	})

	t.Run("no metro", func(t *testing.T) {
		assert.Empty(t, FindMetro("Казань, улица Баумана, 1"))
	})
}

func TestHasDistrict(t *testing.T) {
	assert.True(t, HasDistrict("Москва, ЦАО, р-н Арбат"))
	assert.True(t, HasDistrict("Екатеринбург, Кировский район"))
	assert.True(t, HasDistrict("Москва, Зеленоградский АО"))
	assert.False(t, HasDistrict("Москва, Тверская улица, 7"))
}

func TestParsePublished(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	scraped := time.Date(2025, time.March, 15, 12, 30, 0, 0, msk)
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, msk) }

	tests := []struct {
		text   string
		want   time.Time
		wantOK bool
	}{
		{"сегодня", day(2025, time.March, 15), true},
		{"вчера", day(2025, time.March, 14), true},
		{"3 дня назад", day(2025, time.March, 12), true},
		{"2 недели назад", day(2025, time.March, 1), true},
		{"5 часов назад", day(2025, time.March, 15), true},
		{"05.03.2025", day(2025, time.March, 5), true},
		{"12 марта 2025", day(2025, time.March, 12), true},
		{"10 марта", day(2025, time.March, 10), true},
		{"20 декабря", day(2024, time.December, 20), true},
		{"31.02.2025", time.Time{}, false},
		{"неизвестно", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ParsePublished(tt.text, scraped)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestCalendarHelpers(t *testing.T) {
	sat := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 5, weekdayMondayZero(sat))
	assert.Equal(t, 0, weekdayMondayZero(sat.AddDate(0, 0, 2)))
	assert.Equal(t, 3, daysBetween(sat.AddDate(0, 0, -3), sat))
}
