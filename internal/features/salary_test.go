package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSalary(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		from     *int64
		to       *int64
		currency *string
		gross    *bool
	}{
		{name: "range with from and to", text: "от 150000 до 220000", from: int64Ptr(150000), to: int64Ptr(220000)},
		{name: "from only", text: "от 200000", from: int64Ptr(200000)},
		{name: "grouped digits and gross", text: "от 150 000 до 220 000 ₽ до вычета налогов",
			from: int64Ptr(150000), to: int64Ptr(220000), currency: strPtr("RUB"), gross: boolPtr(true)},
		{name: "to only net", text: "до 3 000 $ на руки", to: int64Ptr(3000), currency: strPtr("USD"), gross: boolPtr(false)},
		{name: "dash range", text: "1 500–2 000 €", from: int64Ptr(1500), to: int64Ptr(2000), currency: strPtr("EUR")},
		{name: "reversed bounds are swapped", text: "300 000 – 200 000 ₸", from: int64Ptr(200000), to: int64Ptr(300000), currency: strPtr("KZT")},
		{name: "belarusian roubles are not RUB", text: "от 2 000 бел. руб.", from: int64Ptr(2000), currency: strPtr("BYN")},
		{name: "Br token", text: "от 2 500 Br", from: int64Ptr(2500), currency: strPtr("BYN")},
		{name: "no numbers", text: "з/п не указана"},
		{name: "empty", text: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ParseSalary(tt.text)
			assert.Equal(t, tt.from, s.From)
			assert.Equal(t, tt.to, s.To)
			assert.Equal(t, tt.currency, s.Currency)
			assert.Equal(t, tt.gross, s.Gross)
		})
	}
}

func TestSalaryDerived(t *testing.T) {
	rates := DefaultRatesRUB()

	t.Run("both bounds", func(t *testing.T) {
		mid, width, exact, rub := ParseSalary("от 150000 до 220000").Derived(rates)
		require.NotNil(t, mid)
		assert.Equal(t, 185000.0, *mid)
		assert.Equal(t, int64(70000), *width)
		assert.False(t, *exact)
		assert.Nil(t, rub, "no currency means no rouble value")
	})

	t.Run("single bound", func(t *testing.T) {
		mid, width, exact, _ := ParseSalary("от 200000").Derived(rates)
		require.NotNil(t, mid)
		assert.Equal(t, 200000.0, *mid)
		assert.Equal(t, int64(0), *width)
		assert.True(t, *exact)
	})

	t.Run("equal bounds are exact", func(t *testing.T) {
		_, width, exact, _ := ParseSalary("100 000 - 100 000 руб.").Derived(rates)
		assert.Equal(t, int64(0), *width)
		assert.True(t, *exact)
	})

	t.Run("converted to roubles", func(t *testing.T) {
		_, _, _, rub := ParseSalary("до 3 000 USD").Derived(rates)
		require.NotNil(t, rub)
		assert.InDelta(t, 270000.0, *rub, 0.001)
	})

	t.Run("unknown rate", func(t *testing.T) {
		_, _, _, rub := ParseSalary("от 1000 $").Derived(map[string]float64{"RUB": 1})
		assert.Nil(t, rub)
	})

	t.Run("no bounds", func(t *testing.T) {
		mid, width, exact, rub := Salary{}.Derived(rates)
		assert.Nil(t, mid)
		assert.Nil(t, width)
		assert.Nil(t, exact)
		assert.Nil(t, rub)
	})
}
