package currency_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wplibs/nodata/pkg/currency"
)

func TestCurrency_Decode(t *testing.T) {
	t.Parallel()

	var c currency.Currency
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 12,
		"currency_code": "CHF",
		"name": "Swiss Franc",
		"price": 0.88,
		"image": "https://example.com/chf.png",
		"state_at": "2024-03-01 12:30:00",
		"format_state_at": "01.03.2024",
		"days_state_at": null
	}`), &c))

	assert.Equal(t, currency.Scalar("12"), c.ID)
	assert.Equal(t, currency.Scalar("0.88"), c.Price)
	assert.Empty(t, c.DaysStateAt)

	ts, ok := c.StateTime()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC), ts)

	row := c.Row()
	assert.Equal(t, int64(12), row["id"])
	assert.InDelta(t, 0.88, row["price"], 1e-9)
	assert.Equal(t, "", row["days_state_at"])
}

func TestScalar(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in   string
		want currency.Scalar
		err  bool
	}{
		"string": {in: `"1.50"`, want: "1.50"},
		"number": {in: `3`, want: "3"},
		"bool":   {in: `true`, want: "true"},
		"null":   {in: `null`, want: ""},
		"object": {in: `{"a":1}`, err: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var s currency.Scalar

			err := json.Unmarshal([]byte(tc.in), &s)
			if tc.err {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, s)
		})
	}

	f, ok := currency.Scalar("2.5").Float()
	require.True(t, ok)
	assert.InDelta(t, 2.5, f, 0)

	_, ok = currency.Scalar("n/a").Int()
	assert.False(t, ok)
}

func TestScalar_Int(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in     currency.Scalar
		want   int
		wantOK bool
	}{
		"integer":          {in: "42", want: 42, wantOK: true},
		"padded":           {in: " 7 ", want: 7, wantOK: true},
		"negative":         {in: "-3", want: -3, wantOK: true},
		"decimal":          {in: "3.9", want: 3, wantOK: true},
		"exponent":         {in: "1e3", want: 1000, wantOK: true},
		"NaN":              {in: "NaN"},
		"infinity":         {in: "Inf"},
		"negative inf":     {in: "-Infinity"},
		"beyond int range": {in: "1e300"},
		"below int range":  {in: "-1e300"},
		"text":             {in: "n/a"},
		"empty":            {in: ""},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, ok := tc.in.Int()
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
