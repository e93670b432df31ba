package btw_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zzptax/zzptax/internal/domain"
	"github.com/zzptax/zzptax/internal/domain/btw"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestParseRate(t *testing.T) {
	for _, p := range []int{0, 9, 21} {
		r, err := btw.ParseRate(p)
		require.NoError(t, err)
		assert.Equal(t, btw.Rate(p), r)
	}

	for _, p := range []int{-100, -1, 6, 19, 100} {
		_, err := btw.ParseRate(p)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidRate), "rate %d", p)

		var rateErr *domain.InvalidRateError
		require.True(t, errors.As(err, &rateErr))
		assert.True(t, rateErr.Rate.Equal(decimal.NewFromInt(int64(p))))
	}
}

func TestVatOnNet(t *testing.T) {
	v, err := btw.VatOnNet(d("100"), btw.Rate21)
	require.NoError(t, err)
	assert.True(t, v.Equal(d("21")))

	v, err = btw.VatOnNet(d("100"), btw.Rate9)
	require.NoError(t, err)
	assert.True(t, v.Equal(d("9")))

	v, err = btw.VatOnNet(d("100"), btw.Rate0)
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestVatOnNet_NoInternalRounding(t *testing.T) {
	v, err := btw.VatOnNet(d("0.01"), btw.Rate21)
	require.NoError(t, err)
	assert.True(t, v.Equal(d("0.0021")), v.String())
}

func TestVatOnNet_RejectsUnknownRate(t *testing.T) {
	_, err := btw.VatOnNet(d("100"), btw.Rate(19))
	assert.ErrorIs(t, err, domain.ErrInvalidRate)

	_, err = btw.VatFromGross(d("100"), btw.Rate(-100))
	assert.ErrorIs(t, err, domain.ErrInvalidRate)
}

func TestVatFromGross(t *testing.T) {
	v, err := btw.VatFromGross(d("121"), btw.Rate21)
	require.NoError(t, err)
	assert.True(t, v.Equal(d("21")), v.String())

	v, err = btw.VatFromGross(d("109"), btw.Rate9)
	require.NoError(t, err)
	assert.True(t, v.Equal(d("9")), v.String())

	v, err = btw.VatFromGross(d("50"), btw.Rate0)
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestNetDue_Scenario(t *testing.T) {
	s, err := btw.NetDue(d("50000"), d("12000"), btw.Rate21)
	require.NoError(t, err)

	assert.Equal(t, "10500.00", domain.Round2(s.SalesVat).StringFixed(2))
	assert.Equal(t, "2520.00", domain.Round2(s.PurchasesVat).StringFixed(2))
	assert.Equal(t, "7980.00", domain.Round2(s.NetVatDue).StringFixed(2))
	assert.Equal(t, btw.DirectionPay, s.Direction())
}

func TestNetDue_RefundKeepsSign(t *testing.T) {
	s, err := btw.NetDue(d("1000"), d("5000"), btw.Rate21)
	require.NoError(t, err)
	assert.True(t, s.NetVatDue.Equal(d("-840")), s.NetVatDue.String())
	assert.Equal(t, btw.DirectionReceive, s.Direction())
}

func TestNetDue_Zero(t *testing.T) {
	s, err := btw.NetDue(decimal.Zero, decimal.Zero, btw.Rate9)
	require.NoError(t, err)
	assert.True(t, s.NetVatDue.IsZero())
	assert.Equal(t, btw.DirectionNone, s.Direction())
}

func TestNetDue_InvalidRate(t *testing.T) {
	_, err := btw.NetDue(d("1"), d("1"), btw.Rate(7))
	assert.ErrorIs(t, err, domain.ErrInvalidRate)
}

func TestVatOnNet_Additive(t *testing.T) {
	amounts := []string{"0", "0.01", "1", "19.99", "333.33", "1234.567", "50000", "99999.99"}
	for _, r := range btw.Rates {
		for _, a := range amounts {
			for _, b := range amounts {
				va, _ := btw.VatOnNet(d(a), r)
				vb, _ := btw.VatOnNet(d(b), r)
				vab, _ := btw.VatOnNet(d(a).Add(d(b)), r)
				assert.True(t, va.Add(vb).Equal(vab), "rate %d: %s + %s", r, a, b)
			}
		}
	}
}

func TestVatFromGross_InverseOfVatOnNet(t *testing.T) {
	tolerance := d("0.000001")
	for _, r := range btw.Rates {
		for _, n := range []string{"0", "0.01", "10", "99.95", "12345.67", "1000000"} {
			net := d(n)
			gross := net.Mul(decimal.NewFromInt(1).Add(r.Decimal().Div(domain.Hundred)))

			fromGross, err := btw.VatFromGross(gross, r)
			require.NoError(t, err)
			onNet, err := btw.VatOnNet(net, r)
			require.NoError(t, err)

			assert.True(t, fromGross.Sub(onNet).Abs().LessThanOrEqual(tolerance),
				"rate %d net %s: %s vs %s", r, n, fromGross, onNet)
		}
	}
}

func TestQuarterPeriod(t *testing.T) {
	p, err := btw.QuarterPeriod(2024, 1)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), p.End)
	assert.Equal(t, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), p.DueDate)
	assert.Equal(t, "2024-Q1", p.Label())

	p, err = btw.QuarterPeriod(2024, 4)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), p.End)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), p.DueDate)
}

func TestQuarterPeriod_Invalid(t *testing.T) {
	_, err := btw.QuarterPeriod(2024, 5)
	assert.ErrorIs(t, err, domain.ErrMalformedInput)

	_, err = btw.QuarterPeriod(0, 1)
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
}

func TestPeriodFor(t *testing.T) {
	p := btw.PeriodFor(time.Date(2025, 8, 14, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, 3, p.Quarter)
	assert.Equal(t, time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC), p.DueDate)
}
