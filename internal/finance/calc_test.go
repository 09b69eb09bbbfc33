package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	result := Calculate(CalculationInput{
		QRAmount:       3000,
		CashAmount:     5000,
		TerminalAmount: 2000,
	})

	assert.Equal(t, int64(10000), result.TotalRevenue)
	assert.Equal(t, int64(2000), result.Salary) // 20% от выручки
	assert.Equal(t, int64(2000), result.ResponsibleSalary)
	assert.Equal(t, int64(10000), result.TotalDaily)
	assert.Equal(t, int64(5000), result.TotalCash)
	assert.Equal(t, int64(3000), result.TotalQR)
}

func TestCalculateSalaryRounding(t *testing.T) {
	// 20% от 1003 = 200.6 — округление половины от нуля дает 201
	result := Calculate(CalculationInput{CashAmount: 1003})
	assert.Equal(t, int64(201), result.Salary)

	// 20% от 1002 = 200.4 — вниз
	result = Calculate(CalculationInput{CashAmount: 1002})
	assert.Equal(t, int64(200), result.Salary)

	// 20% от 1012 = 202.4 -> 202; от 1013 = 202.6 -> 203
	assert.Equal(t, int64(202), Calculate(CalculationInput{CashAmount: 1012}).Salary)
	assert.Equal(t, int64(203), Calculate(CalculationInput{CashAmount: 1013}).Salary)
}

func TestCalculateZeroRevenue(t *testing.T) {
	result := Calculate(CalculationInput{})
	assert.Zero(t, result.TotalRevenue)
	assert.Zero(t, result.Salary)
}

func TestCashInEnvelope(t *testing.T) {
	// наличные минус все четыре бонусные составляющие
	assert.Equal(t, int64(3500), CashInEnvelope(5000, 500, 500, 0, 500))

	// штраф (отрицательный bonus_penalty) увеличивает конверт
	assert.Equal(t, int64(5300), CashInEnvelope(5000, 0, -300, 0, 0))

	// конверт может уйти в минус
	assert.Equal(t, int64(-1000), CashInEnvelope(0, 500, 0, 500, 0))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"1000", 1000},
		{"1000.50", 1001}, // половина — от нуля
		{"1000,49", 1000},
		{"  250  ", 250},
		{"0", 0},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.input)
		require.NoError(t, err, "ввод %q", tt.input)
		assert.Equal(t, tt.want, got, "ввод %q", tt.input)
	}
}

func TestParseAmountInvalid(t *testing.T) {
	for _, input := range []string{"", "abc", "12abc", "-100", "1.2.3"} {
		_, err := ParseAmount(input)
		assert.Error(t, err, "ввод %q", input)
	}
}

func TestParseSignedAmount(t *testing.T) {
	got, err := ParseSignedAmount("-500")
	require.NoError(t, err)
	assert.Equal(t, int64(-500), got)

	got, err = ParseSignedAmount("-0,5")
	require.NoError(t, err)
	assert.Equal(t, int64(-1), got)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1500 ₽", FormatAmount(1500))
	assert.Equal(t, "0 ₽", FormatAmount(0))
	assert.Equal(t, "-300 ₽", FormatAmount(-300))
	assert.Equal(t, "+300 ₽", FormatSignedAmount(300))
	assert.Equal(t, "-300 ₽", FormatSignedAmount(-300))
}
