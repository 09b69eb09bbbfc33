package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBonusTargets(t *testing.T) {
	targets, err := ParseBonusTargets("3000, 1000, 2000")
	require.NoError(t, err)
	assert.Equal(t, []int64{1000, 2000, 3000}, targets, "планки сортируются по возрастанию")

	targets, err = ParseBonusTargets("")
	require.NoError(t, err)
	assert.Nil(t, targets)

	targets, err = ParseBonusTargets("5000")
	require.NoError(t, err)
	assert.Equal(t, []int64{5000}, targets)

	targets, err = ParseBonusTargets("0, 1000")
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1000}, targets, "нулевая планка допустима")
}

func TestParseBonusTargetsInvalid(t *testing.T) {
	for _, input := range []string{"1000, abc", "1000,,2000", "-500"} {
		_, err := ParseBonusTargets(input)
		assert.Error(t, err, "ввод %q", input)
	}
}

func TestBonusTargetsToString(t *testing.T) {
	assert.Equal(t, "1000,2000", BonusTargetsToString([]int64{1000, 2000}))
	assert.Equal(t, "", BonusTargetsToString(nil))
}

func TestFormatBonusTargets(t *testing.T) {
	assert.Equal(t, "1000 ₽, 2000 ₽", FormatBonusTargets("2000,1000"))
	assert.Equal(t, "не заданы", FormatBonusTargets(""))
}

func TestBonusByTargets(t *testing.T) {
	const targets = "1000,2000,3000"

	assert.Zero(t, BonusByTargets(999, targets), "ни одна планка не достигнута")
	assert.Equal(t, int64(500), BonusByTargets(1000, targets), "планка достигается включительно")
	assert.Equal(t, int64(1000), BonusByTargets(2500, targets))
	assert.Equal(t, int64(1500), BonusByTargets(100000, targets), "все планки")
}

func TestBonusByTargetsUnsortedInput(t *testing.T) {
	// планки в хранимой строке могут идти в любом порядке:
	// перед подсчетом они сортируются, 1500 покрывает 1000 и 1500
	assert.Equal(t, int64(1000), BonusByTargets(1500, "2000,1000,1500"))
}

func TestBonusByTargetsEmptyOrBroken(t *testing.T) {
	assert.Zero(t, BonusByTargets(10000, ""))
	assert.Zero(t, BonusByTargets(10000, "мусор"))
}
