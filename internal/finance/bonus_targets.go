package finance

import (
	"fmt"
	"sort"
	"strings"

	"Aquagrim/internal/constants"
)

// ParseBonusTargets разбирает строку планок вида "1000, 2000, 3000"
// в отсортированный список сумм. Пустая строка — отсутствие планок.
func ParseBonusTargets(input string) ([]int64, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, nil
	}

	parts := strings.Split(trimmed, ",")
	targets := make([]int64, 0, len(parts))
	for _, part := range parts {
		v, err := ParseAmount(part)
		if err != nil {
			return nil, fmt.Errorf("некорректная планка %q: %w", strings.TrimSpace(part), err)
		}
		targets = append(targets, v)
	}

	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
	return targets, nil
}

// BonusTargetsToString сериализует планки в хранимый формат "1000,2000,3000".
func BonusTargetsToString(targets []int64) string {
	parts := make([]string, len(targets))
	for i, t := range targets {
		parts[i] = fmt.Sprintf("%d", t)
	}
	return strings.Join(parts, ",")
}

// FormatBonusTargets — отображение планок в сообщениях: "1000 ₽, 2000 ₽".
func FormatBonusTargets(targetsStr string) string {
	targets, err := ParseBonusTargets(targetsStr)
	if err != nil || len(targets) == 0 {
		return "не заданы"
	}
	parts := make([]string, len(targets))
	for i, t := range targets {
		parts[i] = FormatAmount(t)
	}
	return strings.Join(parts, ", ")
}

// BonusByTargets считает бонус за достигнутые планки: планки сортируются
// по возрастанию, засчитываются подряд, пока выручка покрывает планку;
// первая непокрытая планка останавливает подсчет. Каждая достигнутая
// планка дает фиксированный бонус.
func BonusByTargets(totalRevenue int64, targetsStr string) int64 {
	targets, err := ParseBonusTargets(targetsStr)
	if err != nil || len(targets) == 0 {
		return 0
	}

	var reached int64
	for _, t := range targets {
		if totalRevenue < t {
			break
		}
		reached++
	}
	return reached * constants.TIER_BONUS_AMOUNT
}
