package stats

import "math"

// Веса индекса доверия
const (
	flaggedWeight    = 85.0
	blockWeight      = 20.0
	reportWeight     = 15.0
	blockBonusCap    = 0.15
	reportPenaltyCap = 0.12
)

// TrustInput — счетчики, из которых считается индекс доверия
type TrustInput struct {
	Scanned  int64 `json:"scanned"`
	Flagged  int64 `json:"flagged"`
	Blocked  int64 `json:"blocked"`
	Reported int64 `json:"reported"`
}

// TrustScore возвращает индекс доверия в диапазоне [0, 100].
//  1. Знаменатель — scanned, но не меньше 1 (scanned=0 считается как 1).
//  2. Доля помеченных снижает индекс, доля блокировок повышает (с потолком),
//     доля жалоб снижает (с потолком).
//  3. Результат округляется и зажимается в [0, 100].
func TrustScore(in TrustInput) int {
	s := math.Max(1, float64(in.Scanned))

	flaggedRate := float64(in.Flagged) / s
	blockBonus := clamp(float64(in.Blocked)/s, 0, blockBonusCap)
	reportPenalty := clamp(float64(in.Reported)/s, 0, reportPenaltyCap)

	score := 100 - flaggedRate*flaggedWeight + blockBonus*blockWeight - reportPenalty*reportWeight
	return int(clamp(round(score), 0, 100))
}
