package surf

// Reason tags are structured strings for presentation layers; the core never
// parses them back. Order is stable: one leading bucket tag, then factor
// tags in a fixed factor order.

const (
	reasonEpic = "epic conditions"
	reasonGood = "good conditions"
	reasonFair = "fair conditions"
	reasonPoor = "poor conditions"

	reasonSwellIdeal   = "swell angle ideal"
	reasonSwellOff     = "swell direction off"
	reasonSwellUnknown = "swell direction unknown"

	reasonOutsideWindow = "outside swell window"
	reasonShadowed      = "swell partially shadowed"

	reasonEnergyVeryStrong = "energy very strong"
	reasonEnergySolid      = "energy solid"
	reasonEnergyWeak       = "energy weak"

	reasonCleanSurface = "clean surface"
	reasonChoppy       = "choppy wind sea"

	reasonWindFavorable = "wind favorable"
	reasonWindBad       = "onshore/cross wind too strong"

	reasonShapeIdeal = "wave shape ideal"
	reasonShapePoor  = "wave shape unfavorable"
)

// Thresholds that trip a factor tag.
const (
	reasonTextureClean = 0.8
	reasonTextureChop  = 0.4
	reasonWindGoodMin  = 0.8
	reasonWindBadMax   = 0.3
)

func bucketReason(score int) string {
	switch ToLabel(score) {
	case LabelEpic:
		return reasonEpic
	case LabelGood:
		return reasonGood
	case LabelOK:
		return reasonFair
	default:
		return reasonPoor
	}
}

// buildReasons produces the ordered tag list for a scored hour.
func buildReasons(score int, scores map[string]float64, power float64) []string {
	reasons := []string{bucketReason(score)}

	switch {
	case scores[FactorSwellAngle] >= 1:
		reasons = append(reasons, reasonSwellIdeal)
	case scores[FactorSwellAngle] == 0 && scores[FactorWindow] == 0:
		// Both zero usually means the direction was absent entirely.
		reasons = append(reasons, reasonSwellUnknown)
	case scores[FactorSwellAngle] == 0:
		reasons = append(reasons, reasonSwellOff)
	}

	switch scores[FactorWindow] {
	case 0:
		if scores[FactorSwellAngle] > 0 {
			reasons = append(reasons, reasonOutsideWindow)
		}
	case shadowBlockScore:
		reasons = append(reasons, reasonShadowed)
	}

	switch {
	case power >= powerHighKwM:
		reasons = append(reasons, reasonEnergyVeryStrong)
	case power >= powerMidKwM:
		reasons = append(reasons, reasonEnergySolid)
	case power < powerLowKwM:
		reasons = append(reasons, reasonEnergyWeak)
	}

	switch {
	case scores[FactorTexture] >= reasonTextureClean:
		reasons = append(reasons, reasonCleanSurface)
	case scores[FactorTexture] <= reasonTextureChop:
		reasons = append(reasons, reasonChoppy)
	}

	switch {
	case scores[FactorWind] >= reasonWindGoodMin:
		reasons = append(reasons, reasonWindFavorable)
	case scores[FactorWind] <= reasonWindBadMax:
		reasons = append(reasons, reasonWindBad)
	}

	switch {
	case scores[FactorSteepness] >= 1:
		reasons = append(reasons, reasonShapeIdeal)
	case scores[FactorSteepness] == 0:
		reasons = append(reasons, reasonShapePoor)
	}

	return reasons
}
