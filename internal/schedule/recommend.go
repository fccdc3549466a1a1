package schedule

import "office_climate/internal/models"

// Recommend compares the latest reading against the effective target.
// It returns ok=false when there is no reading. A reading at or above target
// means off, anything below means on. There is no hysteresis here; dwell time
// or dead-band control belongs in a layer on top of this comparator.
func Recommend(latest *models.Reading, target models.EffectiveTarget) (state models.PowerState, ok bool) {
	if latest == nil {
		return models.PowerOff, false
	}
	if latest.Temperature >= target.Temperature {
		return models.PowerOff, true
	}
	return models.PowerOn, true
}
