package domain

import "fmt"

// Priority is the clinical urgency rank. Lower value means more critical:
// P1 is immediate resuscitation, P5 is non-urgent.
type Priority int

const (
	PriorityP1 Priority = 1
	PriorityP2 Priority = 2
	PriorityP3 Priority = 3
	PriorityP4 Priority = 4
	PriorityP5 Priority = 5
)

// Valid reports whether the priority is one of P1..P5.
func (p Priority) Valid() bool {
	return p >= PriorityP1 && p <= PriorityP5
}

func (p Priority) String() string {
	return fmt.Sprintf("P%d", int(p))
}

// MoreCriticalThan reports whether p outranks other in urgency.
func (p Priority) MoreCriticalThan(other Priority) bool {
	return p < other
}

// CalculatePriority scores vitals and age into an automatic priority.
// Each deranged vital contributes to the score; extremes of age add one
// point. The mapping is deliberately conservative: a handful of abnormal
// vitals lands the patient in the emergency band.
func CalculatePriority(vitals VitalSigns, age int) Priority {
	score := 0

	switch {
	case vitals.HeartRate > 140 || vitals.HeartRate < 40:
		score += 3
	case vitals.HeartRate > 120 || vitals.HeartRate < 45:
		score += 2
	case vitals.HeartRate > 100 || vitals.HeartRate < 55:
		score++
	}

	switch {
	case vitals.OxygenSaturation < 90:
		score += 3
	case vitals.OxygenSaturation < 93:
		score += 2
	case vitals.OxygenSaturation < 96:
		score++
	}

	switch {
	case vitals.RespiratoryRate > 30 || vitals.RespiratoryRate < 8:
		score += 3
	case vitals.RespiratoryRate > 25 || vitals.RespiratoryRate < 10:
		score += 2
	case vitals.RespiratoryRate > 20 || vitals.RespiratoryRate < 12:
		score++
	}

	switch {
	case vitals.Temperature > 40.5 || vitals.Temperature < 34:
		score += 2
	case vitals.Temperature > 39 || vitals.Temperature < 35.5:
		score++
	}

	if systolic, _, err := vitals.ParseBloodPressure(); err == nil {
		switch {
		case systolic > 200 || systolic < 80:
			score += 3
		case systolic > 180 || systolic < 90:
			score += 2
		case systolic > 150 || systolic < 100:
			score++
		}
	}

	if vitals.ConsciousnessLevel != nil {
		switch *vitals.ConsciousnessLevel {
		case ConsciousnessUnresponsive:
			score += 4
		case ConsciousnessPain:
			score += 3
		case ConsciousnessVerbal:
			score += 2
		}
	}

	if vitals.PainLevel != nil && *vitals.PainLevel >= 8 {
		score++
	}

	if age >= 65 || age < 1 {
		score++
	}

	switch {
	case score >= 6:
		return PriorityP1
	case score >= 4:
		return PriorityP2
	case score >= 2:
		return PriorityP3
	case score >= 1:
		return PriorityP4
	default:
		return PriorityP5
	}
}

// VitalsAreCritical reports whether vitals on their own warrant an
// immediate critical alert, independent of the computed priority.
func VitalsAreCritical(vitals VitalSigns) bool {
	if vitals.OxygenSaturation < 90 {
		return true
	}
	if vitals.HeartRate > 140 || vitals.HeartRate < 40 {
		return true
	}
	if vitals.RespiratoryRate > 30 || vitals.RespiratoryRate < 8 {
		return true
	}
	if vitals.ConsciousnessLevel != nil && *vitals.ConsciousnessLevel == ConsciousnessUnresponsive {
		return true
	}
	if systolic, _, err := vitals.ParseBloodPressure(); err == nil && (systolic > 200 || systolic < 80) {
		return true
	}
	return false
}
