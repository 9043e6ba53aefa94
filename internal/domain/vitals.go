package domain

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/spec-kit/triage-service/pkg/util/errorutil"
)

// ConsciousnessLevel follows the AVPU scale.
type ConsciousnessLevel string

const (
	ConsciousnessAlert        ConsciousnessLevel = "alert"
	ConsciousnessVerbal       ConsciousnessLevel = "verbal"
	ConsciousnessPain         ConsciousnessLevel = "pain"
	ConsciousnessUnresponsive ConsciousnessLevel = "unresponsive"
)

// VitalSigns captures the measurements recorded at triage. Consciousness
// and pain level are optional; everything else is mandatory.
type VitalSigns struct {
	HeartRate          int                 `json:"heartRate"`
	BloodPressure      string              `json:"bloodPressure"`
	Temperature        float64             `json:"temperature"`
	OxygenSaturation   int                 `json:"oxygenSaturation"`
	RespiratoryRate    int                 `json:"respiratoryRate"`
	ConsciousnessLevel *ConsciousnessLevel `json:"consciousnessLevel,omitempty"`
	PainLevel          *int                `json:"painLevel,omitempty"`
}

// Validate range-checks every measurement. The returned error names the
// first vital found out of range.
func (v VitalSigns) Validate() error {
	if v.HeartRate < 20 || v.HeartRate > 250 {
		return vitalOutOfRange("heartRate", v.HeartRate, "20-250 bpm")
	}
	if _, _, err := v.ParseBloodPressure(); err != nil {
		return err
	}
	if v.Temperature < 30 || v.Temperature > 45 {
		return vitalOutOfRange("temperature", v.Temperature, "30-45 C")
	}
	if v.OxygenSaturation < 50 || v.OxygenSaturation > 100 {
		return vitalOutOfRange("oxygenSaturation", v.OxygenSaturation, "50-100 %")
	}
	if v.RespiratoryRate < 4 || v.RespiratoryRate > 60 {
		return vitalOutOfRange("respiratoryRate", v.RespiratoryRate, "4-60 rpm")
	}
	if v.ConsciousnessLevel != nil {
		switch *v.ConsciousnessLevel {
		case ConsciousnessAlert, ConsciousnessVerbal, ConsciousnessPain, ConsciousnessUnresponsive:
		default:
			return apperrors.NewValidationError("invalid consciousnessLevel", map[string]any{
				"consciousnessLevel": string(*v.ConsciousnessLevel),
			})
		}
	}
	if v.PainLevel != nil && (*v.PainLevel < 0 || *v.PainLevel > 10) {
		return vitalOutOfRange("painLevel", *v.PainLevel, "0-10")
	}
	return nil
}

// ParseBloodPressure splits the "systolic/diastolic" reading and checks
// both values are physiologically plausible.
func (v VitalSigns) ParseBloodPressure() (systolic, diastolic int, err error) {
	parts := strings.Split(strings.TrimSpace(v.BloodPressure), "/")
	if len(parts) != 2 {
		return 0, 0, apperrors.NewValidationError("bloodPressure must be formatted as systolic/diastolic", map[string]any{
			"bloodPressure": v.BloodPressure,
		})
	}
	systolic, sErr := strconv.Atoi(strings.TrimSpace(parts[0]))
	diastolic, dErr := strconv.Atoi(strings.TrimSpace(parts[1]))
	if sErr != nil || dErr != nil {
		return 0, 0, apperrors.NewValidationError("bloodPressure must contain numeric values", map[string]any{
			"bloodPressure": v.BloodPressure,
		})
	}
	if systolic < 50 || systolic > 260 {
		return 0, 0, vitalOutOfRange("bloodPressure", systolic, "systolic 50-260 mmHg")
	}
	if diastolic < 20 || diastolic > 200 {
		return 0, 0, vitalOutOfRange("bloodPressure", diastolic, "diastolic 20-200 mmHg")
	}
	return systolic, diastolic, nil
}

func vitalOutOfRange(name string, value any, expected string) error {
	return apperrors.NewValidationError(
		fmt.Sprintf("%s out of range", name),
		map[string]any{"vital": name, "value": value, "expected": expected},
	)
}
