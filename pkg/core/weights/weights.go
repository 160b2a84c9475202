package weights

import (
	"fmt"
	"strings"
	"time"

	"github.com/jakechorley/device-loans/pkg/core/model"
)

const (
	MinWeight = 1
	MaxWeight = 10
)

// Attribute names one term of the scoring rubric
type Attribute string

const (
	AttributeOccupation Attribute = "occupation"
	AttributeInternet   Attribute = "internet"
	AttributeDevice     Attribute = "device"
	AttributeAge        Attribute = "age"
)

// Attributes lists the rubric terms in display order
var Attributes = []Attribute{AttributeOccupation, AttributeInternet, AttributeDevice, AttributeAge}

// ParseAttribute accepts the attribute name or the legacy column name it was stored under
func ParseAttribute(s string) (Attribute, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "occupation", "ocupacion":
		return AttributeOccupation, nil
	case "internet", "acceso_internet":
		return AttributeInternet, nil
	case "device", "dispositivo_propio":
		return AttributeDevice, nil
	case "age", "edad":
		return AttributeAge, nil
	}
	return "", fmt.Errorf("unknown weight attribute %q (expected one of occupation, internet, device, age)", s)
}

// GlobalWeights are the admin-editable multipliers applied to each rubric term
type GlobalWeights struct {
	Occupation int `yaml:"occupation" koanf:"occupation" validate:"min=1,max=10"`
	Internet   int `yaml:"internet" koanf:"internet" validate:"min=1,max=10"`
	Device     int `yaml:"device" koanf:"device" validate:"min=1,max=10"`
	Age        int `yaml:"age" koanf:"age" validate:"min=1,max=10"`
}

// DefaultGlobalWeights are used when nothing has been committed yet
var DefaultGlobalWeights = GlobalWeights{Occupation: 4, Internet: 5, Device: 4, Age: 3}

// Get returns the weight for an attribute
func (w GlobalWeights) Get(attr Attribute) int {
	switch attr {
	case AttributeOccupation:
		return w.Occupation
	case AttributeInternet:
		return w.Internet
	case AttributeDevice:
		return w.Device
	case AttributeAge:
		return w.Age
	}
	return 0
}

// With returns a copy with one attribute replaced
func (w GlobalWeights) With(attr Attribute, value int) GlobalWeights {
	switch attr {
	case AttributeOccupation:
		w.Occupation = value
	case AttributeInternet:
		w.Internet = value
	case AttributeDevice:
		w.Device = value
	case AttributeAge:
		w.Age = value
	}
	return w
}

// Validate checks every weight is within [MinWeight, MaxWeight]
func (w GlobalWeights) Validate() error {
	for _, attr := range Attributes {
		if err := validateValue(attr, w.Get(attr)); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(attr Attribute, value int) error {
	if value < MinWeight || value > MaxWeight {
		return fmt.Errorf("weight %s must be between %d and %d, got %d", attr, MinWeight, MaxWeight, value)
	}
	return nil
}

// Config is a committed, versioned set of global weights.
// Scoring only ever reads a Config, never a draft.
type Config struct {
	Version   int
	Weights   GlobalWeights
	UpdatedAt time.Time
}

// InitialConfig builds version 0 from the given weights
func InitialConfig(w GlobalWeights) Config {
	return Config{Version: 0, Weights: w}
}

// Internal lookup tables. These are fixed and not editable.
var occupationPoints = map[model.Occupation]int{
	model.OccupationStudent:    10,
	model.OccupationTeacher:    8,
	model.OccupationWorker:     6,
	model.OccupationUnemployed: 5,
	model.OccupationRetired:    7,
	model.OccupationOther:      3,
}

// OccupationPoints returns 0 for unknown occupations
func OccupationPoints(o model.Occupation) int {
	return occupationPoints[o]
}

// InternetPoints favours applicants without internet access
func InternetPoints(hasInternet bool) int {
	if hasInternet {
		return 0
	}
	return 1
}

// DevicePoints favours applicants without a device of their own
func DevicePoints(hasDevice bool) int {
	if hasDevice {
		return 0
	}
	return 1
}

// AgePoints maps an age to its bracket. Unknown age scores 0.
// The brackets are intentionally non-monotonic: 60+ scores above 18-59.
func AgePoints(age *int) int {
	if age == nil {
		return 0
	}
	switch e := *age; {
	case e <= 5:
		return 10
	case e <= 10:
		return 9
	case e <= 17:
		return 7
	case e <= 30:
		return 5
	case e <= 59:
		return 4
	default:
		return 8
	}
}
