package model

import "time"

// Status is the terminal state of a ValidationUnit.
type Status string

const (
	// StatusPass means every requested category check passed and no error
	// was recorded in any phase.
	StatusPass Status = "pass"
	// StatusFail means at least one category check recorded a violation,
	// or a phase failed outright.
	StatusFail Status = "fail"
	// StatusTimeout means the unit's worker exceeded its budget and was
	// abandoned. Timeouts are never retried automatically.
	StatusTimeout Status = "timeout"
	// StatusCancelled means fail-fast cancellation prevented the unit from
	// ever being scheduled.
	StatusCancelled Status = "cancelled"
)

// Stage labels the phase in which a unit failed, so that environment
// problems (instantiation, load) can be told apart from genuine rule
// violations (validation).
type Stage string

const (
	StageInstantiate Stage = "instantiate"
	StageLoad        Stage = "load"
	StageValidate    Stage = "validate"
	StageDispose     Stage = "dispose"
	StageNone        Stage = ""
)

// LoadPolicy decides how a failed load/configure phase is treated.
type LoadPolicy int

const (
	// LoadFatal fails the unit when applying the expected configuration
	// errors out. This is the default.
	LoadFatal LoadPolicy = iota
	// LoadAdvisory records the load failure as a violation and continues
	// to the validation phase anyway.
	LoadAdvisory
)

// Expected is the configuration a target is expected to carry after the
// load phase: a theme name plus arbitrary named property expectations.
type Expected struct {
	Theme string
	Props map[string]string
}

// UnitSpec describes one target to validate.
type UnitSpec struct {
	// Name identifies the unit in results. Defaults to Target when empty.
	Name string
	// Target is the registered control type name to instantiate.
	Target string
	// Expected is applied during the load phase and consulted by checks.
	Expected Expected
	// Categories names the check categories to run. Empty means all
	// registered categories.
	Categories []string
	// Timeout bounds the whole instantiate→load→validate→dispose sequence.
	// Zero means the batch default.
	Timeout time.Duration
	// Seeds are caller-supplied instances bound directly to matching
	// constructor parameters.
	Seeds []any
}

// Violation is a single failed expectation recorded by a category check.
type Violation struct {
	Category string
	Property string
	Want     string
	Got      string
	Message  string
}

// PhaseTimings records how long each phase of a unit took. A phase that
// never ran reports zero.
type PhaseTimings struct {
	Instantiate time.Duration
	Load        time.Duration
	Validate    time.Duration
}

// UnitResult is the terminal record of one unit.
type UnitResult struct {
	Name       string
	Target     string
	Status     Status
	Stage      Stage
	Message    string
	Violations []Violation
	Timings    PhaseTimings
	Elapsed    time.Duration
}

// Passed reports whether the unit reached StatusPass.
func (r *UnitResult) Passed() bool { return r.Status == StatusPass }
