package domain

// Stage is one of the three fixed top-level categories of schedule work.
type Stage string

const (
	StageDesign       Stage = "design"
	StageFabrication  Stage = "fabrication"
	StageInstallation Stage = "installation"
)

// Stages lists every stage in canonical display and cascade order.
var Stages = []Stage{StageDesign, StageFabrication, StageInstallation}

// ParseStage coerces free text to a known stage. Unknown text falls back to
// StageDesign.
func ParseStage(s string) Stage {
	switch Stage(s) {
	case StageDesign, StageFabrication, StageInstallation:
		return Stage(s)
	default:
		return StageDesign
	}
}

// IsValid reports whether s is one of the three known stages.
func (s Stage) IsValid() bool {
	switch s {
	case StageDesign, StageFabrication, StageInstallation:
		return true
	}
	return false
}

// Label returns the human-readable stage name.
func (s Stage) Label() string {
	switch s {
	case StageFabrication:
		return "Fabrication"
	case StageInstallation:
		return "Installation"
	default:
		return "Design"
	}
}

// RootID returns the id of the stage's permanent system group.
func (s Stage) RootID() string {
	return "stage:" + string(s)
}

// Index returns the position of s in Stages.
func (s Stage) Index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return 0
}

// WeekendMode selects how schedule days are counted.
type WeekendMode string

const (
	// WeekendInclude counts every calendar day.
	WeekendInclude WeekendMode = "include"
	// WeekendExclude counts business days only, skipping Saturday and Sunday.
	WeekendExclude WeekendMode = "exclude"
)

// ParseWeekendMode coerces anything other than the literal "include" to
// WeekendExclude.
func ParseWeekendMode(s string) WeekendMode {
	if WeekendMode(s) == WeekendInclude {
		return WeekendInclude
	}
	return WeekendExclude
}

type RowKind string

const (
	RowTask  RowKind = "task"
	RowEvent RowKind = "event"
)

// ParseRowKind coerces anything other than the literal "event" to RowTask.
func ParseRowKind(s string) RowKind {
	if RowKind(s) == RowEvent {
		return RowEvent
	}
	return RowTask
}

// RowField names a user-editable row attribute.
type RowField string

const (
	FieldName      RowField = "name"
	FieldNote      RowField = "note"
	FieldDuration  RowField = "duration_days"
	FieldStartDate RowField = "start_date"
	FieldEndDate   RowField = "end_date"
)

// ValidRowFields is the canonical set of editable row field names.
var ValidRowFields = map[string]bool{
	"name": true, "note": true, "duration_days": true,
	"start_date": true, "end_date": true,
}

func (f RowField) IsValid() bool {
	return ValidRowFields[string(f)]
}

// IsDateField reports whether editing f can move the row in time.
func (f RowField) IsDateField() bool {
	return f == FieldDuration || f == FieldStartDate || f == FieldEndDate
}

// Direction is a one-step sibling move.
type Direction string

const (
	MoveUp   Direction = "up"
	MoveDown Direction = "down"
)

// ParseDirection accepts "up" or "down".
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case MoveUp, MoveDown:
		return Direction(s), true
	}
	return "", false
}

// StageForRootID reports which stage owns the system root id, if any.
func StageForRootID(id string) (Stage, bool) {
	for _, st := range Stages {
		if st.RootID() == id {
			return st, true
		}
	}
	return "", false
}
