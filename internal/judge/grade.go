package judge

import "strings"

// Grade is the judge's classification of a spoken answer against the
// reference answer.
type Grade string

const (
	GradeFull    Grade = "full"
	GradePartial Grade = "partial"
	GradePoor    Grade = "poor"
	GradeNone    Grade = "none"
)

// Grades lists every grade in descending order of correctness.
var Grades = []Grade{GradeFull, GradePartial, GradePoor, GradeNone}

// gradeAliases maps the German rubric tokens onto grades.
var gradeAliases = map[string]Grade{
	"ganz":       GradeFull,
	"mittel":     GradePartial,
	"schlecht":   GradePoor,
	"gar nicht":  GradeNone,
	"garnicht":   GradeNone,
	"not at all": GradeNone,
}

// ParseGrade maps a judge token onto a Grade. Anything unrecognised is
// GradeNone, so an unexpected reply reveals the answer instead of looping.
func ParseGrade(s string) Grade {
	s = strings.ToLower(strings.Trim(strings.TrimSpace(s), ".!\"'"))
	for _, g := range Grades {
		if s == string(g) {
			return g
		}
	}
	if g, ok := gradeAliases[s]; ok {
		return g
	}
	return GradeNone
}

// Valid reports whether g is one of the four grades.
func (g Grade) Valid() bool {
	switch g {
	case GradeFull, GradePartial, GradePoor, GradeNone:
		return true
	}
	return false
}
