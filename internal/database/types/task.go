package types

// TaskTypes lists every task a member can log, in the order the command
// choices are presented.
var TaskTypes = []string{
	"Cross-Testing",
	"Anomaly Testing",
	"SCP Interviews",
	"Scientific Department Recruitment",
	"SCP Presentations",
}

// NumberedTaskTypes are the task types that receive a per-member sequence
// number on submission.
var NumberedTaskTypes = map[string]struct{}{
	"Cross-Testing":   {},
	"Anomaly Testing": {},
}

// TaskPlurals maps task types to their plural display names.
var TaskPlurals = map[string]string{
	"Cross-Testing":                     "Cross-Tests",
	"Anomaly Testing":                   "Anomaly Tests",
	"SCP Interviews":                    "SCP Interviews",
	"Scientific Department Recruitment": "Scientific Department Recruitments",
	"SCP Presentations":                 "SCP Presentations",
}

// IsNumberedTaskType reports whether submissions of this type are numbered.
func IsNumberedTaskType(taskType string) bool {
	_, ok := NumberedTaskTypes[taskType]
	return ok
}

// PluralTaskName returns the display plural for a task type.
func PluralTaskName(taskType string) string {
	if plural, ok := TaskPlurals[taskType]; ok {
		return plural
	}

	return taskType
}
