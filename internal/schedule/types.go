// Package schedule defines the weekly schedule model: days, time blocks
// and the persistence contract used by the dialog layer.
package schedule

// Day identifies a day of the week.
type Day string

const (
	Monday    Day = "mon"
	Tuesday   Day = "tue"
	Wednesday Day = "wed"
	Thursday  Day = "thu"
	Friday    Day = "fri"
	Saturday  Day = "sat"
	Sunday    Day = "sun"
)

// Days lists all days in week order.
var Days = [7]Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayTitles = map[Day]string{
	Monday:    "Понедельник",
	Tuesday:   "Вторник",
	Wednesday: "Среда",
	Thursday:  "Четверг",
	Friday:    "Пятница",
	Saturday:  "Суббота",
	Sunday:    "Воскресенье",
}

// DayFromCode resolves a callback payload like "day_mon" to a Day.
func DayFromCode(code string) (Day, bool) {
	const prefix = "day_"
	if len(code) <= len(prefix) || code[:len(prefix)] != prefix {
		return "", false
	}
	d := Day(code[len(prefix):])
	if !d.Valid() {
		return "", false
	}
	return d, true
}

// Code returns the wire form used in callback payloads.
func (d Day) Code() string { return "day_" + string(d) }

// Valid reports whether d is one of the seven week days.
func (d Day) Valid() bool {
	_, ok := dayTitles[d]
	return ok
}

// Title returns the human-readable day name.
func (d Day) Title() string { return dayTitles[d] }

// MaxTitleLen caps block titles; longer input is truncated, never rejected.
const MaxTitleLen = 20

// TruncateTitle trims a block title to MaxTitleLen runes.
func TruncateTitle(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxTitleLen {
		return s
	}
	return string(runes[:MaxTitleLen])
}

// Block is a single schedule entry: a titled time interval within a day.
type Block struct {
	Title string `json:"title" db:"title"`
	Start string `json:"start" db:"start_time"`
	End   string `json:"end" db:"end_time"`
}

// Schedule maps each day to its ordered list of blocks.
type Schedule map[Day][]Block

// UserRecord is the per-user persistent document.
type UserRecord struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Schedule  Schedule `json:"schedule"`
	TodoList  []string `json:"todolist"`
}

// NewUserRecord builds a record with an empty block list for every day.
func NewUserRecord(firstName, lastName string) UserRecord {
	s := make(Schedule, len(Days))
	for _, d := range Days {
		s[d] = []Block{}
	}
	return UserRecord{
		FirstName: firstName,
		LastName:  lastName,
		Schedule:  s,
		TodoList:  []string{},
	}
}
