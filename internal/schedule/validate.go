package schedule

import "regexp"

var timeRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// NormalizeTime validates an H:MM or HH:MM clock value and returns it
// zero-padded to HH:MM. The second result is false for malformed input,
// hours above 23 or minutes above 59.
func NormalizeTime(s string) (string, bool) {
	m := timeRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	hh, mm := m[1], m[2]
	hour := int(hh[0]-'0')
	if len(hh) == 2 {
		hour = hour*10 + int(hh[1]-'0')
	}
	minute := int(mm[0]-'0')*10 + int(mm[1]-'0')
	if hour > 23 || minute > 59 {
		return "", false
	}
	if len(hh) == 1 {
		hh = "0" + hh
	}
	return hh + ":" + mm, true
}

// IsEndAfterStart reports whether end is not earlier than start.
// Equal times are accepted. Returns false if either value is invalid.
func IsEndAfterStart(start, end string) bool {
	ns, ok := NormalizeTime(start)
	if !ok {
		return false
	}
	ne, ok := NormalizeTime(end)
	if !ok {
		return false
	}
	return ne >= ns
}
