package schedule

import "testing"

func TestNormalizeTime(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"09:05", "09:05", true},
		{"9:05", "09:05", true},
		{"0:00", "00:00", true},
		{"23:59", "23:59", true},
		{"24:00", "", false},
		{"12:60", "", false},
		{"9:5", "", false},
		{"125:00", "", false},
		{"abc", "", false},
		{"", "", false},
		{"12-30", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeTime(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("NormalizeTime(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestIsEndAfterStart(t *testing.T) {
	cases := []struct {
		start, end string
		want       bool
	}{
		{"09:00", "10:00", true},
		{"09:00", "09:00", true},
		{"10:00", "09:59", false},
		{"9:00", "10:00", true},
		{"24:00", "10:00", false},
		{"09:00", "bad", false},
	}
	for _, tc := range cases {
		if got := IsEndAfterStart(tc.start, tc.end); got != tc.want {
			t.Errorf("IsEndAfterStart(%q, %q) = %v, want %v", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestTruncateTitle(t *testing.T) {
	if got := TruncateTitle("Встреча"); got != "Встреча" {
		t.Errorf("short title changed: %q", got)
	}
	long := "очень длинное название блока расписания"
	got := TruncateTitle(long)
	if runes := []rune(got); len(runes) != MaxTitleLen {
		t.Errorf("truncated to %d runes, want %d", len(runes), MaxTitleLen)
	}
}

func TestDayFromCode(t *testing.T) {
	d, ok := DayFromCode("day_mon")
	if !ok || d != Monday {
		t.Fatalf("DayFromCode(day_mon) = (%v, %v)", d, ok)
	}
	if _, ok := DayFromCode("day_xyz"); ok {
		t.Fatal("unexpected day accepted")
	}
	if _, ok := DayFromCode("mon"); ok {
		t.Fatal("missing prefix accepted")
	}
	for _, day := range Days {
		got, ok := DayFromCode(day.Code())
		if !ok || got != day {
			t.Errorf("round trip failed for %v", day)
		}
	}
}
