package tools

import "time"

// LoadLocation - зона для отображения времени сделок.
// Пустая строка и "Local" означают локальную зону процесса.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// FormatEventTime - миллисекундный таймстемп биржи в читаемую строку
func FormatEventTime(ms int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc).Format("2006-01-02 15:04:05")
}
