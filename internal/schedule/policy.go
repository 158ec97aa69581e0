package schedule

import "time"

// ShiftPolicy menentukan tipe shift default saat generate. Aturan asli
// pembagian OFF/MORNING/MIDDLE milik operasional restoran dan bisa
// diganti tanpa menyentuh engine.
type ShiftPolicy interface {
	DefaultShiftType(date time.Time) string
}

type weeklyClosingPolicy struct {
	closingDay time.Weekday
}

// NewWeeklyClosingPolicy memberi OFF pada hari tutup mingguan restoran
// dan MORNING untuk hari lainnya. Ini pola default yang sengaja
// sederhana; manajer merapikan per-hari lewat update sebelum publish.
func NewWeeklyClosingPolicy(closingDay time.Weekday) ShiftPolicy {
	return weeklyClosingPolicy{closingDay: closingDay}
}

func (p weeklyClosingPolicy) DefaultShiftType(date time.Time) string {
	if date.Weekday() == p.closingDay {
		return ShiftOff
	}
	return ShiftMorning
}
