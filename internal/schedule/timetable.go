package schedule

import (
	"time"

	scheduleerrors "pawon-ops/internal/schedule/errors"
)

const (
	ShiftOff     = "OFF"
	ShiftMorning = "MORNING"
	ShiftMiddle  = "MIDDLE"
)

func IsValidShiftType(t string) bool {
	switch t {
	case ShiftOff, ShiftMorning, ShiftMiddle:
		return true
	}
	return false
}

type ShiftTimes struct {
	Start string
	End   string
}

// TimeTable adalah kolaborator murni: memetakan (tipe shift, tanggal)
// ke jam mulai/selesai. Tanggal ikut dikirim agar implementasi lain
// bisa membedakan jam weekend tanpa mengubah engine.
type TimeTable interface {
	ShiftTimes(shiftType string, date time.Time) (ShiftTimes, error)
}

type staticTimeTable struct{}

// NewStaticTimeTable mengembalikan jam operasional standar restoran.
func NewStaticTimeTable() TimeTable {
	return staticTimeTable{}
}

func (staticTimeTable) ShiftTimes(shiftType string, _ time.Time) (ShiftTimes, error) {
	switch shiftType {
	case ShiftOff:
		return ShiftTimes{}, nil
	case ShiftMorning:
		return ShiftTimes{Start: "07:00", End: "15:00"}, nil
	case ShiftMiddle:
		return ShiftTimes{Start: "11:00", End: "19:00"}, nil
	default:
		return ShiftTimes{}, scheduleerrors.ErrInvalidShiftType
	}
}

// colorForShift: atribut tampilan yang ikut disimpan di record.
func colorForShift(shiftType string) string {
	switch shiftType {
	case ShiftMorning:
		return "#4CAF50"
	case ShiftMiddle:
		return "#2196F3"
	default:
		return "#9E9E9E"
	}
}
