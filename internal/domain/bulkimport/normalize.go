package bulkimport

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	// unixEpochSerial is the spreadsheet serial of 1970-01-01 (epoch 1899-12-30).
	unixEpochSerial = 25569
	// maxSerial is the serial of 9999-12-31.
	maxSerial  = 2958465
	dateLayout = "2006-01-02"
)

// NormalizeAttendanceRow turns one raw row into an AttendanceRecord.
// PRE: rowNo is the 1-based spreadsheet row number of raw
// POST: ok is true and errMsg empty for a valid row; ok is false with an empty errMsg for a blank row;
// ok is false with exactly one errMsg when one required field is missing or malformed
func NormalizeAttendanceRow(raw RawRow, rowNo int) (AttendanceRecord, bool, string) {
	date, _ := CoerceDate(lookup(raw, HeaderDate))
	name := cellString(lookup(raw, HeaderName))
	if date == "" && name == "" {
		return AttendanceRecord{}, false, ""
	}
	if date == "" {
		return AttendanceRecord{}, false, fmt.Sprintf("%d행: 날짜가 비어 있거나 형식이 잘못되었습니다. (YYYY-MM-DD)", rowNo)
	}
	if name == "" {
		return AttendanceRecord{}, false, fmt.Sprintf("%d행: 이름이 비어 있습니다.", rowNo)
	}
	return AttendanceRecord{Row: rowNo, Date: date, MemberName: name}, true, ""
}

// NormalizeMemberRow turns one raw row into a MemberRecord.
// PRE: rowNo is the 1-based spreadsheet row number of raw
// POST: same contract as NormalizeAttendanceRow; an unparseable birth date is dropped, not reported
func NormalizeMemberRow(raw RawRow, rowNo int) (MemberRecord, bool, string) {
	name := cellString(lookup(raw, HeaderName))
	phone := NormalizePhone(lookup(raw, HeaderPhone))
	if name == "" && phone == "" {
		return MemberRecord{}, false, ""
	}
	if name == "" {
		return MemberRecord{}, false, fmt.Sprintf("%d행: 이름이 비어 있습니다.", rowNo)
	}
	if phone == "" {
		return MemberRecord{}, false, fmt.Sprintf("%d행: 전화번호가 비어 있습니다.", rowNo)
	}
	birth, _ := CoerceDate(lookup(raw, HeaderBirthDate))
	flag, present := lookupOK(raw, HeaderNewMember)
	isNew := true
	if present {
		isNew = NewMemberFlag(flag)
	}
	return MemberRecord{
		Row:         rowNo,
		Name:        name,
		Phone:       phone,
		BirthDate:   birth,
		IsNewMember: isNew,
		Memo:        cellString(lookup(raw, HeaderMemo)),
	}, true, ""
}

// NormalizeAttendanceRows normalizes a whole sheet body, numbering rows from FirstDataRow.
func NormalizeAttendanceRows(rows []RawRow) ([]AttendanceRecord, []string) {
	var records []AttendanceRecord
	var errs []string
	for i, raw := range rows {
		rec, ok, msg := NormalizeAttendanceRow(raw, i+FirstDataRow)
		switch {
		case ok:
			records = append(records, rec)
		case msg != "":
			errs = append(errs, msg)
		}
	}
	return records, errs
}

// NormalizeMemberRows normalizes a whole sheet body, numbering rows from FirstDataRow.
func NormalizeMemberRows(rows []RawRow) ([]MemberRecord, []string) {
	var records []MemberRecord
	var errs []string
	for i, raw := range rows {
		rec, ok, msg := NormalizeMemberRow(raw, i+FirstDataRow)
		switch {
		case ok:
			records = append(records, rec)
		case msg != "":
			errs = append(errs, msg)
		}
	}
	return records, errs
}

// CoerceDate converts a spreadsheet serial or free-text date into YYYY-MM-DD.
// Numeric text within the serial range is read as a serial.
// POST: returns ("", false) for empty or unparseable input
func CoerceDate(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case float64:
		return serialToDate(val)
	case int:
		return serialToDate(float64(val))
	}
	s := cellString(v)
	if s == "" {
		return "", false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 && f <= maxSerial {
		return serialToDate(f)
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return "", false
	}
	return t.UTC().Format(dateLayout), true
}

// NormalizePhone trims the cell and strips all whitespace.
func NormalizePhone(v any) string {
	return strings.Join(strings.Fields(cellString(v)), "")
}

// NewMemberFlag reports the new-member flag for a present cell.
// Only N, 0, FALSE and 아니오 (case-insensitive) are false.
func NewMemberFlag(v any) bool {
	switch strings.ToUpper(cellString(v)) {
	case "N", "0", "FALSE", "아니오":
		return false
	}
	return true
}

func serialToDate(v float64) (string, bool) {
	if math.IsNaN(v) || v <= 0 || v > maxSerial {
		return "", false
	}
	secs := math.Floor((v - unixEpochSerial) * 86400)
	return time.Unix(int64(secs), 0).UTC().Format(dateLayout), true
}

func lookup(raw RawRow, header string) any {
	v, _ := lookupOK(raw, header)
	return v
}

// lookupOK tolerates a trailing space on the header cell.
func lookupOK(raw RawRow, header string) (any, bool) {
	if v, ok := raw[header]; ok {
		return v, true
	}
	v, ok := raw[header+" "]
	return v, ok
}

func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strings.ToUpper(strconv.FormatBool(val))
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
