package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// DateLayout is the storage and wire format of every calendar date.
const DateLayout = "2006-01-02"

// Date is a calendar day stored as YYYY-MM-DD text.
// Stores created by older releases declare these columns as DATE, which the
// sqlite driver hands back as time.Time; Scan folds both shapes into the text form.
type Date string

// Today returns the current local date.
func Today(now time.Time) Date {
	return Date(now.Format(DateLayout))
}

func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = ""
	case string:
		*d = Date(v)
	case []byte:
		*d = Date(v)
	case time.Time:
		*d = Date(v.Format(DateLayout))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return string(d), nil
}

// Month returns the YYYY-MM prefix of the date.
func (d Date) Month() string {
	if len(d) < 7 {
		return string(d)
	}
	return string(d[:7])
}
