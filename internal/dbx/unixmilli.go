package dbx

import (
	"fmt"
	"time"
)

// UnixMilli scans an INTEGER column holding unix milliseconds into T.
// SQLite tables store timestamps this way.
type UnixMilli struct {
	T *time.Time
}

func (u UnixMilli) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*u.T = time.UnixMilli(v).UTC()
	case nil:
		*u.T = time.Time{}
	default:
		return fmt.Errorf("unixmilli: unsupported type %T", src)
	}
	return nil
}
