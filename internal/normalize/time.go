package normalize

import "time"

// RippleEpoch is 2000-01-01T00:00:00Z in Unix seconds.
const RippleEpoch = 946684800

const isoMillis = "2006-01-02T15:04:05.000Z"

func RippleTime(seconds uint32) time.Time {
	return time.Unix(int64(seconds)+RippleEpoch, 0).UTC()
}

// RippleTimeToISO formats ledger time as an ISO-8601 UTC timestamp.
func RippleTimeToISO(seconds uint32) string {
	return RippleTime(seconds).Format(isoMillis)
}

// ToRippleTime converts a wall-clock time to ledger seconds. Times before
// the ripple epoch map to 0.
func ToRippleTime(t time.Time) uint32 {
	s := t.Unix() - RippleEpoch
	if s < 0 {
		return 0
	}
	return uint32(s)
}

// FormatISO renders t the way ledger dates are rendered.
func FormatISO(t time.Time) string {
	return t.UTC().Format(isoMillis)
}
