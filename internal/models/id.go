package models

import (
	"strconv"
	"time"

	"github.com/julianstephens/questlog/internal/constants"
)

const (
	CampaignPrefix   = constants.CampaignIDPrefix
	CharacterPrefix  = constants.CharacterIDPrefix
	DiaryEntryPrefix = constants.DiaryEntryIDPrefix
)

// NewID builds an id from a prefix and the creation time in Unix milliseconds.
// Two records created in the same millisecond collide; that is accepted.
func NewID(prefix string, now time.Time) string {
	return prefix + strconv.FormatInt(now.UnixMilli(), 10)
}

// FormatTimestamp renders t as the ISO-8601 UTC string stored on records.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(constants.TimestampFormat)
}

// ParseTimestamp accepts stored timestamps as well as plain RFC 3339 values.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(constants.TimestampFormat, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// SessionDate stores a calendar day as midnight UTC.
func SessionDate(day time.Time) string {
	y, m, d := day.Date()
	return FormatTimestamp(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// ParseSessionDay parses a YYYY-MM-DD day into its stored session date.
func ParseSessionDay(day string) (string, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return "", err
	}
	return SessionDate(t), nil
}
