package timeparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindMessage(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		want  string
		found bool
	}{
		{"bracketed before command", "[reminderstring]\nRemindMe! 1 day", "reminderstring", true},
		{"bracketed after time", "RemindMe! 2 hours [check the oven]", "check the oven", true},
		{"quoted on command line", `RemindMe! 1 week "renew passport"`, "renew passport", true},
		{"trailing free text", "RemindMe! 3 days to water the plants.", "to water the plants", true},
		{"free text after and", "RemindMe! 1 day and buy milk", "buy milk", true},
		{"absolute date with text", "RemindMe! 2019-01-04 05:00 call mom", "call mom", true},
		{"time only", "RemindMe! 1 day", "", false},
		{"punctuation only", "RemindMe! 1 day!!", "", false},
		{"empty brackets fall through", "RemindMe! 1 day [] ", "", false},
		{"no command", "just chatting", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := FindMessage(tt.body)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}
