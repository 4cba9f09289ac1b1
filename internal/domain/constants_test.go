package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		cur, next string
		want      bool
	}{
		{StatusOpen, StatusContacted, true},
		{StatusOpen, StatusClosed, true},
		{StatusContacted, StatusApproved, true},
		{StatusContacted, StatusNoResponse, true},
		{StatusApproved, StatusClosed, true},
		{StatusBadFit, StatusLost, true},

		// no-ops and sideways moves at the same rank
		{StatusOpen, StatusOpen, false},
		{StatusApproved, StatusBadFit, false},
		{StatusClosed, StatusLost, false},

		// backwards
		{StatusContacted, StatusOpen, false},
		{StatusApproved, StatusContacted, false},

		// out of terminal
		{StatusClosed, StatusOpen, false},
		{StatusLost, StatusContacted, false},

		// unknown statuses
		{"Pending", StatusClosed, false},
		{StatusOpen, "Done", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CanTransition(c.cur, c.next), "%s -> %s", c.cur, c.next)
	}
}

func TestTerminalStatus(t *testing.T) {
	for _, s := range []string{StatusOpen, StatusContacted, StatusApproved, StatusNoResponse, StatusBadFit} {
		assert.False(t, TerminalStatus(s), s)
	}
	assert.True(t, TerminalStatus(StatusClosed))
	assert.True(t, TerminalStatus(StatusLost))
}
