package utils

import (
	"errors"
	"fmt"
	"testing"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&ValidationError{Message: "bad slot"}, 400},
		{&NotFoundError{Resource: "booking"}, 404},
		{&DuplicateReviewError{BookingID: 7}, 409},
		{&ConcurrentModificationError{Resource: "announcement"}, 409},
		{&ForbiddenError{Message: "not yours"}, 403},
		{errors.New("disk full"), 500},
		{fmt.Errorf("wrapped: %w", &NotFoundError{Resource: "user"}), 404},
	}
	for _, tc := range cases {
		if got := StatusForError(tc.err); got != tc.want {
			t.Errorf("StatusForError(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
