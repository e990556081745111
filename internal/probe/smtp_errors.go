package probe

import (
	"errors"
	"net/textproto"
)

// statusFromRCPT maps an RCPT TO rejection onto the three-way outcome. The
// second return reports whether the reply was decisive.
//
// 550/551/553 are the user-unknown family. 552 (mailbox full) and 554 with no
// further detail say nothing about whether the address exists, and the whole
// 4xx range is temporary by definition (greylisting, throttling), so those
// stay unknown.
func statusFromRCPT(err error) (Status, bool) {
	var tpErr *textproto.Error
	if !errors.As(err, &tpErr) {
		return StatusUnknown, false
	}
	switch tpErr.Code {
	case 550, 551, 553:
		return StatusInvalid, true
	default:
		return StatusUnknown, false
	}
}
