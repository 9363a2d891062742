package domain

// NextAfterShare returns the status a contact moves to after confirming a
// share. Only completed videos and partially shared contacts advance; every
// other status, including the terminal one, is returned unchanged.
func NextAfterShare(current Status) Status {
	switch current {
	case StatusVideoCompleted:
		return StatusShared1
	case StatusShared1:
		return StatusShared2
	case StatusShared2:
		return StatusShared3
	default:
		return current
	}
}

// CanShare reports whether a share on current is recorded. Shares before the
// video is completed are accepted but change nothing; shares on the terminal
// status are still recorded without advancing.
func CanShare(current Status) bool {
	return current.AtLeast(StatusVideoCompleted)
}

// NextAfterLinkOpened returns the status after the recording link is visited.
// Only contacts that have not opened the link before move forward.
func NextAfterLinkOpened(current Status) Status {
	switch current {
	case StatusCreated, StatusInvited:
		return StatusLinkOpened
	default:
		return current
	}
}

// StatusesBefore lists the statuses strictly behind target; used to build
// "advance only" conditional updates.
func StatusesBefore(target Status) []Status {
	rank := target.Rank()
	out := make([]Status, 0, rank)
	for _, s := range AllStatuses() {
		if s.Rank() < rank {
			out = append(out, s)
		}
	}
	return out
}
