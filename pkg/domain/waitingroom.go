package domain

// WaitingRoomEntry is one queue-status reading for a ticket code at a
// session. Entries are kept as a list, not a map: the upstream can report
// the same ticket code in more than one block for a session and those
// readings accumulate.
type WaitingRoomEntry struct {
	TicketCode  string `json:"ticket_code"`
	PeopleCount int    `json:"people_count"`
	WaitingTime int    `json:"waiting_time"`
}

// WaitingRoomMap groups entries by the numeric session id decoded from the
// upstream's "e<id>" identifiers. Blocks that decode to the same id merge by
// that raw id alone, matching the upstream's flat keying.
type WaitingRoomMap map[int][]WaitingRoomEntry

// WaitingRoomSnapshot is the flattened result of one queue-status fetch.
type WaitingRoomSnapshot struct {
	Message string         `json:"message"`
	Rooms   WaitingRoomMap `json:"rooms"`
}
