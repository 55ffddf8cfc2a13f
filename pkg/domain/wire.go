package domain

import (
	"encoding/json"
	"sort"
)

// The in-memory model uses Go maps, whose iteration order is randomized and
// which encoding/json would key by strings. On the wire both mappings are
// carried as id-sorted lists of key/value pairs instead, defined once here
// and shared by the HTTP boundary and the snapshot store.

type catalogPair struct {
	EventID     int     `json:"event_id"`
	Occurrences []Event `json:"occurrences"`
}

func (c Catalog) MarshalJSON() ([]byte, error) {
	ids := make([]int, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	pairs := make([]catalogPair, 0, len(ids))
	for _, id := range ids {
		pairs = append(pairs, catalogPair{EventID: id, Occurrences: c[id]})
	}
	return json.Marshal(pairs)
}

func (c *Catalog) UnmarshalJSON(data []byte) error {
	var pairs []catalogPair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}
	catalog := make(Catalog, len(pairs))
	for _, pair := range pairs {
		catalog[pair.EventID] = pair.Occurrences
	}
	*c = catalog
	return nil
}

type roomPair struct {
	SessionID int                `json:"session_id"`
	Entries   []WaitingRoomEntry `json:"entries"`
}

func (m WaitingRoomMap) MarshalJSON() ([]byte, error) {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	pairs := make([]roomPair, 0, len(ids))
	for _, id := range ids {
		pairs = append(pairs, roomPair{SessionID: id, Entries: m[id]})
	}
	return json.Marshal(pairs)
}

func (m *WaitingRoomMap) UnmarshalJSON(data []byte) error {
	var pairs []roomPair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}
	rooms := make(WaitingRoomMap, len(pairs))
	for _, pair := range pairs {
		rooms[pair.SessionID] = pair.Entries
	}
	*m = rooms
	return nil
}
