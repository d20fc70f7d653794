// Package presence tracks which sessions are viewing which documents.
package presence

import "sync"

// SessionKey is the field the tracker adds to every user descriptor.
const SessionKey = "socketId"

// User is the client-supplied participant descriptor (display name, colour,
// and so on) plus the session id under SessionKey.
type User map[string]interface{}

// RoomUpdate is the membership of one document after a session left it.
type RoomUpdate struct {
	DocumentID string
	Members    []User
}

// Tracker keeps room membership and the user record of each session.
// Document existence is not checked: presence is tracked for any id.
type Tracker struct {
	mu    sync.RWMutex
	users map[string]User
	// document id -> session ids in join order
	rooms map[string][]string
	// session id -> document ids in join order
	joined map[string][]string
}

func NewTracker() *Tracker {
	return &Tracker{
		users:  make(map[string]User),
		rooms:  make(map[string][]string),
		joined: make(map[string][]string),
	}
}

// Join records user for sessionID (replacing any earlier record) and adds the
// session to documentID's room. It returns the room's current members.
func (t *Tracker) Join(documentID, sessionID string, user User) []User {
	rec := make(User, len(user)+1)
	for k, v := range user {
		rec[k] = v
	}
	rec[SessionKey] = sessionID

	t.mu.Lock()
	defer t.mu.Unlock()
	t.users[sessionID] = rec
	if !contains(t.rooms[documentID], sessionID) {
		t.rooms[documentID] = append(t.rooms[documentID], sessionID)
		t.joined[sessionID] = append(t.joined[sessionID], documentID)
	}
	return t.membersLocked(documentID)
}

// Leave removes sessionID from every room it joined and forgets its user
// record. One RoomUpdate is returned per room that changed.
func (t *Tracker) Leave(sessionID string) []RoomUpdate {
	t.mu.Lock()
	defer t.mu.Unlock()
	docs := t.joined[sessionID]
	delete(t.joined, sessionID)

	updates := make([]RoomUpdate, 0, len(docs))
	for _, docID := range docs {
		room := remove(t.rooms[docID], sessionID)
		if len(room) == 0 {
			delete(t.rooms, docID)
		} else {
			t.rooms[docID] = room
		}
		updates = append(updates, RoomUpdate{DocumentID: docID})
	}
	delete(t.users, sessionID)
	for i := range updates {
		updates[i].Members = t.membersLocked(updates[i].DocumentID)
	}
	return updates
}

// MembersOf returns the user records of every session in documentID's room.
func (t *Tracker) MembersOf(documentID string) []User {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.membersLocked(documentID)
}

// Sessions returns the session ids in documentID's room, in join order.
func (t *Tracker) Sessions(documentID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.rooms[documentID]...)
}

// Rooms returns the document ids sessionID has joined.
func (t *Tracker) Rooms(sessionID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.joined[sessionID]...)
}

func (t *Tracker) membersLocked(documentID string) []User {
	ids := t.rooms[documentID]
	out := make([]User, 0, len(ids))
	for _, id := range ids {
		// skip sessions whose user record is gone
		if u, ok := t.users[id]; ok {
			out = append(out, u)
		}
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
