package club

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type EventType int

const (
	MemberAdded EventType = iota
	MemberRemoved
)

func (t EventType) String() string {
	switch t {
	case MemberAdded:
		return "MemberAdded"
	case MemberRemoved:
		return "MemberRemoved"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Member    MemberID  `json:"member"`
	Timestamp int64     `json:"timestamp"`
}

func NewEvent(t EventType, member MemberID) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      t,
		Member:    member,
		Timestamp: time.Now().UnixMicro(),
	}
}

func (e Event) String() string {
	return fmt.Sprintf("%s{Member: %s, ID: %s}", e.Type, e.Member, e.ID)
}
