package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Adda-Baaj/pokedex/internal/domain"
)

// Publisher delivers catalog events to one downstream sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Event is published downstream whenever a catalog screen finishes loading.
type Event struct {
	Source   string    `json:"source"`
	Count    int       `json:"count"`
	Names    []string  `json:"names"`
	LoadedAt time.Time `json:"loaded_at"`
}

// NewEvent constructs an Event for the given catalog source and entries.
func NewEvent(source string, entries []domain.Pokemon) Event {
	return Event{
		Source:   source,
		Count:    len(entries),
		Names:    domain.Names(entries),
		LoadedAt: time.Now().UTC(),
	}
}

// Attribute names set on every queued or topic message.
const (
	attrSource = "source"
	attrCount  = "count"
)

// encode returns the JSON body and message attributes shared by all broker sinks.
func (e Event) encode() (string, map[string]string, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return "", nil, fmt.Errorf("marshal event: %w", err)
	}
	return string(body), map[string]string{
		attrSource: e.Source,
		attrCount:  strconv.Itoa(e.Count),
	}, nil
}

// attrDataType maps an attribute to its AWS message attribute data type.
func attrDataType(name string) string {
	if name == attrCount {
		return "Number"
	}
	return "String"
}
