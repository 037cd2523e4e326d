package domain

import "time"

// Domain contains core models shared across packages.

// Pokemon is a single named entry of the remote catalog. Its Name is also its
// identity when rendered in a list; entries are never deduplicated.
type Pokemon struct {
	Name string `json:"name" yaml:"name"`
}

// Item is a timestamped launch record kept in local storage.
type Item struct {
	ID        string    `json:"id" yaml:"id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Names returns the names of the given entries in order.
func Names(entries []Pokemon) []string {
	out := make([]string, 0, len(entries))
	for _, p := range entries {
		out = append(out, p.Name)
	}
	return out
}
