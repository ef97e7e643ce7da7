package readstore

import "time"

// Model is the capability a versioned read model provides to the store:
// identity, audit stamps, and a version counter. Embedding Base satisfies
// it.
type Model interface {
	GetID() string
	SetID(id string)
	GetVersion() int64
	SetVersion(v int64)
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
	SetTimestamps(created, updated time.Time)
	Touch(now time.Time)
}

// Base is the embeddable read-model envelope. The creation stamp is set
// once on the first save; the modified stamp and version move on every
// successful save. Everything except the identity is excluded from the
// document body: the collection's envelope columns are authoritative, and
// keeping the stamps out of the JSON means merge-style upserts cannot
// clobber them.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Version   int64     `json:"-"`
}

func (b *Base) GetID() string           { return b.ID }
func (b *Base) SetID(id string)         { b.ID = id }
func (b *Base) GetVersion() int64       { return b.Version }
func (b *Base) SetVersion(v int64)      { b.Version = v }
func (b *Base) GetCreatedAt() time.Time { return b.CreatedAt }
func (b *Base) GetUpdatedAt() time.Time { return b.UpdatedAt }

func (b *Base) SetTimestamps(created, updated time.Time) {
	b.CreatedAt = created
	b.UpdatedAt = updated
}

// Touch refreshes the modified stamp, setting the creation stamp on first
// use only.
func (b *Base) Touch(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}
