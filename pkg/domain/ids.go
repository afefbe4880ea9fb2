// Package domain holds the typed identifiers shared across ledger modules.
//
// Wrapping raw values in distinct types keeps asset-class ids, retiree ids,
// and caller identities from being mixed up at call sites.
package domain

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// RetireeID identifies a retiree. The identity is an external reference:
// this system never creates or destroys retirees, it only keys records by them.
type RetireeID uuid.UUID

// NewRetireeID generates a fresh retiree ID. Used in tests and tooling;
// production identities arrive from the contribution system.
func NewRetireeID() RetireeID {
	return RetireeID(uuid.New())
}

// ParseRetireeID parses a retiree ID from its string form.
func ParseRetireeID(s string) (RetireeID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return RetireeID{}, fmt.Errorf("parse retiree id: %w", err)
	}
	return RetireeID(u), nil
}

func (id RetireeID) String() string {
	return uuid.UUID(id).String()
}

// MarshalText renders the ID in canonical UUID form so JSON payloads carry
// a string rather than a byte array.
func (id RetireeID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(id).String()), nil
}

func (id *RetireeID) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	if err != nil {
		return fmt.Errorf("parse retiree id: %w", err)
	}
	*id = RetireeID(u)
	return nil
}

func (id RetireeID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

// AssetClassID identifies an asset class. IDs are assigned sequentially
// starting at 0 by the allocation ledger and are never reused.
type AssetClassID uint64

func (id AssetClassID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Identity names a caller principal. The service recognizes exactly one
// authorized identity (the administrator), fixed at construction.
type Identity string

func (i Identity) String() string {
	return string(i)
}
