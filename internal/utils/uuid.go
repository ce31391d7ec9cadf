package utils

import "github.com/google/uuid"

// UUIDGenerator produces string identifiers for entities, queue items,
// conflict copies and the device itself. V7 UUIDs are time-ordered, which
// keeps id-sorted listings roughly chronological on device.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
