// Package util provides utility functions for the Rocket Logistics voice agent.
package util

import (
	"math/rand/v2"
	"strconv"
)

// TrackingIDLength is the canonical number of digits in a tracking identifier.
const TrackingIDLength = 8

// GenerateTrackingID generates a random 8-digit numeric tracking identifier.
// The first digit is never zero so the spoken form always has eight digits.
// Uses math/rand/v2; tracking IDs are identifiers, not secrets.
func GenerateTrackingID() string {
	first := strconv.Itoa(1 + rand.IntN(9))
	return first + GenerateRandomDigits(TrackingIDLength-1)
}

// GenerateRandomDigits generates a random numeric string of the specified length.
func GenerateRandomDigits(length int) string {
	if length <= 0 {
		return ""
	}
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = byte('0' + rand.IntN(10))
	}
	return string(buf)
}
