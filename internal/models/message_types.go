package models

// SwiftMessageType is the closed set of SWIFT MT messages this platform
// builds and routes.
type SwiftMessageType string

const (
	MT103 SwiftMessageType = "MT103" // customer credit transfer
	MT202 SwiftMessageType = "MT202" // financial institution transfer
	MT760 SwiftMessageType = "MT760" // standby letter of credit
	MT799 SwiftMessageType = "MT799" // free format message
)

// Valid reports whether t is one of the supported message types.
func (t SwiftMessageType) Valid() bool {
	switch t {
	case MT103, MT202, MT760, MT799:
		return true
	}
	return false
}
