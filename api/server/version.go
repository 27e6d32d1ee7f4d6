// version.go - Node & API version info for the StudentKeep gateway
package server

// NodeVersion returns the current node software version.
func NodeVersion() string {
	return "v0.1.0"
}

// APIVersion returns the current API version.
func APIVersion() string {
	return "v1"
}
