// Package types provides type definitions for structured data used throughout the brand-compliance system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"

	"github.com/google/uuid"
)

// idNamespace scopes derived identifiers so they never collide with random UUIDs
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("brand-compliance/ids"))

// DeriveID returns a stable identifier for the given parts.
// IDs are name-based so repeated evaluation of the same input yields the same IDs.
func DeriveID(parts ...string) string {
	return uuid.NewSHA1(idNamespace, []byte(strings.Join(parts, "\x00"))).String()
}
