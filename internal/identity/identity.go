// Package identity provides constants and helpers for engine identity
// computation.
package identity

import "github.com/google/uuid"

// EngineNamespaceUUID is the UUID v5 namespace used to derive deterministic
// build identifiers for compiled bundles.
// Computed as: uuid.SHA1(uuid.NameSpaceDNS, "resengine.dev")
const EngineNamespaceUUID = "d1b8ccc6-cabb-51c6-8de4-2365e0dc9b7b"

var engineNamespace = uuid.MustParse(EngineNamespaceUUID)

// BuildID derives a deterministic build identifier from a bundle's
// checksum: the same compiled collection always yields the same BuildID,
// giving every compiled bundle a stable opaque identity. Because it is
// derived from the checksum, the same collection hashed with a different
// normaliser yields a different BuildID.
func BuildID(checksum string) uuid.UUID {
	return uuid.NewSHA1(engineNamespace, []byte(checksum))
}
