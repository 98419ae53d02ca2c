package bundle

import (
	"crypto/md5" //nolint:gosec // checksum is an integrity normaliser, not a security primitive
	"encoding/hex"
	"fmt"
	"hash/crc32"

	rerrors "github.com/opmodel/resengine/internal/errors"
)

// HashNormaliser computes a bundle's checksum from its canonical bytes. The
// normaliser is chosen by the loader purely from the checksum's hex length,
// so the set of normalisers and their output lengths must stay distinct.
type HashNormaliser interface {
	ComputeHash(canonical []byte) string
}

// CRC32Normaliser is the default, cheap normaliser: an 8 hex-character
// CRC-32 (IEEE) checksum.
type CRC32Normaliser struct{}

func (CRC32Normaliser) ComputeHash(canonical []byte) string {
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(canonical))
}

// MD5Normaliser is a stronger, 32 hex-character normaliser for callers who
// want better collision resistance than CRC-32 provides.
type MD5Normaliser struct{}

func (MD5Normaliser) ComputeHash(canonical []byte) string {
	sum := md5.Sum(canonical) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// normaliserForChecksum recognises which normaliser produced checksum purely
// from its hex length: 8 characters for CRC-32, 32 for MD5.
func normaliserForChecksum(checksum string) (HashNormaliser, error) {
	switch len(checksum) {
	case 8:
		return CRC32Normaliser{}, nil
	case 32:
		return MD5Normaliser{}, nil
	default:
		return nil, rerrors.New(rerrors.ErrIntegrityVerificationFailed, "IntegrityVerificationFailed",
			fmt.Sprintf("checksum %q has unrecognised length %d (expected 8 or 32 hex characters)", checksum, len(checksum)))
	}
}
