package idcodec

import (
	"math/bits"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	// ShardBits is the width, in bits, of the shard field of an external
	// id. 10 bits supports up to 1024 shards, far beyond any realistic
	// core count, while leaving room for a 16-bit type field and a
	// 38-bit offset field within a 64-bit id.
	ShardBits = 10

	// TypeBits is the width, in bits, of the type field.
	TypeBits = 16

	// OffsetBits is the width, in bits, of the offset field.
	OffsetBits = 64 - ShardBits - TypeBits

	// MaxShards is the number of distinct shard ids representable in
	// ShardBits (exclusive upper bound on valid shard ids).
	MaxShards = 1 << ShardBits

	// MaxTypes is the number of distinct type ids representable in
	// TypeBits.
	MaxTypes = 1 << TypeBits

	// MaxOffset is the number of distinct offsets representable in
	// OffsetBits.
	MaxOffset = 1 << OffsetBits

	shardMask  = uint64(MaxShards - 1)
	typeMask   = uint64(MaxTypes - 1)
	offsetMask = uint64(MaxOffset - 1)
)

// Encode packs a (shard, type, offset) triple into a single external id.
// It is total: every combination of in-range inputs produces a distinct
// id, and Encode(0, 0, 0) is the reserved "invalid/null" id zero.
//
// Encode does not validate its inputs against the declared bit widths;
// callers that accept shard/type/offset from an external boundary should
// range-check first (see MaxShards, MaxTypes, MaxOffset for the
// corresponding bounds).
func Encode(shard, typ uint16, offset uint64) uint64 {
	return ((offset<<TypeBits | uint64(typ)) << ShardBits) | uint64(shard)
}

// Shard extracts the shard field from an external id.
func Shard(id uint64) uint16 {
	return uint16(id & shardMask)
}

// Type extracts the type field from an external id.
func Type(id uint64) uint16 {
	return uint16((id >> ShardBits) & typeMask)
}

// Offset extracts the offset field from an external id.
func Offset(id uint64) uint64 {
	return (id >> (ShardBits + TypeBits)) & offsetMask
}

// Decode is the inverse of Encode, splitting an external id back into its
// three fields in one call.
func Decode(id uint64) (shard, typ uint16, offset uint64) {
	return Shard(id), Type(id), Offset(id)
}

// IsNull reports whether id is the reserved "invalid/null" external id.
func IsNull(id uint64) bool {
	return id == 0
}

// HashRoute computes the deterministic shard assignment for an arbitrary
// set of routing components (commonly `type, key` or `type, property,
// value`). Components are joined with "-" before hashing, matching the
// original engine's `type + "-" + key` convention.
//
// The hash is reduced to a shard id in [0, numShards) using Lemire's
// wide-multiplication trick rather than a modulo, so that the top bits of
// the hash — not just its low bits — determine shard placement.
// numShards <= 0 always routes to shard 0.
func HashRoute(numShards int, parts ...string) uint16 {
	if numShards <= 0 {
		return 0
	}
	h := hashParts(parts)
	hi, _ := bits.Mul64(h, uint64(numShards))
	return uint16(hi)
}

// hashParts joins parts with "-" and returns their 64-bit xxhash digest.
func hashParts(parts []string) uint64 {
	var sb strings.Builder
	for i, p := range parts {
		if i > 0 {
			sb.WriteByte('-')
		}
		sb.WriteString(p)
	}
	return xxhash.Sum64String(sb.String())
}

// ValidShard reports whether shard is a representable shard id for a
// cluster of numShards shards.
func ValidShard(shard uint16, numShards int) bool {
	return numShards > 0 && int(shard) < numShards
}
