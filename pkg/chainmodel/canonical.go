package chainmodel

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// CanonicalBytes serializes a Receipt's fields into a stable,
// length-prefixed byte string: each string field is a uint32 big-endian
// length prefix followed by its UTF-8 bytes, fields appear in struct
// declaration order, and the commitment list is a uint32 count followed
// by each commitment's (layer, gemm_index, merkle_root) in list order.
// Chosen to be portable across implementations, unlike a language-native
// struct-repr hash input.
func (r Receipt) CanonicalBytes() []byte {
	var buf []byte
	buf = appendString(buf, r.WorkerPubkey)
	buf = appendString(buf, r.JobID)
	buf = appendString(buf, r.ShardID)
	buf = appendString(buf, r.SKUID)
	buf = appendString(buf, r.OutputRoot)

	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(r.Commitments)))
	buf = append(buf, countBuf[:]...)

	for _, c := range r.Commitments {
		var coordBuf [8]byte
		binary.BigEndian.PutUint32(coordBuf[0:4], uint32(int32(c.Layer)))
		binary.BigEndian.PutUint32(coordBuf[4:8], uint32(int32(c.GEMMIndex)))
		buf = append(buf, coordBuf[:]...)
		buf = appendString(buf, c.MerkleRoot)
	}

	return buf
}

func appendString(buf []byte, s string) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(s)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, s...)
}

// ReceiptID computes the receipt's content-addressed id: the hex-encoded
// SHA-256 digest of CanonicalBytes. Collision-free under the standard
// SHA-256 assumption.
func (r Receipt) ReceiptID() string {
	digest := sha256.Sum256(r.CanonicalBytes())
	return fmt.Sprintf("%x", digest[:])
}
