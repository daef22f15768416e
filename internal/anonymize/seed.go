package anonymize

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for seed derivation. Version suffix enables future
// algorithm migration without silently changing existing mappings.
const (
	domainProjects  = "runwrap/anonymize/projects/v1"
	domainPipelines = "runwrap/anonymize/pipelines/v1"
)

// seedFor derives the deterministic shuffle seed for one identifier
// set: SHA-256(domain + 0x00 + canonical(ids) + 0x00 + salt), first 8
// bytes as big-endian uint64. The null separators prevent boundary
// ambiguity between domain, payload and salt.
//
// The ids must already be sorted; the caller owns canonical ordering.
// Nothing here reads the clock, so repeated runs over the same data
// reproduce the same mapping.
func seedFor(domain string, sortedIDs []string, salt string) (uint64, error) {
	payload, err := canonicalList(sortedIDs)
	if err != nil {
		return 0, err
	}

	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(payload)
	h.Write([]byte{0x00})
	h.Write([]byte(salt))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8]), nil
}

// canonicalList marshals a string slice to canonical JSON for hashing:
// each element NFC-normalized and encoded without HTML escaping, so
// the same identifiers always hash the same regardless of the Unicode
// composition or platform they arrived with.
func canonicalList(ids []string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, id := range ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		s, err := canonicalString(id)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		buf.Write(s)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// canonicalString produces a canonical JSON string: NFC normalized at
// the hash boundary, no HTML escaping (< > & stay literal).
func canonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	// json.Encoder adds a trailing newline, remove it.
	result := buf.Bytes()
	if len(result) > 0 && result[len(result)-1] == '\n' {
		result = result[:len(result)-1]
	}
	return result, nil
}
