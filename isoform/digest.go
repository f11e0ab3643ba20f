// Copyright 2021 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package isoform

import (
	"encoding/binary"

	"blainsmith.com/go/seahash"
	gunsafe "github.com/grailbio/base/unsafe"
)

// Digest returns an order-sensitive 64-bit checksum of records.  Two runs
// produce the same digest iff they produce the same records in the same order,
// modulo hash collisions.
func Digest(records []Record) uint64 {
	h := seahash.New()
	var buf [8]byte
	for _, r := range records {
		h.Write(gunsafe.StringToBytes(r.ChrName))
		binary.LittleEndian.PutUint32(buf[:4], uint32(r.Start))
		binary.LittleEndian.PutUint32(buf[4:], uint32(r.Stop))
		h.Write(buf[:])
		h.Write(gunsafe.StringToBytes(r.Label))
		// Field separator, so that ("ab", "c") and ("a", "bc") differ.
		h.Write([]byte{0})
	}
	return h.Sum64()
}
