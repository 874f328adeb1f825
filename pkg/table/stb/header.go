// Copyright Surveykit Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package stb

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
)

// Header provides a structured header for the binary table format.  In
// particular, it supports versioning and embedded (JSON) metadata.
type Header struct {
	Identifier   [8]byte
	MajorVersion uint16
	MinorVersion uint16
	MetaData     []byte
}

// GetMetaData attempts to parse the metadata bytes as JSON which is then
// unmarshalled into a map.  If there are no metadata bytes, an empty map is
// returned.
func (p *Header) GetMetaData() (map[string]any, error) {
	metadata := make(map[string]any)
	// Check for empty metadata
	if len(p.MetaData) == 0 {
		return metadata, nil
	}
	// Attempt to unmarshal metadata bytes
	if err := json.Unmarshal(p.MetaData, &metadata); err != nil {
		return nil, err
	}
	//
	return metadata, nil
}

// SetMetaData attempts to set the metadata bytes for this header, using a
// JSON encoding of the given map.  If this fails, an error is returned and
// the metadata bytes are unaffected.
func (p *Header) SetMetaData(metadata map[string]any) error {
	data, err := json.Marshal(metadata)
	// Check for error
	if err != nil {
		return err
	}
	// success
	p.MetaData = data
	//
	return nil
}

// MarshalBinary converts the file header into a sequence of bytes.
func (p *Header) MarshalBinary() ([]byte, error) {
	var (
		buffer     bytes.Buffer
		majorBytes [2]byte
		minorBytes [2]byte
		metaLength [4]byte
	)
	// Marshall version numbers
	binary.BigEndian.PutUint16(majorBytes[:], p.MajorVersion)
	binary.BigEndian.PutUint16(minorBytes[:], p.MinorVersion)
	binary.BigEndian.PutUint32(metaLength[:], uint32(len(p.MetaData)))
	// Write identifier
	buffer.Write(p.Identifier[:])
	// Write major version
	buffer.Write(majorBytes[:])
	// Write minor version
	buffer.Write(minorBytes[:])
	// Write metadata length
	buffer.Write(metaLength[:])
	// Write metadata itself
	buffer.Write(p.MetaData)
	// Done
	return buffer.Bytes(), nil
}

// UnmarshalBinary initialises this file header from a given set of data
// bytes.  This should match exactly the encoding above.
func (p *Header) UnmarshalBinary(buffer *bytes.Buffer) error {
	var (
		majorBytes      [2]byte
		minorBytes      [2]byte
		metaLengthBytes [4]byte
	)
	// Read identifier
	if n, err := buffer.Read(p.Identifier[:]); err != nil || n != 8 {
		return errMalformed()
	}
	// Read major version
	if n, err := buffer.Read(majorBytes[:]); err != nil || n != len(majorBytes) {
		return errMalformed()
	}
	// Read minor version
	if n, err := buffer.Read(minorBytes[:]); err != nil || n != len(minorBytes) {
		return errMalformed()
	}
	// Read metadata length
	if n, err := buffer.Read(metaLengthBytes[:]); err != nil || n != len(metaLengthBytes) {
		return errMalformed()
	}
	// Make space for the metadata
	var (
		metaLength        = binary.BigEndian.Uint32(metaLengthBytes[:])
		metaBytes  []byte = make([]byte, metaLength)
	)
	// Read metadata itself
	if n, err := buffer.Read(metaBytes); err != nil && metaLength != 0 {
		return errMalformed()
	} else if n != len(metaBytes) {
		return errMalformed()
	}
	// Finally assign everything over
	p.MajorVersion = binary.BigEndian.Uint16(majorBytes[:])
	p.MinorVersion = binary.BigEndian.Uint16(minorBytes[:])
	p.MetaData = metaBytes
	// Done
	return nil
}

// IsCompatible determines whether a given binary file is compatible with
// this version of tablepipe.
func (p *Header) IsCompatible() bool {
	return p.Identifier == SVYTABLE &&
		p.MajorVersion == STB_MAJOR_VERSION &&
		p.MinorVersion <= STB_MINOR_VERSION
}
