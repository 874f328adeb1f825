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

// Package stb implements the native binary table format.  Unlike delimited
// text, it embeds the full schema: column names, kinds, value labels and
// missing masks all round-trip exactly, which makes it the only export
// format with full fidelity for categorical survey data.
package stb

import (
	"bytes"
	"fmt"

	"github.com/surveykit/tablepipe/pkg/table"
)

// STB_MAJOR_VERSION gives the major version of the binary file format.  No
// matter what version, we should always have the SVYTABLE identifier first,
// followed by the header.  What follows after that, however, is determined
// by the major version.
const STB_MAJOR_VERSION uint16 = 1

// STB_MINOR_VERSION gives the minor version of the binary file format.  The
// expected interpretation is that older versions are compatible with newer
// ones, but not vice-versa.
const STB_MINOR_VERSION uint16 = 0

// SVYTABLE is used as the file identifier for binary table files.  This
// just helps us identify actual table files from corrupted files.
var SVYTABLE = [8]byte{'s', 'v', 'y', 't', 'a', 'b', 'l', 'e'}

// errMalformed constructs a fresh decode failure for each caller, since the
// loading layer stamps the offending path onto the error it receives.
func errMalformed() *table.FormatError {
	return &table.FormatError{Msg: "malformed table file"}
}

// TableFile is a programmatic representation of an underlying binary table
// file.
type TableFile struct {
	// Header for the binary file
	Header Header
	// The table itself
	Table *table.Table
}

// NewTableFile constructs a new table file with the default header for the
// currently supported version.
func NewTableFile(metadata []byte, t *table.Table) TableFile {
	return TableFile{
		Header{SVYTABLE, STB_MAJOR_VERSION, STB_MINOR_VERSION, metadata},
		t,
	}
}

// IsTableFile checks whether the given data file begins with the expected
// "svytable" identifier.
func IsTableFile(data []byte) bool {
	var (
		identifier [8]byte
		buffer     = bytes.NewBuffer(data)
	)
	//
	if _, err := buffer.Read(identifier[:]); err != nil {
		return false
	}
	// Check whether header identified
	return identifier == SVYTABLE
}

// MarshalBinary converts the TableFile into a sequence of bytes.
func (p *TableFile) MarshalBinary() ([]byte, error) {
	var buffer bytes.Buffer
	// Bytes header
	headerBytes, err := p.Header.MarshalBinary()
	// Error check
	if err != nil {
		return nil, err
	}
	// Encode header
	buffer.Write(headerBytes)
	// Encode column data
	if err := writeColumns(&buffer, p.Table); err != nil {
		return nil, err
	}
	// Done
	return buffer.Bytes(), nil
}

// UnmarshalBinary initialises this TableFile from a given set of data
// bytes.  This should match exactly the encoding above.
func (p *TableFile) UnmarshalBinary(data []byte) error {
	var err error
	//
	buffer := bytes.NewBuffer(data)
	// Read header
	if err = p.Header.UnmarshalBinary(buffer); err == nil && p.Header.IsCompatible() {
		// Decode column data
		p.Table, err = readColumns(buffer)
		// Done
		return err
	} else if err == nil {
		err = &table.FormatError{
			Msg: fmt.Sprintf("incompatible binary file was v%d.%d, but expected v%d.%d",
				p.Header.MajorVersion, p.Header.MinorVersion, STB_MAJOR_VERSION, STB_MINOR_VERSION),
		}
	}
	//
	return err
}
