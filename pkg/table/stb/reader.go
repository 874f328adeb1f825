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
	"math"

	"github.com/surveykit/tablepipe/pkg/table"
)

// Read parses a binary table file from the given data bytes.
func Read(data []byte) (*table.Table, error) {
	if !IsTableFile(data) {
		return nil, &table.FormatError{Msg: "not a binary table file"}
	}
	//
	var file TableFile
	//
	if err := file.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	//
	return file.Table, nil
}

// readColumns decodes the body of a table file.  This should match exactly
// the encoding in writer.go.
func readColumns(buffer *bytes.Buffer) (*table.Table, error) {
	width, err := readUint32(buffer)
	// Error check
	if err != nil {
		return nil, err
	}
	//
	height, err := readUint64(buffer)
	// Error check
	if err != nil {
		return nil, err
	}
	// Every column costs at least its name prefix, and every row at least
	// one mask byte.  Dimensions beyond the remaining bytes are corrupt and
	// rejected before anything is allocated for them.
	if uint64(width) > uint64(buffer.Len()) || height > uint64(buffer.Len()) {
		return nil, errMalformed()
	}
	//
	cols := make([]*table.Column, width)
	//
	for i := range cols {
		if cols[i], err = readColumn(buffer, int(height)); err != nil {
			return nil, err
		}
	}
	//
	return table.New(cols...)
}

func readColumn(buffer *bytes.Buffer, height int) (*table.Column, error) {
	// Name
	name, err := readString16(buffer)
	// Error check
	if err != nil {
		return nil, err
	}
	// Kind
	kindByte, err := buffer.ReadByte()
	// Error check
	if err != nil || kindByte > byte(table.CategoricalKind) {
		return nil, errMalformed()
	}
	//
	kind := table.Kind(kindByte)
	// Value labels
	nlabels, err := readUint32(buffer)
	// Error check
	if err != nil {
		return nil, err
	}
	// Each label costs at least its code and length prefix.
	if uint64(nlabels) > uint64(buffer.Len()) {
		return nil, errMalformed()
	}
	//
	var labels table.Labels
	if nlabels > 0 {
		labels = make(table.Labels, nlabels)
	}
	//
	for j := uint32(0); j < nlabels; j++ {
		code, err := readUint64(buffer)
		// Error check
		if err != nil {
			return nil, err
		}
		//
		text, err := readString16(buffer)
		// Error check
		if err != nil {
			return nil, err
		}
		//
		labels[int64(code)] = text
	}
	// Missing mask
	mask := make([]bool, height)
	//
	for row := 0; row < height; row++ {
		b, err := buffer.ReadByte()
		// Error check
		if err != nil {
			return nil, errMalformed()
		}
		//
		mask[row] = b != 0
	}
	// Cell data
	col, err := readCells(buffer, name, kind, labels, height)
	// Error check
	if err != nil {
		return nil, err
	}
	//
	for row, missing := range mask {
		if missing {
			col.SetMissing(row)
		}
	}
	//
	return col, nil
}

func readCells(buffer *bytes.Buffer, name string, kind table.Kind, labels table.Labels, height int) (*table.Column, error) {
	switch kind {
	case table.IntKind, table.CategoricalKind:
		values := make([]int64, height)
		//
		for row := range values {
			v, err := readUint64(buffer)
			// Error check
			if err != nil {
				return nil, err
			}
			//
			values[row] = int64(v)
		}
		//
		if kind == table.IntKind {
			return table.NewIntColumn(name, values), nil
		}
		//
		return table.NewCategoricalColumn(name, values, labels), nil
	case table.FloatKind:
		values := make([]float64, height)
		//
		for row := range values {
			v, err := readUint64(buffer)
			// Error check
			if err != nil {
				return nil, err
			}
			//
			values[row] = math.Float64frombits(v)
		}
		//
		return table.NewFloatColumn(name, values), nil
	default:
		values := make([]string, height)
		//
		for row := range values {
			v, err := readString32(buffer)
			// Error check
			if err != nil {
				return nil, err
			}
			//
			values[row] = v
		}
		//
		return table.NewStringColumn(name, values), nil
	}
}

func readUint32(buffer *bytes.Buffer) (uint32, error) {
	var bs [4]byte
	//
	if n, err := buffer.Read(bs[:]); err != nil || n != len(bs) {
		return 0, errMalformed()
	}
	//
	return binary.BigEndian.Uint32(bs[:]), nil
}

func readUint64(buffer *bytes.Buffer) (uint64, error) {
	var bs [8]byte
	//
	if n, err := buffer.Read(bs[:]); err != nil || n != len(bs) {
		return 0, errMalformed()
	}
	//
	return binary.BigEndian.Uint64(bs[:]), nil
}

func readString16(buffer *bytes.Buffer) (string, error) {
	var bs [2]byte
	//
	if n, err := buffer.Read(bs[:]); err != nil || n != len(bs) {
		return "", errMalformed()
	}
	//
	return readBytes(buffer, int(binary.BigEndian.Uint16(bs[:])))
}

func readString32(buffer *bytes.Buffer) (string, error) {
	length, err := readUint32(buffer)
	// Error check
	if err != nil {
		return "", err
	}
	//
	return readBytes(buffer, int(length))
}

func readBytes(buffer *bytes.Buffer, length int) (string, error) {
	if length == 0 {
		return "", nil
	}
	// A declared length beyond the remaining bytes is corrupt, and is
	// rejected before allocating for it.
	if length > buffer.Len() {
		return "", errMalformed()
	}
	//
	data := make([]byte, length)
	//
	if n, err := buffer.Read(data); err != nil || n != length {
		return "", errMalformed()
	}
	//
	return string(data), nil
}
