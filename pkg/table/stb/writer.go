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
	"io"
	"math"

	"github.com/surveykit/tablepipe/pkg/table"
)

// Write serialises a table in the binary table format, including a default
// header.
func Write(w io.Writer, t *table.Table) error {
	file := NewTableFile(nil, t)
	//
	data, err := file.MarshalBinary()
	// Error check
	if err != nil {
		return err
	}
	//
	_, err = w.Write(data)
	//
	return err
}

// writeColumns encodes the body of a table file: dimensions, then one
// schema-plus-data record per column.
func writeColumns(buffer *bytes.Buffer, t *table.Table) error {
	var (
		width  = uint32(t.Width())
		height = uint64(t.Height())
	)
	//
	writeUint32(buffer, width)
	writeUint64(buffer, height)
	//
	for i := 0; i < t.Width(); i++ {
		if err := writeColumn(buffer, t.ColumnAt(i)); err != nil {
			return err
		}
	}
	//
	return nil
}

func writeColumn(buffer *bytes.Buffer, col *table.Column) error {
	// Name
	if err := writeString16(buffer, col.Name()); err != nil {
		return err
	}
	// Kind
	buffer.WriteByte(byte(col.Kind()))
	// Value labels, in ascending code order for determinism.
	labels := col.Labels()
	writeUint32(buffer, uint32(len(labels)))
	//
	for _, code := range labels.Codes() {
		writeUint64(buffer, uint64(code))
		//
		if err := writeString16(buffer, labels[code]); err != nil {
			return err
		}
	}
	// Missing mask
	for row := 0; row < col.Len(); row++ {
		if col.IsMissing(row) {
			buffer.WriteByte(1)
		} else {
			buffer.WriteByte(0)
		}
	}
	// Cell data
	for row := 0; row < col.Len(); row++ {
		v := col.Value(row)
		//
		switch col.Kind() {
		case table.IntKind, table.CategoricalKind:
			writeUint64(buffer, uint64(v.Int))
		case table.FloatKind:
			writeUint64(buffer, math.Float64bits(v.Float))
		default:
			if err := writeString32(buffer, v.Str); err != nil {
				return err
			}
		}
	}
	//
	return nil
}

func writeUint32(buffer *bytes.Buffer, v uint32) {
	var bs [4]byte
	binary.BigEndian.PutUint32(bs[:], v)
	buffer.Write(bs[:])
}

func writeUint64(buffer *bytes.Buffer, v uint64) {
	var bs [8]byte
	binary.BigEndian.PutUint64(bs[:], v)
	buffer.Write(bs[:])
}

// writeString16 encodes a short string with a two byte length prefix, as
// used for names and labels.
func writeString16(buffer *bytes.Buffer, s string) error {
	if len(s) > math.MaxUint16 {
		return &table.FormatError{Msg: "name or label exceeds 65535 bytes"}
	}
	//
	var bs [2]byte
	binary.BigEndian.PutUint16(bs[:], uint16(len(s)))
	buffer.Write(bs[:])
	buffer.WriteString(s)
	//
	return nil
}

// writeString32 encodes a cell string with a four byte length prefix.
func writeString32(buffer *bytes.Buffer, s string) error {
	if len(s) > math.MaxUint32 {
		return &table.FormatError{Msg: "string cell exceeds format limit"}
	}
	//
	writeUint32(buffer, uint32(len(s)))
	buffer.WriteString(s)
	//
	return nil
}
