// Copyright 2024 CogitatorTech.
// SPDX-License-Identifier: Apache-2.0

package zodd

import (
	"encoding/binary"
	"math"
	"reflect"
	"sync"

	"github.com/CogitatorTech/zodd/errors"
)

// Persisted Relation format, bit-exact:
//
//	offset  size           field
//	0       7 bytes        magic = ASCII "ZODDREL"
//	7       1 byte         version = 1
//	8       8 bytes        length N, little-endian unsigned
//	16      N*sizeof(T)    tuple payload, one record per element
const (
	magic          = "ZODDREL"
	formatVersion  = uint8(1)
	headerByteSize = len(magic) + 1 + 8
)

// schema caches the fixed byte size of a persistable tuple type,
// computed once per reflect.Type rather than per element. A type that
// fails validation is not cached and is re-checked on every call.
type schema struct {
	size int
}

var schemaCache = struct {
	mu sync.RWMutex
	m  map[reflect.Type]*schema
}{m: make(map[reflect.Type]*schema)}

// schemaFor returns the cached schema for t, computing it (and
// validating persistability) on first use. It fails with
// UnsupportedType if t's field tree contains anything other than
// scalars, arrays, or nested structs of the same — in particular,
// pointers, slices, maps, channels, funcs, interfaces, and
// variable-length strings.
func schemaFor(t reflect.Type) (*schema, error) {
	schemaCache.mu.RLock()
	s, ok := schemaCache.m[t]
	schemaCache.mu.RUnlock()
	if ok {
		return s, nil
	}

	size, err := fieldSize(t)
	if err != nil {
		return nil, err
	}

	s = &schema{size: size}
	schemaCache.mu.Lock()
	schemaCache.m[t] = s
	schemaCache.mu.Unlock()
	return s, nil
}

func fieldSize(t reflect.Type) (int, error) {
	switch t.Kind() {
	case reflect.Struct:
		total := 0
		for i := 0; i < t.NumField(); i++ {
			sz, err := fieldSize(t.Field(i).Type)
			if err != nil {
				return 0, err
			}
			total += sz
		}
		return total, nil
	case reflect.Array:
		elemSize, err := fieldSize(t.Elem())
		if err != nil {
			return 0, err
		}
		return elemSize * t.Len(), nil
	case reflect.Bool:
		return 1, nil
	case reflect.Int8, reflect.Uint8:
		return 1, nil
	case reflect.Int16, reflect.Uint16:
		return 2, nil
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 4, nil
	case reflect.Int64, reflect.Uint64, reflect.Float64:
		return 8, nil
	case reflect.Int, reflect.Uint:
		return 8, nil
	default:
		return 0, errors.Newf(errors.UnsupportedType, "field of kind %s is not persistable (pointers, slices, maps, channels, funcs, interfaces, and strings are excluded)", t.Kind())
	}
}

// encodeValue appends v's bytes, field by field in declaration order,
// little-endian, to buf, and returns the extended slice. Booleans are
// one byte (0/1); enums use their underlying integer kind's tag.
func encodeValue(v reflect.Value, buf []byte) []byte {
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			buf = encodeValue(v.Field(i), buf)
		}
		return buf
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			buf = encodeValue(v.Index(i), buf)
		}
		return buf
	case reflect.Bool:
		if v.Bool() {
			return append(buf, 1)
		}
		return append(buf, 0)
	case reflect.Int8, reflect.Uint8:
		return append(buf, byte(unsignedOf(v)))
	case reflect.Int16, reflect.Uint16:
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(unsignedOf(v)))
		return append(buf, b[:]...)
	case reflect.Int32, reflect.Uint32:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(unsignedOf(v)))
		return append(buf, b[:]...)
	case reflect.Float32:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(float32(v.Float())))
		return append(buf, b[:]...)
	case reflect.Int64, reflect.Uint64, reflect.Int, reflect.Uint:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], unsignedOf(v))
		return append(buf, b[:]...)
	case reflect.Float64:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v.Float()))
		return append(buf, b[:]...)
	default:
		// schemaFor already rejected anything reaching here.
		panic("zodd: unreachable field kind in encodeValue")
	}
}

// unsignedOf returns the raw bit pattern of v's integer value, whether
// v is signed or unsigned, so signed and unsigned fields of the same
// width share one little-endian write path.
func unsignedOf(v reflect.Value) uint64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uint64(v.Int())
	default:
		return v.Uint()
	}
}

// decodeValue is the inverse of encodeValue: it fills the (addressable)
// value v from buf and returns the remaining, unconsumed bytes.
func decodeValue(v reflect.Value, buf []byte) []byte {
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			buf = decodeValue(v.Field(i), buf)
		}
		return buf
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			buf = decodeValue(v.Index(i), buf)
		}
		return buf
	case reflect.Bool:
		v.SetBool(buf[0] != 0)
		return buf[1:]
	case reflect.Int8:
		v.SetInt(int64(int8(buf[0])))
		return buf[1:]
	case reflect.Uint8:
		v.SetUint(uint64(buf[0]))
		return buf[1:]
	case reflect.Int16:
		v.SetInt(int64(int16(binary.LittleEndian.Uint16(buf))))
		return buf[2:]
	case reflect.Uint16:
		v.SetUint(uint64(binary.LittleEndian.Uint16(buf)))
		return buf[2:]
	case reflect.Int32:
		v.SetInt(int64(int32(binary.LittleEndian.Uint32(buf))))
		return buf[4:]
	case reflect.Uint32:
		v.SetUint(uint64(binary.LittleEndian.Uint32(buf)))
		return buf[4:]
	case reflect.Float32:
		v.SetFloat(float64(math.Float32frombits(binary.LittleEndian.Uint32(buf))))
		return buf[4:]
	case reflect.Int64, reflect.Int:
		v.SetInt(int64(binary.LittleEndian.Uint64(buf)))
		return buf[8:]
	case reflect.Uint64, reflect.Uint:
		v.SetUint(binary.LittleEndian.Uint64(buf))
		return buf[8:]
	case reflect.Float64:
		v.SetFloat(math.Float64frombits(binary.LittleEndian.Uint64(buf)))
		return buf[8:]
	default:
		panic("zodd: unreachable field kind in decodeValue")
	}
}
