/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package grammar

import (
	"math"
	"strconv"
	"sync"
)

// Writer appends encoded tokens to a byte buffer. Writers are pooled; take
// one with AcquireWriter and return it with ReleaseWriter.
type Writer struct {
	buf []byte
}

var writerPool = sync.Pool{
	New: func() any { return &Writer{buf: make([]byte, 0, 256)} },
}

// AcquireWriter returns an empty Writer from the pool.
func AcquireWriter() *Writer {
	w := writerPool.Get().(*Writer)
	w.buf = w.buf[:0]
	return w
}

// ReleaseWriter returns w to the pool. Large buffers are dropped so one
// oversized payload does not pin memory.
func ReleaseWriter(w *Writer) {
	if cap(w.buf) > 1<<16 {
		w.buf = make([]byte, 0, 256)
	}
	writerPool.Put(w)
}

// Bytes returns the written bytes; they alias the internal buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// String returns a copy of the written text.
func (w *Writer) String() string { return string(w.buf) }

// Len returns the number of bytes written.
func (w *Writer) Len() int { return len(w.buf) }

// Reset empties the buffer.
func (w *Writer) Reset() { w.buf = w.buf[:0] }

// Truncate discards everything after the first n bytes.
func (w *Writer) Truncate(n int) {
	if n >= 0 && n < len(w.buf) {
		w.buf = w.buf[:n]
	}
}

// Byte appends a single byte.
func (w *Writer) Byte(c byte) { w.buf = append(w.buf, c) }

// Raw appends s verbatim.
func (w *Writer) Raw(s string) { w.buf = append(w.buf, s...) }

// Text appends s as a string token of d.
func (w *Writer) Text(d *Dialect, s string) { w.buf = d.AppendString(w.buf, s) }

// Null appends the null token of d.
func (w *Writer) Null(d *Dialect) { w.buf = append(w.buf, d.Null...) }

// Bool appends true or false.
func (w *Writer) Bool(b bool) { w.buf = strconv.AppendBool(w.buf, b) }

// Int appends a signed decimal integer.
func (w *Writer) Int(i int64) { w.buf = strconv.AppendInt(w.buf, i, 10) }

// Uint appends an unsigned decimal integer.
func (w *Writer) Uint(u uint64) { w.buf = strconv.AppendUint(w.buf, u, 10) }

// Float appends f using the shortest representation that round-trips at the
// given bit size. Non-finite values become the null token in strict dialects.
func (w *Writer) Float(d *Dialect, f float64, bits int) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		if d.Strict {
			w.Null(d)
			return
		}
		w.buf = strconv.AppendFloat(w.buf, f, 'g', -1, bits)
		return
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	w.buf = strconv.AppendFloat(w.buf, f, format, -1, bits)
}
