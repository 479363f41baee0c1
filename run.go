package sixel

import "strconv"

// byteSink is component A: buffered byte output driven by a write callback.
// It owns no knowledge of sixel semantics beyond flushing on a full buffer.
type byteSink struct {
	write func([]byte) error
	buf   []byte
	err   error
}

const sinkBufSize = 4096

func newByteSink(write func([]byte) error) *byteSink {
	return &byteSink{write: write, buf: make([]byte, 0, sinkBufSize)}
}

func (s *byteSink) emitByte(b byte) {
	if s.err != nil {
		return
	}
	s.buf = append(s.buf, b)
	if len(s.buf) >= sinkBufSize {
		s.flush()
	}
}

func (s *byteSink) emitBytes(bs []byte) {
	for _, b := range bs {
		s.emitByte(b)
	}
}

func (s *byteSink) flush() {
	if s.err != nil || len(s.buf) == 0 {
		return
	}
	if err := s.write(s.buf); err != nil {
		s.err = err
	}
	s.buf = s.buf[:0]
}

// runEmitter is component B: accumulates identical sixel characters and
// emits the DECGRI `!n<ch>` form once count reaches 4 (§4.A: at a count
// of 3, `!3X` costs 3 bytes, the same as `XXX`).
type runEmitter struct {
	sink  *byteSink
	char  byte
	count int
	has   bool
}

func newRunEmitter(sink *byteSink) *runEmitter {
	return &runEmitter{sink: sink}
}

// emitPixel converts a 6-bit dot pattern to its printable sixel character
// and either extends the pending run or flushes it and starts a new one.
func (r *runEmitter) emitPixel(code byte) {
	ch := code + '?'
	if r.has && ch == r.char {
		r.count++
		return
	}
	r.flushRun()
	r.char, r.count, r.has = ch, 1, true
}

// flushRun writes the pending run using the compressed form when it pays
// for itself, then clears the pending state (§4.A invariant).
func (r *runEmitter) flushRun() {
	if !r.has {
		return
	}
	if r.count > 3 {
		r.sink.emitByte('!')
		r.sink.emitBytes([]byte(strconv.Itoa(r.count)))
		r.sink.emitByte(r.char)
	} else {
		for i := 0; i < r.count; i++ {
			r.sink.emitByte(r.char)
		}
	}
	r.has = false
	r.count = 0
}

// carriageReturn flushes the pending run and emits `$`, returning the
// cursor to the start of the current band without advancing it.
func (r *runEmitter) carriageReturn() {
	r.flushRun()
	r.sink.emitByte('$')
}

// lineFeed flushes the pending run and emits `-`, advancing to the next
// six-row band.
func (r *runEmitter) lineFeed() {
	r.flushRun()
	r.sink.emitByte('-')
}

// paletteTracker is component C: emits a color's RGB-percentage
// definition the first time it's selected, and an index-only selector on
// every switch away from the currently active index (§4.B).
type paletteTracker struct {
	emit     func(s string)
	defined  []bool
	active   int
	hasActive bool
}

func newPaletteTracker(emit func(s string), paletteSize int) *paletteTracker {
	return &paletteTracker{emit: emit, defined: make([]bool, paletteSize)}
}

// selectIndex makes index the active palette entry, defining it on first use
// and emitting a selector whenever the active entry changes (§4.B).
func (t *paletteTracker) selectIndex(index int, pal Palette) {
	if index >= 0 && index < len(t.defined) && !t.defined[index] {
		c := pal.Colors[index]
		pr := percentOf(c.R)
		pg := percentOf(c.G)
		pb := percentOf(c.B)
		t.emit("#" + strconv.Itoa(index) + ";2;" +
			strconv.Itoa(pr) + ";" + strconv.Itoa(pg) + ";" + strconv.Itoa(pb))
		t.defined[index] = true
	}
	if !t.hasActive || t.active != index {
		t.emit("#" + strconv.Itoa(index))
		t.active = index
		t.hasActive = true
	}
}

// reset clears the active selection and every definition flag, ready for
// a new encode (§4.B).
func (t *paletteTracker) reset() {
	t.hasActive = false
	t.active = 0
	for i := range t.defined {
		t.defined[i] = false
	}
}

// percentOf converts an 8-bit channel to the 0-100 integer percentage the
// SIXEL color introducer expects: round(channel*100/255).
func percentOf(channel uint8) int {
	return (int(channel)*100 + 127) / 255
}
