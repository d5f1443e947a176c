package decoder

import "github.com/kb4yz/sstvdemod/internal/sstvmode"

// resetColorState clears the YUV420 back-buffer kept between physical
// lines. Called whenever a new image is promoted into the DATA state.
func (d *Decoder) resetColorState() {
	d.yuv420PrevY = nil
	d.yuv420PrevChroma = nil
}

// emitLine converts one physical line's raw per-component pixel rows into
// RGB888 output rows and writes them, per the mode's color layout.
func (d *Decoder) emitLine(raw [][]uint8) {
	switch d.mode.ColorLayout() {
	case sstvmode.BW:
		d.writeRow(buildRowMono(raw[0]))
	case sstvmode.RGB:
		d.writeRow(buildRowDirect(raw[0], raw[1], raw[2]))
	case sstvmode.GBR:
		// raw order is G, B, R.
		d.writeRow(buildRowDirect(raw[2], raw[0], raw[1]))
	case sstvmode.YUV422:
		d.writeRow(buildRowYUV(raw[0], raw[1], raw[2]))
	case sstvmode.YUV420:
		d.emitYUV420(raw[0], raw[1])
	case sstvmode.YUV420PD:
		d.writeRow(buildRowYUV(raw[0], raw[1], raw[2])) // Y1, Cr, Cb
		d.writeRow(buildRowYUV(raw[3], raw[1], raw[2])) // Y2, same Cr/Cb
	}
}

// emitYUV420 implements Robot's 4:2:0 alternation: chroma is only sampled
// once every two physical lines, alternating Cr/Cb, so a line's luma is
// buffered until the paired line arrives and both output rows can share a
// chroma pair.
func (d *Decoder) emitYUV420(y, chroma []uint8) {
	if d.currentLine%2 == 0 {
		d.yuv420PrevY = append([]uint8(nil), y...)
		d.yuv420PrevChroma = append([]uint8(nil), chroma...)
		return
	}
	if d.yuv420PrevY == nil {
		// No paired even line (stream started mid-image); nothing sane to
		// share chroma with, so draw this line against itself.
		d.writeRow(buildRowYUV(y, chroma, chroma))
		return
	}
	d.writeRow(buildRowYUV(d.yuv420PrevY, d.yuv420PrevChroma, chroma))
	d.writeRow(buildRowYUV(y, d.yuv420PrevChroma, chroma))
}

func buildRowMono(y []uint8) []byte {
	out := make([]byte, len(y)*3)
	for i, v := range y {
		out[i*3], out[i*3+1], out[i*3+2] = v, v, v
	}
	return out
}

func buildRowDirect(a, b, c []uint8) []byte {
	out := make([]byte, len(a)*3)
	for i := range a {
		out[i*3], out[i*3+1], out[i*3+2] = a[i], b[i], c[i]
	}
	return out
}

// buildRowYUV converts a luma row and a shared Cr/Cb pair into RGB888,
// using the fixed-point BT.601-ish coefficients csdr-sstv uses.
func buildRowYUV(y, cr, cb []uint8) []byte {
	out := make([]byte, len(y)*3)
	for i := range y {
		r, g, b := yuvToRGB(y[i], int(cr[i])-128, int(cb[i])-128)
		out[i*3], out[i*3+1], out[i*3+2] = r, g, b
	}
	return out
}

func yuvToRGB(y uint8, cr, cb int) (r, g, b uint8) {
	Y := int(y)
	r = clamp8(Y + 45*cr/32)
	g = clamp8(Y - (11*cb+23*cr)/32)
	b = clamp8(Y + 113*cb/64)
	return r, g, b
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// writeRow writes one RGB888 row, silently dropping it if the sink cannot
// accept the full row atomically.
func (d *Decoder) writeRow(row []byte) {
	if d.dst.Writeable() < len(row) {
		return
	}
	d.dst.Write(row)
}
