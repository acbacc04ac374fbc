package csi2rx

// Media bus pixel encoding codes understood by the receiver. The
// numeric values follow the media bus format identifiers used by the
// upstream camera subdevices.
const (
	FormatRGB888_1X24 uint32 = 0x100a
	FormatUYVY8_1X16  uint32 = 0x200f
	FormatYUYV8_1X16  uint32 = 0x2011
	FormatUYVY8_2X8   uint32 = 0x2006
	FormatYUYV10_2X10 uint32 = 0x200b
	FormatY10_1X10    uint32 = 0x200a
	FormatSBGGR8_1X8  uint32 = 0x3001
	FormatSGBRG8_1X8  uint32 = 0x3013
	FormatSGRBG8_1X8  uint32 = 0x3002
	FormatSRGGB8_1X8  uint32 = 0x3014
	FormatY8_1X8      uint32 = 0x2001
)

// formatInfo ties a pixel encoding to its CSI-2 data type code and
// bits per pixel.
type formatInfo struct {
	code     uint32
	datatype uint8
	bpp      uint32
}

var formats = []formatInfo{
	{FormatRGB888_1X24, 0x24, 24},
	{FormatUYVY8_1X16, 0x1e, 16},
	{FormatYUYV8_1X16, 0x1e, 16},
	{FormatUYVY8_2X8, 0x1e, 16},
	{FormatYUYV10_2X10, 0x1e, 20},
	{FormatY10_1X10, 0x2b, 10},
	{FormatSBGGR8_1X8, 0x2a, 8},
	{FormatSGBRG8_1X8, 0x2a, 8},
	{FormatSGRBG8_1X8, 0x2a, 8},
	{FormatSRGGB8_1X8, 0x2a, 8},
	{FormatY8_1X8, 0x2a, 8},
}

func codeToFormat(code uint32) *formatInfo {

	for i := range formats {
		if formats[i].code == code {
			return &formats[i]
		}
	}

	return nil
}

// FieldMode selects between progressive and alternating-field frames.
type FieldMode int

const (
	FieldProgressive FieldMode = iota
	FieldAlternate
)

// FrameFormat is the negotiated frame geometry and pixel encoding for
// the current session.
type FrameFormat struct {
	Code   uint32
	Width  uint32
	Height uint32
	Field  FieldMode
}
