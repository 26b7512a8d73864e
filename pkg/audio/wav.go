package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Format describes interleaved little-endian PCM
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// GeminiTTS is the format returned by the Gemini speech models
var GeminiTTS = Format{SampleRate: 24000, Channels: 1, BitsPerSample: 16}

const headerSize = 44

// WrapWAV prefixes raw PCM with a canonical RIFF/WAVE header
func WrapWAV(pcm []byte, f Format) ([]byte, error) {
	if f.SampleRate <= 0 || f.Channels <= 0 || f.BitsPerSample <= 0 || f.BitsPerSample%8 != 0 {
		return nil, fmt.Errorf("invalid pcm format %+v", f)
	}
	blockAlign := f.Channels * f.BitsPerSample / 8
	if len(pcm)%blockAlign != 0 {
		return nil, fmt.Errorf("pcm length %d is not a multiple of the %d-byte frame", len(pcm), blockAlign)
	}

	buf := bytes.NewBuffer(make([]byte, 0, headerSize+len(pcm)))
	le := binary.LittleEndian

	buf.WriteString("RIFF")
	_ = binary.Write(buf, le, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, le, uint32(16)) // PCM fmt chunk size
	_ = binary.Write(buf, le, uint16(1))  // audio format: PCM
	_ = binary.Write(buf, le, uint16(f.Channels))
	_ = binary.Write(buf, le, uint32(f.SampleRate))
	_ = binary.Write(buf, le, uint32(f.SampleRate*blockAlign)) // byte rate
	_ = binary.Write(buf, le, uint16(blockAlign))
	_ = binary.Write(buf, le, uint16(f.BitsPerSample))

	buf.WriteString("data")
	_ = binary.Write(buf, le, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes(), nil
}

// Duration returns the playback length of pcm in milliseconds
func Duration(pcmBytes int, f Format) int {
	frame := f.Channels * f.BitsPerSample / 8
	if frame == 0 || f.SampleRate == 0 {
		return 0
	}
	return pcmBytes / frame * 1000 / f.SampleRate
}
