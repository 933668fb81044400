package transcribe

import (
	"encoding/binary"
	"io"
)

// EncodeWAV writes a standard RIFF/WAVE file: 16-bit PCM, mono, little-endian.
// No third-party encoder is needed; the 44-byte canonical header plus raw
// samples is the whole format.
func EncodeWAV(w io.Writer, sampleRate int, pcm []int16) error {
	const (
		numChannels   = 1
		bitsPerSample = 16
	)
	dataSize := uint32(len(pcm) * 2)
	byteRate := uint32(sampleRate * numChannels * bitsPerSample / 8)
	blockAlign := uint16(numChannels * bitsPerSample / 8)

	var header [44]byte
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(header[20:22], 1)  // PCM format
	binary.LittleEndian.PutUint16(header[22:24], numChannels)
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header[:]); err != nil {
		return err
	}

	samples := make([]byte, len(pcm)*2)
	for i, s := range pcm {
		binary.LittleEndian.PutUint16(samples[i*2:], uint16(s))
	}
	_, err := w.Write(samples)
	return err
}
