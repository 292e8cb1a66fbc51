package synth

import (
	"encoding/binary"
	"fmt"
)

// EncodeWAV writes a mono 16-bit PCM WAV container around pcm at sampleRate.
// No library in the example pack constructs WAV headers; this follows the
// standard RIFF/WAVE layout directly.
func EncodeWAV(pcm []int16, sampleRate int) []byte {
	dataSize := len(pcm) * 2
	buf := make([]byte, 44+dataSize)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(buf[20:22], 1)   // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1)   // mono
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	byteRate := sampleRate * 2
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], 2)  // block align
	binary.LittleEndian.PutUint16(buf[34:36], 16) // bits per sample

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))

	for i, s := range pcm {
		binary.LittleEndian.PutUint16(buf[44+i*2:46+i*2], uint16(s))
	}

	return buf
}

// DecodeWAV reads a mono 16-bit PCM WAV container back into samples and its
// sample rate. Only the subset of WAV this pipeline ever produces or
// consumes (canonical 44-byte header, PCM format) is supported.
func DecodeWAV(data []byte) ([]int16, int, error) {
	if len(data) < 44 {
		return nil, 0, fmt.Errorf("wav data too short: %d bytes", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, fmt.Errorf("not a RIFF/WAVE container")
	}

	offset := 12
	var sampleRate int
	var bitsPerSample uint16
	var channels uint16
	var pcm []int16

	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		chunkStart := offset + 8
		if chunkStart+chunkSize > len(data) {
			break
		}

		switch chunkID {
		case "fmt ":
			channels = binary.LittleEndian.Uint16(data[chunkStart+2 : chunkStart+4])
			sampleRate = int(binary.LittleEndian.Uint32(data[chunkStart+4 : chunkStart+8]))
			bitsPerSample = binary.LittleEndian.Uint16(data[chunkStart+14 : chunkStart+16])
		case "data":
			if bitsPerSample != 16 {
				return nil, 0, fmt.Errorf("unsupported bits per sample: %d", bitsPerSample)
			}
			raw := data[chunkStart : chunkStart+chunkSize]
			pcm = make([]int16, len(raw)/2)
			for i := range pcm {
				pcm[i] = int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
			}
		}

		offset = chunkStart + chunkSize
		if chunkSize%2 == 1 {
			offset++ // chunks are word-aligned
		}
	}

	if pcm == nil {
		return nil, 0, fmt.Errorf("no data chunk found")
	}
	if channels > 1 {
		return nil, 0, fmt.Errorf("unsupported channel count: %d", channels)
	}

	return pcm, sampleRate, nil
}
