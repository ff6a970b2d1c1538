package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"
)

// EncodeWAV wraps raw int16 PCM samples in a RIFF/WAVE container.
func EncodeWAV(samples []int16, sampleRate, channels int) []byte {
	var buf bytes.Buffer

	dataSize := len(samples) * 2
	fileSize := 36 + dataSize
	blockAlign := channels * 2
	byteRate := sampleRate * blockAlign

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, int32(fileSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, int32(16))
	binary.Write(&buf, binary.LittleEndian, int16(1))
	binary.Write(&buf, binary.LittleEndian, int16(channels))
	binary.Write(&buf, binary.LittleEndian, int32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, int32(byteRate))
	binary.Write(&buf, binary.LittleEndian, int16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, int16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, int32(dataSize))
	for _, sample := range samples {
		binary.Write(&buf, binary.LittleEndian, sample)
	}

	return buf.Bytes()
}

// WAVInfo holds the header fields needed to describe an artifact.
type WAVInfo struct {
	SampleRate int
	Channels   int
	Duration   time.Duration
}

// ProbeWAV reads the fmt and data chunks of a WAV file.
func ProbeWAV(path string) (WAVInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return WAVInfo{}, fmt.Errorf("opening wav: %w", err)
	}
	defer f.Close()

	var riff [12]byte
	if _, err := io.ReadFull(f, riff[:]); err != nil {
		return WAVInfo{}, fmt.Errorf("reading riff header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return WAVInfo{}, fmt.Errorf("%s is not a wav file", path)
	}

	var info WAVInfo
	var byteRate int
	var haveFmt, haveData bool

	for !(haveFmt && haveData) {
		var chunk [8]byte
		if _, err := io.ReadFull(f, chunk[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return WAVInfo{}, fmt.Errorf("reading chunk header: %w", err)
		}
		size := int64(binary.LittleEndian.Uint32(chunk[4:8]))

		switch string(chunk[0:4]) {
		case "fmt ":
			var fmtChunk [16]byte
			if _, err := io.ReadFull(f, fmtChunk[:]); err != nil {
				return WAVInfo{}, fmt.Errorf("reading fmt chunk: %w", err)
			}
			info.Channels = int(binary.LittleEndian.Uint16(fmtChunk[2:4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(fmtChunk[4:8]))
			byteRate = int(binary.LittleEndian.Uint32(fmtChunk[8:12]))
			haveFmt = true
			if size > 16 {
				if _, err := f.Seek(size-16, io.SeekCurrent); err != nil {
					return WAVInfo{}, fmt.Errorf("skipping fmt extension: %w", err)
				}
			}
		case "data":
			if byteRate > 0 {
				seconds := float64(size) / float64(byteRate)
				info.Duration = time.Duration(seconds * float64(time.Second))
			}
			haveData = true
			if _, err := f.Seek(size, io.SeekCurrent); err != nil {
				return WAVInfo{}, fmt.Errorf("skipping data chunk: %w", err)
			}
		default:
			if _, err := f.Seek(size, io.SeekCurrent); err != nil {
				return WAVInfo{}, fmt.Errorf("skipping chunk: %w", err)
			}
		}
	}

	if !haveFmt {
		return WAVInfo{}, fmt.Errorf("%s has no fmt chunk", path)
	}
	return info, nil
}
