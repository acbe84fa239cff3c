package mfcc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/MechaUma/SimpleVox/storage"
)

// formatVersion1 tags the on-disk layout: a 1-byte version, two
// little-endian int32 header fields (frame count, coefficient
// count), then frameNum*coefNum little-endian int16 samples.
const formatVersion1 = 1

// SaveFile persists feat to path in this package's template format.
func SaveFile(path string, feat *Feature) error {
	f, err := storage.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	header := make([]byte, 1+4+4)
	header[0] = formatVersion1
	binary.LittleEndian.PutUint32(header[1:5], uint32(feat.frameNum))
	binary.LittleEndian.PutUint32(header[5:9], uint32(feat.coefNum))
	if _, err := f.Write(header); err != nil {
		return err
	}

	body := make([]byte, len(feat.data)*2)
	for i, v := range feat.data {
		binary.LittleEndian.PutUint16(body[i*2:i*2+2], uint16(v))
	}
	_, err = f.Write(body)
	return err
}

// LoadFile reads back a template written by SaveFile.
func LoadFile(path string) (*Feature, error) {
	f, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header := make([]byte, 1+4+4)
	if _, err := io.ReadFull(f, header); err != nil {
		return nil, err
	}
	if header[0] != formatVersion1 {
		return nil, fmt.Errorf("mfcc: unsupported template version %d", header[0])
	}
	frameNum := int(binary.LittleEndian.Uint32(header[1:5]))
	coefNum := int(binary.LittleEndian.Uint32(header[5:9]))
	if frameNum <= 0 || coefNum <= 0 {
		return nil, errors.New("mfcc: invalid template header")
	}

	body := make([]byte, frameNum*coefNum*2)
	if _, err := io.ReadFull(f, body); err != nil {
		return nil, err
	}

	feat := NewFeature(frameNum, coefNum)
	for i := range feat.data {
		feat.data[i] = int16(binary.LittleEndian.Uint16(body[i*2 : i*2+2]))
	}
	return feat, nil
}
