package frames

import (
	"encoding/binary"
	"fmt"
	"io"
)

type TagType byte

const (
	DocumentInfoTag TagType = 0
	GroupTag        TagType = 1
	LayerTag        TagType = 2
	FramesTag       TagType = 3
	DrawingTag      TagType = 4
)

func (s TagType) String() string {
	var name string
	switch s {
	case DocumentInfoTag:
		name = "DocumentInfo"
	case GroupTag:
		name = "Group"
	case LayerTag:
		name = "Layer"
	case FramesTag:
		name = "Frames"
	case DrawingTag:
		name = "Drawing"
	}
	return fmt.Sprintf("%d (%s)", byte(s), name)
}

const (
	headerLength = 8

	currentVersion byte = 1
	minVersion     byte = 1
)

type Header struct {
	Size int32
	Info HeaderInfo
}

func (h Header) String() string {
	return fmt.Sprintf("Tag: %v, length: %d", h.Info.ChunkType, h.Size)
}

type HeaderInfo struct {
	ChunkType  TagType
	MinVersion byte
	CurVersion byte
}

func ReadHeader(reader io.Reader) (ch Header, err error) {
	var size int32
	err = binary.Read(reader, binary.LittleEndian, &size)
	if err != nil {
		return
	}
	if size < 0 {
		err = fmt.Errorf("negative chunk size: %d", size)
		return
	}
	buffer := make([]byte, 4)
	_, err = io.ReadFull(reader, buffer)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return
	}

	ch = Header{
		Size: size,
		Info: HeaderInfo{
			ChunkType:  TagType(buffer[3]),
			MinVersion: buffer[2],
			CurVersion: buffer[1],
		},
	}
	return
}

func WriteHeader(w io.Writer, h Header) error {
	buffer := make([]byte, headerLength)
	binary.LittleEndian.PutUint32(buffer, uint32(h.Size))
	buffer[5] = h.Info.CurVersion
	buffer[6] = h.Info.MinVersion
	buffer[7] = byte(h.Info.ChunkType)
	_, err := w.Write(buffer)
	return err
}
