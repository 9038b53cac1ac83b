package frames

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrTagMismatch = errors.New("tag mismatch")

type ElementTag byte
type TagIndex int16

const (
	ItemTag   ElementTag = 0xc
	Fixed64   ElementTag = 8
	NumberTag ElementTag = 4
	ByteTag   ElementTag = 1
)

const ignoreTagIndex = -1

type tagInfo struct {
	TagIndex TagIndex
	TagId    ElementTag
}

// Extractor decodes the tagged elements of a chunk payload.
type Extractor struct {
	d       *BinaryDeserializer
	lastTag *tagInfo
	buffer  []byte
}

func NewExtractor(buffer []byte) *Extractor {
	return &Extractor{
		d:      NewDeserializer(buffer),
		buffer: buffer,
	}
}

// checkTag reads a tag or a pending tag. A tag with another index is kept
// pending so optional elements can be skipped.
func (e *Extractor) checkTag(expectedIndex TagIndex, tag ElementTag) (bool, error) {
	if e.lastTag != nil {
		lastIndex := e.lastTag.TagIndex
		if lastIndex != expectedIndex && expectedIndex != ignoreTagIndex {
			return false, nil
		}
		if e.lastTag.TagId != tag {
			return false, fmt.Errorf("%w: index:%d, have: %x, wants: %x", ErrTagMismatch, expectedIndex, e.lastTag.TagId, tag)
		}
		e.lastTag = nil
		return true, nil
	}
	id, err := e.d.GetVarUInt32()
	if err == io.EOF {
		// no more tags in the stream
		return false, nil
	}
	if err != nil {
		return false, err
	}
	log.Tracef("got tag %x", id)

	index := TagIndex(id >> 4)
	currentTag := ElementTag(id & 0xF)
	if index != expectedIndex && expectedIndex != ignoreTagIndex {
		log.Tracef("skipping index: %x at pos:%d, wants: %x%x", index, e.d.Pos(), expectedIndex, tag)
		e.lastTag = &tagInfo{
			TagIndex: index,
			TagId:    currentTag,
		}
		return false, nil
	}
	if currentTag != tag {
		return false, fmt.Errorf("%w: tag: %x, expected: %x", ErrTagMismatch, id, tag)
	}
	return true, nil
}

func (e *Extractor) ExtractInt(index TagIndex) (result int32, found bool, err error) {
	if found, err = e.checkTag(index, NumberTag); !found {
		return
	}
	v, err := e.d.GetUInt32()
	result = int32(v)
	return
}

func (e *Extractor) ExtractUInt64(index TagIndex) (result uint64, found bool, err error) {
	if found, err = e.checkTag(index, Fixed64); !found {
		return
	}
	result, err = e.d.GetUInt64()
	return
}

func (e *Extractor) ExtractDouble(index TagIndex) (result float64, found bool, err error) {
	if found, err = e.checkTag(index, Fixed64); !found {
		return
	}
	result, err = e.d.GetFloat64()
	return
}

func (e *Extractor) ExtractBool(index TagIndex) (result bool, found bool, err error) {
	if found, err = e.checkTag(index, ByteTag); !found {
		return
	}
	b, err := e.d.GetByte()
	result = b != 0
	return
}

func (e *Extractor) ExtractByte(index TagIndex) (result byte, found bool, err error) {
	if found, err = e.checkTag(index, ByteTag); !found {
		return
	}
	result, err = e.d.GetByte()
	return
}

// ExtractItem returns the length of the item and the position where it ends.
func (e *Extractor) ExtractItem(index TagIndex) (length, end int, found bool, err error) {
	if found, err = e.checkTag(index, ItemTag); !found {
		return
	}
	l, err := e.d.GetUInt32()
	if err != nil {
		return
	}
	length = int(l)
	end = e.d.Pos() + length
	if end > e.d.Limit() {
		err = fmt.Errorf("item overflow, end: %d max: %d", end, e.d.Limit())
	}
	return
}

func (e *Extractor) ExtractUUID(index TagIndex) (result uuid.UUID, found bool, err error) {
	_, _, found, err = e.ExtractItem(index)
	if !found || err != nil {
		return
	}
	uuidLen, err := e.d.GetVarUInt32()
	if err != nil {
		return
	}
	if uuidLen != 16 {
		err = fmt.Errorf("uuid length != 16")
		return
	}
	buffer, err := e.d.GetBytes(int(uuidLen))
	if err != nil {
		return
	}
	result, err = uuid.FromBytes(buffer)
	return
}

func (e *Extractor) ExtractString(index TagIndex) (result string, found bool, err error) {
	_, end, found, err := e.ExtractItem(index)
	if !found || err != nil {
		return
	}
	strLen, err := e.d.GetVarUInt32()
	if err != nil {
		return
	}
	isAscii, err := e.d.GetByte()
	if err != nil {
		return
	}
	log.Tracef("string length: %d ascii: %d", strLen, isAscii)
	theStr, err := e.d.GetBytes(int(strLen))
	if err != nil {
		return
	}
	result = string(theStr)
	if pos := e.d.Pos(); pos > end {
		err = fmt.Errorf("buffer overflow, pos: %d max: %d", pos, end)
	}
	return
}

// ExtractBob returns the unread rest of the payload.
func (e *Extractor) ExtractBob() (bob []byte, err error) {
	return e.ExtractBobUntil(e.d.Limit())
}

func (e *Extractor) ExtractBobUntil(max int) (bob []byte, err error) {
	if e.lastTag != nil {
		// put the pending tag back in front of the rest
		pending := uint32(e.lastTag.TagIndex)<<4 | uint32(e.lastTag.TagId)
		e.lastTag = nil
		var s BinarySerializer
		s.PutVarUInt32(pending)
		bob = s.Bytes()
	}
	pos := e.d.Pos()
	bobLength := max - pos
	if bobLength > 0 {
		log.Tracef("Extracting bob with length:%d (%d,%d)", bobLength, pos, max)
		var rest []byte
		rest, err = e.d.GetBytes(bobLength)
		if err != nil {
			return
		}
		bob = append(bob, rest...)
	}
	return
}

func (e *Extractor) Debug() {
	log.Tracef("%s pos: %d", hex.EncodeToString(e.buffer), e.d.Pos())
}
