// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/latif/core"
)

// VerseMUS is the MUS binary serializer for core.Verse.
var VerseMUS = verseMUS{}

type verseMUS struct{}

func (verseMUS) Marshal(v core.Verse, bs []byte) (n int) {
	n = varint.Int.Marshal(v.ID, bs)
	n += ord.String.Marshal(v.Text, bs[n:])
	n += ord.String.Marshal(string(v.Theme), bs[n:])
	n += ord.String.Marshal(string(v.Emotion), bs[n:])
	n += ord.String.Marshal(v.Sur, bs[n:])
	n += ord.String.Marshal(v.Translation, bs[n:])
	n += ord.String.Marshal(v.Source, bs[n:])
	return n + ord.Bool.Marshal(v.Verified, bs[n:])
}

func (verseMUS) Unmarshal(bs []byte) (v core.Verse, n int, err error) {
	v.ID, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	str := func(dst *string) bool {
		*dst, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		return err == nil
	}
	var theme, emotion string
	if !str(&v.Text) || !str(&theme) || !str(&emotion) ||
		!str(&v.Sur) || !str(&v.Translation) || !str(&v.Source) {
		return
	}
	v.Theme = core.Theme(theme)
	v.Emotion = core.Emotion(emotion)
	v.Verified, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	return
}

func (verseMUS) Size(v core.Verse) (size int) {
	size = varint.Int.Size(v.ID)
	for _, s := range []string{v.Text, string(v.Theme), string(v.Emotion), v.Sur, v.Translation, v.Source} {
		size += ord.String.Size(s)
	}
	return size + ord.Bool.Size(v.Verified)
}

// CollectionMUS is the MUS binary serializer for core.Collection.
// ImportedAt is stored as Unix microseconds in UTC.
var CollectionMUS = collectionMUS{}

type collectionMUS struct{}

func (collectionMUS) Marshal(c core.Collection, bs []byte) (n int) {
	n = ord.String.Marshal(c.Name, bs)
	n += ord.String.Marshal(c.Description, bs[n:])
	n += varint.Int.Marshal(c.VerseCount, bs[n:])
	return n + varint.Int64.Marshal(c.ImportedAt.UnixMicro(), bs[n:])
}

func (collectionMUS) Unmarshal(bs []byte) (c core.Collection, n int, err error) {
	c.Name, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	c.Description, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.VerseCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.ImportedAt = time.UnixMicro(micros).UTC()
	return
}

func (collectionMUS) Size(c core.Collection) (size int) {
	size = ord.String.Size(c.Name)
	size += ord.String.Size(c.Description)
	size += varint.Int.Size(c.VerseCount)
	return size + varint.Int64.Size(c.ImportedAt.UnixMicro())
}

// MarshalID serializes a verse id to bytes.
func MarshalID(id int) []byte {
	buf := make([]byte, varint.Int.Size(id))
	varint.Int.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes a verse id from bytes.
func UnmarshalID(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, ErrTruncatedData
	}
	id, _, err := varint.Int.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return id, nil
}

// MarshalVerse serializes a Verse to bytes.
func MarshalVerse(verse *core.Verse) []byte {
	buf := make([]byte, VerseMUS.Size(*verse))
	VerseMUS.Marshal(*verse, buf)
	return buf
}

// UnmarshalVerse deserializes a Verse from bytes.
func UnmarshalVerse(data []byte) (*core.Verse, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	verse, _, err := VerseMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &verse, nil
}

// MarshalCollection serializes a Collection to bytes.
func MarshalCollection(collection *core.Collection) []byte {
	buf := make([]byte, CollectionMUS.Size(*collection))
	CollectionMUS.Marshal(*collection, buf)
	return buf
}

// UnmarshalCollection deserializes a Collection from bytes.
func UnmarshalCollection(data []byte) (*core.Collection, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	collection, _, err := CollectionMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &collection, nil
}
