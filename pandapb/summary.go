// Package pandapb holds the wire message reported at the end of a run:
// the per-pair counter snapshot, serialized with gogo/protobuf so worker
// processes (or a future RPC reporting path) can exchange it without
// inventing an ad-hoc text format.
//
// Summary is hand-written against summary.proto's schema rather than
// protoc-generated, but implements the same proto.Message contract
// (Reset/String/ProtoMessage) that generated code would, so it marshals
// through gogo/protobuf's reflection-based codec via the struct's
// `protobuf` tags, the same mechanism grailbio/bio/biopb's generated
// messages rely on.
package pandapb

import (
	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"

	"github.com/bio-tools/pandaseq/assemble"
)

// Summary is the proto2 message described in summary.proto.
type Summary struct {
	Total           *int64 `protobuf:"varint,1,opt,name=total" json:"total,omitempty"`
	Ok              *int64 `protobuf:"varint,2,opt,name=ok" json:"ok,omitempty"`
	NoForwardPrimer *int64 `protobuf:"varint,3,opt,name=no_forward_primer,json=noForwardPrimer" json:"no_forward_primer,omitempty"`
	NoReversePrimer *int64 `protobuf:"varint,4,opt,name=no_reverse_primer,json=noReversePrimer" json:"no_reverse_primer,omitempty"`
	LowQuality      *int64 `protobuf:"varint,5,opt,name=low_quality,json=lowQuality" json:"low_quality,omitempty"`
	Degenerate      *int64 `protobuf:"varint,6,opt,name=degenerate" json:"degenerate,omitempty"`
	NoAlignment     *int64 `protobuf:"varint,7,opt,name=no_alignment,json=noAlignment" json:"no_alignment,omitempty"`
	BadId           *int64 `protobuf:"varint,8,opt,name=bad_id,json=badId" json:"bad_id,omitempty"`
}

// Reset implements proto.Message.
func (m *Summary) Reset() { *m = Summary{} }

// String implements proto.Message.
func (m *Summary) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*Summary) ProtoMessage() {}

func ref(v int64) *int64 { return &v }

// FromCounters converts an assembler's counter snapshot to its wire form.
func FromCounters(c assemble.Counters) *Summary {
	return &Summary{
		Total:           ref(c.Count),
		Ok:              ref(c.OK),
		NoForwardPrimer: ref(c.NoForwardPrimer),
		NoReversePrimer: ref(c.NoReversePrimer),
		LowQuality:      ref(c.LowQuality),
		Degenerate:      ref(c.Degenerate),
		NoAlignment:     ref(c.NoAlignment),
		BadId:           ref(c.BadID),
	}
}

// Merge adds other's counts into s, for combining per-worker summaries
// into one run-level total.
func (s *Summary) Merge(other *Summary) {
	s.Total = ref(s.GetTotal() + other.GetTotal())
	s.Ok = ref(s.GetOk() + other.GetOk())
	s.NoForwardPrimer = ref(s.GetNoForwardPrimer() + other.GetNoForwardPrimer())
	s.NoReversePrimer = ref(s.GetNoReversePrimer() + other.GetNoReversePrimer())
	s.LowQuality = ref(s.GetLowQuality() + other.GetLowQuality())
	s.Degenerate = ref(s.GetDegenerate() + other.GetDegenerate())
	s.NoAlignment = ref(s.GetNoAlignment() + other.GetNoAlignment())
	s.BadId = ref(s.GetBadId() + other.GetBadId())
}

// GetTotal returns Total, or 0 if unset.
func (s *Summary) GetTotal() int64 {
	if s == nil || s.Total == nil {
		return 0
	}
	return *s.Total
}

// GetOk returns Ok, or 0 if unset.
func (s *Summary) GetOk() int64 {
	if s == nil || s.Ok == nil {
		return 0
	}
	return *s.Ok
}

// GetNoForwardPrimer returns NoForwardPrimer, or 0 if unset.
func (s *Summary) GetNoForwardPrimer() int64 {
	if s == nil || s.NoForwardPrimer == nil {
		return 0
	}
	return *s.NoForwardPrimer
}

// GetNoReversePrimer returns NoReversePrimer, or 0 if unset.
func (s *Summary) GetNoReversePrimer() int64 {
	if s == nil || s.NoReversePrimer == nil {
		return 0
	}
	return *s.NoReversePrimer
}

// GetLowQuality returns LowQuality, or 0 if unset.
func (s *Summary) GetLowQuality() int64 {
	if s == nil || s.LowQuality == nil {
		return 0
	}
	return *s.LowQuality
}

// GetDegenerate returns Degenerate, or 0 if unset.
func (s *Summary) GetDegenerate() int64 {
	if s == nil || s.Degenerate == nil {
		return 0
	}
	return *s.Degenerate
}

// GetNoAlignment returns NoAlignment, or 0 if unset.
func (s *Summary) GetNoAlignment() int64 {
	if s == nil || s.NoAlignment == nil {
		return 0
	}
	return *s.NoAlignment
}

// GetBadId returns BadId, or 0 if unset.
func (s *Summary) GetBadId() int64 {
	if s == nil || s.BadId == nil {
		return 0
	}
	return *s.BadId
}

// Marshal serializes s to its wire form.
func Marshal(s *Summary) ([]byte, error) {
	return proto.Marshal(s)
}

// Unmarshal parses wire-format data into a new Summary.
func Unmarshal(data []byte) (*Summary, error) {
	s := &Summary{}
	if err := proto.Unmarshal(data, s); err != nil {
		return nil, errors.Wrap(err, "unmarshal summary")
	}
	return s, nil
}
