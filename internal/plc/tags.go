// Package plc maps the pallet pattern onto the controller's flat tag
// address space and drives bulk transfers through an injected transport
// capability. The controller holds a fixed-size box array; each box field
// is one scalar tag, addressed positionally with 1-based slot indices.
package plc

import (
	"math"
	"strconv"

	"github.com/palletworks/palletpad/internal/model"
)

// TagValue is one scalar tag with its integer value, the unit of a bulk
// read or write. Controller tags are integer-width; millimeter values are
// rounded on the way out.
type TagValue struct {
	Tag   string `json:"tag"`
	Value int    `json:"value"`
}

// Box field names inside one array slot.
const (
	FieldX   = "X"
	FieldY   = "Y"
	FieldW   = "W"
	FieldD   = "D"
	FieldRot = "Rot"
)

// boxFields is the fixed per-slot field order used for writes and reads.
var boxFields = [...]string{FieldX, FieldY, FieldW, FieldD, FieldRot}

// FieldsPerBox is the number of scalar tags each box slot occupies.
const FieldsPerBox = len(boxFields)

// TagMap renders tag paths under a fixed controller data block name.
type TagMap struct {
	Base string
}

// CountTag is the metadata tag carrying the number of meaningful slots.
func (m TagMap) CountTag() string { return m.Base + ".BoxCount" }

// LayerCountTag carries the pattern's layer count. The editor does not
// model stacking; the value passes through as a scalar.
func (m TagMap) LayerCountTag() string { return m.Base + ".LayerCount" }

// LayerHeightTag carries the per-layer height in mm.
func (m TagMap) LayerHeightTag() string { return m.Base + ".LayerHeight" }

// BoxField renders the tag path for one field of the 1-based slot i.
func (m TagMap) BoxField(i int, field string) string {
	return m.Base + ".Box[" + strconv.Itoa(i) + "]." + field
}

// roundMM rounds a millimeter value to the controller's integer tag width.
func roundMM(v float64) int { return int(math.Round(v)) }

// BuildWriteTags flattens the box list into the count tag followed by five
// field tags per box, slots numbered 1..N in list order. Exactly 1 + 5N
// pairs.
func BuildWriteTags(m TagMap, specs []model.BoxSpec) []TagValue {
	tags := make([]TagValue, 0, 1+FieldsPerBox*len(specs))
	tags = append(tags, TagValue{Tag: m.CountTag(), Value: len(specs)})
	for i, s := range specs {
		slot := i + 1
		tags = append(tags,
			TagValue{Tag: m.BoxField(slot, FieldX), Value: roundMM(s.X)},
			TagValue{Tag: m.BoxField(slot, FieldY), Value: roundMM(s.Y)},
			TagValue{Tag: m.BoxField(slot, FieldW), Value: roundMM(s.W)},
			TagValue{Tag: m.BoxField(slot, FieldD), Value: roundMM(s.D)},
			TagValue{Tag: m.BoxField(slot, FieldRot), Value: int(s.Rot)},
		)
	}
	return tags
}

// BuildLayerTags renders the optional scalar pattern parameters, one named
// tag each.
func BuildLayerTags(m TagMap, layerCount int, layerHeight float64) []TagValue {
	return []TagValue{
		{Tag: m.LayerCountTag(), Value: layerCount},
		{Tag: m.LayerHeightTag(), Value: roundMM(layerHeight)},
	}
}

// SlotTags lists every per-slot field tag for slots 1..maxSlots. Reads
// request the full fixed-size array regardless of how many slots are
// populated.
func SlotTags(m TagMap, maxSlots int) []string {
	tags := make([]string, 0, FieldsPerBox*maxSlots)
	for slot := 1; slot <= maxSlots; slot++ {
		for _, f := range boxFields {
			tags = append(tags, m.BoxField(slot, f))
		}
	}
	return tags
}

// BoxesFromRead reconstructs box specs from a bulk-read response. Slots
// whose width or depth is not positive are unused and dropped; the
// survivors keep slot order and receive ids 1..M when inserted into a
// pattern.
func BoxesFromRead(m TagMap, values []TagValue, maxSlots int) []model.BoxSpec {
	byTag := make(map[string]int, len(values))
	for _, tv := range values {
		byTag[tv.Tag] = tv.Value
	}

	var specs []model.BoxSpec
	for slot := 1; slot <= maxSlots; slot++ {
		w := byTag[m.BoxField(slot, FieldW)]
		d := byTag[m.BoxField(slot, FieldD)]
		if w <= 0 || d <= 0 {
			continue
		}
		specs = append(specs, model.BoxSpec{
			X:   float64(byTag[m.BoxField(slot, FieldX)]),
			Y:   float64(byTag[m.BoxField(slot, FieldY)]),
			W:   float64(w),
			D:   float64(d),
			Rot: model.NormalizeRotation(byTag[m.BoxField(slot, FieldRot)]),
		})
	}
	return specs
}
