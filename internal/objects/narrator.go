package objects

import (
	"strings"

	"github.com/Amogh-Hegde/speX/internal/detector"
	"github.com/Amogh-Hegde/speX/internal/fact"
)

// Distance bands by box-area to frame-area ratio.
const (
	veryCloseRatio = 0.3
	nearbyRatio    = 0.1
)

// LocationOf narrates where a box sits in the frame: a 3x3 grid cell by box
// center plus a qualitative distance from the area ratio.
func LocationOf(r detector.Region, frameWidth, frameHeight int) string {
	if frameWidth <= 0 || frameHeight <= 0 {
		return "somewhere ahead"
	}

	centerX := float64(r.X) + float64(r.W)/2
	centerY := float64(r.Y) + float64(r.H)/2

	var hPos string
	switch {
	case centerX < float64(frameWidth)/3:
		hPos = "on the left"
	case centerX < 2*float64(frameWidth)/3:
		hPos = "in the center"
	default:
		hPos = "on the right"
	}

	var vPos string
	switch {
	case centerY < float64(frameHeight)/3:
		vPos = "top"
	case centerY < 2*float64(frameHeight)/3:
		vPos = "middle"
	default:
		vPos = "bottom"
	}

	areaRatio := float64(r.Area()) / float64(frameWidth*frameHeight)
	var distance string
	switch {
	case areaRatio > veryCloseRatio:
		distance = "very close"
	case areaRatio > nearbyRatio:
		distance = "nearby"
	default:
		distance = "further away"
	}

	return hPos + " " + vPos + ", " + distance
}

// Describe narrates processed detections. High-tier objects always lead in
// an "Important" clause; everything else is combined into "Also seen".
// Within each group detection order is preserved, not re-sorted.
func Describe(dets []Detection) string {
	if len(dets) == 0 {
		return "No objects detected"
	}

	var important, other []string
	for _, d := range dets {
		clause := d.Label + " " + d.Location
		if d.Tier == fact.TierHigh {
			important = append(important, clause)
		} else {
			other = append(other, clause)
		}
	}

	var parts []string
	if len(important) > 0 {
		parts = append(parts, "Important: "+strings.Join(important, ", "))
	}
	if len(other) > 0 {
		parts = append(parts, "Also seen: "+strings.Join(other, ", "))
	}

	return strings.Join(parts, ". ")
}

// Facts converts processed detections into prioritized facts for the
// coordinator's merge step.
func Facts(dets []Detection) []fact.Fact {
	out := make([]fact.Fact, 0, len(dets))
	for _, d := range dets {
		out = append(out, fact.Fact{
			Text:     d.Label + " " + d.Location,
			Tier:     d.Tier,
			Modality: "objects",
		})
	}
	return out
}
