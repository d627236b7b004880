package progress

import (
	"encoding/json"
	"sort"
	"time"

	"gorm.io/datatypes"
)

// segment is a watched range of a video in whole seconds, [from, to).
type segment [2]int

func decodeSegments(raw datatypes.JSON) []segment {
	if len(raw) == 0 {
		return nil
	}
	var segs []segment
	if err := json.Unmarshal(raw, &segs); err != nil {
		return nil
	}
	return segs
}

func encodeSegments(segs []segment) datatypes.JSON {
	raw, _ := json.Marshal(segs)
	return datatypes.JSON(raw)
}

// credit clips a reported range to the video and to what could really have
// been played since the previous heartbeat.
func credit(from, to, duration int, elapsed time.Duration, maxRate float64) (segment, bool) {
	if from < 0 {
		from = 0
	}
	if to > duration {
		to = duration
	}
	allowance := int(elapsed.Seconds() * maxRate)
	if allowance <= 0 || to <= from {
		return segment{}, false
	}
	if to-from > allowance {
		to = from + allowance
	}
	return segment{from, to}, true
}

// merge sorts segments and joins the ones that touch or overlap.
func merge(segs []segment) []segment {
	if len(segs) < 2 {
		return segs
	}
	sorted := append([]segment(nil), segs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i][0] < sorted[j][0] })

	out := []segment{sorted[0]}
	for _, s := range sorted[1:] {
		last := &out[len(out)-1]
		if s[0] <= last[1] {
			if s[1] > last[1] {
				last[1] = s[1]
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

func watchedPercentage(segs []segment, duration int) int {
	if duration <= 0 {
		return 0
	}
	covered := 0
	for _, s := range segs {
		covered += s[1] - s[0]
	}
	return Percentage(covered, duration)
}
