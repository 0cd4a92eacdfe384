package readalong

import "sort"

// Clip is one opaque encoded speech segment (WAV or MP3 bytes).
type Clip []byte

// Coverage maps a region index to its ordered speech clips.
type Coverage map[int][]Clip

// Has reports whether region has at least one clip.
func (c Coverage) Has(region int) bool {
	return len(c[region]) > 0
}

// Regions returns the covered region indexes in ascending order.
func (c Coverage) Regions() []int {
	out := make([]int, 0, len(c))
	for i, clips := range c {
		if len(clips) > 0 {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// Clone returns a copy whose clip lists can be modified independently. Clip
// bytes are shared.
func (c Coverage) Clone() Coverage {
	out := make(Coverage, len(c))
	for i, clips := range c {
		out[i] = append([]Clip(nil), clips...)
	}
	return out
}

// Merge folds in into c and returns, in ascending order, the regions that
// went from having no clips to having some.
//
// Coverage only grows. A region missing from in, or present with an empty
// list, carries no new information. A region whose incoming list is longer
// than the stored one takes the incoming list, since backends resend the
// cumulative list for a region as more segments are synthesized. A shorter
// or equal list never replaces what is stored.
func (c Coverage) Merge(in Coverage) []int {
	var added []int
	for i, clips := range in {
		if len(clips) == 0 {
			continue
		}
		prev := c[i]
		if len(clips) <= len(prev) {
			continue
		}
		c[i] = append([]Clip(nil), clips...)
		if len(prev) == 0 {
			added = append(added, i)
		}
	}
	sort.Ints(added)
	return added
}
