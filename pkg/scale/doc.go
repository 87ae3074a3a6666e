// Package scale maps data values onto pixel positions.
//
// # Categorical scales
//
// [Band] and [Point] place an ordered set of distinct categories evenly
// across a pixel range. Band reserves a bar-width slot per category; Point
// places a single coordinate per category, which suits line charts. Both
// follow the geometry of D3's scaleBand/scalePoint with padding p and
// centered alignment, so charts drawn here line up with those the host's
// JavaScript toolkit draws.
//
// Domains are built with [Categories], which keeps first-seen order:
// records with categories "2000", "2001", "2000" yield the domain
// ["2000", "2001"].
//
// Looking up a value that is not in the domain never panics: Position
// returns ok == false, and Lookup returns an OUT_OF_DOMAIN error for callers
// that need to abort.
//
// # Linear scales
//
// [Linear] maps a numeric [Domain] onto a range. Charts build it with an
// inverted range (height, 0) so that larger values are drawn higher up.
// [Linear.Ticks] picks round tick values the way D3's ticks() does.
//
// Domain helpers compute the numeric extents used by the two chart kinds:
// [BarDomain] is always anchored at zero, [LineDomain] covers both series
// and the confidence band plus a fixed pad.
package scale
